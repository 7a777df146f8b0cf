package limedata

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChecksum(t *testing.T) {
	t.Parallel()

	Convey("ChecksumScheme", t, func() {
		Convey("Valid accepts the three known schemes", func() {
			So(ChecksumAdler32.Valid(), ShouldBeNil)
			So(ChecksumCRC32.Valid(), ShouldBeNil)
			So(ChecksumNone.Valid(), ShouldBeNil)
		})

		Convey("Valid rejects unknown schemes", func() {
			So(ChecksumScheme(99).Valid(), ShouldNotBeNil)
		})

		Convey("HasPerItemField is false only for None", func() {
			So(ChecksumAdler32.HasPerItemField(), ShouldBeTrue)
			So(ChecksumCRC32.HasPerItemField(), ShouldBeTrue)
			So(ChecksumNone.HasPerItemField(), ShouldBeFalse)
		})

		Convey("Adler-32 is deterministic and sensitive to content", func() {
			h1 := ChecksumAdler32.New()
			h1.Write([]byte("hello world"))
			h2 := ChecksumAdler32.New()
			h2.Write([]byte("hello world"))
			So(Sum32(h1), ShouldEqual, Sum32(h2))

			h3 := ChecksumAdler32.New()
			h3.Write([]byte("hello worlD"))
			So(Sum32(h3), ShouldNotEqual, Sum32(h1))
		})

		Convey("CRC-32 is deterministic and sensitive to content", func() {
			h1 := ChecksumCRC32.New()
			h1.Write([]byte("hello world"))
			h2 := ChecksumCRC32.New()
			h2.Write([]byte("hello world"))
			So(Sum32(h1), ShouldEqual, Sum32(h2))

			h3 := ChecksumCRC32.New()
			h3.Write([]byte("hello worlD"))
			So(Sum32(h3), ShouldNotEqual, Sum32(h1))
		})

		Convey("ChecksumNone always sums to zero", func() {
			h := ChecksumNone.New()
			h.Write([]byte("anything at all"))
			So(Sum32(h), ShouldEqual, uint32(0))
		})
	})
}
