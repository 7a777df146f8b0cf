package limedata

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCodec(t *testing.T) {
	t.Parallel()

	Convey("byte codec", t, func() {
		Convey("u32 round-trips through a buffer", func() {
			buf := PutU32(nil, 0xdeadbeef)
			at := 0
			v, err := GetU32(buf, &at)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, uint32(0xdeadbeef))
			So(at, ShouldEqual, 4)
		})

		Convey("u64 round-trips through a buffer", func() {
			buf := PutU64(nil, 0x0102030405060708)
			at := 0
			v, err := GetU64(buf, &at)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, uint64(0x0102030405060708))
		})

		Convey("string round-trips through a buffer", func() {
			buf := PutString(nil, "hello")
			So(buf, ShouldResemble, append([]byte{5}, "hello"...))
			at := 0
			s, err := GetString(buf, &at)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "hello")
		})

		Convey("empty string encodes as a single zero byte", func() {
			buf := PutString(nil, "")
			So(buf, ShouldResemble, []byte{0})
		})

		Convey("Truncate caps at MaxNameLength", func() {
			long := bytes.Repeat([]byte("x"), 300)
			So(len(Truncate(string(long))), ShouldEqual, MaxNameLength)
		})

		Convey("stream round-trip for u32", func() {
			var buf bytes.Buffer
			So(WriteU32(&buf, 42), ShouldBeNil)
			v, err := ReadU32(&buf)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, uint32(42))
		})

		Convey("GetU32 rejects a short buffer", func() {
			at := 0
			_, err := GetU32([]byte{1, 2}, &at)
			So(err, ShouldNotBeNil)
		})
	})
}
