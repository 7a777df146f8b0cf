package limedata

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompression(t *testing.T) {
	t.Parallel()

	Convey("streaming compression round-trips", t, func() {
		payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)

		Convey("at level 9", func() {
			var out bytes.Buffer
			h := ChecksumCRC32.New()
			n, err := CompressStream(&out, bytes.NewReader(payload), 9, h)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, uint64(len(payload)))
			So(out.Len(), ShouldBeLessThan, len(payload))

			decompressed, err := DecompressStream(&out, uint64(out.Len()))
			So(err, ShouldBeNil)
			So(decompressed, ShouldResemble, payload)
		})

		Convey("at level 0 (stored)", func() {
			var out bytes.Buffer
			h := ChecksumNone.New()
			_, err := CompressStream(&out, bytes.NewReader(payload), 0, h)
			So(err, ShouldBeNil)

			decompressed, err := DecompressStream(&out, uint64(out.Len()))
			So(err, ShouldBeNil)
			So(decompressed, ShouldResemble, payload)
		})

		Convey("of an empty payload", func() {
			var out bytes.Buffer
			h := ChecksumAdler32.New()
			n, err := CompressStream(&out, bytes.NewReader(nil), 9, h)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, uint64(0))
			So(out.Len(), ShouldBeGreaterThan, 0) // minimal deflate stream, non-empty

			decompressed, err := DecompressStream(&out, uint64(out.Len()))
			So(err, ShouldBeNil)
			So(decompressed, ShouldResemble, []byte{})
		})

		Convey("single-shot dictionary compression round-trips", func() {
			data := []byte(`{"categories":["a","b","c"]}`)
			compressed, err := CompressBytes(data, 9)
			So(err, ShouldBeNil)

			decompressed, err := DecompressStream(bytes.NewReader(compressed), uint64(len(compressed)))
			So(err, ShouldBeNil)
			So(decompressed, ShouldResemble, data)
		})

		Convey("truncated input is reported as ErrTruncated", func() {
			var out bytes.Buffer
			h := ChecksumNone.New()
			_, err := CompressStream(&out, bytes.NewReader(payload), 9, h)
			So(err, ShouldBeNil)

			truncated := out.Bytes()[:out.Len()-2]
			_, err = DecompressStream(bytes.NewReader(truncated), uint64(len(truncated)))
			So(err, ShouldEqual, ErrTruncated)
		})
	})
}
