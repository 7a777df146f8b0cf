package limedata

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMarkers(t *testing.T) {
	t.Parallel()

	Convey("marker/scheme mapping", t, func() {
		Convey("MarkersForScheme round-trips through SchemeForMarkers", func() {
			for _, scheme := range []ChecksumScheme{ChecksumAdler32, ChecksumCRC32, ChecksumNone} {
				begin, end, err := MarkersForScheme(scheme)
				So(err, ShouldBeNil)
				So(len(begin), ShouldEqual, MarkerLength)
				So(len(end), ShouldEqual, MarkerLength)

				got, err := SchemeForMarkers(begin, end)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, scheme)
			}
		})

		Convey("SchemeForMarkers rejects an unrecognized pair", func() {
			_, err := SchemeForMarkers("??", "??")
			So(err, ShouldNotBeNil)
		})

		Convey("SchemeForMarkers rejects mismatched begin/end markers", func() {
			_, err := SchemeForMarkers(BeginAdler32, EndCRC32)
			So(err, ShouldNotBeNil)
		})

		Convey("MarkersForScheme rejects an unknown scheme", func() {
			_, _, err := MarkersForScheme(ChecksumScheme(99))
			So(err, ShouldNotBeNil)
		})

		Convey("the three marker pairs are pairwise distinct", func() {
			pairs := map[string]bool{
				BeginAdler32 + EndAdler32: true,
				BeginCRC32 + EndCRC32:     true,
				BeginNone + EndNone:       true,
			}
			So(len(pairs), ShouldEqual, 3)
		})
	})
}
