package limedata

import "go.chromium.org/luci/common/errors"

// Markers are the two-byte begin/end sentinel pairs at the head and tail of
// a container. They are the sole in-band indicator of which ChecksumScheme
// was used to pack the container: a reader identifies the scheme purely from
// which pair it sees, and must see both ends agree.
const (
	BeginAdler32 = "L>"
	EndAdler32   = "<M"

	BeginCRC32 = "L]"
	EndCRC32   = "[M"

	BeginNone = "L)"
	EndNone   = "(M"

	// MarkerLength is the byte length of every begin/end marker.
	MarkerLength = 2

	// Revision is the only container revision this package understands.
	Revision uint8 = 1

	// MinContainerSize is the smallest plausible container: 2 (begin) + 1
	// (revision) + 1 (head length, zero) + 4 (dict size) + 2 (end). A
	// container with checksums also carries 4 more bytes for the dict
	// checksum, but the minimum bound must hold for the no-checksum case
	// too.
	MinContainerSize = 10
)

// SchemeForMarkers identifies the ChecksumScheme from an observed
// (begin, end) marker pair. Any other combination is not a Lime container.
func SchemeForMarkers(begin, end string) (ChecksumScheme, error) {
	switch {
	case begin == BeginAdler32 && end == EndAdler32:
		return ChecksumAdler32, nil
	case begin == BeginCRC32 && end == EndCRC32:
		return ChecksumCRC32, nil
	case begin == BeginNone && end == EndNone:
		return ChecksumNone, nil
	}
	return 0, errors.Reason("limedata: unrecognized marker pair %q/%q", begin, end).Err()
}

// MarkersForScheme returns the begin/end marker pair a container packed with
// scheme must carry.
func MarkersForScheme(scheme ChecksumScheme) (begin, end string, err error) {
	switch scheme {
	case ChecksumAdler32:
		return BeginAdler32, EndAdler32, nil
	case ChecksumCRC32:
		return BeginCRC32, EndCRC32, nil
	case ChecksumNone:
		return BeginNone, EndNone, nil
	}
	return "", "", errors.Reason("limedata: unknown checksum scheme %v", scheme).Err()
}
