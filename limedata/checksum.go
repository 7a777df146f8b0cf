package limedata

import (
	"hash"
	"hash/adler32"
	"hash/crc32"

	"go.chromium.org/luci/common/errors"
)

// ChecksumScheme identifies the checksum algorithm a container was packed
// with. It is adapted from sardata.ChecksumScheme, cut down to the two
// zlib-compatible algorithms Lime's format actually defines plus a
// checksum-disabled mode; see ChecksumNone.
type ChecksumScheme byte

// The checksum algorithms known to the Lime container format.
const (
	ChecksumAdler32 ChecksumScheme = iota + 1
	ChecksumCRC32

	// ChecksumNone disables checksumming entirely: the directory carries no
	// per-item checksum field, and New returns a hash.Hash whose Sum is
	// always the zero value.
	ChecksumNone
)

// Valid returns nil iff scheme is one this package knows how to handle.
func (c ChecksumScheme) Valid() error {
	switch c {
	case ChecksumAdler32, ChecksumCRC32, ChecksumNone:
		return nil
	}
	return errors.Reason("limedata: unknown checksum scheme 0x%x", byte(c)).Err()
}

// HasPerItemField reports whether a directory packed with this scheme
// carries a trailing u32 checksum field per item (and one for the
// dictionary as a whole). Only ChecksumNone omits it.
func (c ChecksumScheme) HasPerItemField() bool {
	return c != ChecksumNone
}

// nullHash implements hash.Hash as a complete no-op; Sum is always empty.
// It exists so checksum computation can run through one code path
// regardless of scheme.
type nullHash struct{}

func (nullHash) Write(p []byte) (int, error) { return len(p), nil }
func (nullHash) Sum(b []byte) []byte         { return b }
func (nullHash) Reset()                      {}
func (nullHash) Size() int                   { return 0 }
func (nullHash) BlockSize() int              { return 0 }

// New returns a fresh hash.Hash for this scheme, as set up by the stdlib
// constructors: CRC-32 starts from 0 and Adler-32 from 1 (the RFC 1950
// initial value), so an empty input sums to 0 under CRC-32 and to 1 under
// Adler-32.
func (c ChecksumScheme) New() hash.Hash {
	switch c {
	case ChecksumAdler32:
		return adler32.New()
	case ChecksumCRC32:
		return crc32.NewIEEE()
	case ChecksumNone:
		return nullHash{}
	}
	panic(c.Valid())
}

// Sum32 runs h to completion and returns its checksum as a uint32. For
// ChecksumNone this is always 0.
func Sum32(h hash.Hash) uint32 {
	sum := h.Sum(nil)
	if len(sum) < 4 {
		return 0
	}
	return uint32(sum[0])<<24 | uint32(sum[1])<<16 | uint32(sum[2])<<8 | uint32(sum[3])
}
