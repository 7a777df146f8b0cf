package limedata

import (
	"encoding/binary"
	"io"

	"go.chromium.org/luci/common/errors"
)

// MaxNameLength is the largest number of bytes a category, key or head
// string may occupy once encoded; longer values are truncated by the caller
// before being handed to the codec (the codec itself never truncates, so
// that truncation is a single visible decision rather than something that
// happens implicitly inside an encoder).
const MaxNameLength = 255

// PutU8 appends a single byte.
func PutU8(buf []byte, v uint8) []byte {
	return append(buf, v)
}

// PutU32 appends a big-endian uint32.
func PutU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// PutU64 appends a big-endian uint64.
func PutU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// PutString appends a u8 length prefix followed by s's bytes. The caller
// must ensure len(s) <= MaxNameLength; PutString panics otherwise, since
// that invariant is meant to be enforced once, at truncation time, not
// rediscovered here.
func PutString(buf []byte, s string) []byte {
	if len(s) > MaxNameLength {
		panic("limedata: string exceeds MaxNameLength, truncate before encoding")
	}
	buf = PutU8(buf, uint8(len(s)))
	return append(buf, s...)
}

// Truncate caps s to MaxNameLength bytes, matching the container format's
// u8 length prefixes.
func Truncate(s string) string {
	if len(s) > MaxNameLength {
		return s[:MaxNameLength]
	}
	return s
}

// WriteU32 writes a big-endian uint32 directly to w.
func WriteU32(w io.Writer, v uint32) error {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	_, err := w.Write(tmp[:])
	return err
}

// ReadU8 reads a single byte from r.
func ReadU8(r io.Reader) (uint8, error) {
	var tmp [1]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, errors.Annotate(err, "reading u8").Err()
	}
	return tmp[0], nil
}

// ReadU32 reads a big-endian uint32 from r.
func ReadU32(r io.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, errors.Annotate(err, "reading u32").Err()
	}
	return binary.BigEndian.Uint32(tmp[:]), nil
}

// ReadU64 reads a big-endian uint64 from r.
func ReadU64(r io.Reader) (uint64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, errors.Annotate(err, "reading u64").Err()
	}
	return binary.BigEndian.Uint64(tmp[:]), nil
}

// ReadString reads a u8 length prefix followed by that many bytes.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadU8(r)
	if err != nil {
		return "", errors.Annotate(err, "reading string length").Err()
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Annotate(err, "reading string bytes").Err()
	}
	return string(buf), nil
}

// GetU32 decodes a big-endian uint32 from buf at offset *at, advancing *at.
func GetU32(buf []byte, at *int) (uint32, error) {
	if *at+4 > len(buf) {
		return 0, errors.New("limedata: u32 read past end of buffer")
	}
	v := binary.BigEndian.Uint32(buf[*at:])
	*at += 4
	return v, nil
}

// GetU64 decodes a big-endian uint64 from buf at offset *at, advancing *at.
func GetU64(buf []byte, at *int) (uint64, error) {
	if *at+8 > len(buf) {
		return 0, errors.New("limedata: u64 read past end of buffer")
	}
	v := binary.BigEndian.Uint64(buf[*at:])
	*at += 8
	return v, nil
}

// GetU8 decodes a single byte from buf at offset *at, advancing *at.
func GetU8(buf []byte, at *int) (uint8, error) {
	if *at+1 > len(buf) {
		return 0, errors.New("limedata: u8 read past end of buffer")
	}
	v := buf[*at]
	*at++
	return v, nil
}

// GetString decodes a u8-length-prefixed string from buf at offset *at,
// advancing *at past both the prefix and the string bytes.
func GetString(buf []byte, at *int) (string, error) {
	n, err := GetU8(buf, at)
	if err != nil {
		return "", errors.Annotate(err, "reading string length").Err()
	}
	if *at+int(n) > len(buf) {
		return "", errors.New("limedata: string body read past end of buffer")
	}
	s := string(buf[*at : *at+int(n)])
	*at += int(n)
	return s, nil
}
