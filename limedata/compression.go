package limedata

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"go.chromium.org/luci/common/errors"
)

// ErrTruncated is returned (unwrapped, for errors.Is) by DecompressStream
// when the input ends before a complete DEFLATE stream was read. Callers
// use this to tell a truncated/corrupted payload apart from other
// decompression failures.
var ErrTruncated = errors.New("limedata: truncated deflate stream")

// StreamInputBuffer and StreamOutputBuffer are the buffer sizes used when
// streaming a payload through the compressor or decompressor: small input
// chunks feeding a larger output chunk, read/written in a
// loop until the source is exhausted.
const (
	StreamInputBuffer  = 512
	StreamOutputBuffer = 16 * 1024
)

// CompressStream reads all of src, writing a DEFLATE stream at the given
// level to dst, and returns the uncompressed byte count. Every uncompressed
// byte is also written to h (h may be a nullHash), so the caller reads the
// checksum from h afterwards. It is used for packing a single file's
// contents; meta-section values go through CompressBytes instead.
func CompressStream(dst io.Writer, src io.Reader, level int, h io.Writer) (uncompressedSize uint64, err error) {
	fw, err := flate.NewWriter(dst, level)
	if err != nil {
		return 0, errors.Annotate(err, "creating flate writer").Err()
	}

	buf := make([]byte, StreamInputBuffer)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return uncompressedSize, errors.Annotate(werr, "updating checksum").Err()
			}
			if _, werr := fw.Write(buf[:n]); werr != nil {
				return uncompressedSize, errors.Annotate(werr, "writing to flate stream").Err()
			}
			uncompressedSize += uint64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return uncompressedSize, errors.Annotate(rerr, "reading source").Err()
		}
	}
	if err := fw.Close(); err != nil {
		return uncompressedSize, errors.Annotate(err, "finalizing flate stream").Err()
	}
	return uncompressedSize, nil
}

// DecompressStream reads exactly compressedSize bytes of DEFLATE data from
// src and returns the decompressed bytes. It streams the inflation in
// StreamOutputBuffer-sized chunks, matching the extractor's read pattern.
func DecompressStream(src io.Reader, compressedSize uint64) ([]byte, error) {
	limited := io.LimitReader(src, int64(compressedSize))
	fr := flate.NewReader(limited)
	defer fr.Close()

	out := bytes.NewBuffer(make([]byte, 0, compressedSize*2))
	buf := make([]byte, StreamOutputBuffer)
	for {
		n, rerr := fr.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			if rerr == io.ErrUnexpectedEOF {
				return nil, ErrTruncated
			}
			return nil, errors.Annotate(rerr, "inflating stream").Err()
		}
	}
	return out.Bytes(), nil
}

// CompressBytes compresses the whole of data in a single shot, at the given
// level. It is used for the directory, which (unlike payloads) is never
// streamed: its full uncompressed form must exist in memory anyway to
// compute the dictionary checksum before compressing it.
func CompressBytes(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, errors.Annotate(err, "creating flate writer").Err()
	}
	if _, err := fw.Write(data); err != nil {
		return nil, errors.Annotate(err, "writing to flate stream").Err()
	}
	if err := fw.Close(); err != nil {
		return nil, errors.Annotate(err, "finalizing flate stream").Err()
	}
	return buf.Bytes(), nil
}
