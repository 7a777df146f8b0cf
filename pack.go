package lime

import (
	"context"
	"io"
	"os"
	"runtime"
	"strings"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/iotools"
	"go.chromium.org/luci/common/logging"

	"github.com/metayeti/Lime/limedata"
	"github.com/metayeti/Lime/manifest"
)

// PackOptions configures a single Pack call.
type PackOptions struct {
	// Level is the DEFLATE compression level, 0..=9. 9 is maximum; 0 stores
	// data uncompressed (raw DEFLATE stored blocks, no zlib wrapper).
	Level int

	// Checksum selects the per-item and directory checksum algorithm.
	Checksum limedata.ChecksumScheme

	// Head is the container's head identification string, capped at 255
	// bytes (longer values are truncated).
	Head string

	// CaseInsensitiveDedup controls whether referenced filenames are
	// canonicalized by lowercasing before deduplication. It defaults to
	// true on Windows and false elsewhere, matching the host filesystem's
	// usual case sensitivity; this is an intentional, configurable
	// discrepancy rather than a universal rule.
	CaseInsensitiveDedup bool
}

// DefaultPackOptions returns the packer's defaults: level 9, Adler-32
// checksums, no head string, and case-insensitive dedup on Windows only.
func DefaultPackOptions() PackOptions {
	return PackOptions{
		Level:                9,
		Checksum:             limedata.ChecksumAdler32,
		CaseInsensitiveDedup: runtime.GOOS == "windows",
	}
}

// Pack reads m and writes a Lime container to outputPath. On any failure,
// the partial output file (if created) is removed.
func Pack(ctx context.Context, m *manifest.Manifest, outputPath string, opts PackOptions) (err error) {
	if err := verifyFiles(ctx, m); err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return &WriteOpenError{Path: outputPath, Err: err}
	}
	defer func() {
		out.Close()
		if err != nil {
			os.Remove(outputPath)
		}
	}()

	w := &iotools.CountingWriter{Writer: out}

	dictSizeOffset, err := writePreamble(w, opts)
	if err != nil {
		return &WriteFailedError{Path: outputPath, Err: err}
	}

	dir, err := streamPayloads(ctx, w, m, opts)
	if err != nil {
		return err
	}

	dirBytes := dir.Encode(opts.Checksum)
	dictChecksum := checksumOf(opts.Checksum, dirBytes)

	compressedDir, err := limedata.CompressBytes(dirBytes, opts.Level)
	if err != nil {
		return &WriteFailedError{Path: outputPath, Err: err}
	}
	if _, err := w.Write(compressedDir); err != nil {
		return &WriteFailedError{Path: outputPath, Err: err}
	}

	_, end, err := limedata.MarkersForScheme(opts.Checksum)
	if err != nil {
		return &WriteFailedError{Path: outputPath, Err: err}
	}
	if _, err := w.Write([]byte(end)); err != nil {
		return &WriteFailedError{Path: outputPath, Err: err}
	}

	if err := patchHeader(out, dictSizeOffset, uint32(len(compressedDir)), dictChecksum, opts.Checksum); err != nil {
		return &WriteFailedError{Path: outputPath, Err: err}
	}

	logging.Infof(ctx, "lime: packed %d categories to %s", len(dir.Categories), outputPath)
	return nil
}

// verifyFiles checks every non-meta manifest entry references an existing
// file, reporting each unique path once.
func verifyFiles(ctx context.Context, m *manifest.Manifest) error {
	checked := make(map[string]bool)
	var failure error
	m.Sections.Each(func(section string, sec *manifest.Section) bool {
		if sec.Meta {
			return true
		}
		sec.Entries.Each(func(key, value string) bool {
			if checked[value] {
				return true
			}
			checked[value] = true
			if _, err := os.Stat(value); err != nil {
				logging.Errorf(ctx, "lime: missing file %q (referenced by [%s] %s)", value, section, key)
				failure = &MissingFileError{Path: value}
				return false
			}
			return true
		})
		return failure == nil
	})
	return failure
}

// writePreamble writes the begin marker, revision, head string and
// reserves the dict_size (and, if applicable, dict_checksum) placeholder
// fields. It returns the absolute file offset of the dict_size placeholder,
// to be patched in patchHeader once the real sizes are known.
func writePreamble(w *iotools.CountingWriter, opts PackOptions) (dictSizeOffset int64, err error) {
	begin, _, err := limedata.MarkersForScheme(opts.Checksum)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write([]byte(begin)); err != nil {
		return 0, err
	}
	if _, err := w.Write([]byte{limedata.Revision}); err != nil {
		return 0, err
	}

	head := limedata.Truncate(opts.Head)
	headBuf := limedata.PutString(nil, head)
	if _, err := w.Write(headBuf); err != nil {
		return 0, err
	}

	dictSizeOffset = w.Count
	if _, err := w.Write(make([]byte, 4)); err != nil {
		return 0, err
	}
	if opts.Checksum.HasPerItemField() {
		if _, err := w.Write(make([]byte, 4)); err != nil {
			return 0, err
		}
	}
	return dictSizeOffset, nil
}

// streamPayloads walks m in manifest order, deduplicating by canonical
// filename, and streams each unique payload's compressed bytes to w.
func streamPayloads(ctx context.Context, w *iotools.CountingWriter, m *manifest.Manifest, opts PackOptions) (*limedata.Directory, error) {
	dir := &limedata.Directory{}
	packedFiles := make(map[string]limedata.DictItem)

	var failure error
	m.Sections.Each(func(section string, sec *manifest.Section) bool {
		category := limedata.Truncate(section)
		sec.Entries.Each(func(key, value string) bool {
			key = limedata.Truncate(key)

			var item limedata.DictItem
			var err error
			if sec.Meta {
				item, err = packMetaValue(w, value, opts)
			} else {
				item, err = packFile(ctx, w, value, opts, packedFiles)
			}
			if err != nil {
				failure = err
				return false
			}
			dir.Add(category, key, item)
			return true
		})
		return failure == nil
	})
	if failure != nil {
		return nil, failure
	}
	return dir, nil
}

func packMetaValue(w *iotools.CountingWriter, value string, opts PackOptions) (limedata.DictItem, error) {
	data := []byte(value)
	h := opts.Checksum.New()
	h.Write(data)
	checksum := limedata.Sum32(h)

	offset := w.Count
	compressed, err := limedata.CompressBytes(data, opts.Level)
	if err != nil {
		return limedata.DictItem{}, &WriteFailedError{Path: "<meta>", Err: err}
	}
	if _, err := w.Write(compressed); err != nil {
		return limedata.DictItem{}, &WriteFailedError{Path: "<meta>", Err: err}
	}
	return limedata.DictItem{SeekID: uint64(offset), Size: uint64(len(compressed)), Checksum: checksum}, nil
}

func packFile(ctx context.Context, w *iotools.CountingWriter, path string, opts PackOptions, packedFiles map[string]limedata.DictItem) (limedata.DictItem, error) {
	canonical := path
	if opts.CaseInsensitiveDedup {
		canonical = strings.ToLower(path)
	}
	if item, ok := packedFiles[canonical]; ok {
		return item, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return limedata.DictItem{}, &MissingFileError{Path: path}
	}
	defer f.Close()

	h := opts.Checksum.New()
	offset := w.Count
	_, err = limedata.CompressStream(w, f, opts.Level, h)
	if err != nil {
		return limedata.DictItem{}, &WriteFailedError{Path: path, Err: err}
	}
	size := uint64(w.Count - offset)

	item := limedata.DictItem{SeekID: uint64(offset), Size: size, Checksum: limedata.Sum32(h)}
	packedFiles[canonical] = item
	logging.Debugf(ctx, "lime: packed %q (%d compressed bytes)", path, size)
	return item, nil
}

// patchHeader seeks back to the reserved placeholder and writes the real
// dict_compressed_size (and dict_checksum, if applicable).
func patchHeader(f *os.File, dictSizeOffset int64, dictSize uint32, dictChecksum uint32, scheme limedata.ChecksumScheme) error {
	if _, err := f.Seek(dictSizeOffset, io.SeekStart); err != nil {
		return errors.Annotate(err, "seeking to patch header").Err()
	}
	if err := limedata.WriteU32(f, dictSize); err != nil {
		return errors.Annotate(err, "patching dict size").Err()
	}
	if scheme.HasPerItemField() {
		if err := limedata.WriteU32(f, dictChecksum); err != nil {
			return errors.Annotate(err, "patching dict checksum").Err()
		}
	}
	return nil
}

func checksumOf(scheme limedata.ChecksumScheme, data []byte) uint32 {
	h := scheme.New()
	h.Write(data)
	return limedata.Sum32(h)
}
