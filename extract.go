package lime

import (
	stderrors "errors"
	"io"
	"os"

	"go.chromium.org/luci/common/errors"

	"github.com/metayeti/Lime/limedata"
)

// ExtractorOptions configures a single Extractor.
type ExtractorOptions struct {
	// IntegrityCheck verifies the dictionary and payload checksums against
	// the values recorded at pack time. It defaults to true; it is a
	// silent no-op when the container was packed with ChecksumNone, since
	// there is no checksum to compare against.
	IntegrityCheck bool

	// CheckHeadString, if set, requires the container's head string to
	// equal HeadString, failing UnknownDatafileError otherwise.
	CheckHeadString bool

	// HeadString is the expected head string when CheckHeadString is set.
	HeadString string
}

// DefaultExtractorOptions returns IntegrityCheck: true, CheckHeadString:
// false.
func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{IntegrityCheck: true}
}

// Extractor opens a Lime container lazily: construction only binds a path
// and options. Header validation and dictionary loading happen on the
// first Get, through validateHeader and loadDictionary.
//
// An Extractor has three states: fresh (validated ==
// false), validated (validated == true, dictRead == true), and — after
// DropDictionary — fresh again. State is independent of whether the
// backing file is currently open; that is governed separately, by
// handleCount (see handle.go).
//
// An Extractor is not safe for concurrent use: every Get moves the shared
// file cursor, and no lock guards it.
type Extractor struct {
	path string
	opts ExtractorOptions

	file        *os.File
	handleCount int32

	validated bool
	dictRead  bool

	scheme       limedata.ChecksumScheme
	totalSize    int64
	dictOffset   int64
	dictSize     uint32
	dictChecksum uint32

	directory *limedata.Directory
}

// Open binds path and opts to a new Extractor. It performs no I/O: the
// backing file is opened only once a Handle is acquired.
func Open(path string, opts ExtractorOptions) *Extractor {
	return &Extractor{path: path, opts: opts}
}

func (e *Extractor) openFile() error {
	if e.file != nil {
		return nil
	}
	f, err := os.Open(e.path)
	if err != nil {
		return &UnableToOpenError{Path: e.path, Err: err}
	}
	e.file = f
	return nil
}

func (e *Extractor) closeFile() error {
	if e.file == nil {
		return nil
	}
	f := e.file
	e.file = nil
	return f.Close()
}

// validateHeader parses and checks the container header. It requires the
// backing file to already be open (via an
// acquired Handle); if it is not, validation fails with
// UnableToOpenError rather than opening the file itself, since opening is
// the handle's job, not the extractor core's.
func (e *Extractor) validateHeader() error {
	if e.file == nil {
		return &UnableToOpenError{Path: e.path, Err: stderrors.New("no handle acquired")}
	}

	totalSize, err := e.file.Seek(0, io.SeekEnd)
	if err != nil {
		return errors.Annotate(err, "seeking to measure container size").Err()
	}
	if totalSize < limedata.MinContainerSize {
		return &UnknownFormatError{Path: e.path}
	}

	if _, err := e.file.Seek(0, io.SeekStart); err != nil {
		return errors.Annotate(err, "seeking to begin marker").Err()
	}
	beginBuf := make([]byte, limedata.MarkerLength)
	if _, err := io.ReadFull(e.file, beginBuf); err != nil {
		return errors.Annotate(err, "reading begin marker").Err()
	}

	if _, err := e.file.Seek(totalSize-int64(limedata.MarkerLength), io.SeekStart); err != nil {
		return errors.Annotate(err, "seeking to end marker").Err()
	}
	endBuf := make([]byte, limedata.MarkerLength)
	if _, err := io.ReadFull(e.file, endBuf); err != nil {
		return errors.Annotate(err, "reading end marker").Err()
	}

	scheme, err := limedata.SchemeForMarkers(string(beginBuf), string(endBuf))
	if err != nil {
		return &UnknownFormatError{Path: e.path}
	}
	e.scheme = scheme

	if _, err := e.file.Seek(int64(limedata.MarkerLength), io.SeekStart); err != nil {
		return errors.Annotate(err, "seeking to revision byte").Err()
	}
	revision, err := limedata.ReadU8(e.file)
	if err != nil {
		return errors.Annotate(err, "reading revision").Err()
	}
	if revision != limedata.Revision {
		return &VersionMismatchError{Got: revision, Want: limedata.Revision}
	}

	head, err := limedata.ReadString(e.file)
	if err != nil {
		return errors.Annotate(err, "reading head string").Err()
	}
	if e.opts.CheckHeadString && head != e.opts.HeadString {
		return &UnknownDatafileError{Got: head, Want: e.opts.HeadString}
	}

	dictSize, err := limedata.ReadU32(e.file)
	if err != nil {
		return errors.Annotate(err, "reading dict size").Err()
	}
	var dictChecksum uint32
	if scheme.HasPerItemField() {
		dictChecksum, err = limedata.ReadU32(e.file)
		if err != nil {
			return errors.Annotate(err, "reading dict checksum").Err()
		}
	}

	e.totalSize = totalSize
	e.dictSize = dictSize
	e.dictChecksum = dictChecksum
	// Dict-after-payloads layout: the compressed dictionary ends just
	// before the end marker.
	e.dictOffset = totalSize - int64(limedata.MarkerLength) - int64(dictSize)
	e.validated = true
	return nil
}

// loadDictionary decompresses and decodes the directory.
func (e *Extractor) loadDictionary() error {
	if !e.validated {
		if err := e.validateHeader(); err != nil {
			return err
		}
	}

	if _, err := e.file.Seek(e.dictOffset, io.SeekStart); err != nil {
		return errors.Annotate(err, "seeking to dictionary").Err()
	}
	buf, err := limedata.DecompressStream(e.file, uint64(e.dictSize))
	if err != nil {
		if stderrors.Is(err, limedata.ErrTruncated) {
			return &CorruptedError{Context: "dictionary"}
		}
		return &DecompressError{Context: "dictionary", Err: err}
	}

	if e.opts.IntegrityCheck && e.scheme.HasPerItemField() {
		h := e.scheme.New()
		h.Write(buf)
		if limedata.Sum32(h) != e.dictChecksum {
			return &CorruptedError{Context: "dictionary"}
		}
	}

	dir, err := limedata.DecodeDirectory(buf, e.scheme)
	if err != nil {
		return &CorruptedError{Context: "directory structure"}
	}

	e.directory = dir
	e.dictRead = true
	return nil
}

// Get resolves (category, key) to its uncompressed payload bytes. found is
// false — with a nil error — when category or key is absent; this is not
// an error condition. Get requires a Handle to already be held on e (so the
// backing file is open); calling it with none acquired fails with
// UnableToOpenError.
func (e *Extractor) Get(category, key string) (data []byte, found bool, err error) {
	if e.file == nil {
		return nil, false, &UnableToOpenError{Path: e.path, Err: stderrors.New("no handle acquired")}
	}
	if !e.validated {
		if err := e.validateHeader(); err != nil {
			return nil, false, err
		}
	}
	if !e.dictRead {
		if err := e.loadDictionary(); err != nil {
			return nil, false, err
		}
	}

	item, found := e.directory.Lookup(category, key)
	if !found {
		return nil, false, nil
	}

	if _, err := e.file.Seek(int64(item.SeekID), io.SeekStart); err != nil {
		return nil, false, errors.Annotate(err, "seeking to payload %s/%s", category, key).Err()
	}

	data, err = limedata.DecompressStream(e.file, item.Size)
	if err != nil {
		if stderrors.Is(err, limedata.ErrTruncated) {
			return nil, false, &CorruptedError{Context: category + "/" + key}
		}
		return nil, false, &DecompressError{Context: category + "/" + key, Err: err}
	}

	if e.opts.IntegrityCheck && e.scheme.HasPerItemField() {
		h := e.scheme.New()
		h.Write(data)
		if limedata.Sum32(h) != item.Checksum {
			return nil, false, &CorruptedError{Context: category + "/" + key}
		}
	}

	return data, true, nil
}

// DropDictionary returns the Extractor to its fresh state: the in-memory
// directory is discarded, and the next Get re-validates the header and
// reloads the dictionary from the (still open, if a Handle holds it)
// backing file.
func (e *Extractor) DropDictionary() {
	e.directory = nil
	e.dictRead = false
	e.validated = false
}
