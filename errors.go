package lime

import "fmt"

// UnableToOpenError indicates the backing container file could not be
// opened. A manifest that cannot be read is reported by manifest.Parse as
// an annotated error, not as an UnableToOpenError.
type UnableToOpenError struct {
	Path string
	Err  error
}

func (e *UnableToOpenError) Error() string {
	return fmt.Sprintf("lime: unable to open %q: %v", e.Path, e.Err)
}

func (e *UnableToOpenError) Unwrap() error { return e.Err }

// UnknownFormatError indicates the begin/end markers didn't match any known
// pair, or the file was smaller than the minimum plausible container.
type UnknownFormatError struct {
	Path string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("lime: %q is not a recognizable Lime container", e.Path)
}

// VersionMismatchError indicates the container's revision byte differs from
// the revision this package implements.
type VersionMismatchError struct {
	Got, Want uint8
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("lime: container revision %d, want %d", e.Got, e.Want)
}

// UnknownDatafileError indicates CheckHeadString was requested and the
// container's head string did not match.
type UnknownDatafileError struct {
	Got, Want string
}

func (e *UnknownDatafileError) Error() string {
	return fmt.Sprintf("lime: head string %q does not match expected %q", e.Got, e.Want)
}

// CorruptedError indicates a dictionary or payload checksum mismatch, or a
// truncated DEFLATE stream where a complete one was expected.
type CorruptedError struct {
	Context string
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("lime: corrupted container (%s)", e.Context)
}

// DecompressError indicates a DEFLATE error other than truncation.
type DecompressError struct {
	Context string
	Err     error
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("lime: decompression failed (%s): %v", e.Context, e.Err)
}

func (e *DecompressError) Unwrap() error { return e.Err }

// MissingFileError indicates a manifest referenced a file that does not
// exist at pack time.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("lime: missing file %q referenced by manifest", e.Path)
}

// WriteOpenError indicates the packer's output path could not be created.
type WriteOpenError struct {
	Path string
	Err  error
}

func (e *WriteOpenError) Error() string {
	return fmt.Sprintf("lime: unable to create output %q: %v", e.Path, e.Err)
}

func (e *WriteOpenError) Unwrap() error { return e.Err }

// WriteFailedError indicates a write to the packer's output failed after
// the file was successfully created.
type WriteFailedError struct {
	Path string
	Err  error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("lime: write to %q failed: %v", e.Path, e.Err)
}

func (e *WriteFailedError) Unwrap() error { return e.Err }
