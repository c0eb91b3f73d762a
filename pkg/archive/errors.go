package archive

import "errors"

// Sentinel errors used to classify failures for callers that need to
// map them onto process exit codes or retry policy. Wrap with
// fmt.Errorf("...: %w", ErrX) at the point the failure is detected;
// match with errors.Is.
var (
	// ErrArgument covers invalid caller input: a directory given as an
	// input file, a delete that removes nothing, concatenating fewer
	// than two sources, a name longer than 65535 bytes.
	ErrArgument = errors.New("archive: invalid argument")

	// ErrFilesystem covers failures opening, creating, or renaming
	// files and directories on disk.
	ErrFilesystem = errors.New("archive: filesystem error")

	// ErrFormat covers a header that doesn't parse as a hamarc
	// archive: bad magic, truncated metadata.
	ErrFormat = errors.New("archive: malformed archive")

	// ErrCodec covers uncorrectable Hamming decode failures.
	ErrCodec = errors.New("archive: codec error")

	// ErrIO covers read/write/seek failures during data copy or
	// encode/decode streaming that aren't classified above.
	ErrIO = errors.New("archive: I/O error")

	// ErrNotFound covers a named entry absent from an archive's
	// header, requested by extract or delete.
	ErrNotFound = errors.New("archive: entry not found")
)
