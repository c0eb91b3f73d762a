// Package archive implements the hamarc container format: a flat,
// directory-free archive of files whose payloads are individually
// encoded with a Hamming single-error-correcting code.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hamarc/internal/logging"
	"hamarc/pkg/hamming"
	"hamarc/pkg/progress"
)

// Engine performs the archive operations (create, list, extract,
// append, delete, concatenate) against a single archive path, using a
// fixed Hamming codec configuration for any data it encodes.
//
// An Engine is not safe for concurrent use: the archive format's
// atomic-rewrite-via-temp-file protocol assumes one mutation in
// flight against a given path at a time.
type Engine struct {
	path string
	opts hamming.Options
}

// NewEngine returns an Engine that operates on the archive at path,
// encoding any new payloads with opts. opts is not validated here;
// callers should call opts.Validate first.
func NewEngine(path string, opts hamming.Options) *Engine {
	return &Engine{path: path, opts: opts}
}

// Path returns the archive path the Engine was constructed with.
func (e *Engine) Path() string {
	return e.path
}

func (e *Engine) runLogger() zerolog.Logger {
	return logging.WithRun(uuid.NewString())
}

// collectNewEntries stats each input path and computes its encoded
// size, without reading file contents yet. It rejects missing files
// and directories up front, matching the original archiver's
// fail-before-mutating policy.
func (e *Engine) collectNewEntries(inputFiles []string) ([]FileEntry, error) {
	entries := make([]FileEntry, 0, len(inputFiles))

	for _, path := range inputFiles {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("archive: %w: input file not found: %s", ErrFilesystem, path)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("archive: %w: input is a directory: %s", ErrArgument, path)
		}

		originalSize := uint64(info.Size())
		entries = append(entries, FileEntry{
			Name:         filepath.Base(path),
			SourcePath:   path,
			OriginalSize: originalSize,
			EncodedSize:  e.opts.EncodedSize(originalSize),
		})
	}

	return entries, nil
}

// encodeFileToArchive streams entry.SourcePath through the Hamming
// codec, appending the encoded payload to out.
func (e *Engine) encodeFileToArchive(entry FileEntry, out io.Writer) error {
	in, err := os.Open(entry.SourcePath)
	if err != nil {
		return fmt.Errorf("archive: %w: open input file %s: %v", ErrFilesystem, entry.SourcePath, err)
	}
	defer in.Close()

	codec := hamming.NewCodec(e.opts)
	if err := codec.EncodeStream(in, &progress.Writer{W: out}); err != nil {
		return fmt.Errorf("archive: %w: encode %s: %v", ErrIO, entry.SourcePath, err)
	}
	return nil
}

// copyEntryData seeks src to entry.Offset and copies exactly
// entry.EncodedSize bytes to out, unchanged. Used by append, delete,
// and concatenate to carry already-encoded payloads forward without
// re-encoding them.
func copyEntryData(src io.ReadSeeker, entry FileEntry, out io.Writer) error {
	if _, err := src.Seek(int64(entry.Offset), io.SeekStart); err != nil {
		return fmt.Errorf("archive: %w: seek to entry %s: %v", ErrIO, entry.Name, err)
	}

	if _, err := io.CopyN(&progress.Writer{W: out}, src, int64(entry.EncodedSize)); err != nil {
		return fmt.Errorf("archive: %w: copy entry %s: %v", ErrIO, entry.Name, err)
	}
	return nil
}

// findEntriesByNames looks up each requested name in entries, in
// request order, duplicating an entry if it is requested more than
// once. It errors on the first name with no match.
func findEntriesByNames(entries []FileEntry, names []string) ([]FileEntry, error) {
	found := make([]FileEntry, 0, len(names))
	for _, name := range names {
		matched := false
		for _, e := range entries {
			if e.Name == name {
				found = append(found, e)
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("archive: %w: %s", ErrNotFound, name)
		}
	}
	return found, nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("archive: %w: create directory %s: %v", ErrFilesystem, dir, err)
	}
	return nil
}

// readArchiveHeaderFile opens path and reads its header, returning
// both the entries and the still-open file. The file's position is
// somewhere past the header (ReadHeader buffers its reads), so callers
// seek to an entry's offset before reading payload data.
func readArchiveHeaderFile(path string) (*os.File, []FileEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("archive: %w: open archive %s: %v", ErrFilesystem, path, err)
	}

	entries, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("archive: %w", err)
	}

	return f, entries, nil
}

func totalOriginalSize(entries []FileEntry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.OriginalSize
	}
	return total
}

// Create writes a new archive at the Engine's path containing
// inputFiles, replacing any existing file at that path. On any
// failure the partially written file is removed; the prior archive
// (if one existed at the same path) is already gone at that point,
// matching the reference implementation's trunc-in-place semantics
// for Create.
func (e *Engine) Create(inputFiles []string) error {
	log := e.runLogger()

	entries, err := e.collectNewEntries(inputFiles)
	if err != nil {
		return err
	}

	if err := ensureParentDir(e.path); err != nil {
		return err
	}

	out, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("archive: %w: open archive for writing: %s: %v", ErrFilesystem, e.path, err)
	}

	headerSize := HeaderSize(entries)
	AssignOffsets(entries, headerSize)

	if err := WriteHeader(out, entries); err != nil {
		out.Close()
		os.Remove(e.path)
		return err
	}

	progress.Init(totalOriginalSize(entries))
	defer progress.Stop()

	for _, entry := range entries {
		if err := e.encodeFileToArchive(entry, out); err != nil {
			out.Close()
			os.Remove(e.path)
			return err
		}
		log.Debug().Str("event", "entry_encoded").Str("name", entry.Name).
			Uint64("original_size", entry.OriginalSize).Uint64("encoded_size", entry.EncodedSize).Msg("encoded entry")
	}

	if err := out.Close(); err != nil {
		os.Remove(e.path)
		return fmt.Errorf("archive: %w: close archive: %v", ErrFilesystem, err)
	}

	log.Info().Str("event", "archive_written").Str("path", e.path).Int("files", len(entries)).Msg("archive created")
	return nil
}

// List returns the archive's entries in header order.
func (e *Engine) List() ([]FileEntry, error) {
	f, entries, err := readArchiveHeaderFile(e.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log := e.runLogger()
	log.Debug().Str("event", "archive_opened").Str("path", e.path).Int("files", len(entries)).Msg("archive listed")
	return entries, nil
}

// Extract decodes requestedFiles (or every entry, if requestedFiles
// is empty) out of the archive and writes each one to a file named
// after its archive name in the current directory, creating parent
// directories as needed.
func (e *Engine) Extract(requestedFiles []string) error {
	log := e.runLogger()

	f, entries, err := readArchiveHeaderFile(e.path)
	if err != nil {
		return err
	}
	defer f.Close()

	toExtract := entries
	if len(requestedFiles) > 0 {
		toExtract, err = findEntriesByNames(entries, requestedFiles)
		if err != nil {
			return err
		}
	}

	progress.Init(totalOriginalSize(toExtract))
	defer progress.Stop()

	codec := hamming.NewCodec(e.opts)

	for _, entry := range toExtract {
		if _, err := f.Seek(int64(entry.Offset), io.SeekStart); err != nil {
			return fmt.Errorf("archive: %w: seek to entry %s: %v", ErrIO, entry.Name, err)
		}

		if err := ensureParentDir(entry.Name); err != nil {
			return err
		}

		out, err := os.Create(entry.Name)
		if err != nil {
			return fmt.Errorf("archive: %w: create output file %s: %v", ErrFilesystem, entry.Name, err)
		}

		limited := io.LimitReader(f, int64(entry.EncodedSize))
		err = codec.DecodeStream(limited, &progress.Writer{W: out}, entry.OriginalSize)
		out.Close()
		if err != nil {
			if errors.Is(err, hamming.ErrUncorrectable) {
				return fmt.Errorf("archive: %w: decode %s: %v", ErrCodec, entry.Name, err)
			}
			return fmt.Errorf("archive: %w: decode %s: %v", ErrIO, entry.Name, err)
		}

		log.Debug().Str("event", "entry_decoded").Str("name", entry.Name).
			Uint64("original_size", entry.OriginalSize).Msg("decoded entry")
	}

	log.Info().Str("event", "archive_extracted").Str("path", e.path).Int("files", len(toExtract)).Msg("archive extracted")
	return nil
}

// Append encodes inputFiles and adds them to the archive as new
// entries, rewriting the whole container via a temp file so the
// header's offsets stay contiguous. Existing payloads are carried
// forward by raw byte copy, not re-encoded.
func (e *Engine) Append(inputFiles []string) error {
	log := e.runLogger()

	in, oldEntries, err := readArchiveHeaderFile(e.path)
	if err != nil {
		return err
	}
	defer in.Close()

	newEntries, err := e.collectNewEntries(inputFiles)
	if err != nil {
		return err
	}

	tempPath := e.path + ".tmp"
	os.Remove(tempPath)

	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("archive: %w: open temporary archive: %v", ErrFilesystem, err)
	}

	allEntries := make([]FileEntry, 0, len(oldEntries)+len(newEntries))
	allEntries = append(allEntries, oldEntries...)
	allEntries = append(allEntries, newEntries...)

	headerSize := HeaderSize(allEntries)
	AssignOffsets(allEntries, headerSize)

	if err := WriteHeader(out, allEntries); err != nil {
		out.Close()
		os.Remove(tempPath)
		return err
	}

	progress.Init(totalOriginalSize(newEntries))
	defer progress.Stop()

	for _, entry := range oldEntries {
		if err := copyEntryData(in, entry, out); err != nil {
			out.Close()
			os.Remove(tempPath)
			return err
		}
	}

	for _, entry := range newEntries {
		if err := e.encodeFileToArchive(entry, out); err != nil {
			out.Close()
			os.Remove(tempPath)
			return err
		}
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("archive: %w: close temporary archive: %v", ErrFilesystem, err)
	}
	in.Close()

	if err := os.Rename(tempPath, e.path); err != nil {
		return fmt.Errorf("archive: %w: replace archive: %v", ErrFilesystem, err)
	}

	log.Info().Str("event", "archive_replaced").Str("path", e.path).Int("added", len(newEntries)).Msg("archive appended")
	return nil
}

// Delete removes namesToDelete from the archive, rewriting the
// container via a temp file. It is an error if any requested name is
// absent, or if the set of requested names matches nothing (the
// reference implementation's "no files deleted" guard).
func (e *Engine) Delete(namesToDelete []string) error {
	log := e.runLogger()

	in, oldEntries, err := readArchiveHeaderFile(e.path)
	if err != nil {
		return err
	}
	defer in.Close()

	wanted := make(map[string]bool, len(namesToDelete))
	for _, name := range namesToDelete {
		wanted[name] = true
	}
	for _, name := range namesToDelete {
		found := false
		for _, entry := range oldEntries {
			if entry.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("archive: %w: %s", ErrNotFound, name)
		}
	}

	keepEntries := make([]FileEntry, 0, len(oldEntries))
	for _, entry := range oldEntries {
		if !wanted[entry.Name] {
			keepEntries = append(keepEntries, entry)
		}
	}

	if len(keepEntries) == len(oldEntries) {
		return fmt.Errorf("archive: %w: no specified files were deleted", ErrArgument)
	}

	keepEntriesOldOffsets := make([]FileEntry, len(keepEntries))
	copy(keepEntriesOldOffsets, keepEntries)

	tempPath := e.path + ".tmp"
	os.Remove(tempPath)

	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("archive: %w: open temporary archive: %v", ErrFilesystem, err)
	}

	headerSize := HeaderSize(keepEntries)
	AssignOffsets(keepEntries, headerSize)

	if err := WriteHeader(out, keepEntries); err != nil {
		out.Close()
		os.Remove(tempPath)
		return err
	}

	progress.Init(totalOriginalSize(keepEntriesOldOffsets))
	defer progress.Stop()

	for _, entry := range keepEntriesOldOffsets {
		if err := copyEntryData(in, entry, out); err != nil {
			out.Close()
			os.Remove(tempPath)
			return err
		}
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("archive: %w: close temporary archive: %v", ErrFilesystem, err)
	}
	in.Close()

	if err := os.Rename(tempPath, e.path); err != nil {
		return fmt.Errorf("archive: %w: replace archive: %v", ErrFilesystem, err)
	}

	log.Info().Str("event", "archive_replaced").Str("path", e.path).
		Int("deleted", len(oldEntries)-len(keepEntries)).Msg("archive entries deleted")
	return nil
}

// sourceSpan is a source archive's payload region: the byte range
// starting right after its own header, running to end of file.
type sourceSpan struct {
	path      string
	dataStart uint64
	dataLen   uint64
}

// Concatenate combines the entries and payloads of sourceArchives, in
// order, into a new archive at the Engine's path. A name collision
// across sources is resolved by appending "(2)", "(3)", ... to the
// later entry until the name is unique within the combined archive.
//
// Concatenate requires at least two source archives; this is
// rejected before any file is touched.
func (e *Engine) Concatenate(sourceArchives []string) error {
	log := e.runLogger()

	if len(sourceArchives) < 2 {
		return fmt.Errorf("archive: %w: concatenate requires at least two source archives", ErrArgument)
	}

	if err := ensureParentDir(e.path); err != nil {
		return err
	}

	tempPath := e.path + ".tmp"
	os.Remove(tempPath)

	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("archive: %w: open output archive: %v", ErrFilesystem, err)
	}

	var combined []FileEntry
	usedNames := make(map[string]bool)
	var spans []sourceSpan

	for _, srcPath := range sourceArchives {
		srcIn, srcEntries, err := readArchiveHeaderFile(srcPath)
		if err != nil {
			out.Close()
			os.Remove(tempPath)
			return err
		}

		dataStart := HeaderSize(srcEntries)

		info, statErr := srcIn.Stat()
		srcIn.Close()
		if statErr != nil {
			out.Close()
			os.Remove(tempPath)
			return fmt.Errorf("archive: %w: stat source archive %s: %v", ErrFilesystem, srcPath, statErr)
		}

		fileSize := uint64(info.Size())
		dataLen := uint64(0)
		if fileSize > dataStart {
			dataLen = fileSize - dataStart
		}

		for _, entry := range srcEntries {
			originalName := entry.Name
			if usedNames[originalName] {
				newName := originalName
				suffix := 2
				for usedNames[newName] {
					newName = fmt.Sprintf("%s(%d)", originalName, suffix)
					suffix++
				}
				entry.Name = newName
			}
			usedNames[entry.Name] = true
			combined = append(combined, entry)
		}

		spans = append(spans, sourceSpan{path: srcPath, dataStart: dataStart, dataLen: dataLen})
	}

	headerSize := HeaderSize(combined)
	AssignOffsets(combined, headerSize)

	if err := WriteHeader(out, combined); err != nil {
		out.Close()
		os.Remove(tempPath)
		return err
	}

	progress.Init(totalOriginalSize(combined))
	defer progress.Stop()

	for _, span := range spans {
		srcIn, err := os.Open(span.path)
		if err != nil {
			out.Close()
			os.Remove(tempPath)
			return fmt.Errorf("archive: %w: open source archive %s: %v", ErrFilesystem, span.path, err)
		}

		if _, err := srcIn.Seek(int64(span.dataStart), io.SeekStart); err != nil {
			srcIn.Close()
			out.Close()
			os.Remove(tempPath)
			return fmt.Errorf("archive: %w: seek source archive %s: %v", ErrIO, span.path, err)
		}

		_, err = io.CopyN(&progress.Writer{W: out}, srcIn, int64(span.dataLen))
		srcIn.Close()
		if err != nil {
			out.Close()
			os.Remove(tempPath)
			return fmt.Errorf("archive: %w: copy payload from %s: %v", ErrIO, span.path, err)
		}
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("archive: %w: close output archive: %v", ErrFilesystem, err)
	}

	os.Remove(e.path)
	if err := os.Rename(tempPath, e.path); err != nil {
		return fmt.Errorf("archive: %w: create archive: %v", ErrFilesystem, err)
	}

	log.Info().Str("event", "archive_written").Str("path", e.path).
		Int("sources", len(sourceArchives)).Int("files", len(combined)).Msg("archives concatenated")
	return nil
}
