package archive

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// magic identifies a hamarc container. It is written and checked as
// three raw bytes, not a NUL-terminated C string.
const magic = "HAF"

// FileEntry is one archive member's header record plus its encoded
// payload's placement within the container.
type FileEntry struct {
	Name         string
	OriginalSize uint64
	EncodedSize  uint64
	Offset       uint64

	// SourcePath is the on-disk file a new entry will be read from.
	// It is only meaningful for entries not yet written to an
	// archive; entries read back from a header leave it empty.
	SourcePath string
}

// HeaderSize returns the byte length of the fixed-plus-variable header
// that precedes the concatenated payloads: 3-byte magic, u32 file
// count, and per-entry (u16 name length + name + 3*u64).
func HeaderSize(entries []FileEntry) uint64 {
	size := uint64(3 + 4)
	for _, e := range entries {
		size += 2 + uint64(len(e.Name)) + 8 + 8 + 8
	}
	return size
}

// AssignOffsets lays entries out contiguously starting at headerSize,
// in slice order, each immediately following the previous entry's
// payload. It mutates entries in place.
func AssignOffsets(entries []FileEntry, headerSize uint64) {
	offset := headerSize
	for i := range entries {
		entries[i].Offset = offset
		offset += entries[i].EncodedSize
	}
}

// WriteHeader writes the magic, file count, and every entry's
// metadata record to w, in entries' order.
func WriteHeader(w io.Writer, entries []FileEntry) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return fmt.Errorf("archive: %w: write magic: %v", ErrIO, err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
		return fmt.Errorf("archive: %w: write file count: %v", ErrIO, err)
	}

	for _, e := range entries {
		if len(e.Name) > 0xFFFF {
			return fmt.Errorf("archive: %w: name %q exceeds 65535 bytes", ErrArgument, e.Name)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(e.Name))); err != nil {
			return fmt.Errorf("archive: %w: write name length: %v", ErrIO, err)
		}
		if _, err := io.WriteString(w, e.Name); err != nil {
			return fmt.Errorf("archive: %w: write name: %v", ErrIO, err)
		}
		if err := binary.Write(w, binary.LittleEndian, e.OriginalSize); err != nil {
			return fmt.Errorf("archive: %w: write original size: %v", ErrIO, err)
		}
		if err := binary.Write(w, binary.LittleEndian, e.EncodedSize); err != nil {
			return fmt.Errorf("archive: %w: write encoded size: %v", ErrIO, err)
		}
		if err := binary.Write(w, binary.LittleEndian, e.Offset); err != nil {
			return fmt.Errorf("archive: %w: write offset: %v", ErrIO, err)
		}
	}

	return nil
}

// ReadHeader reads and validates a hamarc container header from r,
// returning its entries in on-disk order. It does not seek, and it
// reads r through a buffer, so it may consume bytes past the header;
// callers that go on to read payload data should seek the underlying
// file to HeaderSize(entries) or to an entry's Offset first.
func ReadHeader(r io.Reader) ([]FileEntry, error) {
	br := bufio.NewReader(r)

	var sig [3]byte
	if _, err := io.ReadFull(br, sig[:]); err != nil {
		return nil, fmt.Errorf("archive: %w: read magic: %v", ErrFormat, err)
	}
	if string(sig[:]) != magic {
		return nil, fmt.Errorf("archive: %w: bad magic %q", ErrFormat, sig[:])
	}

	var fileCount uint32
	if err := binary.Read(br, binary.LittleEndian, &fileCount); err != nil {
		return nil, fmt.Errorf("archive: %w: read file count: %v", ErrFormat, err)
	}

	entries := make([]FileEntry, 0, fileCount)
	for i := uint32(0); i < fileCount; i++ {
		var nameLen uint16
		if err := binary.Read(br, binary.LittleEndian, &nameLen); err != nil {
			return nil, fmt.Errorf("archive: %w: read name length: %v", ErrFormat, err)
		}

		name := make([]byte, nameLen)
		if nameLen > 0 {
			if _, err := io.ReadFull(br, name); err != nil {
				return nil, fmt.Errorf("archive: %w: read name: %v", ErrFormat, err)
			}
		}

		var e FileEntry
		e.Name = string(name)
		if err := binary.Read(br, binary.LittleEndian, &e.OriginalSize); err != nil {
			return nil, fmt.Errorf("archive: %w: read original size: %v", ErrFormat, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &e.EncodedSize); err != nil {
			return nil, fmt.Errorf("archive: %w: read encoded size: %v", ErrFormat, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &e.Offset); err != nil {
			return nil, fmt.Errorf("archive: %w: read offset: %v", ErrFormat, err)
		}

		entries = append(entries, e)
	}

	return entries, nil
}
