package archive

import (
	"bytes"
	"testing"
)

func TestHeaderSizeAndAssignOffsets(t *testing.T) {
	entries := []FileEntry{
		{Name: "a.txt", OriginalSize: 10, EncodedSize: 15},
		{Name: "bb.bin", OriginalSize: 20, EncodedSize: 30},
	}

	headerSize := HeaderSize(entries)
	// 3 (magic) + 4 (count) + (2+5+24) + (2+6+24) = 7 + 31 + 32 = 70
	want := uint64(3 + 4 + (2 + 5 + 24) + (2 + 6 + 24))
	if headerSize != want {
		t.Fatalf("HeaderSize = %d, want %d", headerSize, want)
	}

	AssignOffsets(entries, headerSize)
	if entries[0].Offset != headerSize {
		t.Fatalf("entries[0].Offset = %d, want %d", entries[0].Offset, headerSize)
	}
	if entries[1].Offset != headerSize+15 {
		t.Fatalf("entries[1].Offset = %d, want %d", entries[1].Offset, headerSize+15)
	}
}

func TestWriteReadHeaderRoundTrip(t *testing.T) {
	entries := []FileEntry{
		{Name: "one.bin", OriginalSize: 100, EncodedSize: 150},
		{Name: "two.bin", OriginalSize: 0, EncodedSize: 0},
	}
	AssignOffsets(entries, HeaderSize(entries))

	var buf bytes.Buffer
	if err := WriteHeader(&buf, entries); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	got, err := ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}

	if len(got) != len(entries) {
		t.Fatalf("ReadHeader returned %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i].Name != entries[i].Name ||
			got[i].OriginalSize != entries[i].OriginalSize ||
			got[i].EncodedSize != entries[i].EncodedSize ||
			got[i].Offset != entries[i].Offset {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("XXX\x00\x00\x00\x00")
	if _, err := ReadHeader(buf); err == nil {
		t.Fatalf("ReadHeader with bad magic: want error, got nil")
	}
}

func TestReadHeaderRejectsTruncatedInput(t *testing.T) {
	buf := bytes.NewBufferString("HAF")
	if _, err := ReadHeader(buf); err == nil {
		t.Fatalf("ReadHeader with truncated input: want error, got nil")
	}
}
