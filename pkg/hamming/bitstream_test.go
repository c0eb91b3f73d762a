package hamming

import (
	"bytes"
	"testing"
)

func TestBitWriterPacksLSBFirst(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)

	// bits 1,0,1,0,0,0,0,0 LSB-first -> byte 0b00000101 = 0x05
	bits := []uint8{1, 0, 1, 0, 0, 0, 0, 0}
	for _, b := range bits {
		if err := bw.PushBit(b); err != nil {
			t.Fatalf("PushBit: %v", err)
		}
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if got := buf.Bytes(); len(got) != 1 || got[0] != 0x05 {
		t.Fatalf("got %v, want [0x05]", got)
	}
}

func TestBitReaderPullsLSBFirst(t *testing.T) {
	br := NewBitReader(bytes.NewReader([]byte{0x05}))

	want := []uint8{1, 0, 1, 0, 0, 0, 0, 0}
	for i, w := range want {
		bit, err := br.PullBit()
		if err != nil {
			t.Fatalf("PullBit(%d): %v", i, err)
		}
		if bit != w {
			t.Fatalf("bit %d = %d, want %d", i, bit, w)
		}
	}
}

func TestBitWriterFlushIsIdempotentOnEmptyBuffer(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush on empty buffer: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("Flush on empty buffer wrote %d bytes, want 0", buf.Len())
	}
}

func TestBitReaderErrorsOnShortRead(t *testing.T) {
	br := NewBitReader(bytes.NewReader(nil))
	if _, err := br.PullBit(); err == nil {
		t.Fatalf("PullBit on empty reader: want error, got nil")
	}
}
