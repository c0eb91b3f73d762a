package hamming

import (
	"bufio"
	"fmt"
	"io"
)

// Codec encodes and decodes fixed-size data blocks into Hamming
// codewords, and streams that encoding over bit-packed byte streams.
type Codec struct {
	opts Options
}

// NewCodec constructs a Codec from opts. opts is not validated here;
// callers that need the range check should call opts.Validate first.
func NewCodec(opts Options) *Codec {
	return &Codec{opts: opts}
}

// Options returns the codec's configured (k, r).
func (c *Codec) Options() Options {
	return c.opts
}

// isParityPosition reports whether the 1-indexed bit position p is a
// power of two (and therefore carries a parity bit rather than data).
func isParityPosition(p int) bool {
	return p&(p-1) == 0
}

// EncodeBlock packs a k-bit data value (the low k bits of data) into
// an n-bit codeword, computing each parity bit as the XOR of the data
// and parity bits it covers.
func (c *Codec) EncodeBlock(data uint32) uint32 {
	n := c.opts.TotalBits()

	var codeword uint32
	dataIndex := 0
	for pos := 1; pos <= n; pos++ {
		if isParityPosition(pos) {
			continue
		}
		if (data>>uint(dataIndex))&1 != 0 {
			codeword |= 1 << uint(pos-1)
		}
		dataIndex++
	}

	for parityPos := 1; parityPos <= n; parityPos <<= 1 {
		parity := uint32(0)
		for bitPos := 1; bitPos <= n; bitPos++ {
			if bitPos&parityPos != 0 && codeword&(1<<uint(bitPos-1)) != 0 {
				parity ^= 1
			}
		}
		if parity != 0 {
			codeword |= 1 << uint(parityPos-1)
		}
	}

	return codeword
}

// syndrome computes the r-bit syndrome of a codeword: bit j of the
// result is set iff parity check 2^j fails.
func (c *Codec) syndrome(codeword uint32) uint32 {
	n := c.opts.TotalBits()

	var s uint32
	for parityPos := 1; parityPos <= n; parityPos <<= 1 {
		parity := uint32(0)
		for bitPos := 1; bitPos <= n; bitPos++ {
			if bitPos&parityPos != 0 && codeword&(1<<uint(bitPos-1)) != 0 {
				parity ^= 1
			}
		}
		if parity != 0 {
			s |= uint32(parityPos)
		}
	}
	return s
}

// extractData pulls the k data bits back out of a codeword, assuming
// no pending correction: non-parity positions in order, LSB first.
func (c *Codec) extractData(codeword uint32) uint32 {
	n := c.opts.TotalBits()

	var data uint32
	dataIndex := 0
	for pos := 1; pos <= n; pos++ {
		if isParityPosition(pos) {
			continue
		}
		if (codeword>>uint(pos-1))&1 != 0 {
			data |= 1 << uint(dataIndex)
		}
		dataIndex++
	}
	return data
}

// DecodeBlock decodes one n-bit codeword, correcting an isolated
// single-bit error in place. The second return value is true when the
// corruption is uncorrectable: the syndrome names a position beyond
// the codeword, or a post-correction verification syndrome is still
// nonzero. This catches some, but not all, two-bit errors.
func (c *Codec) DecodeBlock(codeword uint32) (data uint32, hasError bool) {
	n := c.opts.TotalBits()

	s := c.syndrome(codeword)
	if s != 0 {
		if s <= uint32(n) {
			codeword ^= 1 << uint(s-1)
		} else {
			return 0, true
		}
	}

	if verify := c.syndrome(codeword); verify != 0 {
		return 0, true
	}

	return c.extractData(codeword), false
}

// EncodeStream reads bytes from r, packs them LSB-first into k-bit
// data blocks, encodes each to an n-bit codeword, and writes the
// codewords bit-packed to w. A trailing partial block is zero-padded
// before encoding.
func (c *Codec) EncodeStream(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	bw := NewBitWriter(w)

	k := c.opts.DataBits
	n := c.opts.TotalBits()

	var dataBlock uint32
	blockBits := 0

	emit := func() error {
		codeword := c.EncodeBlock(dataBlock)
		for i := 0; i < n; i++ {
			if err := bw.PushBit(uint8((codeword >> uint(i)) & 1)); err != nil {
				return err
			}
		}
		dataBlock = 0
		blockBits = 0
		return nil
	}

	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("hamming: encode stream read: %w", err)
		}

		for bitIndex := 0; bitIndex < 8; bitIndex++ {
			if (b>>uint(bitIndex))&1 != 0 {
				dataBlock |= 1 << uint(blockBits)
			}
			blockBits++
			if blockBits == k {
				if err := emit(); err != nil {
					return err
				}
			}
		}
	}

	if blockBits > 0 {
		if err := emit(); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// DecodeStream reads exactly enough bit-packed codewords from r to
// account for originalSize bytes of decoded output, decodes each
// block, and writes the reconstructed bytes to w. The final codeword's
// trailing zero-padding (added by EncodeStream to fill out a partial
// block) is trimmed so the output is exactly originalSize bytes.
//
// It returns an error wrapping ErrUncorrectable if any codeword is
// uncorrectable.
func (c *Codec) DecodeStream(r io.Reader, w io.Writer, originalSize uint64) error {
	k := uint64(c.opts.DataBits)
	n := c.opts.TotalBits()

	originalBits := originalSize * 8
	if originalBits == 0 {
		return nil
	}

	codewordCount := (originalBits + k - 1) / k
	totalCodeBits := codewordCount * uint64(n)

	br := NewBitReader(r)
	bw := NewBitWriter(w)

	var bitsRead, bitsWritten uint64
	var codeword uint32
	codewordBits := 0

	for bitsRead < totalCodeBits {
		bit, err := br.PullBit()
		if err != nil {
			return fmt.Errorf("hamming: decode stream read: %w", err)
		}
		if bit != 0 {
			codeword |= 1 << uint(codewordBits)
		}
		codewordBits++
		bitsRead++

		if codewordBits != n {
			continue
		}

		data, hasError := c.DecodeBlock(codeword)
		if hasError {
			return fmt.Errorf("hamming: %w: uncorrectable data corruption detected", ErrUncorrectable)
		}

		bitsToOutput := k
		if bitsWritten+bitsToOutput > originalBits {
			bitsToOutput = originalBits - bitsWritten
		}

		for i := uint64(0); i < bitsToOutput; i++ {
			if err := bw.PushBit(uint8((data >> uint(i)) & 1)); err != nil {
				return fmt.Errorf("hamming: decode stream write: %w", err)
			}
		}
		bitsWritten += bitsToOutput

		codeword = 0
		codewordBits = 0
	}

	return bw.Flush()
}
