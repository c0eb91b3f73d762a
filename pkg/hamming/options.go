// Package hamming implements a parametric single-error-correcting
// Hamming code and the bit-level plumbing needed to stream it over
// byte-oriented archives.
package hamming

import "fmt"

// Options selects the (k, r) shape of the code: k data bits and r
// parity bits per codeword, for a total of k+r bits.
type Options struct {
	DataBits   int // k
	ParityBits int // r
}

// TotalBits returns n = k + r, the codeword width in bits.
func (o Options) TotalBits() int {
	return o.DataBits + o.ParityBits
}

// Validate checks the range constraints from the archive format's
// external interface (1 <= k <= 16, 1 <= r <= 8).
//
// It does not check 2^r >= k+r+1, the condition for the code to
// actually correct every single-bit error. Parameters that violate it
// are accepted and will silently miscorrect some inputs; this mirrors
// the reference implementation and is documented as a known caveat
// rather than validated away.
func (o Options) Validate() error {
	if o.DataBits < 1 || o.DataBits > 16 {
		return fmt.Errorf("hamming: data bits must be in [1,16], got %d", o.DataBits)
	}
	if o.ParityBits < 1 || o.ParityBits > 8 {
		return fmt.Errorf("hamming: parity bits must be in [1,8], got %d", o.ParityBits)
	}
	return nil
}

// EncodedSize returns the number of bytes an encoded payload occupies
// for an input of originalSize bytes, per the size formula:
//
//	codeword_count = ceil(original_size*8 / k)
//	encoded_size   = ceil(codeword_count * (k+r) / 8)
func (o Options) EncodedSize(originalSize uint64) uint64 {
	dataBits := uint64(o.DataBits)
	totalBits := uint64(o.TotalBits())

	originalBits := originalSize * 8
	codewordCount := (originalBits + dataBits - 1) / dataBits
	totalCodeBits := codewordCount * totalBits
	return (totalCodeBits + 7) / 8
}
