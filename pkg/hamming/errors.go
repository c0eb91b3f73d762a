package hamming

import "errors"

// ErrUncorrectable is returned by DecodeStream when a codeword's
// syndrome names a position outside the codeword, or survives the
// post-correction verification check. It marks corruption that
// single-bit correction cannot repair.
var ErrUncorrectable = errors.New("hamming: uncorrectable codeword")
