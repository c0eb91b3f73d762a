package hamming

import "testing"

func TestOptionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{DataBits: 8, ParityBits: 4}, false},
		{"min", Options{DataBits: 1, ParityBits: 1}, false},
		{"max", Options{DataBits: 16, ParityBits: 8}, false},
		{"data bits too low", Options{DataBits: 0, ParityBits: 4}, true},
		{"data bits too high", Options{DataBits: 17, ParityBits: 4}, true},
		{"parity bits too low", Options{DataBits: 8, ParityBits: 0}, true},
		{"parity bits too high", Options{DataBits: 8, ParityBits: 9}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestOptionsTotalBits(t *testing.T) {
	o := Options{DataBits: 8, ParityBits: 4}
	if got := o.TotalBits(); got != 12 {
		t.Fatalf("TotalBits() = %d, want 12", got)
	}
}

func TestOptionsEncodedSize(t *testing.T) {
	o := Options{DataBits: 8, ParityBits: 4}

	cases := []struct {
		original uint64
		want     uint64
	}{
		{0, 0},
		{1, 2},  // 8 bits -> 1 codeword of 12 bits -> 2 bytes
		{2, 3},  // 16 bits -> 2 codewords of 12 bits = 24 bits -> 3 bytes
		{3, 5},  // 24 bits -> 3 codewords = 36 bits -> 5 bytes
	}

	for _, tc := range cases {
		if got := o.EncodedSize(tc.original); got != tc.want {
			t.Errorf("EncodedSize(%d) = %d, want %d", tc.original, got, tc.want)
		}
	}
}
