// Package verify implements the per-layer checksum gate. Checksums exist
// to catch numeric drift against a trusted reference run during bring-up;
// a mismatch is fatal for the run, never recovered.
package verify

import (
	"errors"
	"fmt"
)

var ErrChecksumMismatch = errors.New("layer checksum mismatch")

// Checksum is the sum of sign-extended element values modulo 2^32, the
// same folding the reference firmware prints per layer.
func Checksum(values []int8) uint32 {
	var sum uint32
	for _, v := range values {
		sum += uint32(int32(v))
	}
	return sum
}

// Hasher walks a golden table with a sequential cursor. The cursor
// advances on every Check call whether or not the layer matches, so a
// mismatch report always names the right table entry.
type Hasher struct {
	golden   []uint32
	computed []uint32
}

func NewHasher(golden []uint32) *Hasher {
	return &Hasher{golden: golden}
}

// Reset rewinds the golden cursor and drops recorded checksums for a
// fresh run.
func (h *Hasher) Reset() {
	h.computed = h.computed[:0]
}

// Checked returns how many layers have been hashed so far.
func (h *Hasher) Checked() int {
	return len(h.computed)
}

// Computed returns the checksums recorded since the last Reset, in
// layer order. Running without a golden table and capturing these is
// how a new golden table is produced.
func (h *Hasher) Computed() []uint32 {
	return h.computed
}

// Check hashes one layer's output and compares it against the next
// golden entry. The cursor advances on every call, match or not. With
// no golden table (nil), the checksum is recorded but compared against
// nothing.
func (h *Hasher) Check(name string, values []int8) (uint32, error) {
	sum := Checksum(values)
	idx := len(h.computed)
	h.computed = append(h.computed, sum)
	if h.golden == nil {
		return sum, nil
	}
	if idx >= len(h.golden) {
		return sum, fmt.Errorf("layer %s: golden table exhausted after %d entries", name, len(h.golden))
	}
	if want := h.golden[idx]; sum != want {
		return sum, fmt.Errorf("%w at %s: expected %#08x, got %#08x", ErrChecksumMismatch, name, want, sum)
	}
	return sum, nil
}
