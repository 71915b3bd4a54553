package blob

import (
	"errors"
	"testing"

	"dialectnet-go/internal/codec"
)

func plainBlob(t *testing.T, tensors ...[]int8) (Header, []byte) {
	t.Helper()
	w := NewWriter(false)
	for _, tt := range tensors {
		w.AppendTensor(tt)
	}
	h, payload, err := Parse(w.Finish())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return h, payload
}

func encodedBlob(t *testing.T, tensors ...[]int8) (Header, []byte) {
	t.Helper()
	w := NewWriter(true)
	for _, tt := range tensors {
		w.AppendTensor(tt)
	}
	h, payload, err := Parse(w.Finish())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return h, payload
}

func TestCursorPlainAlignment(t *testing.T) {
	h, payload := plainBlob(t, []int8{1, 2, 3}, []int8{4})
	c := NewCursor(h, payload, nil, 64)

	got, err := c.Next(3)
	if err != nil {
		t.Fatalf("Next(3): %v", err)
	}
	if got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("Next(3) = %v", got)
	}
	// A 3-byte read leaves the cursor at the next multiple of 4.
	if c.Offset() != 4 {
		t.Fatalf("offset after 3-byte read = %d, want 4", c.Offset())
	}

	got, err = c.Next(1)
	if err != nil {
		t.Fatalf("Next(1): %v", err)
	}
	if got[0] != 4 {
		t.Fatalf("second tensor = %v, want [4]", got)
	}
}

func TestCursorReset(t *testing.T) {
	h, payload := plainBlob(t, []int8{7, -7})
	c := NewCursor(h, payload, nil, 64)

	if _, err := c.Next(2); err != nil {
		t.Fatalf("Next: %v", err)
	}
	c.Reset()
	if c.Offset() != 0 {
		t.Fatalf("offset after Reset = %d", c.Offset())
	}
	got, err := c.Next(2)
	if err != nil {
		t.Fatalf("Next after Reset: %v", err)
	}
	if got[0] != 7 || got[1] != -7 {
		t.Fatalf("reread = %v", got)
	}
}

func TestCursorPlainPastEnd(t *testing.T) {
	h, payload := plainBlob(t, []int8{1, 2, 3, 4})
	c := NewCursor(h, payload, nil, 64)
	if _, err := c.Next(5); !errors.Is(err, ErrShortPayload) {
		t.Fatalf("err = %v, want ErrShortPayload", err)
	}
}

func TestCursorEncodedMatchesPlain(t *testing.T) {
	// -3..3 survive the encoder exactly, so both formats must hand the
	// convolution identical byte streams.
	values := make([]int8, 70)
	for i := range values {
		values[i] = int8(i%7) - 3
	}

	hp, pp := plainBlob(t, values)
	he, pe := encodedBlob(t, values)

	cp := NewCursor(hp, pp, nil, 128)
	ce := NewCursor(he, pe, codec.SoftwareDecoder{}, 128)

	plain, err := cp.Next(len(values))
	if err != nil {
		t.Fatalf("plain Next: %v", err)
	}
	enc, err := ce.Next(len(values))
	if err != nil {
		t.Fatalf("encoded Next: %v", err)
	}
	for i := range values {
		if plain[i] != enc[i] {
			t.Fatalf("value %d: plain %d, encoded %d", i, plain[i], enc[i])
		}
	}
}

func TestCursorEncodedAlignment(t *testing.T) {
	// One 32-value tensor: 8-byte record header + 18 block bytes = 26,
	// aligned up to 28. The writer pads the record the same way.
	values := make([]int8, 32)
	h, payload := encodedBlob(t, values, values)
	c := NewCursor(h, payload, codec.SoftwareDecoder{}, 64)

	if _, err := c.Next(32); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if c.Offset() != 28 {
		t.Fatalf("offset after one record = %d, want 28", c.Offset())
	}
	if _, err := c.Next(32); err != nil {
		t.Fatalf("second Next: %v", err)
	}
}

func TestCursorEncodedCountMismatch(t *testing.T) {
	values := make([]int8, 32)
	h, payload := encodedBlob(t, values)
	c := NewCursor(h, payload, codec.SoftwareDecoder{}, 64)
	if _, err := c.Next(16); !errors.Is(err, ErrCountMismatch) {
		t.Fatalf("err = %v, want ErrCountMismatch", err)
	}
}

func TestCursorEncodedScratchOverflow(t *testing.T) {
	values := make([]int8, 96)
	h, payload := encodedBlob(t, values)
	c := NewCursor(h, payload, codec.SoftwareDecoder{}, 64)
	if _, err := c.Next(96); !errors.Is(err, ErrDecodeOverflow) {
		t.Fatalf("err = %v, want ErrDecodeOverflow", err)
	}
}

func TestCursorScratchReuse(t *testing.T) {
	// Views alias the scratch buffer: a second read overwrites the first.
	h, payload := plainBlob(t, []int8{1, 2}, []int8{9, 9})
	c := NewCursor(h, payload, nil, 64)

	first, err := c.Next(2)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := c.Next(2); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first[0] != 9 {
		t.Fatalf("expected scratch reuse to overwrite view, got %v", first)
	}
}
