package blob

import (
	"encoding/binary"
	"errors"
	"fmt"

	"dialectnet-go/internal/codec"
)

var (
	// ErrDecodeOverflow reports a tensor larger than the decode scratch.
	// The reference firmware silently drops the trailing blocks instead;
	// failing here is a deliberate behavior change.
	ErrDecodeOverflow = errors.New("tensor exceeds decode scratch")

	// ErrCountMismatch reports an encoded read whose requested element
	// count differs from the record's declared count.
	ErrCountMismatch = errors.New("requested count differs from declared tensor size")

	ErrShortPayload = errors.New("read past end of weight payload")
)

// DefaultScratchLen fits the largest tensor of the target network family
// (a 64-in 64-out 3x3 convolution).
const DefaultScratchLen = 64 * 64 * 9

// Cursor is a forward-only reader over a weight payload. Each Next call
// returns a view into the cursor's scratch buffer; the view is only valid
// until the following Next call, so callers keeping values across reads
// must copy them out first.
type Cursor struct {
	payload []byte
	encoded bool
	dec     codec.Decoder
	scratch []int8
	offset  int
}

// NewCursor builds a cursor over a parsed blob payload. dec is only
// consulted for encoded blobs. scratchLen bounds the largest tensor the
// cursor can hand out; 0 means DefaultScratchLen.
func NewCursor(h Header, payload []byte, dec codec.Decoder, scratchLen int) *Cursor {
	if scratchLen <= 0 {
		scratchLen = DefaultScratchLen
	}
	// Block decode writes whole blocks, so keep a full block of slack.
	slack := (scratchLen + codec.BlockSize - 1) / codec.BlockSize * codec.BlockSize
	return &Cursor{
		payload: payload,
		encoded: h.Encoded(),
		dec:     dec,
		scratch: make([]int8, slack),
	}
}

// Reset rewinds the cursor to the start of tensor data.
func (c *Cursor) Reset() {
	c.offset = 0
}

// Offset is the current byte position within the payload, for telemetry.
func (c *Cursor) Offset() int {
	return c.offset
}

// Next returns the next n weight values, advancing past the source bytes
// consumed and then to the next 4-byte boundary. For encoded blobs n must
// equal the record's declared element count.
func (c *Cursor) Next(n int) ([]int8, error) {
	if c.encoded {
		return c.nextEncoded(n)
	}
	return c.nextPlain(n)
}

func (c *Cursor) nextPlain(n int) ([]int8, error) {
	if n > len(c.scratch) {
		return nil, fmt.Errorf("%w: %d values, scratch %d", ErrDecodeOverflow, n, len(c.scratch))
	}
	if c.offset+n > len(c.payload) {
		return nil, fmt.Errorf("%w: offset %d, want %d bytes", ErrShortPayload, c.offset, n)
	}
	for i := 0; i < n; i++ {
		c.scratch[i] = int8(c.payload[c.offset+i])
	}
	c.offset = align4(c.offset + n)
	return c.scratch[:n], nil
}

func (c *Cursor) nextEncoded(n int) ([]int8, error) {
	if c.offset+8 > len(c.payload) {
		return nil, fmt.Errorf("%w: offset %d, want tensor record header", ErrShortPayload, c.offset)
	}
	elems := int(binary.LittleEndian.Uint32(c.payload[c.offset:]))
	blocks := int(binary.LittleEndian.Uint32(c.payload[c.offset+4:]))
	c.offset += 8

	if n != elems {
		return nil, fmt.Errorf("%w: requested %d, record declares %d", ErrCountMismatch, n, elems)
	}
	if blocks*codec.BlockSize > len(c.scratch) {
		return nil, fmt.Errorf("%w: %d blocks (%d values), scratch %d",
			ErrDecodeOverflow, blocks, blocks*codec.BlockSize, len(c.scratch))
	}
	if c.offset+blocks*codec.BlockBytes > len(c.payload) {
		return nil, fmt.Errorf("%w: offset %d, want %d blocks", ErrShortPayload, c.offset, blocks)
	}

	for b := 0; b < blocks; b++ {
		blk, err := codec.ParseBlock(c.payload[c.offset:])
		if err != nil {
			return nil, err
		}
		out := (*[codec.BlockSize]int8)(c.scratch[b*codec.BlockSize:])
		if err := c.dec.DecodeBlock(blk, out); err != nil {
			return nil, err
		}
		c.offset += codec.BlockBytes
	}

	c.offset = align4(c.offset)
	return c.scratch[:elems], nil
}

func align4(off int) int {
	return (off + 3) &^ 3
}
