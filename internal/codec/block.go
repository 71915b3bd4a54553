package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrShortBlock = errors.New("block shorter than 18 bytes")

// Block is one compressed unit of 32 weight values.
//
// Meta packs dialect id into bits 15..12 and the shared exponent into
// bits 11..7; bits 6..0 are zero. On the wire Meta is big-endian, unlike
// every other multi-byte field in the blob, which is little-endian. The
// asymmetry is inherited from the reference encoder and must be kept.
type Block struct {
	Meta   uint16
	Packed [16]byte
}

func (b Block) DialectID() int {
	return int(b.Meta >> 12 & 0xF)
}

func (b Block) SharedExponent() int {
	return int(b.Meta >> 7 & 0x1F)
}

// Code returns the i-th 4-bit code, high nibble first within each
// packed byte.
func (b Block) Code(i int) uint8 {
	v := b.Packed[i/2]
	if i%2 == 0 {
		return v >> 4
	}
	return v & 0xF
}

// ParseBlock reads one 18-byte block from src.
func ParseBlock(src []byte) (Block, error) {
	if len(src) < BlockBytes {
		return Block{}, fmt.Errorf("%w: have %d", ErrShortBlock, len(src))
	}
	var b Block
	b.Meta = binary.BigEndian.Uint16(src)
	copy(b.Packed[:], src[2:BlockBytes])
	return b, nil
}

// AppendBlock appends the 18-byte wire form of a block built from its
// fields. Codes beyond 4 bits are masked.
func AppendBlock(dst []byte, dialect, sharedExp int, codes *[BlockSize]uint8) []byte {
	meta := uint16(dialect&0xF)<<12 | uint16(sharedExp&0x1F)<<7
	dst = binary.BigEndian.AppendUint16(dst, meta)
	for i := 0; i < 16; i++ {
		dst = append(dst, (codes[2*i]&0xF)<<4|codes[2*i+1]&0xF)
	}
	return dst
}
