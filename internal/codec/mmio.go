package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Register map of the block-decode peripheral.
const (
	RegMeta    = 0x00 // write: block meta, zero-extended to 32 bits
	RegPacked  = 0x04 // write: 4 words, packed bytes as LE u32s
	RegDecoded = 0x20 // read: 8 words forming the 32 output bytes
	RegStatus  = 0x40 // read: nonzero when decode is complete
)

var ErrBackendTimeout = errors.New("decode backend did not signal completion")

// RegisterFile is the word-granular access a memory-mapped decode
// peripheral exposes. Offsets are byte offsets from the peripheral base.
type RegisterFile interface {
	WriteReg(offset uint32, value uint32)
	ReadReg(offset uint32) uint32
}

// MMIODecoder drives a block-decode peripheral through its registers.
// The reference firmware busy-polls the status register forever; here the
// poll budget is bounded and exhaustion is a fatal ErrBackendTimeout.
type MMIODecoder struct {
	Regs RegisterFile

	// PollBudget caps status polls per block. Zero means DefaultPollBudget.
	PollBudget int
}

const DefaultPollBudget = 1 << 20

func (d *MMIODecoder) DecodeBlock(b Block, out *[BlockSize]int8) error {
	d.Regs.WriteReg(RegMeta, uint32(b.Meta))
	for i := 0; i < 4; i++ {
		d.Regs.WriteReg(RegPacked+uint32(i)*4, binary.LittleEndian.Uint32(b.Packed[i*4:]))
	}

	budget := d.PollBudget
	if budget <= 0 {
		budget = DefaultPollBudget
	}
	ready := false
	for i := 0; i < budget; i++ {
		if d.Regs.ReadReg(RegStatus) != 0 {
			ready = true
			break
		}
	}
	if !ready {
		return fmt.Errorf("%w after %d polls", ErrBackendTimeout, budget)
	}

	for i := 0; i < 8; i++ {
		w := d.Regs.ReadReg(RegDecoded + uint32(i)*4)
		out[i*4+0] = int8(w)
		out[i*4+1] = int8(w >> 8)
		out[i*4+2] = int8(w >> 16)
		out[i*4+3] = int8(w >> 24)
	}
	return nil
}

// SimRegisterFile models the decode peripheral in software: writing the
// last packed word triggers a decode, after which status reads 1. It lets
// the MMIO driver be exercised without hardware while keeping the two
// backends observationally identical.
type SimRegisterFile struct {
	meta    uint16
	packed  [16]byte
	decoded [BlockSize]int8
	ready   bool
}

func (s *SimRegisterFile) WriteReg(offset, value uint32) {
	switch {
	case offset == RegMeta:
		s.meta = uint16(value)
		s.ready = false
	case offset >= RegPacked && offset < RegPacked+16:
		binary.LittleEndian.PutUint32(s.packed[offset-RegPacked:], value)
		if offset == RegPacked+12 {
			b := Block{Meta: s.meta}
			copy(b.Packed[:], s.packed[:])
			_ = SoftwareDecoder{}.DecodeBlock(b, &s.decoded)
			s.ready = true
		}
	}
}

func (s *SimRegisterFile) ReadReg(offset uint32) uint32 {
	switch {
	case offset == RegStatus:
		if s.ready {
			return 1
		}
		return 0
	case offset >= RegDecoded && offset < RegDecoded+BlockSize:
		i := int(offset - RegDecoded)
		return uint32(uint8(s.decoded[i])) |
			uint32(uint8(s.decoded[i+1]))<<8 |
			uint32(uint8(s.decoded[i+2]))<<16 |
			uint32(uint8(s.decoded[i+3]))<<24
	}
	return 0
}
