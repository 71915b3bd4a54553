package codec

// Decoder turns one compressed block into 32 signed 8-bit weight values.
// The software and register-backed implementations must be byte-identical
// for every valid input; Conformance in mmio_test.go checks the full
// (dialect, exponent, index, sign) space.
type Decoder interface {
	DecodeBlock(b Block, out *[BlockSize]int8) error
}

// SoftwareDecoder decodes blocks with the compiled-in dialect table.
type SoftwareDecoder struct{}

func (SoftwareDecoder) DecodeBlock(b Block, out *[BlockSize]int8) error {
	dialect := b.DialectID()
	exp := b.SharedExponent()
	for i := 0; i < BlockSize; i++ {
		code := b.Code(i)
		out[i] = decodeValue(dialect, exp, code)
	}
	return nil
}

// decodeValue is the closed-form decode of a single 4-bit code.
// Exponent 0 halves the 0.5-unit magnitude with the +1 bias rounding
// halves up; any larger exponent shifts left by exp-1. Magnitudes
// saturate at 127.
func decodeValue(dialect, exp int, code uint8) int8 {
	scaled := int64(DialectEntry(dialect, int(code&0x7)))
	var mag int64
	if exp == 0 {
		mag = (scaled + 1) >> 1
	} else {
		// 64-bit so a 5-bit exponent cannot wrap before the clamp.
		mag = scaled << (exp - 1)
	}
	if mag > 127 {
		mag = 127
	}
	if code&0x8 != 0 {
		return int8(-mag)
	}
	return int8(mag)
}
