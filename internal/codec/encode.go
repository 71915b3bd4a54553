package codec

import "math"

// sharedExponent returns the per-block exponent that brings the block's
// largest magnitude into the representable range. Decoded magnitude for a
// nonzero exponent e is table<<(e-1) with table max 15, so the smallest e
// with 15<<e >= 2*max fits; magnitudes up to 7 fit at exponent 0.
func sharedExponent(block []int8) int {
	var max int32
	for _, v := range block {
		m := int32(v)
		if m < 0 {
			m = -m
		}
		if m > max {
			max = m
		}
	}
	if max == 0 {
		return 0
	}
	e := 0
	for int64(15)<<e < int64(2*max) {
		e++
	}
	return e
}

// scaleMagnitude converts an absolute int8 magnitude into 0.5-unit table
// space under exponent exp, rounding half to even and clamping to 0..15.
func scaleMagnitude(mag int32, exp int) int32 {
	var scaled int32
	if exp == 0 {
		scaled = mag * 2
	} else {
		scaled = int32(math.RoundToEven(float64(mag*2) / float64(int64(1)<<exp)))
	}
	if scaled > 15 {
		scaled = 15
	}
	return scaled
}

// selectDialect picks the table row with the lowest squared error over
// the scaled magnitudes of one block.
func selectDialect(scaled []int32) int {
	best := 0
	bestErr := int64(math.MaxInt64)
	for d := 0; d < NumDialects; d++ {
		var sumSq int64
		for _, m := range scaled {
			q := dialectTable[d][nearestIndex(d, m)]
			diff := int64(m - q)
			sumSq += diff * diff
		}
		if sumSq < bestErr {
			bestErr = sumSq
			best = d
		}
	}
	return best
}

// nearestIndex returns the 3-bit index of the dialect entry closest to
// the scaled magnitude; ties keep the lower index.
func nearestIndex(dialect int, scaled int32) int {
	best := 0
	bestDist := absDiff(scaled, dialectTable[dialect][0])
	for i := 1; i < 8; i++ {
		if d := absDiff(scaled, dialectTable[dialect][i]); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func absDiff(a, b int32) int32 {
	if a > b {
		return a - b
	}
	return b - a
}

// EncodeBlock compresses exactly BlockSize int8 values into one Block.
// Short final blocks must be zero-padded by the caller before encoding.
func EncodeBlock(values []int8) Block {
	exp := sharedExponent(values)

	var scaled [BlockSize]int32
	var signs [BlockSize]uint8
	for i, v := range values {
		m := int32(v)
		if m < 0 {
			signs[i] = 1
			m = -m
		}
		scaled[i] = scaleMagnitude(m, exp)
	}

	dialect := selectDialect(scaled[:])

	var codes [BlockSize]uint8
	for i := range codes {
		codes[i] = signs[i]<<3 | uint8(nearestIndex(dialect, scaled[i]))
	}

	wire := AppendBlock(nil, dialect, exp, &codes)
	b, _ := ParseBlock(wire)
	return b
}

// AppendEncodedTensor appends an encoded tensor record: the two-word
// record header then ceil(n/32) blocks, the last zero-padded.
func AppendEncodedTensor(dst []byte, values []int8) []byte {
	n := len(values)
	blocks := (n + BlockSize - 1) / BlockSize

	dst = append(dst,
		byte(n), byte(n>>8), byte(n>>16), byte(n>>24),
		byte(blocks), byte(blocks>>8), byte(blocks>>16), byte(blocks>>24))

	var pad [BlockSize]int8
	for b := 0; b < blocks; b++ {
		chunk := values[b*BlockSize : min((b+1)*BlockSize, n)]
		if len(chunk) < BlockSize {
			copy(pad[:], chunk)
			for i := len(chunk); i < BlockSize; i++ {
				pad[i] = 0
			}
			chunk = pad[:]
		}
		blk := EncodeBlock(chunk)
		var codes [BlockSize]uint8
		for i := range codes {
			codes[i] = blk.Code(i)
		}
		dst = AppendBlock(dst, blk.DialectID(), blk.SharedExponent(), &codes)
	}
	return dst
}
