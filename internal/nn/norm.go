package nn

// Normalize applies the fused per-channel affine transform in place:
// v = (v*scale[c])>>6 + bias[c], clamped to [0,127] when relu is set and
// [-128,127] otherwise. hw is the spatial element count per channel.
// scale and bias must not alias the caller's decode scratch if another
// decode happens before the call returns; the engine copies them out.
func Normalize(fm []int8, channels, hw int, scale, bias []int8, relu bool) {
	for c := 0; c < channels; c++ {
		s := int32(scale[c])
		b := int32(bias[c])
		ch := fm[c*hw : (c+1)*hw]
		for i, v := range ch {
			val := int32(v)*s>>6 + b
			if relu {
				if val < 0 {
					val = 0
				}
			} else if val < -128 {
				val = -128
			}
			if val > 127 {
				val = 127
			}
			ch[i] = int8(val)
		}
	}
}

// AddClamp adds src into dst elementwise and rectifies to [0,127], the
// residual join of a basic block.
func AddClamp(dst, src []int8) {
	for i := range dst {
		val := int32(dst[i]) + int32(src[i])
		if val < 0 {
			val = 0
		}
		if val > 127 {
			val = 127
		}
		dst[i] = int8(val)
	}
}
