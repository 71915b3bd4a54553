// Package nn holds the fixed-point kernels of the inference engine.
// Feature maps are flat int8 slices in channel-major order (all of
// channel 0, then channel 1, ...). Every rescale shift is an arithmetic
// shift on a signed accumulator; changing any rounding rule here
// desynchronizes every downstream layer checksum.
package nn

// Conv3x3 computes a 3x3 zero-padded strided convolution. weights holds
// outC*inC*9 values indexed [outChannel][inChannel][ky][kx]. Each output
// is the 32-bit accumulated dot product rescaled by an arithmetic >>7
// and truncated to 8 bits without saturation, matching the reference
// quantization. Output spatial size is h/stride x w/stride.
func Conv3x3(dst, src, weights []int8, inC, outC, h, w, stride, padding int) {
	outH := h / stride
	outW := w / stride

	for oc := 0; oc < outC; oc++ {
		ocw := weights[oc*inC*9 : (oc+1)*inC*9]
		for y := 0; y < outH; y++ {
			inYBase := y*stride - padding
			for x := 0; x < outW; x++ {
				inXBase := x*stride - padding

				var sum int32
				for ic := 0; ic < inC; ic++ {
					wBase := ic * 9
					inBase := ic * h * w
					for ky := 0; ky < 3; ky++ {
						iy := inYBase + ky
						if iy < 0 || iy >= h {
							continue
						}
						row := src[inBase+iy*w:]
						wRow := ocw[wBase+ky*3:]
						for kx := 0; kx < 3; kx++ {
							ix := inXBase + kx
							if ix < 0 || ix >= w {
								continue
							}
							sum += int32(row[ix]) * int32(wRow[kx])
						}
					}
				}

				dst[oc*outH*outW+y*outW+x] = int8(sum >> 7)
			}
		}
	}
}
