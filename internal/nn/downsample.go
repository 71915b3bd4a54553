package nn

// DownsampleOptionA is the parameter-free shortcut used when a residual
// block changes shape: stride-2 nearest-point subsampling with the input
// channels centered inside the widened channel range, everything else
// zero. dst must hold outC*(h/2)*(w/2) values.
func DownsampleOptionA(dst, src []int8, inC, outC, h, w int) {
	outH := h / 2
	outW := w / 2
	padC := (outC - inC) / 2

	for i := 0; i < outC*outH*outW; i++ {
		dst[i] = 0
	}
	for c := 0; c < inC; c++ {
		out := dst[(c+padC)*outH*outW:]
		in := src[c*h*w:]
		for y := 0; y < outH; y++ {
			for x := 0; x < outW; x++ {
				out[y*outW+x] = in[y*2*w+x*2]
			}
		}
	}
}
