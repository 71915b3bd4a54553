package nn

// AvgPool8x8 reduces each channel's fixed 8x8 spatial window to one
// value: the 64-element sum rescaled by an arithmetic >>6.
func AvgPool8x8(dst, src []int8, channels int) {
	for c := 0; c < channels; c++ {
		var sum int32
		for _, v := range src[c*64 : (c+1)*64] {
			sum += int32(v)
		}
		dst[c] = int8(sum >> 6)
	}
}

// Dense computes full-precision int32 logits: for each class,
// sum(pooled[c]*weights[class][c]) + bias[class]. No rescale.
func Dense(logits []int32, pooled, weights, bias []int8, classes, channels int) {
	for i := 0; i < classes; i++ {
		var sum int32
		row := weights[i*channels:]
		for c := 0; c < channels; c++ {
			sum += int32(pooled[c]) * int32(row[c])
		}
		logits[i] = sum + int32(bias[i])
	}
}

// Argmax returns the index of the largest logit; strict > comparison, so
// the earliest index wins ties.
func Argmax(logits []int32) int {
	if len(logits) == 0 {
		return -1
	}
	best := 0
	bestVal := logits[0]
	for i := 1; i < len(logits); i++ {
		if logits[i] > bestVal {
			bestVal = logits[i]
			best = i
		}
	}
	return best
}
