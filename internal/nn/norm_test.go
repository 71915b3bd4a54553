package nn

import "testing"

func TestNormalizeAffine(t *testing.T) {
	fm := []int8{16, -16, 64, 0}
	Normalize(fm, 1, 4, []int8{64}, []int8{3}, false)
	// v*64>>6 + 3 = v + 3
	want := []int8{19, -13, 67, 3}
	for i := range want {
		if fm[i] != want[i] {
			t.Fatalf("fm[%d] = %d, want %d", i, fm[i], want[i])
		}
	}
}

func TestNormalizeReluClamp(t *testing.T) {
	fm := []int8{127, -1, 50}
	Normalize(fm, 1, 3, []int8{127}, []int8{100}, true)
	if fm[0] != 127 {
		t.Fatalf("upper relu clamp: %d, want 127", fm[0])
	}
	fm2 := []int8{-100, -100}
	Normalize(fm2, 1, 2, []int8{127}, []int8{-100}, true)
	if fm2[0] != 0 {
		t.Fatalf("lower relu clamp: %d, want 0", fm2[0])
	}
}

func TestNormalizeSignedClamp(t *testing.T) {
	fm := []int8{127}
	Normalize(fm, 1, 1, []int8{127}, []int8{127}, false)
	if fm[0] != 127 {
		t.Fatalf("upper signed clamp: %d, want 127", fm[0])
	}
	fm = []int8{-128}
	Normalize(fm, 1, 1, []int8{127}, []int8{-128}, false)
	if fm[0] != -128 {
		t.Fatalf("lower signed clamp: %d, want -128", fm[0])
	}
}

func TestNormalizeShiftIsArithmetic(t *testing.T) {
	// -1*32>>6 must floor to -1, not round to 0.
	fm := []int8{-1}
	Normalize(fm, 1, 1, []int8{32}, []int8{0}, false)
	if fm[0] != -1 {
		t.Fatalf("fm[0] = %d, want -1", fm[0])
	}
}

func TestNormalizePerChannel(t *testing.T) {
	fm := []int8{10, 10, 10, 10} // 2 channels, 2 elements each
	Normalize(fm, 2, 2, []int8{64, 127}, []int8{0, 1}, true)
	if fm[0] != 10 || fm[1] != 10 {
		t.Fatalf("channel 0 = %v", fm[:2])
	}
	want := int8(int32(10)*127>>6 + 1)
	if fm[2] != want || fm[3] != want {
		t.Fatalf("channel 1 = %v, want %d", fm[2:], want)
	}
}

func TestAddClamp(t *testing.T) {
	dst := []int8{100, -100, 60, 0}
	AddClamp(dst, []int8{100, 50, -80, 5})
	want := []int8{127, 0, 0, 5}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestDownsamplePlacement(t *testing.T) {
	// 2 input channels 4x4 -> 4 output channels 2x2, pad offset 1.
	src := make([]int8, 2*4*4)
	for i := range src {
		src[i] = int8(i + 1)
	}
	dst := make([]int8, 4*2*2)
	DownsampleOptionA(dst, src, 2, 4, 4, 4)

	// Output channels 0 and 3 stay zero.
	for i := 0; i < 4; i++ {
		if dst[i] != 0 {
			t.Fatalf("pad channel 0 nonzero at %d", i)
		}
		if dst[3*4+i] != 0 {
			t.Fatalf("pad channel 3 nonzero at %d", i)
		}
	}
	// Channel 0 -> channel 1, elements (0,0),(0,2),(2,0),(2,2).
	wantc0 := []int8{src[0], src[2], src[8], src[10]}
	for i, want := range wantc0 {
		if dst[4+i] != want {
			t.Fatalf("out channel 1 elem %d = %d, want %d", i, dst[4+i], want)
		}
	}
	// Channel 1 -> channel 2.
	wantc1 := []int8{src[16], src[18], src[24], src[26]}
	for i, want := range wantc1 {
		if dst[8+i] != want {
			t.Fatalf("out channel 2 elem %d = %d, want %d", i, dst[8+i], want)
		}
	}
}

func TestAvgPool8x8(t *testing.T) {
	src := make([]int8, 2*64)
	for i := 0; i < 64; i++ {
		src[i] = 64
	}
	for i := 64; i < 128; i++ {
		src[i] = -1
	}
	dst := make([]int8, 2)
	AvgPool8x8(dst, src, 2)
	if dst[0] != 64 {
		t.Fatalf("channel 0 = %d, want 64", dst[0])
	}
	// Sum -64 >> 6 floors to -1.
	if dst[1] != -1 {
		t.Fatalf("channel 1 = %d, want -1", dst[1])
	}
}

func TestDense(t *testing.T) {
	pooled := []int8{2, -3}
	weights := []int8{
		10, 20, // class 0
		-1, 1, // class 1
	}
	bias := []int8{5, 0}
	logits := make([]int32, 2)
	Dense(logits, pooled, weights, bias, 2, 2)
	if logits[0] != 2*10+(-3)*20+5 {
		t.Fatalf("logit 0 = %d", logits[0])
	}
	if logits[1] != -2-3 {
		t.Fatalf("logit 1 = %d", logits[1])
	}
}

func TestArgmaxTieBreak(t *testing.T) {
	if got := Argmax([]int32{3, 7, 7, 1}); got != 1 {
		t.Fatalf("Argmax = %d, want 1 (first max wins)", got)
	}
	if got := Argmax(nil); got != -1 {
		t.Fatalf("Argmax(nil) = %d, want -1", got)
	}
}

func TestDoubleBufferSwap(t *testing.T) {
	db := NewDoubleBuffer(4)
	db.Current()[0] = 1
	db.Swap()
	if db.Current()[0] != 0 {
		t.Fatal("Swap did not flip buffers")
	}
	if db.Other()[0] != 1 {
		t.Fatal("Other lost previous Current")
	}
	db.Swap()
	if db.Current()[0] != 1 {
		t.Fatal("second Swap did not restore")
	}
}
