package runtime

import "fmt"

// NetworkConfig describes one member of the fixed 3-stage residual
// family: 3x3 convolutions, stage channels widening 16/32/64, a global
// 8x8 average pool and a 10-class linear head. BlocksPerStage is the
// "n" of the family; the depth is 6n+2.
type NetworkConfig struct {
	Name           string
	BlocksPerStage int
	InputChannels  int
	InputSize      int
	StageChannels  [3]int
	Classes        int
}

func cifarConfig(name string, n int) NetworkConfig {
	return NetworkConfig{
		Name:           name,
		BlocksPerStage: n,
		InputChannels:  3,
		InputSize:      32,
		StageChannels:  [3]int{16, 32, 64},
		Classes:        10,
	}
}

// Preset returns a named network configuration.
func Preset(name string) (NetworkConfig, error) {
	switch name {
	case "resnet20":
		return cifarConfig(name, 3), nil
	case "resnet110":
		return cifarConfig(name, 18), nil
	default:
		return NetworkConfig{}, fmt.Errorf("unknown network preset %q", name)
	}
}

// BufferLen is the size of one working feature-map buffer: the first
// stage is the widest in elements, later stages shrink spatially faster
// than they widen.
func (c NetworkConfig) BufferLen() int {
	return c.StageChannels[0] * c.InputSize * c.InputSize
}

// InputLen is the expected flat input image length.
func (c NetworkConfig) InputLen() int {
	return c.InputChannels * c.InputSize * c.InputSize
}

// VerifiedLayers is the number of golden-table entries a full run
// consumes: the stem convolution, every residual block, and the pool.
func (c NetworkConfig) VerifiedLayers() int {
	return 1 + 3*c.BlocksPerStage + 1
}

// TensorSpec names one tensor record and its element count.
type TensorSpec struct {
	Name  string
	Count int
}

// TensorSpecs lists every tensor record of a weight blob for this
// network, in the exact order the engine consumes them. The cursor is a
// single forward-only stream, so this order is part of the format.
func (c NetworkConfig) TensorSpecs() []TensorSpec {
	var specs []TensorSpec
	convNorm := func(prefix string, inC, outC int) {
		specs = append(specs,
			TensorSpec{prefix + ".w", outC * inC * 9},
			TensorSpec{prefix + ".scale", outC},
			TensorSpec{prefix + ".bias", outC},
		)
	}

	convNorm("conv1", c.InputChannels, c.StageChannels[0])
	prev := c.StageChannels[0]
	for s := 0; s < 3; s++ {
		outC := c.StageChannels[s]
		for b := 0; b < c.BlocksPerStage; b++ {
			inC := outC
			if b == 0 {
				inC = prev
			}
			name := fmt.Sprintf("layer%d_%d", s+1, b)
			convNorm(name+".conv1", inC, outC)
			convNorm(name+".conv2", outC, outC)
		}
		prev = outC
	}
	specs = append(specs,
		TensorSpec{"fc.w", c.Classes * c.StageChannels[2]},
		TensorSpec{"fc.b", c.Classes},
	)
	return specs
}
