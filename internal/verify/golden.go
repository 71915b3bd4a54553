package verify

import "fmt"

// Golden bundles the expected outputs of one reference run: per-layer
// checksums in execution order, the exact classifier logits, and the
// predicted class.
type Golden struct {
	Hashes []uint32
	Logits []int32
	Class  int
}

// ResNet110 is the reference run of the 54-block network against its
// published weight blob: conv1, 54 residual blocks, pool — 56 entries.
var ResNet110 = Golden{
	Hashes: []uint32{
		0x000b5a22, // conv1
		0x00118597, 0x0014ec61, 0x0016fa4d, 0x00184d58, 0x0016fbfd,
		0x00177787, 0x0016cef7, 0x0016025b, 0x00160ad8, 0x001609e4,
		0x00184fbf, 0x00187c4f, 0x0018e907, 0x00181748, 0x0017631d,
		0x0016c5eb, 0x0017ba0f, 0x00180a8f, // layer1_0..17
		0x00081c5e, 0x000835b8, 0x0007bcce, 0x000739a5, 0x0006b640,
		0x0006ad7d, 0x0006939c, 0x00061fba, 0x0005a581, 0x0005e459,
		0x0005d6cb, 0x00063987, 0x00066115, 0x00067db7, 0x0006aa3d,
		0x0006fcfe, 0x00069aa2, 0x0006c581, // layer2_0..17
		0x00026c25, 0x0001d239, 0x000178f0, 0x000131a2, 0x000161d3,
		0x000108f9, 0x0000eb92, 0x0000a0da, 0x0000b111, 0x0000975a,
		0x000071b2, 0x0000a625, 0x0000a842, 0x0000893a, 0x0000c387,
		0x0000aedf, 0x0000b668, 0x00024342, // layer3_0..17
		0x000008f5, // pool
	},
	Logits: []int32{-10517, -52, -2758, -4096, 3954, 5469, -747, -103, 3491, 4913},
	Class:  5,
}

// CheckResult compares a run's logits and predicted class against the
// golden values. Exact integer equality, no tolerance.
func (g Golden) CheckResult(logits []int32, class int) error {
	if len(logits) != len(g.Logits) {
		return fmt.Errorf("logit count %d, want %d", len(logits), len(g.Logits))
	}
	for i, l := range logits {
		if l != g.Logits[i] {
			return fmt.Errorf("logit %d = %d, expected %d", i, l, g.Logits[i])
		}
	}
	if class != g.Class {
		return fmt.Errorf("predicted class %d, expected %d", class, g.Class)
	}
	return nil
}

// GoldenFor returns the compiled-in golden data for a network preset
// name, or false when none is published.
func GoldenFor(preset string) (Golden, bool) {
	switch preset {
	case "resnet110":
		return ResNet110, true
	default:
		return Golden{}, false
	}
}
