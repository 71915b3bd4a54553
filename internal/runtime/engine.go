package runtime

import (
	"fmt"
	"io"
	"log/slog"

	"dialectnet-go/internal/blob"
	"dialectnet-go/internal/nn"
	"dialectnet-go/internal/verify"
)

const maxChannels = 64

// Engine runs one network over one weight cursor. All buffers are
// allocated at construction and reused across runs; steady-state
// inference does not allocate.
type Engine struct {
	cfg    NetworkConfig
	cursor *blob.Cursor
	hasher *verify.Hasher
	log    *slog.Logger

	work     *nn.DoubleBuffer
	shortcut []int8
	pooled   []int8
	logits   []int32

	// Private copies of per-layer parameters. The cursor's scratch is
	// overwritten on every read, so anything needed across two reads
	// lives here.
	scale []int8
	dense []int8
}

type Result struct {
	Logits  []int32
	Class   int
	Checked int
}

// New builds an engine. golden may be nil to run without checksum
// verification; logger may be nil to silence telemetry.
func New(cfg NetworkConfig, cursor *blob.Cursor, golden []uint32, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		cfg:      cfg,
		cursor:   cursor,
		hasher:   verify.NewHasher(golden),
		log:      logger,
		work:     nn.NewDoubleBuffer(cfg.BufferLen()),
		shortcut: make([]int8, cfg.BufferLen()),
		pooled:   make([]int8, cfg.StageChannels[2]),
		logits:   make([]int32, cfg.Classes),
		scale:    make([]int8, maxChannels),
		dense:    make([]int8, cfg.Classes*cfg.StageChannels[2]),
	}
}

// Run performs one inference over input, a flat channel-major int8 image
// of InputLen values. The weight cursor and golden cursor are rewound
// first, so Run may be called repeatedly on the same engine.
func (e *Engine) Run(input []int8) (Result, error) {
	if len(input) != e.cfg.InputLen() {
		return Result{}, fmt.Errorf("input length %d, want %d", len(input), e.cfg.InputLen())
	}
	e.cursor.Reset()
	e.hasher.Reset()

	size := e.cfg.InputSize
	c0 := e.cfg.StageChannels[0]

	// Stem: conv 3->16 + normalize + relu.
	if err := e.convNorm(input, e.work.Current(), e.cfg.InputChannels, c0, size, size, 1, true); err != nil {
		return Result{}, err
	}
	if err := e.checkLayer("conv1", e.work.Current()[:c0*size*size]); err != nil {
		return Result{}, err
	}

	// Three stages; spatial size halves when the channel count doubles.
	h := size
	inC := c0
	for s := 0; s < 3; s++ {
		outC := e.cfg.StageChannels[s]
		stride := 1
		if s > 0 {
			stride = 2
		}
		if err := e.runStage(s+1, inC, outC, h, stride); err != nil {
			return Result{}, err
		}
		h /= stride
		inC = outC
	}

	// Head: 8x8 global average pool, then the dense layer.
	cLast := e.cfg.StageChannels[2]
	nn.AvgPool8x8(e.pooled, e.work.Current(), cLast)
	if err := e.checkLayer("pool", e.pooled); err != nil {
		return Result{}, err
	}

	w, err := e.cursor.Next(e.cfg.Classes * cLast)
	if err != nil {
		return Result{}, fmt.Errorf("dense weights: %w", err)
	}
	copy(e.dense, w)
	b, err := e.cursor.Next(e.cfg.Classes)
	if err != nil {
		return Result{}, fmt.Errorf("dense bias: %w", err)
	}
	nn.Dense(e.logits, e.pooled, e.dense, b, e.cfg.Classes, cLast)

	res := Result{
		Logits:  append([]int32(nil), e.logits...),
		Class:   nn.Argmax(e.logits),
		Checked: e.hasher.Checked(),
	}
	e.log.Info("inference complete", "class", res.Class, "layers_checked", res.Checked)
	return res, nil
}

// LayerChecksums returns the per-layer checksums recorded by the last
// Run, in execution order. Capturing these from a trusted run is how a
// golden table is produced.
func (e *Engine) LayerChecksums() []uint32 {
	return e.hasher.Computed()
}

// runStage executes BlocksPerStage residual blocks, ping-ponging the
// working buffers. Block 0 carries the stage's channel change and
// stride; the rest are shape-preserving.
func (e *Engine) runStage(stage, inC, outC, h, strideFirst int) error {
	for i := 0; i < e.cfg.BlocksPerStage; i++ {
		name := fmt.Sprintf("layer%d_%d", stage, i)

		bInC, bH, bStride := inC, h, strideFirst
		if i > 0 {
			bInC, bH, bStride = outC, h/strideFirst, 1
		}

		e.log.Info("block", "name", name, "offset", e.cursor.Offset())
		if err := e.residualBlock(name, bInC, outC, bH, bStride); err != nil {
			return err
		}
		e.work.Swap()
	}
	return nil
}

// residualBlock runs one basic block from work.Current into work.Other.
// Weight order on the cursor is fixed: conv1 weights, conv1 scale+bias,
// conv2 weights, conv2 scale+bias; the shortcut consumes none.
func (e *Engine) residualBlock(name string, inC, outC, h, stride int) error {
	in := e.work.Current()
	out := e.work.Other()
	outH := h / stride
	outLen := outC * outH * outH

	if err := e.convNorm(in, out, inC, outC, h, h, stride, true); err != nil {
		return fmt.Errorf("%s conv1: %w", name, err)
	}

	if stride != 1 || inC != outC {
		nn.DownsampleOptionA(e.shortcut, in, inC, outC, h, h)
	} else {
		copy(e.shortcut[:outLen], in[:outLen])
	}

	// The input buffer is free once the shortcut is captured; reuse it
	// as conv2 scratch so a block needs no third feature-map buffer.
	if err := e.convNorm(out, in, outC, outC, outH, outH, 1, false); err != nil {
		return fmt.Errorf("%s conv2: %w", name, err)
	}

	copy(out[:outLen], in[:outLen])
	nn.AddClamp(out[:outLen], e.shortcut[:outLen])

	return e.checkLayer(name, out[:outLen])
}

// convNorm runs one convolution plus its fused normalization, consuming
// conv weights then scale then bias from the cursor.
func (e *Engine) convNorm(src, dst []int8, inC, outC, h, w, stride int, relu bool) error {
	weights, err := e.cursor.Next(outC * inC * 9)
	if err != nil {
		return fmt.Errorf("conv weights: %w", err)
	}
	nn.Conv3x3(dst, src, weights, inC, outC, h, w, stride, 1)

	// Copy the scale vector out of the cursor scratch before the bias
	// read overwrites it.
	s, err := e.cursor.Next(outC)
	if err != nil {
		return fmt.Errorf("norm scale: %w", err)
	}
	copy(e.scale[:outC], s)
	b, err := e.cursor.Next(outC)
	if err != nil {
		return fmt.Errorf("norm bias: %w", err)
	}
	nn.Normalize(dst, outC, (h/stride)*(w/stride), e.scale[:outC], b, relu)
	return nil
}

func (e *Engine) checkLayer(name string, values []int8) error {
	sum, err := e.hasher.Check(name, values)
	if err != nil {
		e.log.Error("layer checksum", "name", name, "checksum", fmt.Sprintf("%#08x", sum), "err", err)
		return err
	}
	e.log.Info("layer checksum", "name", name, "checksum", fmt.Sprintf("%#08x", sum))
	return nil
}
