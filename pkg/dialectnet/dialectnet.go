// Package dialectnet is the public entry point for running fixed-point
// residual-network inference over BlockDialect weight blobs.
package dialectnet

import (
	"fmt"
	"log/slog"
	"os"

	"dialectnet-go/internal/blob"
	"dialectnet-go/internal/codec"
	"dialectnet-go/internal/runtime"
	"dialectnet-go/internal/verify"
)

// Config selects the network and decode backend for a session.
type Config struct {
	// Preset names the network configuration ("resnet20", "resnet110").
	Preset string

	// Decoder handles encoded blobs; nil selects the software decoder.
	Decoder codec.Decoder

	// Golden, when non-nil, enables per-layer checksum verification.
	Golden []uint32

	// Logger receives per-block progress and checksum telemetry.
	Logger *slog.Logger
}

type Result struct {
	Logits  []int32
	Class   int
	Checked int
}

type BlobInfo struct {
	Path    string
	Encoded bool
	Size    uint32
}

// Session owns one loaded weight blob and its preallocated engine.
// Sessions are not safe for concurrent use; the whole run shares one
// set of buffers.
type Session struct {
	cfg    runtime.NetworkConfig
	engine *runtime.Engine
	info   BlobInfo
}

// Load reads and validates a weight blob and builds an engine for it.
func Load(path string, cfg Config) (*Session, error) {
	netCfg, err := runtime.Preset(cfg.Preset)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	h, payload, err := blob.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse weights %s: %w", path, err)
	}

	dec := cfg.Decoder
	if dec == nil {
		dec = codec.SoftwareDecoder{}
	}
	cursor := blob.NewCursor(h, payload, dec, 0)

	return &Session{
		cfg:    netCfg,
		engine: runtime.New(netCfg, cursor, cfg.Golden, cfg.Logger),
		info:   BlobInfo{Path: path, Encoded: h.Encoded(), Size: h.Size},
	}, nil
}

func (s *Session) Info() BlobInfo {
	return s.info
}

func (s *Session) Network() string {
	return s.cfg.Name
}

// InputLen is the flat input image length the session expects.
func (s *Session) InputLen() int {
	return s.cfg.InputLen()
}

// Run performs one verified inference.
func (s *Session) Run(input []int8) (Result, error) {
	res, err := s.engine.Run(input)
	if err != nil {
		return Result{}, err
	}
	return Result{Logits: res.Logits, Class: res.Class, Checked: res.Checked}, nil
}

// LayerChecksums exposes the checksums of the last run, for producing
// golden tables from a trusted run.
func (s *Session) LayerChecksums() []uint32 {
	return s.engine.LayerChecksums()
}

// GoldenFor returns the compiled-in golden data for a preset, if any.
func GoldenFor(preset string) (verify.Golden, bool) {
	return verify.GoldenFor(preset)
}
