package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"dialectnet-go/internal/codec"
	"dialectnet-go/internal/verify"
	"dialectnet-go/pkg/dialectnet"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one verified inference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Weights == "" {
				return errors.New("missing weights path (--weights)")
			}
			if cfg.Input == "" {
				return errors.New("missing input path (--input)")
			}

			dec, err := newDecoder(cfg.Backend)
			if err != nil {
				return err
			}

			var golden []uint32
			expected, haveGolden := verify.GoldenFor(cfg.Preset)
			logger := newLogger(cfg.Verbose)
			if cfg.Verify {
				if haveGolden {
					golden = expected.Hashes
				} else {
					logger.Warn("no golden table for preset, running unverified", "preset", cfg.Preset)
				}
			}

			session, err := dialectnet.Load(cfg.Weights, dialectnet.Config{
				Preset:  cfg.Preset,
				Decoder: dec,
				Golden:  golden,
				Logger:  logger,
			})
			if err != nil {
				return err
			}

			input, err := readInput(cfg.Input, session.InputLen())
			if err != nil {
				return err
			}

			res, err := session.Run(input)
			if err != nil {
				return err
			}

			if !haveGolden || !cfg.Verify {
				fmt.Fprintf(cmd.OutOrStdout(), "Logits: %v\nPredicted class: %d\n", res.Logits, res.Class)
				return nil
			}

			renderReport(cmd.OutOrStdout(), res, expected)
			if err := expected.CheckResult(res.Logits, res.Class); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "FAIL")
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "PASS")
			return nil
		},
	}
}

func newDecoder(backend string) (codec.Decoder, error) {
	switch backend {
	case "", "software":
		return codec.SoftwareDecoder{}, nil
	case "mmio":
		// Host-side runs drive the register protocol against the
		// simulated peripheral.
		return &codec.MMIODecoder{Regs: &codec.SimRegisterFile{}}, nil
	default:
		return nil, fmt.Errorf("unknown decode backend %q", backend)
	}
}

func readInput(path string, want int) ([]int8, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(raw) != want {
		return nil, fmt.Errorf("input %s: %d bytes, want %d", path, len(raw), want)
	}
	input := make([]int8, len(raw))
	for i, b := range raw {
		input[i] = int8(b)
	}
	return input, nil
}

func renderReport(w io.Writer, res dialectnet.Result, expected verify.Golden) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Class", "Logit", "Expected", "Match"})
	for i, logit := range res.Logits {
		match := "yes"
		if i < len(expected.Logits) && logit != expected.Logits[i] {
			match = "NO"
		}
		want := int32(0)
		if i < len(expected.Logits) {
			want = expected.Logits[i]
		}
		t.AppendRow(table.Row{i, logit, want, match})
	}
	t.AppendFooter(table.Row{"Predicted", res.Class, expected.Class, ""})
	t.Render()
}
