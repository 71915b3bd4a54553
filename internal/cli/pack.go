package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dialectnet-go/internal/blob"
	"dialectnet-go/internal/runtime"
)

func newPackCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Re-encode a plain weight blob into BlockDialect format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Weights == "" {
				return errors.New("missing weights path (--weights)")
			}
			if outPath == "" {
				return errors.New("missing output path (--out)")
			}

			netCfg, err := runtime.Preset(cfg.Preset)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(cfg.Weights)
			if err != nil {
				return fmt.Errorf("read weights: %w", err)
			}
			h, payload, err := blob.Parse(data)
			if err != nil {
				return err
			}
			if h.Encoded() {
				return fmt.Errorf("%s is already block-encoded", cfg.Weights)
			}

			// Walk the plain records in consumption order and re-emit
			// each tensor through the encoder.
			cursor := blob.NewCursor(h, payload, nil, 0)
			w := blob.NewWriter(true)
			for _, spec := range netCfg.TensorSpecs() {
				vals, err := cursor.Next(spec.Count)
				if err != nil {
					return fmt.Errorf("tensor %s: %w", spec.Name, err)
				}
				w.AppendTensor(vals)
			}

			out := w.Finish()
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "packed %d -> %d bytes (%d tensors)\n",
				len(data), len(out), len(netCfg.TensorSpecs()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output blob path")
	return cmd
}
