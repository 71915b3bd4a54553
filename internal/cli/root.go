// Package cli provides the dialectnet command-line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var (
	cfgFile string
	cfg     *Config
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dialectnet",
		Short: "Fixed-point residual-network inference over BlockDialect weight blobs",
		Long: `dialectnet runs int8 convolutional-network inference from compact
BlockDialect-encoded (or plain int8) weight blobs, verifying each layer
against a golden checksum table.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			var err error
			cfg, err = LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dialectnet.yaml)")
	rootCmd.PersistentFlags().StringP("weights", "w", "", "Path to weight blob")
	rootCmd.PersistentFlags().StringP("input", "i", "", "Path to raw int8 input image")
	rootCmd.PersistentFlags().StringP("preset", "p", "", "Network preset (resnet20|resnet110)")
	rootCmd.PersistentFlags().String("backend", "", "Block decode backend (software|mmio)")
	rootCmd.PersistentFlags().Bool("verify", true, "Verify layer checksums against the golden table")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newPackCommand())
	rootCmd.AddCommand(newDumpCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
