package cli

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dialectnet-go/internal/blob"
	"dialectnet-go/internal/codec"
	"dialectnet-go/internal/runtime"
)

func newDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the structure of a weight blob",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Weights == "" {
				return errors.New("missing weights path (--weights)")
			}

			data, err := os.ReadFile(cfg.Weights)
			if err != nil {
				return fmt.Errorf("read weights: %w", err)
			}
			h, payload, err := blob.Parse(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			format := "plain"
			if h.Encoded() {
				format = "encoded"
			}
			fmt.Fprintf(out, "magic=%#08x (%s) payload=%d checksum=%#08x reserved=%d\n",
				h.Magic, format, h.Size, h.Checksum, h.Reserved)

			if h.Encoded() {
				return dumpEncoded(out, payload)
			}
			return dumpPlain(out, payload)
		},
	}
}

// dumpEncoded walks the self-describing tensor record headers.
func dumpEncoded(out io.Writer, payload []byte) error {
	offset := 0
	idx := 0
	for offset+8 <= len(payload) {
		elems := binary.LittleEndian.Uint32(payload[offset:])
		blocks := binary.LittleEndian.Uint32(payload[offset+4:])
		fmt.Fprintf(out, "tensor %3d offset=%#06x elements=%d blocks=%d\n", idx, offset, elems, blocks)
		offset += 8 + int(blocks)*codec.BlockBytes
		offset = (offset + 3) &^ 3
		idx++
	}
	if offset != len(payload) {
		return fmt.Errorf("trailing bytes at offset %d", offset)
	}
	return nil
}

// dumpPlain needs the network preset: plain records carry no sizes of
// their own.
func dumpPlain(out io.Writer, payload []byte) error {
	netCfg, err := runtime.Preset(cfg.Preset)
	if err != nil {
		return err
	}
	offset := 0
	for _, spec := range netCfg.TensorSpecs() {
		fmt.Fprintf(out, "%-22s offset=%#06x elements=%d\n", spec.Name, offset, spec.Count)
		offset = (offset + spec.Count + 3) &^ 3
	}
	if offset != len(payload) {
		return fmt.Errorf("blob size %d does not match preset %s (want %d payload bytes)",
			len(payload), netCfg.Name, offset)
	}
	return nil
}
