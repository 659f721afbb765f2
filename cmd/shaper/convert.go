package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shaper/preconf"
)

func newConvertCmd(a *app) *cobra.Command {
	var from, to string

	names := make([]string, 0, len(preconf.Formats()))
	for _, f := range preconf.Formats() {
		names = append(names, f.Name())
	}

	cmd := &cobra.Command{
		Use:   "convert [FILE]",
		Short: "Re-render a document in another format",
		Long: "Reads FILE (or stdin when omitted or \"-\") in one format and writes it to stdout in another.\n" +
			"Mapping key order is kept. Formats: " + strings.Join(names, ", ") + ".",
		Example: "  shaper convert --from json --to yaml config.json",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := preconf.Lookup(from)
			if err != nil {
				return err
			}

			dst, err := preconf.Lookup(to)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			out, err := preconf.Convert(src, dst, data)
			if err != nil {
				return err
			}

			a.logger.Debug("converted document",
				zap.String("from", src.Name()), zap.String("to", dst.Name()),
				zap.Int("in_bytes", len(data)), zap.Int("out_bytes", len(out)))

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", preconf.JSON.Name(), "Input format")
	cmd.Flags().StringVarP(&to, "to", "t", preconf.YAML.Name(), "Output format")

	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	return data, nil
}
