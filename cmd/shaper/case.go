package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shaper/casing"
)

func newCaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "case CONVENTION NAME...",
		Short:   "Convert names with a case convention",
		Example: "  shaper case snake_case HTTPServer userID",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := casing.Lookup(args[0])
			if err != nil {
				return err
			}

			for _, name := range args[1:] {
				fmt.Fprintln(cmd.OutOrStdout(), fn(name))
			}

			return nil
		},
	}
}

func newConventionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conventions",
		Short: "List the known case conventions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range casing.Conventions() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return nil
		},
	}
}
