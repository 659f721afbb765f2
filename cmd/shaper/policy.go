package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shaper/internal/mapping"
)

func newPolicyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy {check|fmt}",
		Short: "Work with record policy files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newPolicyCheckCmd(a))
	cmd.AddCommand(newPolicyFmtCmd(a))

	return cmd
}

// newPolicyCheckCmd checks the settings of policy files. Type names are not resolved:
// only the program owning the types can do that.
func newPolicyCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Check policy files for unknown settings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0

			for _, path := range args {
				pf, err := mapping.LoadFile(path)
				if err != nil {
					return err
				}

				res := mapping.Check(pf, nil)
				a.logger.Debug("checked policy file", zap.String("file", path),
					zap.Int("policies", len(pf.Policies)), zap.Int("errors", len(res.Errors)))

				for _, d := range res.Errors {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: error: %s\n", path, d)
				}

				for _, d := range res.Warnings {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: warning: %s\n", path, d)
				}

				if res.HasErrors() {
					invalid++
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d policy files are invalid", invalid, len(args))
			}

			return nil
		},
	}
}

func newPolicyFmtCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Rewrite a policy file in canonical form with defaults applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := mapping.LoadFile(args[0])
			if err != nil {
				return err
			}

			if write {
				a.logger.Debug("rewriting policy file", zap.String("file", args[0]))
				return mapping.WriteFile(pf, args[0])
			}

			data, err := mapping.Marshal(pf)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to FILE")

	return cmd
}
