package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "shaper",
		Short: "Reshape names and structured documents",
		Long: `shaper exposes the structural transform tooling on the command line:
case conventions, interchange format conversion and policy file checks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newCaseCmd())
	cmd.AddCommand(newConventionsCmd())
	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newPolicyCmd(a))

	return cmd
}

func (a *app) setupLogger() error {
	if !a.verbose {
		return nil
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.logger = logger

	return nil
}
