package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interviewctl",
		Short: "Operator tools for the interview service",
		Long: `interviewctl previews interview plans and follows the interview event
stream published to NATS.`,
		Version:      version,
		SilenceUsage: true,
	}

	noColor := cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *noColor {
			color.NoColor = true
		}
	}

	cmd.AddCommand(newPlanCommand())
	cmd.AddCommand(newWatchCommand())

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
