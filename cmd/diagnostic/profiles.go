package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/screening-diagnostic/internal/observability"
	"github.com/jonathan/screening-diagnostic/internal/profiles"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles [KEY]",
	Short: "Show the job profiles résumés are scored against",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	registry, err := profiles.Default()
	if err != nil {
		return err
	}

	list := registry.List()
	if len(args) == 1 {
		profile, err := registry.Get(args[0])
		if err != nil {
			return err
		}
		list = []types.JobProfile{profile}
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	for _, p := range list {
		printer.PrintProfile(p)
	}
	return nil
}
