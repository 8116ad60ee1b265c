package main

import (
	"github.com/spf13/cobra"

	"github.com/rackn/gopal/report"
)

var gatherPlugins []string

var gatherCmd = &cobra.Command{
	Use:   "gather",
	Short: "Gather an inventory of this host",
	Long: `Runs the enabled collectors and writes one report. A collector that
fails is recorded in the report's Errors section.

Collectors: system, dmi, net, storage, process.`,
	Args: cobra.NoArgs,
	RunE: runGather,
}

func init() {
	gatherCmd.Flags().StringSliceVar(&gatherPlugins, "plugins", nil, "collectors to run (default: the configured set, or all)")
	rootCmd.AddCommand(gatherCmd)
}

func runGather(cmd *cobra.Command, args []string) error {
	if len(gatherPlugins) > 0 {
		cfg.Plugins.Enable = gatherPlugins
	}
	sys, err := cfg.System()
	if err != nil {
		return err
	}
	r, err := report.Build(cmd.Context(), cfg, sys)
	if err != nil {
		return err
	}
	return r.Encode(cmd.OutOrStdout(), cfg.Output.Format)
}
