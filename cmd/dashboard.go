package cmd

import (
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print totals and the most recent matches",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()

		dash, err := newAggregator(config, logger).Dashboard(cmd.Context())
		if err != nil {
			fatal(logger, "loading dashboard", err)
		}

		printDashboard(cmd.OutOrStdout(), dash, config.History.DateLayout)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
