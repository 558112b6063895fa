package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the matching service is reachable",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()

		health, err := newClient(config, logger).Health(cmd.Context())
		if err != nil {
			fatal(logger, "checking service health", err)
		}

		logger.Debug("service health", zap.String("status", health.Status), zap.String("timestamp", health.Timestamp))
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", config.API.URL, health.Status)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
