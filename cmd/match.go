package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a stored resume against a stored job description",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()

		resumeID, _ := cmd.Flags().GetString("resume-id")
		jobID, _ := cmd.Flags().GetString("job-id")

		m, err := newClient(config, logger).Match(cmd.Context(), resumeID, jobID)
		if err != nil {
			fatal(logger, "matching", err)
		}

		logger.Info("match analysis completed",
			zap.String("match_id", m.MatchID),
			zap.Float64("overall_score", m.OverallScore),
		)
		printMatch(cmd.OutOrStdout(), m)
	},
}

func init() {
	matchCmd.Flags().StringP("resume-id", "r", "", "id of an uploaded resume")
	matchCmd.Flags().StringP("job-id", "J", "", "id of an analyzed job description")
	matchCmd.MarkFlagRequired("resume-id")
	matchCmd.MarkFlagRequired("job-id")

	rootCmd.AddCommand(matchCmd)
}
