package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parthivsnair/Resume-Validator/internal/logger"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show a stored match with its resume and job description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log, config := setup()
		ctx := cmd.Context()

		detail, err := newAggregator(config, log).Detail(ctx, args[0])
		if err != nil {
			fatal(log, "loading match detail", err)
		}

		out := cmd.OutOrStdout()
		printDetail(out, detail, config.History.DateLayout)

		if advise, _ := cmd.Flags().GetBool("advise"); !advise {
			return
		}

		m := detail.Match
		log = logger.WithMatch(log, m.ResumeID, m.JobID, m.MatchID)

		advisor, err := newAdvisor(ctx, config.AI, log)
		if err != nil {
			log.Fatal("building ai advisor", zap.Error(err))
		}

		advice, err := advisor.Advise(ctx, detail)
		if err != nil {
			log.Fatal("writing advice", zap.Error(err))
		}

		printAdvice(out, advice)
	},
}

func init() {
	showCmd.Flags().BoolP("advise", "a", false, "ask the configured ai provider for improvement advice")

	rootCmd.AddCommand(showCmd)
}
