package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parthivsnair/Resume-Validator/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous matches with statistics, filters and csv export",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()
		flags := cmd.Flags()

		search, _ := flags.GetString("search")
		bandFlag, _ := flags.GetString("band")
		sortFlag, _ := flags.GetString("sort")

		band, err := history.ParseBand(bandFlag)
		if err != nil {
			logger.Fatal("parsing band", zap.Error(err))
		}
		key, err := history.ParseSortKey(sortFlag)
		if err != nil {
			logger.Fatal("parsing sort key", zap.Error(err))
		}

		agg := newAggregator(config, logger)

		records, err := agg.Fetch(cmd.Context())
		if err != nil {
			fatal(logger, "fetching match history", err)
		}

		filtered := history.Run(logger, []history.Filter{
			history.NewSearch(strings.TrimSpace(search)),
			history.NewBand(band),
		}, records)

		sorted, err := history.Sort(filtered, key)
		if err != nil {
			logger.Fatal("sorting matches", zap.Error(err))
		}

		out := cmd.OutOrStdout()
		printSummary(out, agg.Stats(records))
		fmt.Fprintln(out)
		printMatches(out, sorted, config.History.DateLayout)

		if export, _ := flags.GetBool("export"); export {
			path, _ := flags.GetString("output")
			if path == "" {
				path = config.History.ExportFile
			}

			written, err := history.ExportFile(path, sorted, config.History.DateLayout)
			if err != nil {
				logger.Fatal("exporting match history", zap.Error(err))
			}
			logger.Info("exported match history", zap.String("filename", written), zap.Int("rows", len(sorted)))
		}
	},
}

func init() {
	historyCmd.Flags().StringP("search", "s", "", "keep matches whose match, resume or job id contains this text")
	historyCmd.Flags().StringP("band", "b", history.BandAll, "score band: "+strings.Join(history.BandLabels(), ", "))
	historyCmd.Flags().String("sort", string(history.SortNewest), "order: newest, oldest, highest, lowest")
	historyCmd.Flags().BoolP("export", "e", false, "export the listed matches to csv")
	historyCmd.Flags().StringP("output", "o", "", "csv file path (default is history.export-file)")

	rootCmd.AddCommand(historyCmd)
}
