package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Analyze and list job descriptions",
}

var jobAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a job description and print its requirements",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()

		in, err := jobInputFromFlags(cmd)
		if err != nil {
			fatal(logger, "reading job description", err)
		}

		job, err := newClient(config, logger).AnalyzeJob(cmd.Context(), in)
		if err != nil {
			fatal(logger, "analyzing job description", err)
		}

		logger.Info("job description analyzed", zap.String("job_id", job.ID))
		printJob(cmd.OutOrStdout(), job)
	},
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored job descriptions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()

		jobs, err := newClient(config, logger).ListJobs(cmd.Context())
		if err != nil {
			fatal(logger, "listing jobs", err)
		}

		logger.Info("getting jobs", zap.Int("count", jobs.Len()))
		t := newTable(cmd.OutOrStdout())
		for _, j := range jobs.Items {
			fmt.Fprintf(t, "%s\t%s\t%s\n", j.ID, j.Title, list(j.RequiredSkills))
		}
		t.Flush()
	},
}

var jobSamplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Print the built-in sample job descriptions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for i, s := range matcher.SampleJobs {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n   %s\n\n", i+1, s.Title, s.Description)
		}
	},
}

func init() {
	jobAnalyzeCmd.Flags().StringP("title", "t", "", "job title")
	jobAnalyzeCmd.Flags().String("description", "", "job description text")
	jobAnalyzeCmd.Flags().String("description-file", "", "file with the job description text")
	jobAnalyzeCmd.Flags().Int("sample", 0, "use the built-in sample job with this number (see 'job samples')")

	jobCmd.AddCommand(jobAnalyzeCmd, jobListCmd, jobSamplesCmd)
	rootCmd.AddCommand(jobCmd)
}

func jobInputFromFlags(cmd *cobra.Command) (matcher.JobInput, error) {
	flags := cmd.Flags()

	sample, _ := flags.GetInt("sample")
	if sample != 0 {
		if sample < 1 || sample > len(matcher.SampleJobs) {
			return matcher.JobInput{}, fmt.Errorf("sample must be between 1 and %d", len(matcher.SampleJobs))
		}
		return matcher.SampleJobs[sample-1], nil
	}

	title, _ := flags.GetString("title")
	description, _ := flags.GetString("description")

	if file, _ := flags.GetString("description-file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return matcher.JobInput{}, err
		}
		description = string(data)
	}

	return matcher.JobInput{Title: title, Description: description}, nil
}
