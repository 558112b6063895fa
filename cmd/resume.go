package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Upload and inspect resumes",
}

var resumeUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a resume (pdf, docx, doc or txt) and print what was extracted",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, config := setup()
		client := newClient(config, logger)

		doc, err := matcher.ReadDocument(args[0])
		if err != nil {
			fatal(logger, "reading resume", err)
		}

		resume, err := client.UploadResume(cmd.Context(), doc)
		if err != nil {
			fatal(logger, "uploading resume", err)
		}

		logger.Info("resume uploaded", zap.String("resume_id", resume.ID))
		printResume(cmd.OutOrStdout(), resume)
	},
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored resumes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()

		resumes, err := newClient(config, logger).ListResumes(cmd.Context())
		if err != nil {
			fatal(logger, "listing resumes", err)
		}

		logger.Info("getting resumes", zap.Int("count", resumes.Len()))
		t := newTable(cmd.OutOrStdout())
		for _, r := range resumes.Items {
			fmt.Fprintf(t, "%s\t%s\t%s\n", r.ID, r.Filename, list(r.ExtractedSkills))
		}
		t.Flush()
	},
}

var resumePreviewCmd = &cobra.Command{
	Use:   "preview <resume-id>",
	Short: "Print the extracted text of a stored resume",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, config := setup()

		resumes, err := newClient(config, logger).ListResumes(cmd.Context())
		if err != nil {
			fatal(logger, "listing resumes", err)
		}

		resume := resumes.FindByID(args[0])
		if resume == nil {
			logger.Fatal("resume with given id not found",
				zap.String("resume_id", args[0]),
				zap.Strings("existing filenames", resumes.Filenames()),
			)
		}

		printPreview(cmd.OutOrStdout(), resume)
	},
}

func init() {
	resumeCmd.AddCommand(resumeUploadCmd, resumeListCmd, resumePreviewCmd)
	rootCmd.AddCommand(resumeCmd)
}

// fatal logs err with the text a user should see and exits.
func fatal(logger *zap.Logger, msg string, err error) {
	logger.Fatal(msg, zap.String("reason", matcher.UserMessage(err)), zap.Error(err))
}
