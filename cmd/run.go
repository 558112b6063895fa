package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parthivsnair/Resume-Validator/internal/history"
	"github.com/parthivsnair/Resume-Validator/internal/matcher"
	"github.com/parthivsnair/Resume-Validator/internal/workflow"
)

const (
	PromptHistory   = "Match History"
	PromptDashboard = "Dashboard"
	PromptReset     = "Start Over"
	PromptExit      = "Exit"
	PromptManualJob = "Enter a job description"
	PromptBack      = "back"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk through upload, job analysis and matching interactively",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

type session struct {
	wf     *workflow.Workflow
	agg    *history.Aggregator
	logger *zap.Logger
	config *Config
	out    io.Writer
}

// run is the interactive workflow of the cli.
func run(cmd *cobra.Command) {
	ctx := cmd.Context()
	logger, config := setup()

	client := newClient(config, logger)
	s := &session{
		wf:     workflow.New(client, logger),
		agg:    history.New(client, logger),
		logger: logger,
		config: config,
		out:    cmd.OutOrStdout(),
	}

	logger.Info("starting the resume-matcher", zap.String("version", version), zap.String("api_url", config.API.URL))

	for {
		step := s.wf.NextStep()
		fmt.Fprintf(s.out, "\n%s\n", step.Description())

		menu := promptui.Select{
			Label: "Next step",
			Items: menuItems(step),
		}

		_, action, err := menu.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.String("reason", "prompt closed"))
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := s.handle(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			s.report(err)
		}
	}
}

// menuItems puts the action of step first. Actions that cannot run yet are left out.
func menuItems(step workflow.Step) []string {
	items := []string{step.Action()}

	for _, s := range []workflow.Step{workflow.StepEmpty, workflow.StepResumeOnly, workflow.StepResumeAndJob, workflow.StepMatched} {
		if s >= step {
			continue
		}
		items = append(items, s.Action())
	}

	return append(items, PromptHistory, PromptDashboard, PromptReset, PromptExit)
}

func (s *session) handle(ctx context.Context, action string) error {
	switch action {
	case workflow.StepEmpty.Action():
		return s.uploadResume(ctx)
	case workflow.StepResumeOnly.Action():
		return s.addJob(ctx)
	case workflow.StepResumeAndJob.Action():
		return s.analyze(ctx)
	case workflow.StepMatched.Action():
		return s.viewResults()
	case PromptHistory:
		return s.history(ctx)
	case PromptDashboard:
		dash, err := s.agg.Dashboard(ctx)
		if err != nil {
			return err
		}
		printDashboard(s.out, dash, s.config.History.DateLayout)
		return nil
	case PromptReset:
		s.wf.Reset()
		return nil
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "exit selected"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// report prints a recoverable failure and keeps the session going.
func (s *session) report(err error) {
	switch {
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrAbort):
		return
	case errors.Is(err, workflow.ErrStale):
		s.logger.Info("request result dropped", zap.String("reason", "session reset"))
	default:
		s.logger.Error("action failed", zap.String("reason", matcher.UserMessage(err)), zap.Error(err))
	}
}

func (s *session) uploadResume(ctx context.Context) error {
	prompt := promptui.Prompt{
		Label: "Resume file (" + strings.Join(matcher.SupportedTypes, ", ") + ")",
		Validate: func(path string) error {
			return matcher.CheckDocumentPath(strings.TrimSpace(path))
		},
	}

	path, err := prompt.Run()
	if err != nil {
		return err
	}

	doc, err := matcher.ReadDocument(strings.TrimSpace(path))
	if err != nil {
		return err
	}

	resume, err := s.wf.UploadResume(ctx, doc)
	if err != nil {
		return err
	}

	printResume(s.out, resume)
	s.warnStale()
	return nil
}

func (s *session) addJob(ctx context.Context) error {
	items := []string{PromptManualJob}
	for _, sample := range matcher.SampleJobs {
		items = append(items, sample.Title)
	}

	choose := promptui.Select{
		Label: "Job description",
		Items: append(items, PromptBack),
	}

	idx, selected, err := choose.Run()
	if err != nil {
		return err
	}

	var in matcher.JobInput
	switch selected {
	case PromptBack:
		return nil
	case PromptManualJob:
		in, err = promptJob()
		if err != nil {
			return err
		}
	default:
		in = matcher.SampleJobs[idx-1]
	}

	job, err := s.wf.AnalyzeJob(ctx, in)
	if err != nil {
		return err
	}

	printJob(s.out, job)
	s.warnStale()
	return nil
}

func promptJob() (matcher.JobInput, error) {
	notEmpty := func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New("must not be empty")
		}
		return nil
	}

	title, err := (&promptui.Prompt{Label: "Job title", Validate: notEmpty}).Run()
	if err != nil {
		return matcher.JobInput{}, err
	}

	description, err := (&promptui.Prompt{Label: "Job description", Validate: notEmpty}).Run()
	if err != nil {
		return matcher.JobInput{}, err
	}

	return matcher.JobInput{Title: title, Description: description}, nil
}

func (s *session) analyze(ctx context.Context) error {
	fmt.Fprintln(s.out, "Analyzing match...")

	m, err := s.wf.Analyze(ctx)
	if err != nil {
		return err
	}

	printMatch(s.out, m)
	return nil
}

func (s *session) viewResults() error {
	m := s.wf.State().Match()
	if m == nil {
		return workflow.ErrNotReady
	}

	printMatch(s.out, m)
	s.warnStale()
	return nil
}

// warnStale tells the user when the held match no longer belongs to the held resume and job.
func (s *session) warnStale() {
	if s.wf.State().Stale() {
		fmt.Fprintln(s.out, "\nThe current results were computed for a different resume or job. Run the analysis again to refresh them.")
	}
}

func (s *session) history(ctx context.Context) error {
	records, err := s.agg.Fetch(ctx)
	if err != nil {
		return err
	}

	sorted, err := history.Sort(records, history.SortNewest)
	if err != nil {
		return err
	}

	printSummary(s.out, s.agg.Stats(records))
	fmt.Fprintln(s.out)
	printMatches(s.out, sorted, s.config.History.DateLayout)
	return nil
}
