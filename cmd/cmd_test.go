package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parthivsnair/Resume-Validator/internal/history"
	"github.com/parthivsnair/Resume-Validator/internal/matcher"
	"github.com/parthivsnair/Resume-Validator/internal/workflow"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()

	v := viper.New()
	v.SetDefault("api.url", defaultAPIURL)
	v.SetDefault("history.date-layout", history.DefaultDateLayout)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatalf("reading config: %v", err)
	}
	return v
}

func TestDecodeConfig(t *testing.T) {
	v := newViper(t, `
api:
  url: https://matcher.example.com
  timeout: 30s
  token-file: /run/secrets/token
ai:
  enabled: true
  provider: gemini
  gemini:
    model: gemini-2.5-flash
`)

	config, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.API.URL != "https://matcher.example.com" {
		t.Fatalf("unexpected url: %s", config.API.URL)
	}
	if config.API.Timeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", config.API.Timeout)
	}
	if config.History.DateLayout != history.DefaultDateLayout {
		t.Fatalf("expected default date layout, got %q", config.History.DateLayout)
	}
	if !config.AI.Enabled || config.AI.Gemini == nil || config.AI.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected ai config: %+v", config.AI)
	}
}

func TestDecodeConfigDefaults(t *testing.T) {
	config, err := decodeConfig(newViper(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.API.URL != defaultAPIURL {
		t.Fatalf("expected default url, got %q", config.API.URL)
	}
	if config.API.Timeout != 0 {
		t.Fatalf("expected no timeout by default, got %s", config.API.Timeout)
	}
	if config.AI.Enabled {
		t.Fatalf("expected ai to be disabled by default")
	}
}

func TestDecodeConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad url", yaml: "api:\n  url: not a url\n"},
		{name: "negative timeout", yaml: "api:\n  timeout: -1s\n"},
		{name: "unknown provider", yaml: "ai:\n  provider: other\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeConfig(newViper(t, tt.yaml)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestResolveToken(t *testing.T) {
	token, err := resolveToken(&APIConfig{})
	if err != nil || token != "" {
		t.Fatalf("expected optional empty token, got %q, %v", token, err)
	}

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("secret\n"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}

	token, err = resolveToken(&APIConfig{Token: "inline", TokenFile: path})
	if err != nil || token != "secret" {
		t.Fatalf("expected token from file, got %q, %v", token, err)
	}

	if _, err := resolveToken(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewAdvisorDisabled(t *testing.T) {
	if _, err := newAdvisor(t.Context(), &AIConfig{}, nil); err == nil {
		t.Fatalf("expected error when ai is disabled")
	}
	if _, err := newAdvisor(t.Context(), &AIConfig{Enabled: true, Provider: "other"}, nil); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestMenuItems(t *testing.T) {
	tests := []struct {
		step workflow.Step
		want []string
	}{
		{step: workflow.StepEmpty, want: []string{"Upload Resume"}},
		{step: workflow.StepResumeOnly, want: []string{"Add Job Description", "Upload Resume"}},
		{step: workflow.StepResumeAndJob, want: []string{"Analyze Match", "Upload Resume", "Add Job Description"}},
		{step: workflow.StepMatched, want: []string{"View Results", "Upload Resume", "Add Job Description", "Analyze Match"}},
	}

	for _, tt := range tests {
		want := append(tt.want, PromptHistory, PromptDashboard, PromptReset, PromptExit)
		if got := menuItems(tt.step); !reflect.DeepEqual(got, want) {
			t.Fatalf("step %s: expected %v, got %v", tt.step, want, got)
		}
	}
}

func newJobCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "analyze"}
	cmd.Flags().StringP("title", "t", "", "")
	cmd.Flags().String("description", "", "")
	cmd.Flags().String("description-file", "", "")
	cmd.Flags().Int("sample", 0, "")
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestJobInputFromFlags(t *testing.T) {
	in, err := jobInputFromFlags(newJobCommand(t, "--sample", "2"))
	if err != nil || in != matcher.SampleJobs[1] {
		t.Fatalf("expected second sample, got %+v, %v", in, err)
	}

	if _, err := jobInputFromFlags(newJobCommand(t, "--sample", "9")); err == nil {
		t.Fatalf("expected error for unknown sample")
	}

	path := filepath.Join(t.TempDir(), "job.txt")
	if err := os.WriteFile(path, []byte("Build APIs in Go"), 0o600); err != nil {
		t.Fatalf("write job: %v", err)
	}

	in, err = jobInputFromFlags(newJobCommand(t, "-t", "Go Developer", "--description", "ignored", "--description-file", path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Title != "Go Developer" || in.Description != "Build APIs in Go" {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	printMatches(&buf, nil, history.DefaultDateLayout)
	if !strings.Contains(buf.String(), "No matches found.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}

	buf.Reset()
	printMatches(&buf, []matcher.Match{{MatchID: "m-1", ResumeID: "r-1", JobID: "j-1", OverallScore: 85}}, history.DefaultDateLayout)
	out := buf.String()
	if !strings.Contains(out, "m-1") || !strings.Contains(out, "85.0% (Excellent)") {
		t.Fatalf("unexpected table: %q", out)
	}
}

func TestPrintDetailWithMissingRecords(t *testing.T) {
	var buf bytes.Buffer
	printDetail(&buf, &matcher.MatchDetail{Match: &matcher.Match{MatchID: "m-1", ResumeID: "r-1", JobID: "j-1"}}, history.DefaultDateLayout)

	out := buf.String()
	if !strings.Contains(out, "Resume: r-1 (no longer stored)") || !strings.Contains(out, "Job: j-1 (no longer stored)") {
		t.Fatalf("unexpected detail output: %q", out)
	}
}
