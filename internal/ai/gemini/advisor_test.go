package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func sampleDetail() *matcher.MatchDetail {
	skills := 80.0
	return &matcher.MatchDetail{
		Match: &matcher.Match{
			MatchID:       "m-1",
			ResumeID:      "r-1",
			JobID:         "j-1",
			OverallScore:  72.5,
			SkillsMatch:   matcher.SubScore{Score: &skills},
			MissingSkills: []string{"Kubernetes", " "},
			Suggestions:   []string{"Mention CI pipelines"},
		},
		Resume: &matcher.Resume{ID: "r-1", ExtractedSkills: []string{"Go", "SQL"}},
	}
}

func TestAdvisorAdvise(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"summary\": \"Solid fit.\", \"priorities\": [\"Learn Kubernetes\", \"\", \"Show CI work\", \"Extra\", \"More\"]}\n```"}
	core, logs := observer.New(zapcore.DebugLevel)
	advisor := NewAdvisor(stub, zap.New(core), 3, 0)

	advice, err := advisor.Advise(context.Background(), sampleDetail())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if advice.Summary != "Solid fit." {
		t.Fatalf("unexpected summary: %q", advice.Summary)
	}
	if len(advice.Priorities) != 3 || advice.Priorities[0] != "Learn Kubernetes" || advice.Priorities[2] != "Extra" {
		t.Fatalf("unexpected priorities: %v", advice.Priorities)
	}
	if advice.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}

	for _, want := range []string{"- Kubernetes", "- Mention CI pipelines", "- Go\n- SQL", "- overall: 72.5", "unknown (no longer stored)", "at most 3 priorities"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, stub.lastPrompt)
		}
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("expected every placeholder to be replaced, got:\n%s", stub.lastPrompt)
	}
	if stub.lastSystem == "" {
		t.Fatalf("expected system instruction")
	}

	entries := logs.FilterMessage("gemini advice request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["match_id"] != "m-1" || ctx["ai_model"] != "stub-model" {
		t.Fatalf("unexpected log fields: %v", ctx)
	}
}

func TestAdvisorErrors(t *testing.T) {
	advisor := NewAdvisor(&stubGenerator{response: "{}"}, nil, 0, 0)
	if _, err := advisor.Advise(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil detail")
	}
	if _, err := advisor.Advise(context.Background(), sampleDetail()); err == nil {
		t.Fatal("expected error for empty advice")
	}

	advisor = NewAdvisor(&stubGenerator{response: "not json"}, nil, 0, 0)
	if _, err := advisor.Advise(context.Background(), sampleDetail()); err == nil {
		t.Fatal("expected parse error")
	}

	failure := errors.New("unavailable")
	advisor = NewAdvisor(&stubGenerator{err: failure}, nil, 0, 0)
	if _, err := advisor.Advise(context.Background(), sampleDetail()); !errors.Is(err, failure) {
		t.Fatalf("expected generator failure, got %v", err)
	}
}

func TestBulletList(t *testing.T) {
	if got := bulletList(nil); got != "- none" {
		t.Fatalf("expected none placeholder, got %q", got)
	}
	if got := bulletList([]string{" a ", "", "b"}); got != "- a\n- b" {
		t.Fatalf("unexpected list: %q", got)
	}
}
