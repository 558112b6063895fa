package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/parthivsnair/Resume-Validator/internal/ai"
	"github.com/parthivsnair/Resume-Validator/internal/logger"
	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	systemInstruction = "You are a concise career coach. Answer in plain English."

	defaultMaxLogLength  = 200
	defaultMaxPriorities = 3
)

// Advisor turns a match detail into a short improvement note.
type Advisor struct {
	generator     contentGenerator
	logger        *zap.Logger
	maxLogLen     int
	maxPriorities int
}

var _ ai.Advisor = (*Advisor)(nil)

func NewAdvisor(generator contentGenerator, log *zap.Logger, maxPriorities, maxLogLength int) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxPriorities <= 0 {
		maxPriorities = defaultMaxPriorities
	}

	return &Advisor{
		generator:     generator,
		logger:        logger.WithFields(log, logger.StringFields(logger.StringField{Key: logger.FieldModel, Value: generator.Model()})...),
		maxLogLen:     maxLogLength,
		maxPriorities: maxPriorities,
	}
}

func (a *Advisor) Advise(ctx context.Context, detail *matcher.MatchDetail) (*ai.Advice, error) {
	if detail == nil || detail.Match == nil {
		return nil, errors.New("match detail is required")
	}

	m := detail.Match
	log := logger.WithMatch(a.logger, m.ResumeID, m.JobID, m.MatchID)

	prompt := buildPrompt(detail, a.maxPriorities)
	log.Debug("gemini advice request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini advice response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	advice, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	if len(advice.Priorities) > a.maxPriorities {
		advice.Priorities = advice.Priorities[:a.maxPriorities]
	}

	advice.Raw = raw
	return advice, nil
}

func buildPrompt(detail *matcher.MatchDetail, maxPriorities int) string {
	m := detail.Match

	job := "unknown (no longer stored)"
	if detail.Job != nil {
		job = detail.Job.Title + "\n" + strings.TrimSpace(detail.Job.Description)
	}

	resumeSkills := "unknown (no longer stored)"
	if detail.Resume != nil {
		resumeSkills = bulletList(detail.Resume.ExtractedSkills)
	}

	scores := fmt.Sprintf("- overall: %.1f\n- skills: %.1f\n- experience: %.1f\n- qualifications: %.1f",
		m.OverallScore, m.SkillsMatch.Value(), m.ExperienceMatch.Value(), m.QualificationsMatch.Value())

	prompt := strings.NewReplacer(
		"{{JOB}}", job,
		"{{RESUME_SKILLS}}", resumeSkills,
		"{{SCORES}}", scores,
		"{{MISSING}}", bulletList(m.MissingSkills),
		"{{SUGGESTIONS}}", bulletList(m.Suggestions),
		"{{MAX_PRIORITIES}}", strconv.Itoa(maxPriorities),
	).Replace(promptTemplate)

	return strings.TrimSpace(prompt)
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(item)
	}

	if b.Len() == 0 {
		return "- none"
	}
	return b.String()
}

func parseResponse(raw string) (*ai.Advice, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	advice := &ai.Advice{Summary: coerceString(data["summary"])}
	if items, ok := data["priorities"].([]any); ok {
		for _, item := range items {
			if s := coerceString(item); s != "" {
				advice.Priorities = append(advice.Priorities, s)
			}
		}
	}

	if advice.Summary == "" && len(advice.Priorities) == 0 {
		return nil, errors.New("gemini response has neither summary nor priorities")
	}

	return advice, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
