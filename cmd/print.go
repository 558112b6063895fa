package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/parthivsnair/Resume-Validator/internal/ai"
	"github.com/parthivsnair/Resume-Validator/internal/history"
	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

const previewLimit = 1000

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func scoreLabel(score float64) string {
	return fmt.Sprintf("%.1f%% (%s)", score, history.BandFor(score).Title())
}

func formatDate(m matcher.Match, layout string) string {
	if m.CreatedAt.IsZero() {
		return "-"
	}
	return m.CreatedAt.Local().Format(layout)
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func printResume(w io.Writer, r *matcher.Resume) {
	t := newTable(w)
	fmt.Fprintf(t, "Resume ID:\t%s\n", r.ID)
	fmt.Fprintf(t, "Filename:\t%s\n", r.Filename)
	fmt.Fprintf(t, "Skills:\t%s\n", list(r.ExtractedSkills))
	fmt.Fprintf(t, "Experience:\t%s\n", list(r.ExtractedExperience))
	fmt.Fprintf(t, "Qualifications:\t%s\n", list(r.ExtractedQualifications))
	fmt.Fprintf(t, "Keywords:\t%s\n", list(r.ExtractedKeywords))
	t.Flush()
}

func printPreview(w io.Writer, r *matcher.Resume) {
	text := strings.TrimSpace(r.OriginalText)
	if text == "" {
		fmt.Fprintln(w, "No preview available for this resume.")
		return
	}

	runes := []rune(text)
	if len(runes) > previewLimit {
		text = string(runes[:previewLimit]) + "..."
	}
	fmt.Fprintf(w, "%s\n\n%s\n", r.Filename, text)
}

func printJob(w io.Writer, j *matcher.Job) {
	t := newTable(w)
	fmt.Fprintf(t, "Job ID:\t%s\n", j.ID)
	fmt.Fprintf(t, "Title:\t%s\n", j.Title)
	fmt.Fprintf(t, "Required skills:\t%s\n", list(j.RequiredSkills))
	fmt.Fprintf(t, "Required experience:\t%s\n", list(j.RequiredExperience))
	fmt.Fprintf(t, "Required qualifications:\t%s\n", list(j.RequiredQualifications))
	fmt.Fprintf(t, "Keywords:\t%s\n", list(j.ExtractedKeywords))
	t.Flush()
}

func printMatch(w io.Writer, m *matcher.Match) {
	t := newTable(w)
	fmt.Fprintf(t, "Match ID:\t%s\n", m.MatchID)
	fmt.Fprintf(t, "Overall:\t%s\n", scoreLabel(m.OverallScore))
	fmt.Fprintf(t, "Skills:\t%.1f%%\tmatched: %s\tmissing: %s\n", m.SkillsMatch.Value(), list(m.SkillsMatch.Matched), list(m.SkillsMatch.Missing))
	fmt.Fprintf(t, "Experience:\t%.1f%%\tmatched: %s\tmissing: %s\n", m.ExperienceMatch.Value(), list(m.ExperienceMatch.Matched), list(m.ExperienceMatch.Missing))
	fmt.Fprintf(t, "Qualifications:\t%.1f%%\tmatched: %s\tmissing: %s\n", m.QualificationsMatch.Value(), list(m.QualificationsMatch.Matched), list(m.QualificationsMatch.Missing))
	t.Flush()

	fmt.Fprintf(w, "\nMatched keywords: %s\n", list(m.MatchedKeywords))
	fmt.Fprintf(w, "Missing skills: %s\n", list(m.MissingSkills))
	if len(m.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range m.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if a := strings.TrimSpace(m.DetailedAnalysis); a != "" {
		fmt.Fprintf(w, "\n%s\n", a)
	}
}

func printMatches(w io.Writer, records []matcher.Match, layout string) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}

	t := newTable(w)
	fmt.Fprintln(t, "MATCH ID\tRESUME ID\tJOB ID\tSCORE\tDATE")
	for _, m := range records {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\n", m.MatchID, m.ResumeID, m.JobID, scoreLabel(m.OverallScore), formatDate(m, layout))
	}
	t.Flush()
}

func printSummary(w io.Writer, s history.Summary) {
	t := newTable(w)
	fmt.Fprintf(t, "Total matches:\t%d\n", s.Count)
	fmt.Fprintf(t, "Average score:\t%.1f%%\n", s.Average)
	fmt.Fprintf(t, "Best score:\t%.1f%%\n", s.Best)
	fmt.Fprintf(t, "This month:\t%d\n", s.CurrentMonth)
	t.Flush()
}

func printDetail(w io.Writer, d *matcher.MatchDetail, layout string) {
	m := d.Match
	fmt.Fprintf(w, "Created: %s\n", formatDate(*m, layout))

	if d.Resume != nil {
		fmt.Fprintf(w, "Resume: %s (%s)\n", d.Resume.Filename, d.Resume.ID)
	} else {
		fmt.Fprintf(w, "Resume: %s (no longer stored)\n", m.ResumeID)
	}
	if d.Job != nil {
		fmt.Fprintf(w, "Job: %s (%s)\n", d.Job.Title, d.Job.ID)
	} else {
		fmt.Fprintf(w, "Job: %s (no longer stored)\n", m.JobID)
	}

	fmt.Fprintln(w)
	printMatch(w, m)
}

func printAdvice(w io.Writer, a *ai.Advice) {
	fmt.Fprintf(w, "\nAdvice:\n%s\n", a.Summary)
	for i, p := range a.Priorities {
		fmt.Fprintf(w, "  %d. %s\n", i+1, p)
	}
}

func printDashboard(w io.Writer, d *history.Dashboard, layout string) {
	t := newTable(w)
	fmt.Fprintf(t, "Resumes:\t%d\n", d.TotalResumes)
	fmt.Fprintf(t, "Jobs:\t%d\n", d.TotalJobs)
	fmt.Fprintf(t, "Matches:\t%d\n", d.TotalMatches)
	fmt.Fprintf(t, "Average score:\t%.1f%%\n", d.AverageScore)
	t.Flush()

	fmt.Fprintln(w, "\nRecent matches:")
	printMatches(w, d.Recent, layout)
}
