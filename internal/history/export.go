package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

const (
	// ExportFilename is the default name of the exported history.
	ExportFilename = "match_history.csv"
	// DefaultDateLayout renders dates the way the en-US locale does.
	DefaultDateLayout = "1/2/2006"
)

// ExportHeader names the columns of the first line of every export, which is
// written joined by ", ".
var ExportHeader = []string{
	"match_id",
	"overall_score",
	"skills_score",
	"experience_score",
	"qualifications_score",
	"created_at",
}

// ExportCSV writes one row per record, in the given order, after the header.
// Dates are rendered in the local zone with layout, or DefaultDateLayout when empty.
// A missing sub-score is written as 0.
func ExportCSV(w io.Writer, records []matcher.Match, layout string) error {
	if layout == "" {
		layout = DefaultDateLayout
	}

	if _, err := io.WriteString(w, strings.Join(ExportHeader, ", ")+"\n"); err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	for _, m := range records {
		row := []string{
			m.MatchID,
			formatScore(m.OverallScore),
			formatSubScore(m.SkillsMatch),
			formatSubScore(m.ExperienceMatch),
			formatSubScore(m.QualificationsMatch),
			formatDate(m.CreatedAt, layout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes the export to path, ExportFilename when path is empty, and
// returns the path written.
func ExportFile(path string, records []matcher.Match, layout string) (string, error) {
	if path == "" {
		path = ExportFilename
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := ExportCSV(file, records, layout); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, file.Close()
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func formatSubScore(s matcher.SubScore) string {
	if s.Score == nil {
		return "0"
	}
	return formatScore(*s.Score)
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(layout)
}
