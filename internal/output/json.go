package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/masmgr/branchdiff-go/internal/aggregation"
	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

// JSONComparisonWriter writes comparison reports as JSON.
type JSONComparisonWriter struct{}

// JSONComparisonReport is the JSON output structure for a comparison.
type JSONComparisonReport struct {
	RepoPath     string                      `json:"repo,omitempty"`
	SourceBranch string                      `json:"sourceBranch"`
	TargetBranch string                      `json:"targetBranch"`
	Author       string                      `json:"author,omitempty"`
	TimeRange    string                      `json:"timeRange,omitempty"`
	Since        *string                     `json:"since,omitempty"`
	Until        *string                     `json:"until,omitempty"`
	GeneratedAt  string                      `json:"generatedAt"`
	Summary      reconcile.Summary           `json:"summary"`
	Commits      []JSONCommit                `json:"commits"`
	Authors      []aggregation.AuthorMetrics `json:"authors"`
	Ignored      []annotation.IgnoredCommit  `json:"ignoredCommits"`
	Remarks      []annotation.Remark         `json:"commitRemarks"`
	CherryPick   *JSONCherryPick             `json:"cherryPick,omitempty"`
}

// JSONCommit is a classified commit with its annotation state.
type JSONCommit struct {
	reconcile.ClassifiedCommit
	FormattedDate string `json:"formattedDate"`
	Ignored       bool   `json:"ignored"`
	Remark        string `json:"remark,omitempty"`
}

// JSONCherryPick lists the commands that port the pending commits.
type JSONCherryPick struct {
	Checkout  string   `json:"checkout"`
	Commands  []string `json:"commands"`
	Optimized string   `json:"optimized"`
}

// Write outputs the comparison report as JSON.
func (w *JSONComparisonWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return writeJSON(out, buildJSONReport(report))
}

func buildJSONReport(report *ComparisonReport) JSONComparisonReport {
	ignored := annotation.NewIgnoreSet(report.Ignored)
	remarks := annotation.NewRemarkIndex(report.Remarks)

	result := JSONComparisonReport{
		RepoPath:     report.RepoPath,
		SourceBranch: report.SourceBranch,
		TargetBranch: report.TargetBranch,
		Author:       report.Author,
		TimeRange:    rangeLabel(report),
		Since:        formatOptionalDate(report.Since),
		Until:        formatOptionalDate(report.Until),
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		Summary:      report.Summary,
		Commits:      jsonCommits(report.Commits, ignored, remarks),
		Authors:      nonNil(report.Authors),
		Ignored:      nonNil(report.Ignored),
		Remarks:      nonNil(report.Remarks),
	}

	if pending := report.Pending(); len(pending) > 0 {
		result.CherryPick = &JSONCherryPick{
			Checkout:  "git checkout " + report.TargetBranch,
			Commands:  CherryPickCommands(pending),
			Optimized: OptimizedCherryPick(pending),
		}
	}
	return result
}

func jsonCommits(commits []reconcile.ClassifiedCommit, ignored annotation.IgnoreSet, remarks annotation.RemarkIndex) []JSONCommit {
	out := make([]JSONCommit, len(commits))
	for i, c := range commits {
		out[i] = JSONCommit{
			ClassifiedCommit: c,
			FormattedDate:    c.Date.Format(reportDateTimeLayout),
			Ignored:          ignored.Has(c.Hash),
			Remark:           remarks.Content(c.Hash),
		}
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
