package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/masmgr/branchdiff-go/internal/annotation"
)

// CIComparisonWriter writes comparison reports as NDJSON (one JSON object per line) for CI pipelines.
type CIComparisonWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type             string `json:"type"`
	SourceBranch     string `json:"sourceBranch"`
	TargetBranch     string `json:"targetBranch"`
	Total            int    `json:"total"`
	SourceOnly       int    `json:"sourceOnly"`
	TargetOnly       int    `json:"targetOnly"`
	Both             int    `json:"both"`
	MatchedByMessage int    `json:"matchedByMessage"`
	Pending          int    `json:"pending"`
	Ignored          int    `json:"ignored"`
}

// CICommitEntry represents a single commit in CI output.
type CICommitEntry struct {
	Type             string `json:"type"`
	Hash             string `json:"hash"`
	Status           string `json:"status"`
	Author           string `json:"author"`
	Date             string `json:"date"`
	Message          string `json:"message"`
	MatchedByMessage bool   `json:"matchedByMessage,omitempty"`
	TargetHash       string `json:"targetHash,omitempty"`
	Ignored          bool   `json:"ignored,omitempty"`
}

// Write outputs the comparison report as NDJSON.
func (w *CIComparisonWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	ignored := annotation.NewIgnoreSet(report.Ignored)
	pending := report.Pending()

	var ignoredCount int
	for _, c := range report.Commits {
		if ignored.Has(c.Hash) {
			ignoredCount++
		}
	}

	s := report.Summary
	summary := CISummary{
		Type:             "summary",
		SourceBranch:     report.SourceBranch,
		TargetBranch:     report.TargetBranch,
		Total:            s.Total,
		SourceOnly:       s.SourceOnly,
		TargetOnly:       s.TargetOnly,
		Both:             s.Both,
		MatchedByMessage: s.MatchedByMessage,
		Pending:          len(pending),
		Ignored:          ignoredCount,
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, c := range limitTop(report.Commits, options.Top) {
		entry := CICommitEntry{
			Type:             "commit",
			Hash:             c.Hash,
			Status:           string(c.Status),
			Author:           c.AuthorName,
			Date:             c.Date.Format(time.RFC3339),
			Message:          c.Message,
			MatchedByMessage: c.MatchedByMessage,
			TargetHash:       c.TargetHash,
			Ignored:          ignored.Has(c.Hash),
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
