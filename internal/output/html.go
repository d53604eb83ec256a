package output

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

//go:embed templates/timeline.html
var timelineTemplate string

var timelinePage = template.Must(template.New("timeline").Parse(timelineTemplate))

// HTMLComparisonWriter writes the interactive timeline page.
type HTMLComparisonWriter struct{}

type timelineData struct {
	Title        string
	GeneratedAt  string
	SourceBranch string
	TargetBranch string
	Author       string
	TimeRange    string
	Summary      reconcile.Summary
	Commits      []JSONCommit
	Ignored      []annotation.IgnoredCommit
	Remarks      []annotation.Remark
	Reasons      []string
	APIBase      string
}

// Write outputs the timeline page.
func (w *HTMLComparisonWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return renderHTML(out, report)
}

// RenderHTML returns the timeline page as a string.
func RenderHTML(report *ComparisonReport) (string, error) {
	var sb strings.Builder
	if err := renderHTML(&sb, report); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderHTML(out io.Writer, report *ComparisonReport) error {
	ignored := annotation.NewIgnoreSet(report.Ignored)
	remarks := annotation.NewRemarkIndex(report.Remarks)

	data := timelineData{
		Title:        fmt.Sprintf("Branch comparison: %s vs %s", report.SourceBranch, report.TargetBranch),
		GeneratedAt:  report.GeneratedAt.Format(reportDateTimeLayout),
		SourceBranch: report.SourceBranch,
		TargetBranch: report.TargetBranch,
		Author:       report.Author,
		TimeRange:    rangeLabel(report),
		Summary:      report.Summary,
		Commits:      jsonCommits(reconcile.SortByDateDesc(report.Commits), ignored, remarks),
		Ignored:      nonNil(report.Ignored),
		Remarks:      nonNil(report.Remarks),
		Reasons:      annotation.IgnoreReasons,
		APIBase:      strings.TrimRight(report.ServerURL, "/"),
	}
	if err := timelinePage.Execute(out, data); err != nil {
		return fmt.Errorf("failed to render timeline: %w", err)
	}
	return nil
}
