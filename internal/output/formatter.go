package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/masmgr/branchdiff-go/internal/aggregation"
	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

// Compile-time interface conformance checks.
var (
	_ ComparisonWriter = (*ConsoleComparisonWriter)(nil)
	_ ComparisonWriter = (*MarkdownComparisonWriter)(nil)
	_ ComparisonWriter = (*HTMLComparisonWriter)(nil)
	_ ComparisonWriter = (*JSONComparisonWriter)(nil)
	_ ComparisonWriter = (*CSVComparisonWriter)(nil)
	_ ComparisonWriter = (*CIComparisonWriter)(nil)
	_ ComparisonWriter = (*YAMLComparisonWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatCI       OutputFormat = "ci"
	FormatYAML     OutputFormat = "yaml"
)

// Formats lists every supported output format.
func Formats() []OutputFormat {
	return []OutputFormat{FormatConsole, FormatMarkdown, FormatHTML, FormatJSON, FormatCSV, FormatCI, FormatYAML}
}

// ParseFormat validates a format name. Empty means console.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatConsole, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	case FormatConsole, FormatMarkdown, FormatHTML, FormatJSON, FormatCSV, FormatCI, FormatYAML:
		return f, nil
	default:
		names := make([]string, 0, len(Formats()))
		for _, f := range Formats() {
			names = append(names, string(f))
		}
		return "", fmt.Errorf("invalid format %q (expected %s)", s, strings.Join(names, ", "))
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
	// Writer receives the output when OutputPath is empty. Nil means stdout.
	Writer io.Writer
}

// ComparisonReport holds everything a writer needs to render one branch comparison.
type ComparisonReport struct {
	RepoPath       string
	SourceBranch   string
	TargetBranch   string
	Author         string // empty when every author is included
	TimeRangeLabel string // empty when the whole history is included
	Since          *time.Time
	Until          *time.Time
	GeneratedAt    time.Time
	Commits        []reconcile.ClassifiedCommit // discovery order
	Summary        reconcile.Summary
	Authors        []aggregation.AuthorMetrics
	Ignored        []annotation.IgnoredCommit
	Remarks        []annotation.Remark
	// ServerURL is the base URL the HTML page calls for ignore, remark and diff requests.
	ServerURL string
}

// NewComparisonReport builds a report from a reconciliation result and the
// current annotations. The author breakdown is computed here.
func NewComparisonReport(result *reconcile.Result, ignored []annotation.IgnoredCommit, remarks []annotation.Remark) *ComparisonReport {
	ignoreSet := annotation.NewIgnoreSet(ignored)
	return &ComparisonReport{
		SourceBranch: result.SourceBranch,
		TargetBranch: result.TargetBranch,
		GeneratedAt:  time.Now(),
		Commits:      result.Commits,
		Summary:      result.Summary,
		Authors:      aggregation.NewAuthorAggregator(ignoreSet).Process(result.Commits),
		Ignored:      ignored,
		Remarks:      remarks,
	}
}

// Pending returns the source-only commits that are not ignored, newest first.
func (r *ComparisonReport) Pending() []reconcile.ClassifiedCommit {
	return aggregation.Pending(r.Commits, annotation.NewIgnoreSet(r.Ignored))
}

// Visible returns the commits that are not ignored, newest first.
func (r *ComparisonReport) Visible() []reconcile.ClassifiedCommit {
	return reconcile.SortByDateDesc(aggregation.Visible(r.Commits, annotation.NewIgnoreSet(r.Ignored)))
}

// ComparisonWriter writes comparison reports.
type ComparisonWriter interface {
	Write(report *ComparisonReport, options OutputOptions) error
}

// NewComparisonWriter creates a report writer for the specified format.
func NewComparisonWriter(format OutputFormat) ComparisonWriter {
	switch format {
	case FormatMarkdown:
		return &MarkdownComparisonWriter{}
	case FormatHTML:
		return &HTMLComparisonWriter{}
	case FormatJSON:
		return &JSONComparisonWriter{}
	case FormatCSV:
		return &CSVComparisonWriter{}
	case FormatCI:
		return &CIComparisonWriter{}
	case FormatYAML:
		return &YAMLComparisonWriter{}
	default:
		return &ConsoleComparisonWriter{}
	}
}
