package output

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownComparisonWriter writes comparison reports as Markdown.
type MarkdownComparisonWriter struct{}

// Write outputs the commit table, the author breakdown and the cherry-pick commands.
func (w *MarkdownComparisonWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return renderMarkdown(out, report, options)
}

// RenderMarkdown returns the Markdown report as a string.
func RenderMarkdown(report *ComparisonReport) (string, error) {
	var sb strings.Builder
	if err := renderMarkdown(&sb, report, OutputOptions{Format: FormatMarkdown}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderMarkdown(out io.Writer, report *ComparisonReport, options OutputOptions) error {
	fmt.Fprintln(out, "# Branch Comparison")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Generated: %s\n\n", report.GeneratedAt.Format(reportDateTimeLayout))
	fmt.Fprintf(out, "## %s vs %s\n\n", report.SourceBranch, report.TargetBranch)
	if report.Author != "" {
		fmt.Fprintf(out, "**Author:** %s\n\n", escapeMarkdown(report.Author))
	}
	if label := rangeLabel(report); label != "" {
		fmt.Fprintf(out, "**Time range:** %s\n\n", label)
	}

	s := report.Summary
	fmt.Fprintf(out, "**Total:** %d | **%s only:** %d | **%s only:** %d | **Both:** %d (%d matched by message)\n\n",
		s.Total, escapeMarkdown(report.SourceBranch), s.SourceOnly, escapeMarkdown(report.TargetBranch), s.TargetOnly, s.Both, s.MatchedByMessage)

	fmt.Fprintln(out, "| Message | Date | Author | Status | Hash |")
	fmt.Fprintln(out, "|---------|------|--------|--------|------|")
	for _, c := range limitTop(report.Visible(), options.Top) {
		fmt.Fprintf(out, "| %s | %s | %s | %s | %s |\n",
			escapeMarkdown(c.Message),
			c.Date.Format(reportDateTimeLayout),
			escapeMarkdown(c.AuthorName),
			statusEmoji(c.Status),
			c.Hash,
		)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "\U0001F534 source only, \U0001F535 target only, \U0001F534\U0001F535 both")

	if len(report.Authors) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "### Authors")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| Author | Pending | Source | Target | Both | Matched by message | Ignored |")
		fmt.Fprintln(out, "|--------|---------|--------|--------|------|--------------------|---------|")
		for _, a := range report.Authors {
			fmt.Fprintf(out, "| %s | %d | %d | %d | %d | %d | %d |\n",
				escapeMarkdown(a.Name), a.Pending, a.SourceOnly, a.TargetOnly, a.Both, a.MatchedByMessage, a.Ignored)
		}
	}

	pending := report.Pending()
	if len(pending) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "### Cherry-pick commands")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "```bash")
	fmt.Fprintf(out, "# switch to %s\n", report.TargetBranch)
	fmt.Fprintf(out, "git checkout %s\n\n", report.TargetBranch)
	fmt.Fprintln(out, "# one commit at a time")
	for _, line := range CherryPickCommands(pending) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "# all at once")
	fmt.Fprintln(out, OptimizedCherryPick(pending))
	fmt.Fprintln(out, "```")

	return nil
}

// escapeMarkdown escapes characters that would break Markdown tables.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
