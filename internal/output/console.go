package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

// ConsoleComparisonWriter writes comparison reports to the console.
type ConsoleComparisonWriter struct{}

// Write outputs the summary and the pending commits.
func (w *ConsoleComparisonWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintf(out, "Branch Comparison: %s vs %s\n", report.SourceBranch, report.TargetBranch)
	if report.RepoPath != "" {
		fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	}
	if report.Author != "" {
		fmt.Fprintf(out, "Author: %s\n", report.Author)
	}
	if label := rangeLabel(report); label != "" {
		fmt.Fprintf(out, "Time range: %s\n", label)
	}

	s := report.Summary
	fmt.Fprintf(out, "Total commits: %d (%s only: %s, %s only: %s, both: %s, matched by message: %d)\n\n",
		s.Total,
		report.SourceBranch, statusColor(reconcile.StatusSource)("%d", s.SourceOnly),
		report.TargetBranch, statusColor(reconcile.StatusTarget)("%d", s.TargetOnly),
		statusColor(reconcile.StatusBoth)("%d", s.Both),
		s.MatchedByMessage,
	)

	pending := report.Pending()
	if len(pending) == 0 {
		fmt.Fprintf(out, "Nothing to cherry-pick: %s has every commit from %s.\n", report.TargetBranch, report.SourceBranch)
		return nil
	}

	fmt.Fprintf(out, "Pending cherry-picks onto %s: %d\n", report.TargetBranch, len(pending))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tHash\tDate\tAuthor\tMessage")
	for i, c := range limitTop(pending, options.Top) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i+1,
			c.ShortHash(),
			c.Date.Format(reportDateTimeLayout),
			c.AuthorName,
			truncateMessage(c.Message, 60),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(report.Authors) > 1 {
		fmt.Fprintln(out)
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Author\tPending\tSource\tTarget\tBoth\tIgnored")
		for _, a := range report.Authors {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", a.Name, a.Pending, a.SourceOnly, a.TargetOnly, a.Both, a.Ignored)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\n%s\n", OptimizedCherryPick(pending))
	return nil
}

func statusColor(status reconcile.Status) func(string, ...interface{}) string {
	switch status {
	case reconcile.StatusSource:
		return color.RedString
	case reconcile.StatusTarget:
		return color.BlueString
	default:
		return color.GreenString
	}
}
