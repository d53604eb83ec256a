package output

import (
	"io"
	"os"
	"time"

	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

const (
	reportDateLayout     = "2006-01-02"
	reportDateTimeLayout = "2006-01-02 15:04"
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

// rangeLabel describes the compared period, preferring the resolved label.
func rangeLabel(report *ComparisonReport) string {
	if report.TimeRangeLabel != "" {
		return report.TimeRangeLabel
	}
	switch {
	case report.Since != nil && report.Until != nil:
		return report.Since.Format(reportDateLayout) + " to " + report.Until.Format(reportDateLayout)
	case report.Since != nil:
		return "Since " + report.Since.Format(reportDateLayout)
	case report.Until != nil:
		return "Until " + report.Until.Format(reportDateLayout)
	}
	return ""
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(reportDateLayout)
	return &formatted
}

func openOutputWriter(options OutputOptions) (io.Writer, *os.File, error) {
	if options.OutputPath == "" {
		if options.Writer != nil {
			return options.Writer, nil, nil
		}
		return os.Stdout, nil, nil
	}
	file, err := os.Create(options.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

func statusEmoji(status reconcile.Status) string {
	switch status {
	case reconcile.StatusBoth:
		return "\U0001F534\U0001F535"
	case reconcile.StatusSource:
		return "\U0001F534"
	default:
		return "\U0001F535"
	}
}

func truncateMessage(msg string, maxLen int) string {
	runes := []rune(msg)
	if len(runes) <= maxLen {
		return msg
	}
	return string(runes[:maxLen-3]) + "..."
}
