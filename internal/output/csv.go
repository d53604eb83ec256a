package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/masmgr/branchdiff-go/internal/annotation"
)

// CSVComparisonWriter writes comparison reports as CSV, one row per commit.
type CSVComparisonWriter struct{}

// Write outputs the classified commits as CSV.
func (w *CSVComparisonWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	writer := createCSVWriter(out)
	ignored := annotation.NewIgnoreSet(report.Ignored)
	remarks := annotation.NewRemarkIndex(report.Remarks)

	headers := []string{"Hash", "Date", "Author", "Email", "Message", "Status", "MatchedByMessage", "TargetHash", "Ignored", "Remark"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, c := range limitTop(report.Commits, options.Top) {
		row := []string{
			c.Hash,
			c.Date.Format(time.RFC3339),
			c.AuthorName,
			c.AuthorEmail,
			c.Message,
			string(c.Status),
			strconv.FormatBool(c.MatchedByMessage),
			c.TargetHash,
			strconv.FormatBool(ignored.Has(c.Hash)),
			remarks.Content(c.Hash),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(w io.Writer) *csv.Writer {
	return csv.NewWriter(w)
}
