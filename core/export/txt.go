package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"tablediff/core/diff"
	"tablediff/core/results"
)

const (
	emptyMarker = "(empty)"
	ruleWidth   = 80
)

var (
	banner = strings.Repeat("=", ruleWidth)
	rule   = strings.Repeat("-", ruleWidth)
)

// TXTFormatter renders a human-readable report.
type TXTFormatter struct{}

func (TXTFormatter) Format(run *results.Run, records []diff.Record) ([]byte, error) {
	var b bytes.Buffer

	fmt.Fprintf(&b, "%s\nCOMPARISON REPORT\n%s\n\n", banner, banner)
	fmt.Fprintf(&b, "Run ID: %s\n", run.ID)
	fmt.Fprintf(&b, "Source: %s\n", endpointLabel(run.SourceConnection, run.SourceTable))
	fmt.Fprintf(&b, "Target: %s\n", endpointLabel(run.TargetConnection, run.TargetTable))
	fmt.Fprintf(&b, "Executed At: %s\n", executedAt(run).Format(time.RFC3339))
	fmt.Fprintf(&b, "Total Differences: %d\n", len(records))
	fmt.Fprintf(&b, "\n%s\n\n", banner)

	for i, r := range records {
		recordID := r.RecordID
		if recordID == "" {
			recordID = "N/A"
		}
		fmt.Fprintf(&b, "Difference %d:\n", i+1)
		fmt.Fprintf(&b, "  Record ID: %s\n", recordID)
		fmt.Fprintf(&b, "  Field: %s\n", r.FieldName)
		fmt.Fprintf(&b, "  Source Value: %s\n", orEmpty(r.SourceValue))
		fmt.Fprintf(&b, "  Target Value: %s\n", orEmpty(r.TargetValue))
		fmt.Fprintf(&b, "  Change Type: %s\n", r.ChangeType)
		fmt.Fprintf(&b, "\n%s\n\n", rule)
	}
	return b.Bytes(), nil
}

func (TXTFormatter) Extension() string { return "txt" }

func (TXTFormatter) MIMEType() string { return "text/plain; charset=utf-8" }

func orEmpty(s *string) string {
	if s == nil || *s == "" {
		return emptyMarker
	}
	return *s
}

func endpointLabel(conn, table string) string {
	if conn == "" {
		return table
	}
	return conn + "/" + table
}
