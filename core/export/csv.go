package export

import (
	"bytes"
	"strings"

	"tablediff/core/diff"
	"tablediff/core/results"
)

// byteOrderMark lets spreadsheet tools detect UTF-8.
const byteOrderMark = "\uFEFF"

var csvHeader = []string{"record_id", "field_name", "source_value", "target_value", "change_type"}

// CSVFormatter renders records as CSV with every field quoted.
type CSVFormatter struct{}

func (CSVFormatter) Format(_ *results.Run, records []diff.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(byteOrderMark)
	buf.WriteString(strings.Join(csvHeader, ","))

	for _, r := range records {
		buf.WriteByte('\n')
		writeCSVRow(&buf,
			r.RecordID,
			r.FieldName,
			deref(r.SourceValue),
			deref(r.TargetValue),
			string(r.ChangeType),
		)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeCSVRow(buf *bytes.Buffer, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
}

func (CSVFormatter) Extension() string { return "csv" }

func (CSVFormatter) MIMEType() string { return "text/csv; charset=utf-8" }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
