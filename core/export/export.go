package export

import (
	"errors"
	"fmt"
	"time"

	"tablediff/core/diff"
	"tablediff/core/results"
)

// Format names an export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
)

// ErrUnsupportedFormat is returned when an unknown export format is requested.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formatter renders a run and its records.
type Formatter interface {
	// Format renders the records of run.
	Format(run *results.Run, records []diff.Record) ([]byte, error)

	// Extension returns the file extension without the leading dot.
	Extension() string

	// MIMEType returns the MIME type of the rendered content.
	MIMEType() string
}

// GetFormatter returns the formatter for format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatCSV:
		return CSVFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{}, nil
	case FormatTXT:
		return TXTFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Artifact is a rendered export.
type Artifact struct {
	Content  []byte
	Filename string
	MIMEType string
}

// Export renders run in the given format.
func Export(run *results.Run, records []diff.Record, format Format) (*Artifact, error) {
	f, err := GetFormatter(format)
	if err != nil {
		return nil, err
	}
	content, err := f.Format(run, records)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export of run %s: %w", format, run.ID, err)
	}
	return &Artifact{
		Content:  content,
		Filename: Filename(run, f.Extension()),
		MIMEType: f.MIMEType(),
	}, nil
}

// Filename suggests a file name for an export of run.
func Filename(run *results.Run, ext string) string {
	return fmt.Sprintf("comparison_%s_%s.%s", run.ID, executedAt(run).Format(time.DateOnly), ext)
}

// executedAt is the completion time of run, falling back to its start and creation
// times for runs that have not completed.
func executedAt(run *results.Run) time.Time {
	switch {
	case run.CompletedAt != nil:
		return run.CompletedAt.UTC()
	case run.StartedAt != nil:
		return run.StartedAt.UTC()
	default:
		return run.CreatedAt.UTC()
	}
}
