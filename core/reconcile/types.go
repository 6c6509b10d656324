package reconcile

import (
	"time"

	"tablediff/core/endpoint"
)

// Outcome classifies one key observed during a merge.
type Outcome int

const (
	// Matched means the key exists on both sides.
	Matched Outcome = iota
	// SourceOnly means the key exists only in the source.
	SourceOnly
	// TargetOnly means the key exists only in the target.
	TargetOnly
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case SourceOnly:
		return "source_only"
	case TargetOnly:
		return "target_only"
	default:
		return "unknown"
	}
}

// Result is one reconciliation outcome. Source is nil for TargetOnly and Target is
// nil for SourceOnly.
type Result struct {
	Outcome Outcome
	Source  endpoint.Row
	Target  endpoint.Row
}

// Stream identifies one side of a reconciliation.
type Stream struct {
	// Adapter serves the rows of Table.
	Adapter endpoint.Adapter

	// Table is the table to stream.
	Table string

	// Keys are the key columns on this side, in mapping order.
	Keys []string
}

// Spec defines the configuration for a reconciliation.
type Spec struct {
	Source Stream
	Target Stream

	// QueueSize is the capacity of the queue between each feeder and the merge.
	// Zero means 4.
	QueueSize int

	// OpTimeout bounds how long the merge waits for a side to produce its next row,
	// including opening the cursor. Zero disables the bound.
	OpTimeout time.Duration

	// Columns, when set, receives the columns of both opened cursors before the first
	// result is emitted. An error aborts the reconciliation.
	Columns func(source, target []endpoint.Column) error
}

// Stats summarizes a reconciliation.
type Stats struct {
	// SourceRows is the number of rows read from the source.
	SourceRows int64 `json:"source_rows"`

	// TargetRows is the number of rows read from the target.
	TargetRows int64 `json:"target_rows"`

	// Matched counts keys present on both sides.
	Matched int64 `json:"matched"`

	// SourceOnly counts keys present only in the source.
	SourceOnly int64 `json:"source_only"`

	// TargetOnly counts keys present only in the target.
	TargetOnly int64 `json:"target_only"`

	// DuplicateKeys counts rows whose key equals the previous row's key on the same side.
	DuplicateKeys int64 `json:"duplicate_keys"`

	// Warnings counts values the cursors coerced to strings.
	Warnings int `json:"warnings"`
}
