package diff

import (
	"fmt"
	"strings"

	"tablediff/core/endpoint"
	"tablediff/core/errs"
	"tablediff/core/keymap"
	"tablediff/core/reconcile"
)

// ChangeType classifies a difference record.
type ChangeType string

const (
	Modified ChangeType = "modified"
	Added    ChangeType = "added"
	Deleted  ChangeType = "deleted"
)

// Valid reports whether t is a known change type.
func (t ChangeType) Valid() bool {
	return t == Modified || t == Added || t == Deleted
}

// RecordIDSeparator joins the rendered values of a composite key.
const RecordIDSeparator = "|~|"

// Record is one reported discrepancy for one field of one record.
type Record struct {
	RecordID    string     `json:"record_id"`
	FieldName   string     `json:"field_name"`
	SourceValue *string    `json:"source_value"`
	TargetValue *string    `json:"target_value"`
	ChangeType  ChangeType `json:"change_type"`
}

// fieldPair is a non-key column present on both sides.
type fieldPair struct {
	source string
	target string
}

// Classifier emits difference records for reconciliation outcomes.
type Classifier struct {
	sourceCols []string
	targetCols []string
	sourceKeys []string
	targetKeys []string
	common     []fieldPair

	warnings int
}

// New builds a classifier for tables with the given columns and key mapping. Every
// non-key column present on both sides is compared.
func New(source, target []endpoint.Column, mapping keymap.Mapping) *Classifier {
	c := &Classifier{
		sourceKeys: mapping.SourceColumns(),
		targetKeys: mapping.TargetColumns(),
	}
	for _, col := range source {
		c.sourceCols = append(c.sourceCols, col.Name)
	}
	for _, col := range target {
		c.targetCols = append(c.targetCols, col.Name)
	}
	c.common = commonFields(c.sourceCols, c.targetCols, c.sourceKeys, c.targetKeys)
	return c
}

// NewWithFields builds a classifier that compares only the given field pairs, in
// order. Rows present on one side report those fields only. Without fields it
// behaves like New.
func NewWithFields(source, target []endpoint.Column, mapping keymap.Mapping, fields []keymap.Pair) (*Classifier, error) {
	if len(fields) == 0 {
		return New(source, target, mapping), nil
	}
	c := &Classifier{
		sourceKeys: mapping.SourceColumns(),
		targetKeys: mapping.TargetColumns(),
	}
	for _, f := range fields {
		s, ok := lookup(source, f.Source)
		if !ok {
			return nil, fmt.Errorf("%w: compare field %q not found in source", errs.ErrSchema, f.Source)
		}
		t, ok := lookup(target, f.Target)
		if !ok {
			return nil, fmt.Errorf("%w: compare field %q not found in target", errs.ErrSchema, f.Target)
		}
		c.common = append(c.common, fieldPair{source: s, target: t})
		c.sourceCols = append(c.sourceCols, s)
		c.targetCols = append(c.targetCols, t)
	}
	return c, nil
}

// lookup resolves name against cols exactly, then case-insensitively.
func lookup(cols []endpoint.Column, name string) (string, bool) {
	for _, c := range cols {
		if c.Name == name {
			return c.Name, true
		}
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return c.Name, true
		}
	}
	return "", false
}

// commonFields pairs non-key columns by exact name, then case-insensitively, in
// source column order.
func commonFields(source, target, sourceKeys, targetKeys []string) []fieldPair {
	isKey := func(keys []string, name string) bool {
		for _, k := range keys {
			if k == name {
				return true
			}
		}
		return false
	}

	used := make(map[string]bool)
	for _, t := range target {
		if isKey(targetKeys, t) {
			used[t] = true
		}
	}

	matched := make(map[string]string)
	pass := func(eq func(a, b string) bool) {
		for _, s := range source {
			if isKey(sourceKeys, s) {
				continue
			}
			if _, ok := matched[s]; ok {
				continue
			}
			for _, t := range target {
				if !used[t] && eq(s, t) {
					matched[s] = t
					used[t] = true
					break
				}
			}
		}
	}
	pass(func(a, b string) bool { return a == b })
	pass(strings.EqualFold)

	var pairs []fieldPair
	for _, s := range source {
		if t, ok := matched[s]; ok {
			pairs = append(pairs, fieldPair{source: s, target: t})
		}
	}
	return pairs
}

// CommonFields returns the source names of the compared non-key columns.
func (c *Classifier) CommonFields() []string {
	names := make([]string, len(c.common))
	for i, p := range c.common {
		names[i] = p.source
	}
	return names
}

// Warnings returns how many compared values were string coercions.
func (c *Classifier) Warnings() int { return c.warnings }

// Classify emits the records for one outcome.
func (c *Classifier) Classify(res reconcile.Result, emit func(Record) error) error {
	switch res.Outcome {
	case reconcile.Matched:
		id := RecordID(res.Source, c.sourceKeys)
		for _, p := range c.common {
			sv, tv := res.Source[p.source], res.Target[p.target]
			if sv.Coerced || tv.Coerced {
				c.warnings++
			}
			if endpoint.Equal(sv, tv) {
				continue
			}
			if err := emit(Record{
				RecordID:    id,
				FieldName:   p.source,
				SourceValue: sv.Ptr(),
				TargetValue: tv.Ptr(),
				ChangeType:  Modified,
			}); err != nil {
				return err
			}
		}

	case reconcile.SourceOnly:
		id := RecordID(res.Source, c.sourceKeys)
		for _, name := range c.sourceCols {
			if err := emit(Record{
				RecordID:    id,
				FieldName:   name,
				SourceValue: res.Source[name].Ptr(),
				ChangeType:  Deleted,
			}); err != nil {
				return err
			}
		}

	case reconcile.TargetOnly:
		id := RecordID(res.Target, c.targetKeys)
		for _, name := range c.targetCols {
			if err := emit(Record{
				RecordID:    id,
				FieldName:   name,
				TargetValue: res.Target[name].Ptr(),
				ChangeType:  Added,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordID renders the key values of row joined with RecordIDSeparator.
func RecordID(row endpoint.Row, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = row[k].Render()
	}
	return strings.Join(parts, RecordIDSeparator)
}
