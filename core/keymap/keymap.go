package keymap

import (
	"fmt"
	"strings"

	"tablediff/core/errs"
)

// Pair maps one source key column to one target key column.
type Pair struct {
	Source string `json:"source_column"`
	Target string `json:"target_column"`
}

// Mapping is a resolved key mapping. Pairs are ordered by the source selection.
type Mapping struct {
	Pairs         []Pair   `json:"pairs"`
	DroppedSource []string `json:"dropped_source,omitempty"`
	DroppedTarget []string `json:"dropped_target,omitempty"`
}

// SourceColumns returns the source side of every pair, in order.
func (m Mapping) SourceColumns() []string {
	cols := make([]string, len(m.Pairs))
	for i, p := range m.Pairs {
		cols[i] = p.Source
	}
	return cols
}

// TargetColumns returns the target side of every pair, in order.
func (m Mapping) TargetColumns() []string {
	cols := make([]string, len(m.Pairs))
	for i, p := range m.Pairs {
		cols[i] = p.Target
	}
	return cols
}

// Dropped returns all leftover columns prefixed with their side.
func (m Mapping) Dropped() []string {
	var out []string
	for _, c := range m.DroppedSource {
		out = append(out, "source:"+c)
	}
	for _, c := range m.DroppedTarget {
		out = append(out, "target:"+c)
	}
	return out
}

// Resolve pairs the selected source and target key columns.
//
// It fails with errs.ErrEmptyMapping when no pair results. Duplicate names within one
// selection are rejected.
func Resolve(source, target []string) (Mapping, error) {
	if err := distinct("source", source); err != nil {
		return Mapping{}, err
	}
	if err := distinct("target", target); err != nil {
		return Mapping{}, err
	}

	// assigned[i] is the target index paired with source[i], or -1.
	assigned := make([]int, len(source))
	for i := range assigned {
		assigned[i] = -1
	}
	used := make([]bool, len(target))

	match := func(eq func(a, b string) bool) {
		for i, s := range source {
			if assigned[i] >= 0 {
				continue
			}
			for j, t := range target {
				if !used[j] && eq(s, t) {
					assigned[i] = j
					used[j] = true
					break
				}
			}
		}
	}

	match(func(a, b string) bool { return a == b })
	match(strings.EqualFold)

	next := 0
	for i := range source {
		if assigned[i] >= 0 {
			continue
		}
		for next < len(target) && used[next] {
			next++
		}
		if next == len(target) {
			break
		}
		assigned[i] = next
		used[next] = true
	}

	var m Mapping
	for i, s := range source {
		if assigned[i] < 0 {
			m.DroppedSource = append(m.DroppedSource, s)
			continue
		}
		m.Pairs = append(m.Pairs, Pair{Source: s, Target: target[assigned[i]]})
	}
	for j, t := range target {
		if !used[j] {
			m.DroppedTarget = append(m.DroppedTarget, t)
		}
	}

	if len(m.Pairs) == 0 {
		return Mapping{}, fmt.Errorf("%w: no key columns could be paired (source %v, target %v)",
			errs.ErrEmptyMapping, source, target)
	}
	return m, nil
}

func distinct(side string, cols []string) error {
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if c == "" {
			return fmt.Errorf("%w: empty %s column name", errs.ErrEmptyMapping, side)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("%w: %s column %q selected twice", errs.ErrEmptyMapping, side, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
