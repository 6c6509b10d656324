package dispatch

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tablediff/core/diff"
	"tablediff/core/results"
)

// Payload is one difference forwarded to a sink.
type Payload struct {
	Run        *results.Run
	Record     diff.Record
	DetectedAt time.Time
}

// Default is the document sent when no template is configured. Old is the target value
// and New the source value: the source is authoritative.
type Default struct {
	RunID      string  `json:"run_id" bson:"run_id"`
	ProjectID  string  `json:"project_id" bson:"project_id"`
	RecordID   string  `json:"record_id" bson:"record_id"`
	FieldName  string  `json:"field_name" bson:"field_name"`
	OldValue   *string `json:"old_value" bson:"old_value"`
	NewValue   *string `json:"new_value" bson:"new_value"`
	ChangeType string  `json:"change_type" bson:"change_type"`
	DetectedAt string  `json:"detected_at" bson:"detected_at"`
}

// Default returns the default document for p.
func (p Payload) Default() Default {
	return Default{
		RunID:      p.Run.ID,
		ProjectID:  p.Run.ProjectID,
		RecordID:   p.Record.RecordID,
		FieldName:  p.Record.FieldName,
		OldValue:   p.Record.TargetValue,
		NewValue:   p.Record.SourceValue,
		ChangeType: string(p.Record.ChangeType),
		DetectedAt: p.DetectedAt.UTC().Format(time.RFC3339),
	}
}

// namespaces exposes the placeholder values of p. "comparison" aliases "run" and
// "result" aliases "difference".
func (p Payload) namespaces() map[string]map[string]any {
	run := map[string]any{
		"id":                p.Run.ID,
		"project_id":        p.Run.ProjectID,
		"status":            string(p.Run.Status),
		"total_differences": p.Run.TotalDifferences,
		"source_connection": p.Run.SourceConnection,
		"source_table":      p.Run.SourceTable,
		"target_connection": p.Run.TargetConnection,
		"target_table":      p.Run.TargetTable,
		"executed_at":       p.DetectedAt.UTC().Format(time.RFC3339),
	}
	difference := map[string]any{
		"run_id":       p.Run.ID,
		"record_id":    p.Record.RecordID,
		"field_name":   p.Record.FieldName,
		"source_value": nullable(p.Record.SourceValue),
		"target_value": nullable(p.Record.TargetValue),
		"change_type":  string(p.Record.ChangeType),
		"detected_at":  p.DetectedAt.UTC().Format(time.RFC3339),
	}
	return map[string]map[string]any{
		"run":        run,
		"comparison": run,
		"difference": difference,
		"result":     difference,
	}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

var placeholder = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

// Template is a parsed JSON payload template.
type Template struct {
	doc any
}

// ParseTemplate parses a JSON template. Placeholders may appear in any string value.
func ParseTemplate(src string) (*Template, error) {
	dec := json.NewDecoder(strings.NewReader(src))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid payload template: %w", err)
	}
	return &Template{doc: doc}, nil
}

// Render substitutes the placeholders of t with the values of p. A string consisting of
// a single placeholder takes the value's JSON type; placeholders embedded in longer
// strings are rendered as text. Unknown placeholders are left untouched.
func (t *Template) Render(p Payload) ([]byte, error) {
	return json.Marshal(substitute(t.doc, p.namespaces()))
}

func substitute(node any, ns map[string]map[string]any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = substitute(child, ns)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = substitute(child, ns)
		}
		return out
	case string:
		if m := placeholder.FindStringSubmatchIndex(v); m != nil && m[0] == 0 && m[1] == len(v) {
			if value, ok := lookup(v[m[2]:m[3]], ns); ok {
				return value
			}
			return v
		}
		return placeholder.ReplaceAllStringFunc(v, func(match string) string {
			name := placeholder.FindStringSubmatch(match)[1]
			value, ok := lookup(name, ns)
			if !ok {
				return match
			}
			if value == nil {
				return "null"
			}
			return fmt.Sprint(value)
		})
	default:
		return v
	}
}

func lookup(name string, ns map[string]map[string]any) (any, bool) {
	space, key, ok := strings.Cut(name, ".")
	if !ok {
		return nil, false
	}
	values, ok := ns[space]
	if !ok {
		return nil, false
	}
	value, ok := values[key]
	return value, ok
}

// encodeDefault renders the default JSON document for p.
func encodeDefault(p Payload) ([]byte, error) {
	return json.Marshal(p.Default())
}
