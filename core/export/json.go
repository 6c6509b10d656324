package export

import (
	"encoding/json"

	"tablediff/core/diff"
	"tablediff/core/results"
)

// document is the JSON export layout. Struct field order fixes the key order.
type document struct {
	Comparison *results.Run  `json:"comparison"`
	Results    []diff.Record `json:"results"`
}

// JSONFormatter renders the run metadata and its records as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Format(run *results.Run, records []diff.Record) ([]byte, error) {
	if records == nil {
		records = []diff.Record{}
	}
	out, err := json.MarshalIndent(document{Comparison: run, Results: records}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (JSONFormatter) Extension() string { return "json" }

func (JSONFormatter) MIMEType() string { return "application/json" }

// Decode parses a JSON export back into its run and records.
func Decode(data []byte) (*results.Run, []diff.Record, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	return doc.Comparison, doc.Results, nil
}
