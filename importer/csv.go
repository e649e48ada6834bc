package importer

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Row is one CSV record mapped onto the concept fields.
type Row struct {
	Line       int
	PrefLabel  string `validate:"required"`
	AltLabels  []string
	Definition string
	ID         string `validate:"omitempty,max=256"`
}

// columnAliases maps accepted header names to the field they fill.
var columnAliases = map[string]string{
	"preflabel":  "prefLabel",
	"label":      "prefLabel",
	"term":       "prefLabel",
	"altlabel":   "altLabel",
	"alt":        "altLabel",
	"definition": "definition",
	"desc":       "definition",
	"id":         "id",
}

// ReadRows reads a CSV with a header row. Cells are trimmed and missing trailing
// cells read as empty. Rows are not validated here.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ValidationError{Field: "header", Reason: "file is empty"}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}

	columns := make(map[string]int)
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		field, ok := columnAliases[name]
		if !ok {
			continue
		}
		if _, seen := columns[field]; !seen {
			columns[field] = i
		}
	}
	if _, ok := columns["prefLabel"]; !ok {
		return nil, &ValidationError{Line: 1, Field: "header", Reason: "missing prefLabel column"}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CSV row")
		}
		line, _ := reader.FieldPos(0)

		cell := func(field string) string {
			i, ok := columns[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		rows = append(rows, Row{
			Line:       line,
			PrefLabel:  cell("prefLabel"),
			AltLabels:  splitAltLabels(cell("altLabel")),
			Definition: cell("definition"),
			ID:         cell("id"),
		})
	}
}

// splitAltLabels splits on '|', trimming each part and dropping empty ones.
func splitAltLabels(field string) []string {
	var out []string
	for _, part := range strings.Split(field, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
