package s3

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

// indexRow is the wire shape of one index row. Identifier columns may be
// written as numbers or strings depending on how the index was exported.
type indexRow struct {
	FormType         flexString `json:"FormType"`
	URL              flexString `json:"URL"`
	EIN              flexString `json:"EIN"`
	TaxPeriod        flexString `json:"TaxPeriod"`
	OrganizationName flexString `json:"OrganizationName"`
	ObjectID         flexString `json:"ObjectId"`
}

func (r indexRow) entry() domain.IndexEntry {
	return domain.IndexEntry{
		FormType:         string(r.FormType),
		URL:              string(r.URL),
		EIN:              string(r.EIN),
		TaxPeriod:        string(r.TaxPeriod),
		OrganizationName: string(r.OrganizationName),
		ObjectID:         string(r.ObjectID),
	}
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = flexString(n.String())
		return nil
	}
}

var errTrailingData = errors.New("unexpected data after column-oriented index")

// columnar reports whether obj is a column-oriented export, where every
// column maps row labels to values: {"FormType": {"0": "990PF"}, ...}.
func columnar(obj json.RawMessage) (map[string]map[string]json.RawMessage, bool) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(obj, &top); err != nil || len(top) == 0 {
		return nil, false
	}

	cols := make(map[string]map[string]json.RawMessage, len(top))
	for name, raw := range top {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, false
		}
		var col map[string]json.RawMessage
		if err := json.Unmarshal(raw, &col); err != nil {
			return nil, false
		}
		cols[name] = col
	}
	return cols, true
}

// decodeColumns emits one entry per row label, ordered by label.
// Numeric labels sort numerically.
func decodeColumns(cols map[string]map[string]json.RawMessage, fn func(domain.IndexEntry)) error {
	seen := make(map[string]bool)
	var labels []string
	for _, col := range cols {
		for label := range col {
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		a, errA := strconv.Atoi(labels[i])
		b, errB := strconv.Atoi(labels[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return labels[i] < labels[j]
	})

	for _, label := range labels {
		cells := make(map[string]json.RawMessage, len(cols))
		for name, col := range cols {
			if v, ok := col[label]; ok {
				cells[name] = v
			}
		}
		data, err := json.Marshal(cells)
		if err != nil {
			return err
		}
		var row indexRow
		if err := json.Unmarshal(data, &row); err != nil {
			return fmt.Errorf("row %s: %w", label, err)
		}
		fn(row.entry())
	}
	return nil
}
