package tabular

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmptyContent    = errors.New("upload content is empty")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// Table is an uploaded dataset: ordered unique column names and string cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	index   map[string]int
}

// NewTable builds a table from a header row and data rows. Blank headers
// become "Unnamed: <i>" and repeated headers get ".1", ".2" suffixes so
// every column stays addressable by name.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		Columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
	}

	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0
		t.Columns[i] = name
		t.index[name] = i
	}

	t.Rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		row := make([]string, len(header))
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// UnmarshalJSON restores the column index of a stored table.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw struct {
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = *NewTable(raw.Columns, raw.Rows)
	return nil
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Has(cols ...string) bool {
	return len(t.Missing(cols...)) == 0
}

// Missing returns the requested columns that are not in the table.
func (t *Table) Missing(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if t == nil {
			missing = append(missing, c)
			continue
		}
		if _, ok := t.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Column returns the raw cells of a column, nil when absent.
func (t *Table) Column(name string) []string {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Floats returns the column as numbers; blank or non-numeric cells are NaN.
func (t *Table) Floats(name string) []float64 {
	cells := t.Column(name)
	if cells == nil {
		return nil
	}
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = ParseFloat(c)
	}
	return out
}

// ParseFloat parses a cell, accepting thousands separators. NaN on failure.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// DropEmpty removes columns whose cells are all blank, then rows whose
// remaining cells are all blank.
func (t *Table) DropEmpty() *Table {
	if t == nil {
		return nil
	}

	var keep []int
	for i := range t.Columns {
		for _, row := range t.Rows {
			if strings.TrimSpace(row[i]) != "" {
				keep = append(keep, i)
				break
			}
		}
	}

	header := make([]string, len(keep))
	for j, i := range keep {
		header[j] = t.Columns[i]
	}

	var rows [][]string
	for _, row := range t.Rows {
		out := make([]string, len(keep))
		blank := true
		for j, i := range keep {
			out[j] = row[i]
			if strings.TrimSpace(row[i]) != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, out)
		}
	}

	// Names are already unique, keep them verbatim.
	res := &Table{Columns: header, Rows: rows, index: make(map[string]int, len(header))}
	if res.Rows == nil {
		res.Rows = [][]string{}
	}
	for i, h := range header {
		res.index[h] = i
	}
	return res
}
