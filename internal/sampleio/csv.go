package sampleio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/discochess/loadstat/analysis"
)

// ErrNoColumn is returned by ParseCSVColumn when the header lacks the column.
var ErrNoColumn = errors.New("sampleio: column not found")

// ParseCSVColumn reads one named column from CSV input with a header row,
// such as the per-interval results files written by load generators.
// Empty cells are skipped.
func ParseCSVColumn(r io.Reader, column string) (analysis.Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, column)
	}
	if err != nil {
		return nil, fmt.Errorf("sampleio: reading csv header: %w", err)
	}

	idx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, column)
	}

	var s analysis.Sample
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sampleio: reading csv: %w", err)
		}
		if idx >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[idx])
		if cell == "" {
			continue
		}
		v, err := parseValue(cell, len(s))
		if err != nil {
			return nil, err
		}
		s = append(s, v)
	}
	return s, nil
}
