// Package sampleio reads and writes samples as whitespace-separated numbers.
package sampleio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/discochess/loadstat/analysis"
)

// Separator is the line that splits a baseline from a candidate in ParsePair.
const Separator = "---"

// maxLineSize bounds a single input line; samples are often one long line.
const maxLineSize = 16 << 20

// ErrNoSeparator is returned by ParsePair when the input has no "---" line.
var ErrNoSeparator = errors.New("sampleio: missing --- separator")

// Parse reads every whitespace-separated number from r.
// NaN and infinite values are rejected.
func Parse(r io.Reader) (analysis.Sample, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	sc.Split(bufio.ScanWords)

	var s analysis.Sample
	for sc.Scan() {
		v, err := parseValue(sc.Text(), len(s))
		if err != nil {
			return nil, err
		}
		s = append(s, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sampleio: reading: %w", err)
	}
	return s, nil
}

// ParsePair reads two samples separated by a line containing only "---".
func ParsePair(r io.Reader) (baseline, candidate analysis.Sample, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	current := &baseline
	found := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == Separator && !found {
			found = true
			current = &candidate
			continue
		}
		for _, field := range strings.Fields(line) {
			v, err := parseValue(field, len(*current))
			if err != nil {
				return nil, nil, err
			}
			*current = append(*current, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("sampleio: reading: %w", err)
	}
	if !found {
		return nil, nil, ErrNoSeparator
	}
	return baseline, candidate, nil
}

// ReadFile parses the sample stored at path.
func ReadFile(path string) (analysis.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sampleio: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Write writes s to w, one value per line, in the shortest form that
// parses back to the same float64.
func Write(w io.Writer, s analysis.Sample) error {
	bw := bufio.NewWriter(w)
	for _, v := range s {
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func parseValue(token string, index int) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("sampleio: value %d: %w", index, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("sampleio: value %d %q: %w", index, token, analysis.ErrNonFinite)
	}
	return v, nil
}
