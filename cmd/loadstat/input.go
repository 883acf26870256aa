package main

import (
	"fmt"
	"io"
	"os"

	"github.com/discochess/loadstat/analysis"
	"github.com/discochess/loadstat/internal/sampleio"
)

// column selects a CSV column instead of whitespace-separated input.
var column string

// readSample reads a sample from path, or from r when path is "" or "-".
func readSample(r io.Reader, path string) (analysis.Sample, error) {
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var (
		s   analysis.Sample
		err error
	)
	if column != "" {
		s, err = sampleio.ParseCSVColumn(r, column)
	} else {
		s, err = sampleio.Parse(r)
	}
	if err != nil {
		if path != "" && path != "-" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	return s, nil
}

// readPair reads the baseline and candidate named by args. With no
// arguments, or a single "-", both come from r separated by a "---" line.
func readPair(r io.Reader, args []string) (baseline, candidate analysis.Sample, err error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return sampleio.ParsePair(r)
	}
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("expected BASELINE and CANDIDATE files, got %d arguments", len(args))
	}
	if args[0] == "-" && args[1] == "-" {
		return nil, nil, fmt.Errorf("only one sample can be read from stdin")
	}

	if baseline, err = readSample(r, args[0]); err != nil {
		return nil, nil, fmt.Errorf("reading baseline: %w", err)
	}
	if candidate, err = readSample(r, args[1]); err != nil {
		return nil, nil, fmt.Errorf("reading candidate: %w", err)
	}
	return baseline, candidate, nil
}

func argOrEmpty(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().StringVar(&column, "column", "", "read samples from this column of CSV input with a header row")
}
