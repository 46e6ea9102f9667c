// Package dataset loads ground-truth tables of (image path, expected plate) rows.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotFound is returned when the dataset file does not exist.
var ErrNotFound = errors.New("dataset not found")

const commentMarker = "#"

// Sample is one evaluation unit. An empty Expected means the row is unlabeled.
type Sample struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
}

// Labeled reports whether the sample carries ground truth.
func (s Sample) Labeled() bool {
	return s.Expected != ""
}

// Check verifies that path names an existing regular file.
func Check(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("dataset %q not accessible: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return nil
}

// Load reads the CSV dataset at path.
func Load(path string) ([]Sample, error) {
	if err := Check(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	samples, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return samples, nil
}

// Parse reads rows of the form path[,expected]. Empty rows, rows whose first
// field starts with "#" and rows with a blank path are skipped. Fields are
// trimmed; columns past the second are ignored.
func Parse(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var samples []Sample
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			if len(row) > 0 {
				row[0] = strings.TrimPrefix(row[0], "\uFEFF")
			}
		}
		if len(row) == 0 || strings.HasPrefix(row[0], commentMarker) {
			continue
		}
		path := strings.TrimSpace(row[0])
		if path == "" {
			continue
		}
		expected := ""
		if len(row) > 1 {
			expected = strings.TrimSpace(row[1])
		}
		samples = append(samples, Sample{Path: path, Expected: expected})
	}
	return samples, nil
}
