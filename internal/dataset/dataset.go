// Package dataset defines the in-memory table a spreadsheet is read into and
// the helpers the store writer needs to persist it: column type inference,
// cell conversion and a content fingerprint.
package dataset

import (
	"github.com/zeebo/xxh3"
)

// Dataset is one named table's worth of rows. Every row has len(Columns)
// cells; an empty cell is written as NULL.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Fingerprint returns an xxh3 hash of the header and every cell. Two datasets
// with the same content (regardless of name) have the same fingerprint, which
// makes it easy to spot unchanged sheets in the run log.
func (d Dataset) Fingerprint() uint64 {
	h := xxh3.New()
	writeRow(h, d.Columns)
	for _, row := range d.Rows {
		writeRow(h, row)
	}
	return h.Sum64()
}

// writeRow feeds cells to h with unit/record separators so that
// ["ab","c"] and ["a","bc"] hash differently.
func writeRow(h *xxh3.Hasher, cells []string) {
	for _, c := range cells {
		_, _ = h.WriteString(c)
		_, _ = h.Write([]byte{0x1f})
	}
	_, _ = h.Write([]byte{0x1e})
}

// Set is an ordered collection of datasets, in source order.
type Set []Dataset

// Names returns the dataset names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, d := range s {
		names[i] = d.Name
	}
	return names
}

// Get returns the dataset called name.
func (s Set) Get(name string) (Dataset, bool) {
	for _, d := range s {
		if d.Name == name {
			return d, true
		}
	}
	return Dataset{}, false
}
