// Package csv parses a spreadsheet CSV export into a header and rows.
//
// Parsing is strict: a malformed record or a row whose width differs from
// the header fails the whole input, since a half-read sheet must never
// replace a table.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Options configures the CSV parser behavior. The zero value parses
// comma-separated input and keeps header names as exported.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each data cell.
	TrimSpace bool

	// NormalizeHeaders maps header names to lower snake_case ASCII.
	NormalizeHeaders bool
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads the header row and every data row from r.
func (p *Parser) Parse(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(skipBOM(r))
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}

	h, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read csv header: missing header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := p.headers(h)

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		if p.opt.TrimSpace {
			for i := range row {
				row[i] = strings.TrimSpace(row[i])
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// headers strips the BOM, optionally normalizes, names blank headers col_N
// (0-based position) and suffixes repeats with .1, .2, ...
func (p *Parser) headers(h []string) []string {
	h = StripHeaderBOM(h)
	out := make([]string, len(h))
	for i, c := range h {
		c = strings.TrimSpace(c)
		if p.opt.NormalizeHeaders && c != "" {
			c = NormalizeHeader(c)
		}
		if c == "" {
			c = fmt.Sprintf("col_%d", i)
		}
		out[i] = c
	}
	return dedupe(out)
}

// dedupe compares case-insensitively because most stores fold table and
// column names.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[strings.ToLower(n)] = struct{}{}
	}

	counts := make(map[string]int, len(names))
	out := make([]string, len(names))
	first := make(map[string]bool, len(names))
	for i, n := range names {
		key := strings.ToLower(n)
		if !first[key] {
			first[key] = true
			out[i] = n
			continue
		}
		for {
			counts[key]++
			cand := fmt.Sprintf("%s.%d", n, counts[key])
			if _, taken := seen[strings.ToLower(cand)]; !taken {
				seen[strings.ToLower(cand)] = struct{}{}
				out[i] = cand
				break
			}
		}
	}
	return out
}
