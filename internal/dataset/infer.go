package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the logical type inferred for a column. Dialects map kinds onto
// concrete SQL types.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindReal
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	default:
		return "text"
	}
}

// InferKinds guesses a Kind for every column of d.
//
// A column gets a narrower kind only when every non-empty cell satisfies it;
// columns that are entirely empty are text.
func InferKinds(d Dataset) []Kind {
	kinds := make([]Kind, len(d.Columns))
	for i := range d.Columns {
		col := make([]string, 0, len(d.Rows))
		for _, row := range d.Rows {
			if i < len(row) {
				col = append(col, row[i])
			}
		}
		kinds[i] = inferKind(col)
	}
	return kinds
}

func inferKind(values []string) Kind {
	nonEmpty := nonEmptyTrimmed(values)
	if len(nonEmpty) == 0 {
		return KindText
	}
	if allMatch(nonEmpty, isInt) {
		return KindInteger
	}
	if allMatch(nonEmpty, isFloat) {
		return KindReal
	}
	if allMatch(nonEmpty, isBool) {
		return KindBoolean
	}
	return KindText
}

// Convert turns a raw cell into the value bound for a column of kind k. Empty
// cells become nil (NULL). Cells that do not parse are passed through as
// strings, which only happens when callers convert with a kind that was not
// inferred from the same data.
func Convert(k Kind, s string) any {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	switch k {
	case KindInteger:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case KindReal:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case KindBoolean:
		return strings.EqualFold(v, "true")
	}
	return s
}

// nonEmptyTrimmed returns the non-empty, trimmed values.
func nonEmptyTrimmed(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// allMatch reports whether every value satisfies fn.
func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

// isInt requires a signed base-10 integer that fits in int64.
func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isFloat accepts decimal or scientific notation, integers included, but not
// NaN or infinities.
func isFloat(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// isBool accepts the TRUE/FALSE spelling spreadsheets export.
func isBool(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}
