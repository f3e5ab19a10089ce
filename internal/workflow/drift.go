package workflow

import (
	"context"
	"fmt"
	"strings"

	"sheetsync/internal/dataset"
	"sheetsync/internal/schema"
)

// driftNotes describes column changes for every incoming dataset whose table
// already exists. skip names a column the writer adds itself (the index
// column) and is ignored on both sides.
func driftNotes(ctx context.Context, st Store, set dataset.Set, existing schema.Catalog, skip string) ([]string, error) {
	var notes []string
	for _, ds := range set {
		if !existing.Contains(ds.Name) {
			continue
		}
		cols, err := st.Columns(ctx, ds.Name)
		if err != nil {
			return nil, err
		}
		if n := driftNote(ds.Name, cols, ds.Columns, skip); n != "" {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

func driftNote(table string, have, want []string, skip string) string {
	added := missing(want, have, skip)
	removed := missing(have, want, skip)
	var parts []string
	if len(added) > 0 {
		parts = append(parts, fmt.Sprintf("added [%s]", strings.Join(added, ", ")))
	}
	if len(removed) > 0 {
		parts = append(parts, fmt.Sprintf("removed [%s]", strings.Join(removed, ", ")))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("%s: columns %s", table, strings.Join(parts, ", "))
}

// missing returns the names of a not present in b, comparing case-insensitively.
func missing(a, b []string, skip string) []string {
	var out []string
	for _, x := range a {
		if skip != "" && strings.EqualFold(x, skip) {
			continue
		}
		found := false
		for _, y := range b {
			if strings.EqualFold(x, y) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, x)
		}
	}
	return out
}
