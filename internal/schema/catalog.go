package schema

import "strings"

// Catalog is a point-in-time snapshot of the tables present in a store.
//
// FoldCase is set by stores whose table names are case-insensitive, so that
// "Items" and "items" are treated as the same table when looking for
// overlaps.
type Catalog struct {
	Tables   []string
	FoldCase bool
}

// Contains reports whether name is present in the snapshot.
func (c Catalog) Contains(name string) bool {
	for _, t := range c.Tables {
		if t == name || (c.FoldCase && strings.EqualFold(t, name)) {
			return true
		}
	}
	return false
}
