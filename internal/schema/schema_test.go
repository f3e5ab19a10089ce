package schema

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Operation
		wantErr bool
	}{
		{in: "load", want: OpLoad},
		{in: "build", want: OpBuild},
		{in: " drop ", want: OpDrop},
		{in: "Drop", wantErr: true},
		{in: "migrate", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOperation(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOperation(%q) error = nil, want non-nil", tt.in)
				}
				if !strings.Contains(err.Error(), "load, build, drop") {
					t.Fatalf("error %q does not list accepted operations", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOperation(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseOperation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOperationTenses(t *testing.T) {
	t.Parallel()

	if OpDrop.Present() != "dropping" || OpDrop.Past() != "dropped" || OpDrop.Verb() != "drop" {
		t.Fatalf("unexpected drop tenses: %q %q %q", OpDrop.Present(), OpDrop.Past(), OpDrop.Verb())
	}
	if OpLoad.Verb() != "overwrite" || OpBuild.Verb() != "overwrite" {
		t.Fatalf("load/build verbs = %q/%q, want overwrite", OpLoad.Verb(), OpBuild.Verb())
	}
	if OpLoad.IsDDL() || !OpBuild.IsDDL() || !OpDrop.IsDDL() {
		t.Fatalf("IsDDL mismatch")
	}
}

func TestNewRegistry_PreservesOrder(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(map[string][]Statement{
		"build": {
			{Table: "things", SQL: "CREATE TABLE IF NOT EXISTS things (id INTEGER)"},
			{Table: "items", SQL: "CREATE TABLE IF NOT EXISTS items (id INTEGER)"},
		},
		"drop": {
			{Table: "items", SQL: "DROP TABLE IF EXISTS items"},
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry error = %v", err)
	}

	stmts, err := r.Statements(OpBuild)
	if err != nil {
		t.Fatalf("Statements(build) error = %v", err)
	}
	if got, want := Tables(stmts), []string{"things", "items"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Tables = %v, want %v", got, want)
	}

	// Callers get a copy; mutating it must not leak into the registry.
	stmts[0].Table = "mutated"
	again, _ := r.Statements(OpBuild)
	if again[0].Table != "things" {
		t.Fatalf("registry was mutated through returned slice")
	}
}

func TestNewRegistry_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sets map[string][]Statement
	}{
		{"unknown operation", map[string][]Statement{"migrate": {{Table: "a", SQL: "x"}}}},
		{"load has no ddl", map[string][]Statement{"load": {{Table: "a", SQL: "x"}}}},
		{"empty table", map[string][]Statement{"build": {{Table: " ", SQL: "x"}}}},
		{"empty sql", map[string][]Statement{"build": {{Table: "a", SQL: ""}}}},
		{"duplicate table", map[string][]Statement{"drop": {{Table: "a", SQL: "x"}, {Table: "a", SQL: "y"}}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewRegistry(tt.sets); err == nil {
				t.Fatalf("NewRegistry error = nil, want non-nil")
			}
		})
	}
}

func TestRegistry_StatementsMissing(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(map[string][]Statement{"build": {{Table: "a", SQL: "x"}}})
	if err != nil {
		t.Fatalf("NewRegistry error = %v", err)
	}
	if _, err := r.Statements(OpDrop); err == nil {
		t.Fatalf("Statements(drop) error = nil, want non-nil")
	}
	if _, err := r.Statements(OpLoad); err == nil {
		t.Fatalf("Statements(load) error = nil, want non-nil")
	}
}

func TestCatalogContains(t *testing.T) {
	t.Parallel()

	exact := Catalog{Tables: []string{"items"}}
	if !exact.Contains("items") || exact.Contains("Items") {
		t.Fatalf("exact catalog matching is wrong")
	}
	folded := Catalog{Tables: []string{"items"}, FoldCase: true}
	if !folded.Contains("ITEMS") {
		t.Fatalf("folded catalog should match ITEMS")
	}
}
