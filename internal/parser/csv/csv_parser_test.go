package csv_test

import (
	"reflect"
	"strings"
	"testing"

	pcsv "sheetsync/internal/parser/csv"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opt      pcsv.Options
		in       string
		wantCols []string
		wantRows [][]string
	}{
		{
			name:     "plain",
			in:       "id,name\n1,apple\n2,\"pear, green\"\n",
			wantCols: []string{"id", "name"},
			wantRows: [][]string{{"1", "apple"}, {"2", "pear, green"}},
		},
		{
			name:     "bom before quoted header",
			in:       "\uFEFF\"id\",name\n1,a\n",
			wantCols: []string{"id", "name"},
			wantRows: [][]string{{"1", "a"}},
		},
		{
			name:     "blank headers get positional names",
			in:       "id,,\n1,2,3\n",
			wantCols: []string{"id", "col_1", "col_2"},
			wantRows: [][]string{{"1", "2", "3"}},
		},
		{
			name:     "duplicates get suffixes",
			in:       "a,b,a,A,a.1\n1,2,3,4,5\n",
			wantCols: []string{"a", "b", "a.2", "A.3", "a.1"},
			wantRows: [][]string{{"1", "2", "3", "4", "5"}},
		},
		{
			name:     "header only",
			in:       "id,name\n",
			wantCols: []string{"id", "name"},
		},
		{
			name:     "normalized headers",
			opt:      pcsv.Options{NormalizeHeaders: true, TrimSpace: true},
			in:       "Datum od, Cena (Kč) ,RM Název\n 2024-01-01 , 10 ,x\n",
			wantCols: []string{"datum_od", "cena_kc", "rm_nazev"},
			wantRows: [][]string{{"2024-01-01", "10", "x"}},
		},
		{
			name:     "semicolon",
			opt:      pcsv.Options{Comma: ';'},
			in:       "a;b\n1;2\n",
			wantCols: []string{"a", "b"},
			wantRows: [][]string{{"1", "2"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cols, rows, err := pcsv.NewParser(tt.opt).Parse(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("Parse error = %v", err)
			}
			if !reflect.DeepEqual(cols, tt.wantCols) {
				t.Fatalf("cols = %v, want %v", cols, tt.wantCols)
			}
			if !reflect.DeepEqual(rows, tt.wantRows) {
				t.Fatalf("rows = %v, want %v", rows, tt.wantRows)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"ragged row", "a,b\n1\n"},
		{"bare quote", "a,b\n1,x\"y\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, _, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(tt.in)); err == nil {
				t.Fatalf("Parse(%q) error = nil, want non-nil", tt.in)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"PČV":          "pcv",
		"Datum do":     "datum_do",
		"  RM  kód ":   "rm_kod",
		"a--b..c":      "a_b_c",
		"€":            "col",
		"Unit/Price":   "unit_price",
		"already_fine": "already_fine",
	}
	for in, want := range tests {
		if got := pcsv.NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripHeaderBOM(t *testing.T) {
	t.Parallel()

	got := pcsv.StripHeaderBOM([]string{"\uFEFFid", "name"})
	if got[0] != "id" {
		t.Fatalf("StripHeaderBOM = %q, want id", got[0])
	}
	if len(pcsv.StripHeaderBOM(nil)) != 0 {
		t.Fatalf("StripHeaderBOM(nil) should be empty")
	}
}
