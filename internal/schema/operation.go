// Package schema holds the typed vocabulary shared by every stage of a sync
// run: the accepted operations, the DDL statement registry loaded from the
// config file, and the point-in-time catalog snapshot read from the store.
//
// The package is a leaf: it imports nothing from the rest of the module so
// config, storage, guard and workflow can all depend on it.
package schema

import (
	"fmt"
	"strings"
)

// Operation names one of the processes an operator can run.
type Operation string

const (
	// OpLoad pulls spreadsheets and overwrites tables with their content.
	OpLoad Operation = "load"
	// OpBuild runs the "build" DDL statements (typically CREATE TABLE).
	OpBuild Operation = "build"
	// OpDrop runs the "drop" DDL statements (typically DROP TABLE).
	OpDrop Operation = "drop"
)

// Operations lists every accepted operation in display order.
var Operations = []Operation{OpLoad, OpBuild, OpDrop}

// DDLOperations lists the operations backed by DDL statement sets.
var DDLOperations = []Operation{OpBuild, OpDrop}

type tense struct {
	present string
	past    string
	verb    string
}

var tenses = map[Operation]tense{
	OpLoad:  {present: "loading", past: "loaded", verb: "overwrite"},
	OpBuild: {present: "building", past: "built", verb: "overwrite"},
	OpDrop:  {present: "dropping", past: "dropped", verb: "drop"},
}

// ParseOperation returns the Operation named by s. Matching is exact; an
// unknown name yields an error listing the accepted names.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.TrimSpace(s))
	if _, ok := tenses[op]; !ok {
		return "", fmt.Errorf("unknown operation %q; accepted operations: %s", s, joinOps(Operations))
	}
	return op, nil
}

// Valid reports whether o is one of the accepted operations.
func (o Operation) Valid() bool {
	_, ok := tenses[o]
	return ok
}

// IsDDL reports whether o is executed from a DDL statement set.
func (o Operation) IsDDL() bool { return o == OpBuild || o == OpDrop }

// Present is the progressive form used in progress and error lines
// ("dropping").
func (o Operation) Present() string { return tenses[o].present }

// Past is the past-tense form used in success lines ("dropped").
func (o Operation) Past() string { return tenses[o].past }

// Verb is what the operation does to tables that already exist. It is used
// in confirmation prompts ("overwrite", "drop").
func (o Operation) Verb() string { return tenses[o].verb }

func (o Operation) String() string { return string(o) }

func joinOps(ops []Operation) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return strings.Join(parts, ", ")
}
