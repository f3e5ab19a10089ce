package workflow

import (
	"fmt"

	"sheetsync/internal/schema"
)

// Kind classifies a batch-fatal failure.
type Kind int

const (
	// KindConfig covers unknown processes and missing statement sets.
	KindConfig Kind = iota + 1
	// KindSource covers unreachable or malformed spreadsheets.
	KindSource
	// KindStore covers connection, inspection and transaction failures.
	KindStore
	// KindPrompt covers an unreadable confirmation answer.
	KindPrompt
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindSource:
		return "source"
	case KindStore:
		return "store"
	case KindPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// Error is a batch-fatal failure. Per-table failures are not Errors; they
// are collected in storage.Report.
type Error struct {
	Kind Kind
	Op   schema.Operation
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error during %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(kind Kind, op schema.Operation, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ParseProcess maps a process name to its operation. Unknown names are a
// configuration error.
func ParseProcess(name string) (schema.Operation, error) {
	op, err := schema.ParseOperation(name)
	if err != nil {
		return "", fail(KindConfig, "", err)
	}
	return op, nil
}
