// Package guard implements the confirmation gate that stands between a
// destructive or overwriting operation and the store.
//
// The rule: when any proposed table already exists, nothing proceeds without
// the operator typing exactly "y".
package guard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"sheetsync/internal/console"
	"sheetsync/internal/schema"
)

// Decision is the outcome of Evaluate. The zero value means the guard was
// never consulted.
type Decision int

const (
	// Proceed means the caller may write.
	Proceed Decision = iota + 1
	// Abort means the operator declined.
	Abort
	// NoOp means there is nothing to do.
	NoOp
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Abort:
		return "abort"
	case NoOp:
		return "no-op"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Guard prompts on out and reads the answer from in.
type Guard struct {
	in  *bufio.Reader
	out *console.Console
}

func New(in io.Reader, out *console.Console) *Guard {
	if out == nil {
		out = console.New(nil, false)
	}
	return &Guard{in: bufio.NewReader(in), out: out}
}

// Overlap returns the proposed names present in existing, in proposed order
// and without duplicates.
func Overlap(proposed []string, existing schema.Catalog) []string {
	var out []string
	seen := make(map[string]struct{}, len(proposed))
	for _, name := range proposed {
		key := name
		if existing.FoldCase {
			key = strings.ToLower(name)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		if existing.Contains(name) {
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// Evaluate decides whether op may run against the proposed tables.
//
// Notes are printed before the prompt and never change the outcome. A read
// error other than EOF is returned together with Abort.
func (g *Guard) Evaluate(proposed []string, existing schema.Catalog, op schema.Operation, notes ...string) (Decision, error) {
	overlap := Overlap(proposed, existing)
	if len(overlap) == 0 {
		if op == schema.OpDrop {
			g.out.Infof("No tables to drop, exiting process")
			return NoOp, nil
		}
		return Proceed, nil
	}

	for _, n := range notes {
		g.out.Warnf("%s", n)
	}
	g.out.Printf("You are about to %s the following %d tables: [%s] - do you want to continue? [y/n] ",
		op.Verb(), len(overlap), strings.Join(overlap, ", "))

	answer, err := g.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		g.out.Infof("")
		g.out.Failf("Aborting...")
		return Abort, fmt.Errorf("guard: read confirmation: %w", err)
	}
	if errors.Is(err, io.EOF) {
		// The prompt line was never terminated.
		g.out.Infof("")
	}

	if strings.TrimRight(answer, "\r\n") == "y" {
		return Proceed, nil
	}
	g.out.Failf("Aborting...")
	return Abort, nil
}
