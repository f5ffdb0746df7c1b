package harness

import (
	"fmt"
	"sort"

	"github.com/roach88/fxbgp/internal/infer"
	"github.com/roach88/fxbgp/internal/role"
	"github.com/roach88/fxbgp/internal/term"
)

// ExpectationError is reported when an expectation does not hold.
type ExpectationError struct {
	Subject  string // What was checked, e.g. "roles[?x]"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Subject, e.Expected, e.Actual)
}

// EvaluateExpectations checks result against expect.
// Returns one message per failed expectation, in a stable order.
func EvaluateExpectations(result *Result, expect Expect, prefixes term.Prefixes) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if expect.Contradiction != nil {
		for _, err := range expectContradiction(result, expect.Contradiction, prefixes) {
			add(err)
		}
		return errs
	}

	if result.Contradiction != nil {
		add(&ExpectationError{
			Subject:  "outcome",
			Expected: "a solution",
			Actual:   result.Contradiction.Error(),
		})
		return errs
	}

	nodes := make([]string, 0, len(expect.Roles))
	for node := range expect.Roles {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		add(expectRole(result.Outcome.Assignment, node, expect.Roles[node], prefixes))
	}

	if expect.Stats != nil {
		add(expectStats(result.Outcome.Stats, *expect.Stats))
	}

	return errs
}

func expectRole(a *infer.Assignment, node, name string, prefixes term.Prefixes) error {
	subject := fmt.Sprintf("roles[%s]", node)

	n, err := term.ParseTerm(node, prefixes)
	if err != nil {
		return fmt.Errorf("%s: %w", subject, err)
	}
	want, err := role.ParseRole(name)
	if err != nil {
		return fmt.Errorf("%s: %w", subject, err)
	}

	got, ok := a.Role(n)
	if !ok {
		return &ExpectationError{Subject: subject, Expected: want.String(), Actual: "no role (node not in pattern)"}
	}
	if got != want {
		return &ExpectationError{Subject: subject, Expected: want.String(), Actual: got.String()}
	}
	return nil
}

func expectStats(got infer.Stats, want ExpectStats) error {
	if got.Passes == want.Passes && got.Proposals == want.Proposals && got.Changes == want.Changes {
		return nil
	}
	return &ExpectationError{
		Subject:  "stats",
		Expected: formatStats(want.Passes, want.Proposals, want.Changes),
		Actual:   formatStats(got.Passes, got.Proposals, got.Changes),
	}
}

func formatStats(passes, proposals, changes int) string {
	return fmt.Sprintf("passes=%d proposals=%d changes=%d", passes, proposals, changes)
}

func expectContradiction(result *Result, want *ExpectContradiction, prefixes term.Prefixes) []error {
	c := result.Contradiction
	if c == nil {
		return []error{&ExpectationError{
			Subject:  "outcome",
			Expected: fmt.Sprintf("a %s contradiction", want.Kind),
			Actual:   "a solution",
		}}
	}

	var errs []error
	if string(c.Kind) != want.Kind {
		errs = append(errs, &ExpectationError{Subject: "contradiction.kind", Expected: want.Kind, Actual: string(c.Kind)})
	}

	if want.Node != "" {
		n, err := term.ParseTerm(want.Node, prefixes)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("contradiction.node: %w", err))
		case c.Node == nil:
			errs = append(errs, &ExpectationError{Subject: "contradiction.node", Expected: n.Key(), Actual: "no node"})
		case c.Node.Key() != n.Key():
			errs = append(errs, &ExpectationError{Subject: "contradiction.node", Expected: n.Key(), Actual: c.Node.Key()})
		}
	}

	if want.Triple != nil && *want.Triple != c.Triple {
		errs = append(errs, &ExpectationError{
			Subject:  "contradiction.triple",
			Expected: fmt.Sprint(*want.Triple),
			Actual:   fmt.Sprint(c.Triple),
		})
	}

	if want.Position != "" && want.Position != c.Position {
		errs = append(errs, &ExpectationError{Subject: "contradiction.position", Expected: want.Position, Actual: c.Position})
	}

	return errs
}
