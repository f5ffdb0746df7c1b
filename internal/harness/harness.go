package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/fxbgp/internal/infer"
	"github.com/roach88/fxbgp/internal/naming"
	"github.com/roach88/fxbgp/internal/term"
	"github.com/roach88/fxbgp/internal/testutil"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matches.
	Pass bool `json:"pass"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Outcome is the inference result; nil when the run failed.
	Outcome *infer.Result `json:"-"`

	// Contradiction is the reason a run failed; nil when it succeeded.
	Contradiction *infer.Contradiction `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// A contradiction is an outcome, not an error: it is recorded on the result
// and checked against the expectations. The error return is reserved for
// scenarios that cannot be run at all (bad terms, invalid conventions).
//
// Execution flow:
// 1. Parse the triples with the scenario prefixes
// 2. Build the naming oracle from the conventions
// 3. Infer with a fixed run id and a discarding logger
// 4. Evaluate expectations against the outcome
func Run(scenario *Scenario) (*Result, error) {
	prefixes := term.DefaultPrefixes().With(scenario.Prefixes)

	pattern, err := term.ParsePattern(scenario.Triples, prefixes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse triples: %w", err)
	}

	oracle, err := naming.New(scenario.Conventions.options())
	if err != nil {
		return nil, fmt.Errorf("failed to build conventions: %w", err)
	}

	opts := []infer.Option{
		infer.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
		infer.WithRunIDs(testutil.NewFixedRunIDs(scenario.Name)),
	}
	if scenario.Conventions.StrictSubjects {
		opts = append(opts, infer.WithStrictSubjects())
	}

	result := NewResult()
	outcome, err := infer.Infer(pattern, oracle, opts...)
	if err != nil {
		c, ok := infer.AsContradiction(err)
		if !ok {
			return nil, fmt.Errorf("failed to infer: %w", err)
		}
		result.Contradiction = c
	} else {
		result.Outcome = outcome
	}

	for _, msg := range EvaluateExpectations(result, scenario.Expect, prefixes) {
		result.AddError(msg)
	}

	return result, nil
}

func (c Conventions) options() naming.Options {
	return naming.Options{
		Namespace:      c.Namespace,
		RowIndexPrefix: c.RowIndexPrefix,
		TypePredicates: c.TypePredicates,
		RootType:       c.RootType,
		Tables:         c.Tables,
	}
}
