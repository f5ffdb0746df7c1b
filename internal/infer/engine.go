package infer

import (
	"errors"
	"io"
	"log/slog"

	"github.com/roach88/fxbgp/internal/role"
	"github.com/roach88/fxbgp/internal/term"
)

// Stats summarizes the work done by one inference run.
type Stats struct {
	Passes    int `json:"passes"`
	Proposals int `json:"proposals"`
	Changes   int `json:"changes"`
}

// Result is the outcome of a successful inference.
type Result struct {
	Assignment *Assignment
	Stats      Stats
}

// Engine infers roles for one pattern.
//
// An Engine is single-use: the first call to Infer runs the fixpoint and
// records the outcome, later calls return that same outcome.
//
// INVARIANTS:
//   - Every node holds at most one role
//   - A stored role is only ever replaced by a specialization of itself
//   - The first contradiction aborts the run; no partial assignment escapes
//   - An unrelated proposal is held back until the fixpoint, where it must
//     be refined by the node's final role
type Engine struct {
	pattern  term.Pattern
	classify classifier
	logger   *slog.Logger
	runIDs   RunIDGenerator

	done   bool
	result *Result
	err    error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for pass and merge diagnostics.
//
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStrictSubjects makes named-entity subjects pass the oracle's table
// convention before they are classified.
func WithStrictSubjects() Option {
	return func(e *Engine) {
		e.classify.strictSubjects = true
	}
}

// WithRunIDs sets the generator for the run id attached to log records.
func WithRunIDs(gen RunIDGenerator) Option {
	return func(e *Engine) {
		if gen != nil {
			e.runIDs = gen
		}
	}
}

// New creates an Engine for the given pattern.
//
// The pattern slice is copied so later mutation by the caller cannot
// change the outcome.
func New(p term.Pattern, oracle Oracle, opts ...Option) *Engine {
	patternCopy := make(term.Pattern, len(p))
	copy(patternCopy, p)

	e := &Engine{
		pattern:  patternCopy,
		classify: classifier{oracle: oracle},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs:   UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Infer runs inference for p with a fresh Engine.
func Infer(p term.Pattern, oracle Oracle, opts ...Option) (*Result, error) {
	return New(p, oracle, opts...).Infer()
}

// Infer runs the fixpoint and returns the frozen assignment, or the first
// contradiction found.
func (e *Engine) Infer() (*Result, error) {
	if e.done {
		return e.result, e.err
	}
	e.result, e.err = e.run()
	e.done = true
	return e.result, e.err
}

type position struct {
	name string
	node func(term.Triple) term.Node
	rule func(classifier, term.Triple, snapshot) (role.Role, *Contradiction)
}

// Subject, predicate, object: the order proposals are merged within a triple.
var positions = [...]position{
	{"subject", func(t term.Triple) term.Node { return t.Subject }, classifier.subject},
	{"predicate", func(t term.Triple) term.Node { return t.Predicate }, classifier.predicate},
	{"object", func(t term.Triple) term.Node { return t.Object }, classifier.object},
}

func (e *Engine) run() (*Result, error) {
	if e.classify.oracle == nil {
		return nil, errors.New("infer: oracle is required")
	}
	if err := e.pattern.Validate(); err != nil {
		return nil, err
	}

	logger := e.logger.With("run", e.runIDs.Generate())
	assign := newAssignment(e.pattern)
	var stats Stats

	for {
		stats.Passes++
		changed := 0

		for i, t := range e.pattern {
			for _, pos := range positions {
				node := pos.node(t)
				proposed, c := pos.rule(e.classify, t, assign)
				if c == nil {
					stats.Proposals++
					var ok bool
					ok, c = assign.merge(node, proposed, site{triple: i, position: pos.name})
					if ok {
						changed++
						logger.Debug("role changed",
							"pass", stats.Passes,
							"triple", i,
							"position", pos.name,
							"node", node.Key(),
							"role", proposed.String(),
						)
					}
				}
				if c != nil {
					c.Triple = i
					c.Position = pos.name
					warnContradiction(logger, c)
					return nil, c
				}
			}
		}

		stats.Changes += changed
		logger.Debug("pass complete", "pass", stats.Passes, "changes", changed)
		if changed == 0 {
			break
		}
	}

	if c := assign.unresolved(); c != nil {
		warnContradiction(logger, c)
		return nil, c
	}

	return &Result{Assignment: assign, Stats: stats}, nil
}

func warnContradiction(logger *slog.Logger, c *Contradiction) {
	logger.Warn("pattern has no solution",
		"kind", string(c.Kind),
		"node", c.Node.Key(),
		"triple", c.Triple,
		"position", c.Position,
		"reason", c.Reason,
	)
}
