package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/fxbgp/internal/term"
)

// PatternSpec is a named basic graph pattern read from CUE.
type PatternSpec struct {
	Name        string
	Description string

	// Strict enables strict subject checking for this pattern only.
	Strict bool

	// Triples holds the raw terms, as written.
	Triples [][3]string

	// Pattern holds the parsed triples.
	Pattern term.Pattern

	Pos token.Pos
}

// CompilePattern parses a CUE value into a PatternSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the pattern struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`pattern: rows: { triples: [...] }`)
//	spec, err := CompilePattern(v.LookupPath(cue.ParsePath("pattern.rows")), term.DefaultPrefixes())
func CompilePattern(v cue.Value, prefixes term.Prefixes) (*PatternSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "pattern", Message: "pattern does not exist"}
	}

	spec := &PatternSpec{Pos: v.Pos()}

	// Pattern name from struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, &CompileError{Field: "description", Message: "description must be a string", Pos: descVal.Pos()}
		}
		spec.Description = desc
	}

	if strictVal := v.LookupPath(cue.ParsePath("strict")); strictVal.Exists() {
		strict, err := strictVal.Bool()
		if err != nil {
			return nil, &CompileError{Field: "strict", Message: "strict must be a boolean", Pos: strictVal.Pos()}
		}
		spec.Strict = strict
	}

	// Pattern-local prefixes extend the file's.
	local, err := CompilePrefixes(v)
	if err != nil {
		return nil, err
	}
	prefixes = prefixes.With(local)

	triplesVal := v.LookupPath(cue.ParsePath("triples"))
	if !triplesVal.Exists() {
		return nil, &CompileError{
			Field:   "triples",
			Message: "triples is required",
			Pos:     v.Pos(),
		}
	}
	spec.Triples, err = parseTriples(triplesVal)
	if err != nil {
		return nil, err
	}

	spec.Pattern = make(term.Pattern, 0, len(spec.Triples))
	for i, terms := range spec.Triples {
		t, err := term.ParseTriple(terms, prefixes)
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("triples[%d]", i),
				Message: err.Error(),
				Pos:     triplesVal.LookupPath(cue.MakePath(cue.Index(i))).Pos(),
			}
		}
		spec.Pattern = append(spec.Pattern, t)
	}

	return spec, nil
}

// parseTriples reads a list of three-element string lists.
func parseTriples(v cue.Value) ([][3]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var triples [][3]string
	for i := 0; iter.Next(); i++ {
		elem := iter.Value()
		field := fmt.Sprintf("triples[%d]", i)

		termIter, err := elem.List()
		if err != nil {
			return nil, &CompileError{Field: field, Message: "triple must be a list of three terms", Pos: elem.Pos()}
		}

		var terms [3]string
		n := 0
		for termIter.Next() {
			if n == 3 {
				return nil, &CompileError{Field: field, Message: "triple has more than three terms", Pos: elem.Pos()}
			}
			s, err := termIter.Value().String()
			if err != nil {
				return nil, &CompileError{
					Field:   fmt.Sprintf("%s[%d]", field, n),
					Message: "term must be a string",
					Pos:     termIter.Value().Pos(),
				}
			}
			terms[n] = s
			n++
		}
		if n != 3 {
			return nil, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("triple has %d terms, want 3", n),
				Pos:     elem.Pos(),
			}
		}
		triples = append(triples, terms)
	}

	return triples, nil
}

// CompilePrefixes reads the optional "prefixes" struct of v.
func CompilePrefixes(v cue.Value) (term.Prefixes, error) {
	prefixes := term.Prefixes{}

	prefixVal := v.LookupPath(cue.ParsePath("prefixes"))
	if !prefixVal.Exists() {
		return prefixes, nil
	}

	iter, err := prefixVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		ns, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "prefixes." + name,
				Message: "namespace must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		prefixes[name] = ns
	}

	return prefixes, nil
}

// CompileAll compiles every pattern under the "pattern" field of v, in
// declaration order, using the root prefixes on top of the defaults.
func CompileAll(v cue.Value) ([]*PatternSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root, err := CompilePrefixes(v)
	if err != nil {
		return nil, err
	}
	prefixes := term.DefaultPrefixes().With(root)

	patternsVal := v.LookupPath(cue.ParsePath("pattern"))
	if !patternsVal.Exists() {
		return nil, nil
	}

	iter, err := patternsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []*PatternSpec
	for iter.Next() {
		spec, err := CompilePattern(iter.Value(), prefixes)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", iter.Label(), err)
		}
		spec.Name = iter.Label()
		specs = append(specs, spec)
	}

	return specs, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
