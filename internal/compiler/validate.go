package compiler

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation error codes (E100-E199)
const (
	ErrPatternEmpty       = "E101" // at least one triple required
	ErrDuplicateTriple    = "E102" // the same triple written twice
	ErrPatternNameInvalid = "E103" // name must be an identifier
	ErrDuplicatePattern   = "E104" // two patterns with one name
)

// ValidationError represents a pattern validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var patternNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Validate checks a compiled pattern.
// Returns all errors found (does not fail-fast).
//
// Validation is structural only: whether the pattern has a role
// assignment is decided by inference.
func Validate(spec *PatternSpec) []ValidationError {
	var errs []ValidationError

	line := 0
	if spec.Pos.IsValid() {
		line = spec.Pos.Line()
	}

	// E103: name must be an identifier
	if !patternNameRe.MatchString(spec.Name) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("pattern name %q must be an identifier", spec.Name),
			Code:    ErrPatternNameInvalid,
			Line:    line,
		})
	}

	// E101: at least one triple
	if len(spec.Pattern) == 0 {
		errs = append(errs, ValidationError{
			Field:   "triples",
			Message: "at least one triple is required",
			Code:    ErrPatternEmpty,
			Line:    line,
		})
	}

	// E102: duplicate triples add nothing and usually hide a typo
	seen := make(map[string]int, len(spec.Pattern))
	for i, t := range spec.Pattern {
		key := t.String()
		if first, ok := seen[key]; ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("triples[%d]", i),
				Message: fmt.Sprintf("duplicate of triples[%d]: %s", first, strings.TrimSuffix(key, " .")),
				Code:    ErrDuplicateTriple,
				Line:    line,
			})
			continue
		}
		seen[key] = i
	}

	return errs
}

// ValidateAll validates every pattern and checks names are unique.
func ValidateAll(specs []*PatternSpec) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool, len(specs))
	for _, spec := range specs {
		errs = append(errs, Validate(spec)...)

		// E104: duplicate pattern name
		if names[spec.Name] {
			errs = append(errs, ValidationError{
				Field:   "name",
				Message: fmt.Sprintf("duplicate pattern name: %q", spec.Name),
				Code:    ErrDuplicatePattern,
			})
		}
		names[spec.Name] = true
	}
	return errs
}
