package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/fxbgp/internal/compiler"
	"github.com/roach88/fxbgp/internal/term"
)

// LoadMode selects whether LoadSpecs stops at the first bad pattern.
type LoadMode int

const (
	// LoadModeFailFast returns as soon as one pattern fails to compile.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll compiles every pattern and reports all failures.
	LoadModeCollectAll
)

// LoadResult holds the patterns compiled from a specs directory.
type LoadResult struct {
	Patterns  []*compiler.PatternSpec
	FileCount int
}

// LoadError is a loader failure tagged with a CLI error code.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // zero when the failure has no CUE source position
}

func (e *LoadError) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
}

func loadErr(code, format string, args ...any) []error {
	return []error{&LoadError{Code: code, Message: fmt.Sprintf(format, args...)}}
}

// LoadSpecs builds the CUE package in dir and compiles each field of its
// top-level "pattern" struct, in source order. File-level prefixes apply to
// every pattern.
//
// A nil result means the directory could not be built at all; otherwise
// the errors are per-pattern compile failures.
func LoadSpecs(dir string, mode LoadMode) (*LoadResult, []error) {
	value, files, errs := buildSpecs(dir)
	if errs != nil {
		return nil, errs
	}

	root, err := compiler.CompilePrefixes(value)
	if err != nil {
		return nil, []error{convertCompileError(err, "prefixes")}
	}

	result := &LoadResult{FileCount: files}
	errs = compilePatterns(value, term.DefaultPrefixes().With(root), mode, result)
	if len(result.Patterns) == 0 && len(errs) == 0 {
		errs = loadErr(ErrCodeGeneric, "no patterns found in specs")
	}
	return result, errs
}

// buildSpecs checks dir and evaluates its CUE package.
func buildSpecs(dir string) (cue.Value, int, []error) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return cue.Value{}, 0, loadErr(ErrCodeNotFound, "specs directory not found: %s", dir)
	case err != nil:
		return cue.Value{}, 0, loadErr(ErrCodeNotFound, "error accessing specs directory: %v", err)
	case !info.IsDir():
		return cue.Value{}, 0, loadErr(ErrCodeNotFound, "not a directory: %s", dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return cue.Value{}, 0, loadErr(ErrCodeScanError, "error scanning directory: %v", err)
	}
	if len(files) == 0 {
		return cue.Value{}, 0, loadErr(ErrCodeNoFiles, "no CUE files found in %s", dir)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, 0, loadErr(ErrCodeLoadFailed, "no CUE instances loaded")
	}
	if err := instances[0].Err; err != nil {
		return cue.Value{}, 0, loadErr(ErrCodeLoadFailed, "loading CUE files: %v", err)
	}

	value := cuecontext.New().BuildInstance(instances[0])
	if err := value.Err(); err != nil {
		return cue.Value{}, 0, loadErr(ErrCodeBuildFailed, "building CUE value: %v", err)
	}
	return value, len(files), nil
}

// compilePatterns appends every compiled pattern to result and returns the
// compile failures.
func compilePatterns(value cue.Value, prefixes term.Prefixes, mode LoadMode, result *LoadResult) []error {
	patterns := value.LookupPath(cue.ParsePath("pattern"))
	if !patterns.Exists() {
		return nil
	}

	iter, err := patterns.Fields()
	if err != nil {
		return loadErr(ErrCodeGeneric, "iterating patterns: %v", err)
	}

	var errs []error
	for iter.Next() {
		name := iter.Label()
		spec, err := compiler.CompilePattern(iter.Value(), prefixes)
		if err != nil {
			errs = append(errs, convertCompileError(err, "pattern."+name))
			if mode == LoadModeFailFast {
				return errs
			}
			continue
		}
		spec.Name = name
		result.Patterns = append(result.Patterns, spec)
	}
	return errs
}

// FindCUEFiles returns the .cue files under dir.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".cue") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError tags a compile failure with the code for its field,
// prefixing the message with where in the specs it happened.
func convertCompileError(err error, where string) *LoadError {
	var compileErr *compiler.CompileError
	if !errors.As(err, &compileErr) {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%s: %v", where, err)}
	}
	return &LoadError{
		Code:    MapFieldToErrorCode(compileErr.Field),
		Message: fmt.Sprintf("%s: %s: %s", where, compileErr.Field, compileErr.Message),
		Pos:     compileErr.Pos,
	}
}

// CLI error codes. E0xx are command errors, E11x pattern compile errors and
// E2xx failed outcomes. Validation codes E101-E104 come from the compiler.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeScanError   = "E002" // specs or scenarios could not be walked
	ErrCodeNoFiles     = "E003"
	ErrCodeLoadFailed  = "E004" // cue/load
	ErrCodeNotFound    = "E005"
	ErrCodeBuildFailed = "E006" // CUE evaluation
	ErrCodeConfig      = "E008"
	ErrCodeSchema      = "E009"

	ErrCodeInvalidTriples  = "E110"
	ErrCodeInvalidPrefixes = "E111"
	ErrCodeInvalidField    = "E112" // description or strict has the wrong type

	ErrCodeContradiction = "E201"
	ErrCodeTestFailed    = "E202"
)

// MapFieldToErrorCode picks the compile error code for a CompileError field.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "triples" || strings.HasPrefix(field, "triples["):
		return ErrCodeInvalidTriples
	case strings.HasPrefix(field, "prefixes"):
		return ErrCodeInvalidPrefixes
	case field == "description" || field == "strict":
		return ErrCodeInvalidField
	}
	return ErrCodeGeneric
}
