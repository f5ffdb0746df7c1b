package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fxbgp/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Patterns int                        `json:"patterns"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate pattern specs without inferring",
		Long: `Validate CUE pattern specs without running inference.

Checks CUE syntax, triple shape, term notation, prefixes and pattern
names. Every problem is reported, not only the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	validationErrors, count, err := ValidateSpecsDir(specsDir)
	if err != nil {
		code, message := loadErrorDetails(err)
		_ = formatter.Error(code, message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
	}
	formatter.VerboseLog("Validated %d pattern(s) in %s", count, specsDir)

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors, ExitFailure)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Patterns: count})
	}
	fmt.Fprintf(formatter.Writer, "✓ All specs valid (%d patterns)\n", count)
	return nil
}

// ValidateSpecsDir compiles every pattern in specsDir and validates it.
// Compile errors are reported as validation errors with their E1xx code.
// The returned error is set only when the directory cannot be loaded.
func ValidateSpecsDir(specsDir string) ([]compiler.ValidationError, int, error) {
	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		return nil, 0, loadErrors[0]
	}

	var errs []compiler.ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			errs = append(errs, compiler.ValidationError{Field: "load", Message: err.Error(), Code: ErrCodeGeneric})
			continue
		}
		line := 0
		if loadErr.Pos.IsValid() {
			line = loadErr.Pos.Line()
		}
		errs = append(errs, compiler.ValidationError{
			Field:   "load",
			Message: loadErr.Message,
			Code:    loadErr.Code,
			Line:    line,
		})
	}

	errs = append(errs, compiler.ValidateAll(loadResult.Patterns)...)
	return errs, len(loadResult.Patterns), nil
}

// outputValidationErrors outputs multiple validation errors and returns an
// ExitError with exitCode.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError, exitCode int) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(exitCode, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(exitCode, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
