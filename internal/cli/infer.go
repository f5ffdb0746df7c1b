package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/fxbgp/internal/canon"
	"github.com/roach88/fxbgp/internal/compiler"
	"github.com/roach88/fxbgp/internal/config"
	"github.com/roach88/fxbgp/internal/fxerr"
	"github.com/roach88/fxbgp/internal/infer"
	"github.com/roach88/fxbgp/internal/naming"
	"github.com/roach88/fxbgp/internal/schema"
	"github.com/roach88/fxbgp/internal/term"
)

// InferOptions holds flags for the infer command.
type InferOptions struct {
	*RootOptions
	ConfigPath string // optional YAML config file
	SchemaPath string // optional SQLite database, overrides schema.path
	Strict     bool   // strict subjects for every pattern
	Pattern    string // infer only this pattern
}

// patternOutcome pairs a spec with its inference outcome.
type patternOutcome struct {
	spec          *compiler.PatternSpec
	result        *infer.Result
	contradiction *infer.Contradiction
}

// NewInferCommand creates the infer command.
func NewInferCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "infer <specs-dir>",
		Short: "Infer node roles for CUE pattern specs",
		Long: `Infer the Facade-X role of every node of each pattern in the specs
directory.

Naming conventions come from the config file (and FXBGP_* environment
variables). With --schema, tables and columns are read from a SQLite
database.

Exit codes:
  0 - Every pattern has a role assignment
  1 - One or more patterns are contradictory
  2 - Command error (invalid paths, config, specs, etc.)

Examples:
  fxbgp infer ./specs
  fxbgp infer ./specs --schema data.db --strict
  fxbgp infer ./specs --config fxbgp.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (YAML)")
	cmd.Flags().StringVar(&opts.SchemaPath, "schema", "", "SQLite database to read tables and columns from")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "require named subjects to be known tables")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "infer only the named pattern")

	return cmd
}

func runInfer(opts *InferOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return setupError(formatter, ErrCodeConfig, "loading config", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.SlogLevel(), opts.Verbose)

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = cfg.Schema.Path
	}
	var sch *schema.Schema
	if schemaPath != "" {
		sch, err = schema.Load(cmd.Context(), schemaPath)
		if err != nil {
			return setupError(formatter, ErrCodeSchema, "reading schema", err)
		}
		logger.Info("schema loaded", "path", schemaPath, "tables", len(sch.Tables))
	}

	oracle, err := naming.FromConfig(cfg.Naming, sch)
	if err != nil {
		return setupError(formatter, ErrCodeConfig, "building naming conventions", err)
	}

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		code, message := loadErrorDetails(loadErrors[0])
		return commandError(formatter, code, message, nil)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	if errs := compiler.ValidateAll(loadResult.Patterns); len(errs) > 0 {
		return outputValidationErrors(formatter, errs, ExitCommandError)
	}

	specs := loadResult.Patterns
	if opts.Pattern != "" {
		specs = filterPattern(specs, opts.Pattern)
		if len(specs) == 0 {
			return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("pattern not found: %s", opts.Pattern), nil)
		}
	}

	outcomes := make([]patternOutcome, 0, len(specs))
	for _, spec := range specs {
		inferOpts := []infer.Option{infer.WithLogger(logger.With("pattern", spec.Name))}
		if opts.Strict || cfg.Infer.StrictSubjects || spec.Strict {
			inferOpts = append(inferOpts, infer.WithStrictSubjects())
		}

		formatter.VerboseLog("Inferring pattern: %s", spec.Name)
		res, err := infer.Infer(spec.Pattern, oracle, inferOpts...)
		outcome := patternOutcome{spec: spec, result: res}
		if err != nil {
			c, ok := infer.AsContradiction(err)
			if !ok {
				return commandError(formatter, ErrCodeGeneric, "pattern "+spec.Name, err)
			}
			outcome.contradiction = c
		}
		outcomes = append(outcomes, outcome)
	}

	if opts.Format == "json" {
		return outputInferJSON(formatter, outcomes)
	}
	return outputInferText(formatter.Writer, outcomes)
}

func filterPattern(specs []*compiler.PatternSpec, name string) []*compiler.PatternSpec {
	for _, s := range specs {
		if s.Name == name {
			return []*compiler.PatternSpec{s}
		}
	}
	return nil
}

// loadErrorDetails extracts the code and message of a loader error.
func loadErrorDetails(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if loadErr.Pos.IsValid() {
			return loadErr.Code, fmt.Sprintf("%s:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Message)
		}
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// commandError prints an error and returns it with exit code 2.
func commandError(formatter *OutputFormatter, code, message string, err error) error {
	full := message
	if err != nil {
		full = fmt.Sprintf("%s: %v", message, err)
	}
	_ = formatter.Error(code, full, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), err)
}

// setupError reports a config, schema or naming failure. Coded errors pick
// the CLI code from their area and carry their code and context as details;
// uncoded ones fall back to fallback.
func setupError(formatter *OutputFormatter, fallback, message string, err error) error {
	code := fallback
	var details map[string]any
	if c := fxerr.CodeOf(err); c != "" {
		switch c.Area() {
		case fxerr.AreaConfig, fxerr.AreaNaming:
			code = ErrCodeConfig
		case fxerr.AreaSchema:
			code = ErrCodeSchema
		}
		details = map[string]any{"code": string(c)}
		for k, v := range fxerr.FieldsOf(err) {
			details[k] = v
		}
	}
	_ = formatter.Error(code, fmt.Sprintf("%s: %v", message, err), details)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), err)
}

// patternHash fingerprints the parsed triples, so the hash does not depend
// on which prefixes were used to write them.
func patternHash(p term.Pattern) (string, error) {
	triples := make([]any, len(p))
	for i, t := range p {
		triples[i] = []string{t.Subject.Key(), t.Predicate.Key(), t.Object.Key()}
	}
	return canon.Fingerprint(canon.DomainPattern, triples)
}

// document renders one outcome for JSON output.
func (o patternOutcome) document() (map[string]any, error) {
	hash, err := patternHash(o.spec.Pattern)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{
		"name": o.spec.Name,
		"hash": hash,
	}
	if o.spec.Description != "" {
		doc["description"] = o.spec.Description
	}

	if o.contradiction != nil {
		doc["contradiction"] = o.contradiction.Document()
		return doc, nil
	}

	result := o.result.Document()
	fingerprint, err := canon.Fingerprint(canon.DomainAssignment, result["roles"])
	if err != nil {
		return nil, err
	}
	result["fingerprint"] = fingerprint
	doc["result"] = result
	return doc, nil
}

func countContradictory(outcomes []patternOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.contradiction != nil {
			n++
		}
	}
	return n
}

// outputInferJSON writes every outcome as one canonical JSON document.
func outputInferJSON(formatter *OutputFormatter, outcomes []patternOutcome) error {
	patterns := make([]any, 0, len(outcomes))
	for _, o := range outcomes {
		doc, err := o.document()
		if err != nil {
			return err
		}
		patterns = append(patterns, doc)
	}

	failed := countContradictory(outcomes)
	summary := map[string]any{
		"patterns":      patterns,
		"solved":        len(outcomes) - failed,
		"contradictory": failed,
		"total":         len(outcomes),
	}

	var cliErr *CLIError
	if failed > 0 {
		cliErr = &CLIError{
			Code:    ErrCodeContradiction,
			Message: fmt.Sprintf("%d pattern(s) have no solution", failed),
		}
	}
	if err := formatter.Document(summary, cliErr); err != nil {
		return err
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d pattern(s) have no solution", failed))
	}
	return nil
}

// outputInferText writes one block per pattern and a summary line.
func outputInferText(w io.Writer, outcomes []patternOutcome) error {
	for _, o := range outcomes {
		if o.contradiction != nil {
			fmt.Fprintf(w, "✗ %s\n", o.spec.Name)
			fmt.Fprintf(w, "  %s\n", o.contradiction.Error())
			continue
		}

		stats := o.result.Stats
		fmt.Fprintf(w, "✓ %s (%d passes, %d changes)\n", o.spec.Name, stats.Passes, stats.Changes)
		rows := make([][]string, 0, o.result.Assignment.Len())
		for _, e := range o.result.Assignment.Entries() {
			rows = append(rows, []string{e.Node.String(), e.Role.String()})
		}
		writeColumns(w, "  ", rows)
	}

	failed := countContradictory(outcomes)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Inference Summary: %d solved, %d contradictory, %d total\n",
		len(outcomes)-failed, failed, len(outcomes))

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d pattern(s) have no solution", failed))
	}
	return nil
}
