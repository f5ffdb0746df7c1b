// Package fxerr attaches machine-readable codes to errors of the outer
// layers: configuration, schema introspection and naming setup. The core
// inference engine reports contradictions with its own type instead.
//
// Codes are dotted: <area>.<operation>.<reason>. The CLI picks its E0xx
// code from the area, and callers test the reason with IsNotFound.
package fxerr

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigParseInvalidFormat   Code = "config.parse.invalid_format"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeSchemaOpenFailure       Code = "schema.open.failure"
	CodeSchemaIntrospectFailure Code = "schema.introspect.failure"
	CodeSchemaTableNotFound     Code = "schema.table.not_found"

	CodeNamingOptionsInvalid Code = "naming.options.invalid"
)

// Areas, the first segment of a code.
const (
	AreaConfig = "config"
	AreaSchema = "schema"
	AreaNaming = "naming"
)

// Area returns the subsystem the code belongs to.
func (c Code) Area() string {
	area, _, _ := strings.Cut(string(c), ".")
	return area
}

// Reason returns the last segment, e.g. "not_found".
func (c Code) Reason() string {
	s := string(c)
	return s[strings.LastIndex(s, ".")+1:]
}

// Attr is one item of structured context, such as the database path or
// the table name.
type Attr struct {
	Key   string
	Value any
}

func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(string(code)).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(string(code)).Errorf(format, args...)
}

// Wrap tags err with code and context. A nil err stays nil.
func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}
	return oops.Code(string(code)).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

// CodeOf returns the code of the outermost coded error in err's chain, or
// "" when err carries none.
func CodeOf(err error) Code {
	oopsErr, ok := oops.AsOops(err)
	if !ok || oopsErr.Code() == nil {
		return ""
	}
	return Code(fmt.Sprint(oopsErr.Code()))
}

// FieldsOf returns the context attached to err.
func FieldsOf(err error) map[string]any {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return CodeOf(err).Reason() == "not_found"
}

func flatten(fields []Attr) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}
