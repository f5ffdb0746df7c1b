package term

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Well-known namespaces.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	FXNamespace   = "http://sparql.xyz/facade-x/ns/"
	DataNamespace = "http://sparql.xyz/facade-x/data/"

	RDFType    = RDFNamespace + "type"
	XSDString  = XSDNamespace + "string"
	XSDInteger = XSDNamespace + "integer"
	XSDBoolean = XSDNamespace + "boolean"

	// FXRoot is the reserved type marker of a Facade-X root container.
	FXRoot = FXNamespace + "root"
)

// Prefixes maps prefix labels (without the colon) to namespace IRIs.
type Prefixes map[string]string

// DefaultPrefixes returns the prefixes every pattern can use without
// declaring them: rdf, xsd, fx and xyz.
func DefaultPrefixes() Prefixes {
	return Prefixes{
		"rdf": RDFNamespace,
		"xsd": XSDNamespace,
		"fx":  FXNamespace,
		"xyz": DataNamespace,
	}
}

// With returns a copy of p extended (and overridden) by extra.
func (p Prefixes) With(extra Prefixes) Prefixes {
	merged := make(Prefixes, len(p)+len(extra))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_\-]*$`)
	integerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)
	langPattern    = regexp.MustCompile(`^[A-Za-z]+(-[A-Za-z0-9]+)*$`)
)

// ParseTerm parses one term in SPARQL-like notation:
//
//	?x  $x            variable
//	_:b               blank node
//	<http://...>      IRI
//	pfx:local         prefixed IRI (expanded with prefixes)
//	a                 rdf:type
//	"lex"  "lex"@en  "lex"^^xsd:int  "lex"^^<...>   literal
//	42  -7  true  false                             typed literal
func ParseTerm(s string, prefixes Prefixes) (Node, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty term")
	}

	switch {
	case s[0] == '?' || s[0] == '$':
		name := s[1:]
		if !namePattern.MatchString(name) {
			return nil, fmt.Errorf("invalid variable name %q", s)
		}
		return Variable{Name: name}, nil

	case strings.HasPrefix(s, "_:"):
		label := s[2:]
		if !namePattern.MatchString(label) {
			return nil, fmt.Errorf("invalid blank node label %q", s)
		}
		return Blank{Label: label}, nil

	case s[0] == '<':
		return parseIRIRef(s)

	case s[0] == '"':
		return parseLiteral(s, prefixes)

	case s == "a":
		return NamedEntity{IRI: RDFType}, nil

	case s == "true" || s == "false":
		return NewLiteral(s, XSDBoolean, ""), nil

	case integerPattern.MatchString(s):
		return NewLiteral(s, XSDInteger, ""), nil
	}

	iri, err := expandPrefixed(s, prefixes)
	if err != nil {
		return nil, err
	}
	return NamedEntity{IRI: iri}, nil
}

func parseIRIRef(s string) (Node, error) {
	if len(s) < 3 || s[len(s)-1] != '>' {
		return nil, fmt.Errorf("malformed IRI %q", s)
	}
	iri := s[1 : len(s)-1]
	if strings.ContainsAny(iri, "<> \t\n\"") {
		return nil, fmt.Errorf("malformed IRI %q", s)
	}
	return NamedEntity{IRI: iri}, nil
}

func expandPrefixed(s string, prefixes Prefixes) (string, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return "", fmt.Errorf("unrecognized term %q", s)
	}
	prefix, local := s[:idx], s[idx+1:]
	ns, ok := prefixes[prefix]
	if !ok {
		return "", fmt.Errorf("undeclared prefix %q in %q", prefix, s)
	}
	return ns + local, nil
}

func parseLiteral(s string, prefixes Prefixes) (Node, error) {
	quoted, err := strconv.QuotedPrefix(s)
	if err != nil {
		return nil, fmt.Errorf("malformed literal %s: %w", s, err)
	}
	lexical, err := strconv.Unquote(quoted)
	if err != nil {
		return nil, fmt.Errorf("malformed literal %s: %w", s, err)
	}

	rest := s[len(quoted):]
	switch {
	case rest == "":
		return NewLiteral(lexical, "", ""), nil
	case strings.HasPrefix(rest, "@"):
		lang := rest[1:]
		if !langPattern.MatchString(lang) {
			return nil, fmt.Errorf("invalid language tag in %s", s)
		}
		return NewLiteral(lexical, "", lang), nil
	case strings.HasPrefix(rest, "^^"):
		dt := rest[2:]
		if strings.HasPrefix(dt, "<") {
			n, err := parseIRIRef(dt)
			if err != nil {
				return nil, err
			}
			return NewLiteral(lexical, n.(NamedEntity).IRI, ""), nil
		}
		iri, err := expandPrefixed(dt, prefixes)
		if err != nil {
			return nil, err
		}
		return NewLiteral(lexical, iri, ""), nil
	default:
		return nil, fmt.Errorf("unexpected %q after literal", rest)
	}
}

// ParseTriple parses the three terms of a triple pattern.
func ParseTriple(terms [3]string, prefixes Prefixes) (Triple, error) {
	var nodes [3]Node
	for i, s := range terms {
		n, err := ParseTerm(s, prefixes)
		if err != nil {
			return Triple{}, fmt.Errorf("%s: %w", positionNames[i], err)
		}
		nodes[i] = n
	}
	return Triple{Subject: nodes[0], Predicate: nodes[1], Object: nodes[2]}, nil
}

var positionNames = [3]string{"subject", "predicate", "object"}

// ParsePattern parses a list of triples, reporting the failing index.
func ParsePattern(triples [][3]string, prefixes Prefixes) (Pattern, error) {
	pattern := make(Pattern, 0, len(triples))
	for i, terms := range triples {
		t, err := ParseTriple(terms, prefixes)
		if err != nil {
			return nil, fmt.Errorf("triple %d: %w", i, err)
		}
		pattern = append(pattern, t)
	}
	return pattern, nil
}
