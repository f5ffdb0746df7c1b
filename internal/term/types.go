package term

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the four kinds of pattern node.
type Kind uint8

const (
	KindVariable Kind = iota + 1
	KindNamedEntity
	KindBlank
	KindLiteral
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindNamedEntity:
		return "named-entity"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Node is a term of a triple pattern.
//
// This is a sealed interface - only types in this package implement it.
// Two nodes are the same node exactly when their keys are equal, so the key
// is what role assignments are indexed by.
//
// Node types:
//   - Variable: ?name
//   - NamedEntity: <iri>
//   - Blank: _:label
//   - Literal: "lexical", "lexical"@lang, "lexical"^^<datatype>
type Node interface {
	Kind() Kind
	// Key is the structural identity of the node. It doubles as its
	// N-Triples-like rendering.
	Key() string
	String() string
	termNode() // Marker method - seals interface to this package
}

// Variable is an unbound placeholder, unique per name within a pattern.
type Variable struct {
	Name string
}

func (Variable) termNode()        {}
func (Variable) Kind() Kind       { return KindVariable }
func (v Variable) Key() string    { return "?" + v.Name }
func (v Variable) String() string { return v.Key() }

// NamedEntity is a node identified by an IRI.
type NamedEntity struct {
	IRI string
}

func (NamedEntity) termNode()        {}
func (NamedEntity) Kind() Kind       { return KindNamedEntity }
func (e NamedEntity) Key() string    { return "<" + e.IRI + ">" }
func (e NamedEntity) String() string { return e.Key() }

// Blank is an anonymous node. Occurrences sharing a label are the same node.
type Blank struct {
	Label string
}

func (Blank) termNode()        {}
func (Blank) Kind() Kind       { return KindBlank }
func (b Blank) Key() string    { return "_:" + b.Label }
func (b Blank) String() string { return b.Key() }

// Literal is a scalar value.
//
// Datatype is empty for plain strings; NewLiteral folds xsd:string to empty
// so that "a" and "a"^^xsd:string are the same node.
type Literal struct {
	Lexical  string
	Datatype string
	Lang     string
}

func (Literal) termNode()  {}
func (Literal) Kind() Kind { return KindLiteral }

func (l Literal) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(l.Lexical))
	switch {
	case l.Lang != "":
		b.WriteString("@")
		b.WriteString(strings.ToLower(l.Lang))
	case l.Datatype != "":
		b.WriteString("^^<")
		b.WriteString(l.Datatype)
		b.WriteString(">")
	}
	return b.String()
}

func (l Literal) String() string { return l.Key() }

// NewLiteral creates a literal, normalising the datatype and language tag.
func NewLiteral(lexical, datatype, lang string) Literal {
	if datatype == XSDString || lang != "" {
		datatype = ""
	}
	return Literal{Lexical: lexical, Datatype: datatype, Lang: strings.ToLower(lang)}
}

// Triple is one subject/predicate/object pattern.
type Triple struct {
	Subject   Node
	Predicate Node
	Object    Node
}

// String renders the triple in N-Triples-like notation.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", render(t.Subject), render(t.Predicate), render(t.Object))
}

func render(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}

// Pattern is an ordered basic graph pattern.
type Pattern []Triple

// Validate checks that every triple has all three nodes.
func (p Pattern) Validate() error {
	for i, t := range p {
		if t.Subject == nil {
			return fmt.Errorf("triple %d: subject is required", i)
		}
		if t.Predicate == nil {
			return fmt.Errorf("triple %d: predicate is required", i)
		}
		if t.Object == nil {
			return fmt.Errorf("triple %d: object is required", i)
		}
	}
	return nil
}

// Nodes returns the distinct nodes of the pattern in order of first
// appearance, scanning subject, predicate, object of each triple.
func (p Pattern) Nodes() []Node {
	seen := make(map[string]bool)
	var nodes []Node
	for _, t := range p {
		for _, n := range [3]Node{t.Subject, t.Predicate, t.Object} {
			if n == nil || seen[n.Key()] {
				continue
			}
			seen[n.Key()] = true
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// String renders the pattern one triple per line.
func (p Pattern) String() string {
	lines := make([]string, len(p))
	for i, t := range p {
		lines[i] = t.String()
	}
	return strings.Join(lines, "\n")
}
