package infer

import (
	"github.com/roach88/fxbgp/internal/role"
	"github.com/roach88/fxbgp/internal/term"
)

// Entry is one node with its inferred role.
type Entry struct {
	Node term.Node
	Role role.Role
}

// Assignment maps pattern nodes to roles.
//
// The engine refines an Assignment while inferring; callers only ever see
// it after inference has finished, through the read-only methods below.
type Assignment struct {
	roles   map[string]role.Role
	nodes   map[string]term.Node
	order   []string              // node keys in pattern order
	pending map[string][]deferral // unrelated proposals awaiting a common refinement
}

// site is where a proposal was made.
type site struct {
	triple   int
	position string
}

// deferral is a proposal unrelated to the role its node held at the time.
// The node's final role must refine it.
type deferral struct {
	role role.Role
	at   site
}

func newAssignment(p term.Pattern) *Assignment {
	nodes := p.Nodes()
	a := &Assignment{
		roles:   make(map[string]role.Role, len(nodes)),
		nodes:   make(map[string]term.Node, len(nodes)),
		order:   make([]string, 0, len(nodes)),
		pending: make(map[string][]deferral),
	}
	for _, n := range nodes {
		a.nodes[n.Key()] = n
		a.order = append(a.order, n.Key())
	}
	return a
}

// Role returns the role held by n.
func (a *Assignment) Role(n term.Node) (role.Role, bool) {
	if a == nil || n == nil {
		return 0, false
	}
	return a.Lookup(n.Key())
}

// Lookup returns the role held by the node with the given key.
func (a *Assignment) Lookup(key string) (role.Role, bool) {
	if a == nil {
		return 0, false
	}
	r, ok := a.roles[key]
	return r, ok
}

// Len returns the number of nodes holding a role.
func (a *Assignment) Len() int {
	if a == nil {
		return 0
	}
	return len(a.roles)
}

// Keys returns the keys of assigned nodes in order of first appearance.
func (a *Assignment) Keys() []string {
	if a == nil {
		return nil
	}
	keys := make([]string, 0, len(a.roles))
	for _, k := range a.order {
		if _, ok := a.roles[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Entries returns assigned nodes with their roles in order of first appearance.
func (a *Assignment) Entries() []Entry {
	keys := a.Keys()
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Node: a.nodes[k], Role: a.roles[k]}
	}
	return entries
}

// Map returns a copy of the assignment keyed by node key.
func (a *Assignment) Map() map[string]role.Role {
	m := make(map[string]role.Role, a.Len())
	if a == nil {
		return m
	}
	for k, r := range a.roles {
		m[k] = r
	}
	return m
}

// is reports whether n currently holds exactly r.
func (a *Assignment) is(n term.Node, r role.Role) bool {
	held, ok := a.roles[n.Key()]
	return ok && held == r
}

// merge folds a proposed role into the node's current one.
// It returns true when the stored role changed.
//
// An unrelated proposal is not a conflict yet: a later proposal may
// specialize the node into a role refining both (Subject and Object are
// both refined by the container roles). It is recorded and checked by
// unresolved once the fixpoint is reached.
func (a *Assignment) merge(n term.Node, proposed role.Role, at site) (bool, *Contradiction) {
	key := n.Key()
	held, ok := a.roles[key]
	if !ok {
		a.roles[key] = proposed
		if _, known := a.nodes[key]; !known {
			a.nodes[key] = n
			a.order = append(a.order, key)
		}
		return true, nil
	}

	switch rel := role.Relate(held, proposed); rel {
	case role.Identical:
		return false, nil
	case role.Specializes:
		// Already more specific than the proposal.
		return false, nil
	case role.Generalizes:
		a.roles[key] = proposed
		return true, nil
	case role.Unrelated:
		a.deferProposal(key, proposed, at)
		return false, nil
	default:
		return false, conflict(n, held, proposed, rel)
	}
}

func (a *Assignment) deferProposal(key string, r role.Role, at site) {
	for _, d := range a.pending[key] {
		if d.role == r {
			return
		}
	}
	a.pending[key] = append(a.pending[key], deferral{role: r, at: at})
}

// unresolved returns a type conflict for the first node, in pattern order,
// whose role does not refine every proposal deferred for it.
func (a *Assignment) unresolved() *Contradiction {
	for _, key := range a.order {
		held := a.roles[key]
		for _, d := range a.pending[key] {
			rel := role.Relate(held, d.role)
			if rel == role.Identical || rel == role.Specializes {
				continue
			}
			c := conflict(a.nodes[key], held, d.role, rel)
			c.Triple, c.Position = d.at.triple, d.at.position
			return c
		}
	}
	return nil
}
