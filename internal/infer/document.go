package infer

// Document renders the result as plain values, ready for canonical JSON.
//
// Shape:
//
//	{"nodes": ["?x", ...], "roles": {"?x": "ContainerRow", ...},
//	 "stats": {"passes": 3, "proposals": 18, "changes": 6}}
func (r *Result) Document() map[string]any {
	roles := make(map[string]any, r.Assignment.Len())
	for k, v := range r.Assignment.Map() {
		roles[k] = v.String()
	}
	nodes := make([]any, 0, r.Assignment.Len())
	for _, k := range r.Assignment.Keys() {
		nodes = append(nodes, k)
	}
	return map[string]any{
		"nodes": nodes,
		"roles": roles,
		"stats": map[string]any{
			"passes":    r.Stats.Passes,
			"proposals": r.Stats.Proposals,
			"changes":   r.Stats.Changes,
		},
	}
}

// Document renders the contradiction as plain values. Roles are present
// only for type conflicts.
func (c *Contradiction) Document() map[string]any {
	doc := map[string]any{
		"kind":   string(c.Kind),
		"reason": c.Reason,
		"triple": c.Triple,
	}
	if c.Node != nil {
		doc["node"] = c.Node.Key()
	}
	if c.Position != "" {
		doc["position"] = c.Position
	}
	if c.Held.Valid() {
		doc["held"] = c.Held.String()
	}
	if c.Proposed.Valid() {
		doc["proposed"] = c.Proposed.String()
	}
	return doc
}
