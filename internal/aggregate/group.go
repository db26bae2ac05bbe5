package aggregate

import (
	"fmt"

	"github.com/roach88/modgen/internal/ir"
)

// Group collects every fact of one container that targets the same resource
// key. Lists keep discovery order.
type Group struct {
	Key      string
	Alias    string // name-safe form of Key
	Prop     *ir.PropertyFact
	Edits    []ir.EditFact
	Load     *ir.LoadFact
	Includes []ir.IncludeFact

	upgraded bool
}

func newGroup(key string) *Group {
	return &Group{Key: key, Alias: ir.Identifier(key)}
}

// HasAnyHandlers reports whether generated code must register behavior for
// this key: a locally backed prop, a load, an edit or an include.
func (g *Group) HasAnyHandlers() bool {
	return (g.Prop != nil && g.Prop.Local != "") ||
		g.Load != nil ||
		len(g.Edits) > 0 ||
		len(g.Includes) > 0
}

// HandlerLess is the negation of HasAnyHandlers.
func (g *Group) HandlerLess() bool {
	return !g.HasAnyHandlers()
}

// Upgraded reports whether Prop was replaced by an implicitly typed fact.
func (g *Group) Upgraded() bool {
	return g.upgraded
}

// upgrade replaces Prop with the implicitly typed form of f. Props only move
// from generic to specific: a second upgrade or an empty inferred type is a
// programming error.
func (g *Group) upgrade(f ir.ImplicitFact) {
	if g.Prop == nil {
		panic(fmt.Sprintf("aggregate: upgrade of %q without a prop", g.Key))
	}
	if g.upgraded {
		panic(fmt.Sprintf("aggregate: prop for %q is already upgraded", g.Key))
	}
	if f.InferredType == "" {
		panic(fmt.Sprintf("aggregate: downgrade of %q to an untyped fact", g.Key))
	}
	p := *g.Prop
	p.DeclaredType = f.InferredType
	p.Local = f.Source
	p.Implicit = true
	g.Prop = &p
	g.upgraded = true
}

// Canonical returns the group as a canonical-JSON-ready map.
func (g *Group) Canonical() map[string]any {
	m := map[string]any{
		"key":          g.Key,
		"alias":        g.Alias,
		"handler_less": g.HandlerLess(),
	}
	if g.Prop != nil {
		m["prop"] = propMap(*g.Prop)
	}
	if len(g.Edits) > 0 {
		edits := make([]any, len(g.Edits))
		for i, e := range g.Edits {
			edits[i] = map[string]any{"owner": e.Owner, "member": e.Member, "target_key": e.TargetKey}
		}
		m["edits"] = edits
	}
	if g.Load != nil {
		load := map[string]any{"owner": g.Load.Owner, "member": g.Load.Member, "target_key": g.Load.TargetKey}
		if g.Load.ResultType != "" {
			load["result_type"] = g.Load.ResultType
		}
		m["load"] = load
	}
	if len(g.Includes) > 0 {
		includes := make([]any, len(g.Includes))
		for i, inc := range g.Includes {
			includes[i] = map[string]any{"owner": inc.Owner, "target_key": inc.TargetKey, "source": inc.Source}
		}
		m["includes"] = includes
	}
	return m
}

func propMap(p ir.PropertyFact) map[string]any {
	m := map[string]any{
		"owner":         p.Owner,
		"member":        p.Member,
		"declared_type": p.DeclaredType,
		"target_key":    p.TargetKey,
		"visibility":    string(p.Visibility),
	}
	if p.Local != "" {
		m["local"] = p.Local
	}
	if p.Implicit {
		m["implicit"] = true
	}
	return m
}
