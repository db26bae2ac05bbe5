// Package route matches event handlers to the events that deliver their
// payload type.
//
// A handler resolves, in order, to a framework event from the built-in table,
// to a source declared in the scanned program, or to nothing. Unresolved
// handlers are kept in a group with an empty key so they can be reported.
package route

import (
	"sort"

	"github.com/roach88/modgen/internal/ir"
)

// Routing is the result of resolving every handler of the program.
type Routing struct {
	// Groups are sorted by key; the unresolved group, if any, comes last.
	Groups []ir.EventGroup
	// Sources are the declared sources that carry a payload.
	Sources []ir.EventSource
}

// Resolve groups targets by the event that delivers their payload.
// eventsImport is the import path of the framework events package; payloads
// from that package are looked up in the built-in table first. An empty
// eventsImport disables the table.
func Resolve(targets []ir.EventTarget, sources []ir.EventSource, eventsImport string) *Routing {
	r := &Routing{}
	byPayload := make(map[string]ir.EventSource)
	for _, s := range sources {
		if s.PayloadType == "" {
			continue
		}
		r.Sources = append(r.Sources, s)
		if _, taken := byPayload[s.PayloadType]; !taken {
			byPayload[s.PayloadType] = s
		}
	}

	groups := make(map[string]*ir.EventGroup)
	var order []string
	for _, t := range targets {
		key, builtin, src := resolve(t, byPayload, eventsImport)
		g, ok := groups[key]
		if !ok {
			g = &ir.EventGroup{Grouping: ir.Grouping[ir.EventTarget]{Key: key}, Builtin: builtin, Source: src}
			groups[key] = g
			order = append(order, key)
		}
		g.Items = append(g.Items, t)
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a == "" || b == "" {
			return b == "" && a != ""
		}
		return a < b
	})
	for _, key := range order {
		r.Groups = append(r.Groups, *groups[key])
	}
	return r
}

func resolve(t ir.EventTarget, byPayload map[string]ir.EventSource, eventsImport string) (string, bool, *ir.EventSource) {
	if eventsImport != "" {
		if pkg, name := ir.SplitTypeID(t.PayloadType); pkg == eventsImport {
			if ev, ok := Builtin(name); ok {
				return ev, true, nil
			}
		}
	}
	if s, ok := byPayload[t.PayloadType]; ok {
		return s.Identifier(), false, &s
	}
	return "", false, nil
}

// Unresolved returns the handlers no event delivers.
func (r *Routing) Unresolved() []ir.EventTarget {
	for _, g := range r.Groups {
		if !g.Keyed() {
			return g.Items
		}
	}
	return nil
}

// Resolved returns the groups that have a key.
func (r *Routing) Resolved() []ir.EventGroup {
	out := make([]ir.EventGroup, 0, len(r.Groups))
	for _, g := range r.Groups {
		if g.Keyed() {
			out = append(out, g)
		}
	}
	return out
}

// Len returns the number of handlers across all groups.
func (r *Routing) Len() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Len()
	}
	return n
}

// Canonical returns the routing as a canonical-JSON-ready map.
func (r *Routing) Canonical() map[string]any {
	groups := make([]any, len(r.Groups))
	for i, g := range r.Groups {
		handlers := make([]any, len(g.Items))
		for j, t := range g.Items {
			handlers[j] = t.ImportPath + "." + t.Func
		}
		groups[i] = map[string]any{"key": g.Key, "builtin": g.Builtin, "handlers": handlers}
	}
	sources := make([]any, len(r.Sources))
	for i, s := range r.Sources {
		sources[i] = map[string]any{"source": s.Identifier(), "payload_type": s.PayloadType}
	}
	return map[string]any{"groups": groups, "sources": sources}
}
