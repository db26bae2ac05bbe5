// Package aggregate merges the fact streams of one container into the model
// its generated artifact is rendered from.
//
// Aggregation is a pure function of the current fact set. Nothing is cached
// between calls: every build pass recomputes every model from scratch.
package aggregate

import (
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/modgen/internal/ir"
)

// AssetModel is the aggregation result for one entry container.
type AssetModel struct {
	Entry      ir.EntryFact
	LocalProps []ir.PropertyFact
	Groups     map[string]*Group

	// IncludeAliases maps each raw include source to its identifier. It is
	// shared by every group including that source.
	IncludeAliases map[string]string
}

func newAssetModel(entry ir.EntryFact) *AssetModel {
	return &AssetModel{
		Entry:          entry,
		Groups:         make(map[string]*Group),
		IncludeAliases: make(map[string]string),
	}
}

// Assets aggregates every fact owned by entry's container.
func Assets(entry ir.EntryFact, facts *ir.FactSet) *AssetModel {
	m := newAssetModel(entry)
	for _, p := range facts.Props {
		if p.Owner == entry.Owner {
			m.addProp(p)
		}
	}
	for _, e := range facts.Edits {
		if e.Owner == entry.Owner {
			m.addEdit(e)
		}
	}
	for _, l := range facts.Loads {
		if l.Owner == entry.Owner {
			m.addLoad(l)
		}
	}
	for _, inc := range facts.Includes {
		if inc.Owner == entry.Owner {
			m.addInclude(inc)
		}
	}
	return m
}

// group returns the group for key, creating it on first reference.
func (m *AssetModel) group(key string) *Group {
	g, ok := m.Groups[key]
	if !ok {
		g = newGroup(key)
		m.Groups[key] = g
	}
	return g
}

func (m *AssetModel) addProp(p ir.PropertyFact) {
	m.LocalProps = append(m.LocalProps, p)
	m.group(p.TargetKey).Prop = &p
}

func (m *AssetModel) addEdit(e ir.EditFact) {
	g := m.group(e.TargetKey)
	g.Edits = append(g.Edits, e)
}

func (m *AssetModel) addLoad(l ir.LoadFact) {
	m.group(l.TargetKey).Load = &l
}

func (m *AssetModel) addInclude(inc ir.IncludeFact) {
	g := m.group(inc.TargetKey)
	g.Includes = append(g.Includes, inc)
	if _, ok := m.IncludeAliases[inc.Source]; !ok {
		m.IncludeAliases[inc.Source] = uniqueAlias(includeAlias(inc.Source), m.aliasSet())
	}
}

func includeAlias(source string) string {
	return "include_" + ir.SourceIdentifier(source)
}

func (m *AssetModel) aliasSet() map[string]bool {
	taken := make(map[string]bool, len(m.IncludeAliases))
	for _, a := range m.IncludeAliases {
		taken[a] = true
	}
	return taken
}

// uniqueAlias returns base, or base with the first numeric suffix from 2 up
// that is not in taken.
func uniqueAlias(base string, taken map[string]bool) string {
	alias := base
	for n := 2; taken[alias]; n++ {
		alias = fmt.Sprintf("%s_%d", base, n)
	}
	return alias
}

// ScopeAliases makes the include aliases of m unique among models rendered
// into the same package. Aliases already in taken are renamed with a numeric
// suffix; the final aliases are added to taken.
func (m *AssetModel) ScopeAliases(taken map[string]bool) {
	sources := make([]string, 0, len(m.IncludeAliases))
	for src := range m.IncludeAliases {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	renamed := make(map[string]string, len(sources))
	for _, src := range sources {
		alias := m.IncludeAliases[src]
		if taken[alias] {
			// Own aliases are unique already; only clashes with other
			// models are renamed.
			others := make(map[string]bool, len(taken)+len(m.IncludeAliases))
			for a := range taken {
				others[a] = true
			}
			for _, a := range m.IncludeAliases {
				others[a] = true
			}
			for _, a := range renamed {
				others[a] = true
			}
			alias = uniqueAlias(includeAlias(src), others)
		}
		renamed[src] = alias
		taken[alias] = true
	}
	m.IncludeAliases = renamed
}

// Upgrade replaces explicitly declared props with implicitly typed facts.
// A fact applies only when its key's Prop came from a property declaration
// that is still listed in LocalProps and its inferred type is non-empty; each
// key is upgraded at most once and never reverted.
func (m *AssetModel) Upgrade(implicit []ir.ImplicitFact) {
	for _, f := range implicit {
		if f.InferredType == "" {
			continue
		}
		g, ok := m.Groups[f.TargetKey]
		if !ok || g.Prop == nil || g.upgraded {
			continue
		}
		i := slices.Index(m.LocalProps, *g.Prop)
		if i < 0 {
			continue
		}
		g.upgrade(f)
		m.LocalProps = slices.Delete(m.LocalProps, i, i+1)
	}
}

// Sorted returns the groups in key order.
func (m *AssetModel) Sorted() []*Group {
	out := make([]*Group, 0, len(m.Groups))
	for _, g := range m.Groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Aliases returns the include aliases ordered by source.
func (m *AssetModel) Aliases() []ir.Grouping[string] {
	sources := make([]string, 0, len(m.IncludeAliases))
	for src := range m.IncludeAliases {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	out := make([]ir.Grouping[string], len(sources))
	for i, src := range sources {
		out[i] = ir.Grouping[string]{Key: m.IncludeAliases[src], Items: []string{src}}
	}
	return out
}

// HasAnyHandlers reports whether any group registers behavior.
func (m *AssetModel) HasAnyHandlers() bool {
	for _, g := range m.Groups {
		if g.HasAnyHandlers() {
			return true
		}
	}
	return false
}

// Canonical returns the model as a canonical-JSON-ready map.
func (m *AssetModel) Canonical() map[string]any {
	props := make([]any, len(m.LocalProps))
	for i, p := range m.LocalProps {
		props[i] = propMap(p)
	}
	groups := make([]any, 0, len(m.Groups))
	for _, g := range m.Sorted() {
		groups = append(groups, g.Canonical())
	}
	aliases := make(map[string]string, len(m.IncludeAliases))
	for k, v := range m.IncludeAliases {
		aliases[k] = v
	}
	return map[string]any{
		"entry": map[string]any{
			"owner":            m.Entry.Owner,
			"type":             m.Entry.Type,
			"method":           m.Entry.Method,
			"notifies_changes": m.Entry.NotifiesChanges,
			"visibility":       string(m.Entry.Visibility),
		},
		"local_props":     props,
		"groups":          groups,
		"include_aliases": aliases,
	}
}

// All aggregates every entry container in discovery order. Facts are indexed
// by owner once, so the cost is linear in the size of the fact set. When
// upgrade is set, the implicit facts of the manifest are applied to each model.
func All(facts *ir.FactSet, upgrade bool) []*AssetModel {
	byOwner := make(map[string]*AssetModel, len(facts.Entries))
	models := make([]*AssetModel, 0, len(facts.Entries))
	for _, e := range facts.Entries {
		if _, dup := byOwner[e.Owner]; dup {
			continue
		}
		m := newAssetModel(e)
		byOwner[e.Owner] = m
		models = append(models, m)
	}
	for _, p := range facts.Props {
		if m, ok := byOwner[p.Owner]; ok {
			m.addProp(p)
		}
	}
	for _, e := range facts.Edits {
		if m, ok := byOwner[e.Owner]; ok {
			m.addEdit(e)
		}
	}
	for _, l := range facts.Loads {
		if m, ok := byOwner[l.Owner]; ok {
			m.addLoad(l)
		}
	}
	for _, inc := range facts.Includes {
		if m, ok := byOwner[inc.Owner]; ok {
			m.addInclude(inc)
		}
	}
	if upgrade {
		implicit := facts.Implicit()
		for _, m := range models {
			m.Upgrade(implicit)
		}
	}
	return models
}

// Directs groups the manifest's direct files by target key in manifest order.
// A load-mode file an implicit upgrade moved into one of models is left out:
// the container's own handler already serves it.
func Directs(facts *ir.FactSet, models ...*AssetModel) []ir.Grouping[ir.DirectFileFact] {
	consumed := make(map[string]map[string]bool) // key -> sources
	for _, m := range models {
		for key, g := range m.Groups {
			if !g.upgraded {
				continue
			}
			if consumed[key] == nil {
				consumed[key] = make(map[string]bool)
			}
			consumed[key][g.Prop.Local] = true
		}
	}

	var targeted []ir.DirectFileFact
	for _, d := range facts.Directs {
		if d.TargetKey == "" || (!d.IsMerge && consumed[d.TargetKey][d.Source]) {
			continue
		}
		targeted = append(targeted, d)
	}
	return ir.GroupBy(targeted, func(d ir.DirectFileFact) string { return d.TargetKey })
}
