package generate

import (
	"github.com/roach88/modgen/internal/aggregate"
	"github.com/roach88/modgen/internal/route"
)

// Routing resolves the event handlers of the snapshot.
func (c *Context) Routing() *route.Routing {
	facts := c.Snapshot.Facts
	return route.Resolve(facts.EventTargets, facts.EventSources, c.Config.EventsImport)
}

// Canonical returns the aggregated model of the snapshot as a
// canonical-JSON-ready map. It is what `modgen inspect` prints and what
// Output.ModelHash is computed from.
func (c *Context) Canonical() map[string]any {
	facts := c.Snapshot.Facts

	assets := []any{}
	for _, m := range aggregate.All(facts, c.Config.ImplicitUpgrade) {
		assets = append(assets, m.Canonical())
	}
	configs := []any{}
	for _, m := range aggregate.Configs(facts) {
		configs = append(configs, m.Canonical())
	}
	directs := []any{}
	for _, g := range aggregate.Directs(facts) {
		files := make([]any, len(g.Items))
		for i, d := range g.Items {
			f := map[string]any{"source": d.Source, "merge": d.IsMerge}
			if d.Priority != "" {
				f["priority"] = d.Priority
			}
			if d.InferredType != "" {
				f["inferred_type"] = d.InferredType
			}
			files[i] = f
		}
		directs = append(directs, map[string]any{"key": g.Key, "files": files})
	}
	skips := []any{}
	for _, s := range c.Snapshot.Skips {
		skips = append(skips, map[string]any{"kind": s.Kind, "decl": s.Decl, "reason": s.Reason})
	}

	return map[string]any{
		"module":    c.Snapshot.Module,
		"unique_id": c.Config.UniqueID,
		"assets":    assets,
		"configs":   configs,
		"directs":   directs,
		"events":    c.Routing().Canonical(),
		"skips":     skips,
	}
}
