package generate

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/roach88/modgen/internal/ir"
	"github.com/roach88/modgen/internal/render"
	"github.com/roach88/modgen/internal/scan"
)

// EventBusFile is the root-package artifact subscribing every handler.
const EventBusFile = "eventbus.gen.go"

// EventsGenerator renders the event bus of the root package.
type EventsGenerator struct{}

func (EventsGenerator) Name() string { return "events" }

func (EventsGenerator) Generate(c *Context) ([]Artifact, error) {
	root, err := c.rootPackage()
	if err != nil {
		return nil, err
	}
	routing := c.Routing()
	for _, t := range routing.Unresolved() {
		c.logger().Debug("no event delivers handler payload",
			zap.String("handler", t.ImportPath+"."+t.Func),
			zap.String("payload", t.PayloadType))
	}

	groups := routing.Resolved()
	imports, aliases := c.eventImports(root.ImportPath, groups)
	data := EventData{
		Header:     c.header(root.Name),
		Imports:    imports,
		Aliases:    aliases,
		Groups:     groups,
		Unresolved: routing.Unresolved(),
	}
	a, err := c.render(root.Dir, EventBusFile, render.EventBus, data)
	if err != nil {
		return nil, err
	}
	return []Artifact{a}, nil
}

// eventImports assigns an import alias to every package referenced by a
// resolved group. Aliases default to the package name and get a numeric
// suffix on collision; the root package is referenced without one.
func (c *Context) eventImports(rootImport string, groups []ir.EventGroup) ([]Import, map[string]string) {
	names := make(map[string]string, len(c.Snapshot.Packages))
	for _, p := range c.Snapshot.Packages {
		names[p.ImportPath] = p.Name
	}

	used := map[string]bool{}
	for _, g := range groups {
		if g.Source != nil {
			used[g.Source.ImportPath] = true
		}
		for _, t := range g.Items {
			used[t.ImportPath] = true
		}
	}
	paths := make([]string, 0, len(used))
	for p := range used {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	aliases := map[string]string{rootImport: ""}
	taken := map[string]bool{"modrt": true, "Helper": true}
	var imports []Import
	for _, p := range paths {
		if p == rootImport {
			continue
		}
		base, ok := names[p]
		if !ok {
			base = scan.ImportAlias(p)
		}
		alias := base
		for i := 2; taken[alias]; i++ {
			alias = fmt.Sprintf("%s%d", base, i)
		}
		taken[alias] = true
		aliases[p] = alias
		imports = append(imports, Import{Alias: alias, Path: p})
	}
	return imports, aliases
}
