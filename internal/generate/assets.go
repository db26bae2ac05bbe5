package generate

import (
	"github.com/roach88/modgen/internal/aggregate"
	"github.com/roach88/modgen/internal/extract"
	"github.com/roach88/modgen/internal/render"
)

// HelperFile is the root-package artifact serving manifest files.
const HelperFile = "assethelper.gen.go"

// AssetsGenerator renders one asset artifact per entry container and the
// asset helper of the root package.
type AssetsGenerator struct{}

func (AssetsGenerator) Name() string { return "assets" }

func (AssetsGenerator) Generate(c *Context) ([]Artifact, error) {
	facts := c.Snapshot.Facts
	var out []Artifact
	models := aggregate.All(facts, c.Config.ImplicitUpgrade)
	aliases := make(map[string]map[string]bool) // package dir -> declared include aliases
	for _, m := range models {
		taken, ok := aliases[m.Entry.Dir]
		if !ok {
			taken = make(map[string]bool)
			aliases[m.Entry.Dir] = taken
		}
		m.ScopeAliases(taken)

		data := AssetData{
			Header:         c.header(m.Entry.Package),
			Entry:          m.Entry,
			Fields:         m.LocalProps,
			Groups:         m.Sorted(),
			Aliases:        m.Aliases(),
			IncludeAliases: m.IncludeAliases,
			HasAnyHandlers: m.HasAnyHandlers(),
			NotifyMethod:   extract.NotifyMethod,
		}
		a, err := c.render(m.Entry.Dir, fileName(m.Entry.Type, "assets"), render.Assets, data)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	root, err := c.rootPackage()
	if err != nil {
		return nil, err
	}
	helper := HelperData{
		Header:   c.header(root.Name),
		Directs:  aggregate.Directs(facts, models...),
		DumpLang: c.Config.DumpLang,
	}
	a, err := c.render(root.Dir, HelperFile, render.AssetHelper, helper)
	if err != nil {
		return nil, err
	}
	return append(out, a), nil
}
