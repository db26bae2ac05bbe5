package generate

import (
	"github.com/roach88/modgen/internal/aggregate"
	"github.com/roach88/modgen/internal/render"
)

// ConfigGenerator renders the settings half of every config container and,
// unless disabled, the stub declaring its contract and lifecycle events.
type ConfigGenerator struct{}

func (ConfigGenerator) Name() string { return "config" }

func (ConfigGenerator) Generate(c *Context) ([]Artifact, error) {
	var out []Artifact
	for _, m := range aggregate.Configs(c.Snapshot.Facts) {
		data := ConfigData{
			Header: c.header(m.Type.Package),
			Type:   m.Type,
			Props:  m.Props,
			Pages:  m.Pages,
		}
		a, err := c.render(m.Type.Dir, fileName(m.Type.Type, "config"), render.Config, data)
		if err != nil {
			return nil, err
		}
		out = append(out, a)

		if !c.Config.ConfigStubs {
			continue
		}
		stub, err := c.render(m.Type.Dir, fileName(m.Type.Type, "config_stub"), render.ConfigStub, data)
		if err != nil {
			return nil, err
		}
		out = append(out, stub)
	}
	return out, nil
}
