// Package generate runs the generators over a fact snapshot and collects the
// rendered artifacts in memory.
//
// A run either renders every artifact or fails as a whole: nothing is handed
// to the emitter until all generators have succeeded.
package generate

import (
	"context"
	"fmt"
	"go/format"
	"path"
	"sort"

	"go.uber.org/zap"

	"github.com/roach88/modgen/internal/config"
	"github.com/roach88/modgen/internal/ir"
	"github.com/roach88/modgen/internal/render"
)

// Artifact is one rendered output file.
type Artifact struct {
	// Name is the slash-separated path below the output root.
	Name      string
	Generator string
	Template  string
	Content   []byte
}

// Hash returns the content identity of the artifact.
func (a Artifact) Hash() string {
	return ir.ArtifactHash(a.Name, a.Content)
}

// Context is what every generator sees during a run.
type Context struct {
	Snapshot *Snapshot
	Config   *config.Config
	Renderer *render.Renderer
	Logger   *zap.Logger
}

// Generator produces artifacts from the snapshot.
type Generator interface {
	Name() string
	Generate(c *Context) ([]Artifact, error)
}

// Default returns the built-in generators in run order.
func Default() []Generator {
	return []Generator{
		AssetsGenerator{},
		ConfigGenerator{},
		EventsGenerator{},
		StaticGenerator{},
	}
}

// Output is the result of a successful run.
type Output struct {
	// Artifacts are sorted by name.
	Artifacts []Artifact
	// Warnings lists artifacts kept unformatted.
	Warnings []string
	// ModelHash identifies the aggregated model the artifacts came from.
	ModelHash string
}

// Names returns the artifact names in order.
func (o *Output) Names() []string {
	names := make([]string, len(o.Artifacts))
	for i, a := range o.Artifacts {
		names[i] = a.Name
	}
	return names
}

// Get returns the artifact with the given name.
func (o *Output) Get(name string) (Artifact, bool) {
	i := sort.Search(len(o.Artifacts), func(i int) bool { return o.Artifacts[i].Name >= name })
	if i < len(o.Artifacts) && o.Artifacts[i].Name == name {
		return o.Artifacts[i], true
	}
	return Artifact{}, false
}

// Run executes gens in order. Go artifacts are passed through go/format; an
// artifact that does not format is kept as rendered and reported as a warning.
func Run(ctx context.Context, c *Context, gens ...Generator) (*Output, error) {
	if len(gens) == 0 {
		gens = Default()
	}

	out := &Output{}
	seen := make(map[string]string)
	for _, g := range gens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		arts, err := g.Generate(c)
		if err != nil {
			return nil, fmt.Errorf("%s generator: %w", g.Name(), err)
		}
		for _, a := range arts {
			if prev, dup := seen[a.Name]; dup {
				return nil, fmt.Errorf("artifact %s produced by both %s and %s generators", a.Name, prev, g.Name())
			}
			seen[a.Name] = g.Name()
			a.Generator = g.Name()
			if path.Ext(a.Name) == ".go" {
				formatted, err := format.Source(a.Content)
				if err != nil {
					c.logger().Warn("keeping unformatted artifact",
						zap.String("artifact", a.Name),
						zap.Error(err))
					out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %v", a.Name, err))
				} else {
					a.Content = formatted
				}
			}
			out.Artifacts = append(out.Artifacts, a)
		}
		c.logger().Debug("generator finished",
			zap.String("generator", g.Name()),
			zap.Int("artifacts", len(arts)))
	}
	sort.Slice(out.Artifacts, func(i, j int) bool { return out.Artifacts[i].Name < out.Artifacts[j].Name })

	hash, err := ir.ModelHash(c)
	if err != nil {
		return nil, err
	}
	out.ModelHash = hash
	return out, nil
}

func (c *Context) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// render executes a template and wraps it as an artifact in dir.
func (c *Context) render(dir, file, tmpl string, data any) (Artifact, error) {
	text, err := c.Renderer.Render(tmpl, data)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: path.Join(dir, file), Template: tmpl, Content: []byte(text)}, nil
}

// header returns the template header for a package directory.
func (c *Context) header(pkg string) Header {
	return Header{
		Package:       pkg,
		RuntimeImport: c.Config.RuntimeImport,
		ModID:         c.Config.UniqueID,
		Build:         c.Config.Properties,
	}
}

// fileName builds "<snake type>_<suffix>.gen.go".
func fileName(typ, suffix string) string {
	return render.Snake(typ) + "_" + suffix + ".gen.go"
}

func rootDir(cfg *config.Config) string {
	return path.Clean(cfg.RootPackage)
}
