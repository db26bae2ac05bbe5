// Package render turns template data into text.
//
// Every template a run needs is parsed up front by New; a missing or broken
// template aborts the run before anything is rendered. Rendering itself is
// pure: the same data always yields the same text.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"text/template"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// Template names.
const (
	Assets          = "assets"
	AssetHelper     = "assethelper"
	Config          = "config"
	ConfigStub      = "configstub"
	EventBus        = "eventbus"
	Constants       = "constants"
	IncludeAssets   = "include_assets"
	IncludeSettings = "include_settings"
	IncludeEvents   = "include_events"
	IncludePatching = "include_patching"
)

// Required lists every template a generation run renders.
var Required = []string{
	Assets, AssetHelper, Config, ConfigStub, EventBus, Constants,
	IncludeAssets, IncludeSettings, IncludeEvents, IncludePatching,
}

// Ext is the file extension of template files.
const Ext = ".tmpl"

// Renderer holds parsed templates.
type Renderer struct {
	templates map[string]*template.Template
	sources   map[string]string
}

// Builtin returns the templates shipped with modgen.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Default parses the built-in templates.
func Default() (*Renderer, error) {
	return New(Builtin(), Required...)
}

// FromDir parses templates from dir, falling back to the built-in template
// for every name dir does not provide. An empty dir means built-ins only.
func FromDir(dir string) (*Renderer, error) {
	if dir == "" {
		return Default()
	}
	return New(Overlay(os.DirFS(dir), Builtin()), Required...)
}

// New parses the named templates from fsys. Each name is read from
// "<name>.tmpl".
func New(fsys fs.FS, names ...string) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template, len(names)),
		sources:   make(map[string]string, len(names)),
	}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name+Ext)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateNotFoundError{Name: name}
		}
		if err != nil {
			return nil, fmt.Errorf("reading template %q: %w", name, err)
		}
		t, err := template.New(name).
			Option("missingkey=error").
			Funcs(Funcs()).
			Parse(string(data))
		if err != nil {
			return nil, &TemplateParseError{Name: name, Err: err}
		}
		r.templates[name] = t
		r.sources[name] = string(data)
	}
	return r, nil
}

// Template returns the source text of a parsed template.
func (r *Renderer) Template(name string) (string, error) {
	src, ok := r.sources[name]
	if !ok {
		return "", &TemplateNotFoundError{Name: name}
	}
	return src, nil
}

// Names returns the parsed template names in sorted order.
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template against data.
func (r *Renderer) Render(name string, data any) (string, error) {
	t, ok := r.templates[name]
	if !ok {
		return "", &TemplateNotFoundError{Name: name}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// Overlay returns a file system that serves files from primary and falls back
// to fallback for files primary does not have.
func Overlay(primary, fallback fs.FS) fs.FS {
	return overlayFS{primary: primary, fallback: fallback}
}

type overlayFS struct {
	primary, fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return o.fallback.Open(name)
	}
	return f, err
}
