package generate

import (
	"fmt"
	"sort"

	"github.com/roach88/modgen/internal/render"
	"github.com/roach88/modgen/internal/scan"
)

// ConstantsFile holds the ModID constant in every package with generated code.
const ConstantsFile = "constants.gen.go"

// Include stub files of the root package.
const (
	IncludeAssetsFile   = "modgen_assets.gen.go"
	IncludeSettingsFile = "modgen_settings.gen.go"
	IncludeEventsFile   = "modgen_events.gen.go"
	IncludePatchingFile = "modgen_patching.gen.go"
)

// StaticGenerator renders the constants of every package hosting generated
// code and the fixed include stubs of the root package.
type StaticGenerator struct{}

func (StaticGenerator) Name() string { return "static" }

func (StaticGenerator) Generate(c *Context) ([]Artifact, error) {
	root, err := c.rootPackage()
	if err != nil {
		return nil, err
	}

	var out []Artifact
	for _, pkg := range c.hostPackages(root) {
		data := ConstantsData{
			Header:         c.header(pkg.Name),
			EnablePatching: c.Config.EnablePatching,
			Root:           pkg.Dir == root.Dir,
		}
		a, err := c.render(pkg.Dir, ConstantsFile, render.Constants, data)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	stubs := []struct{ tmpl, file string }{
		{render.IncludeAssets, IncludeAssetsFile},
		{render.IncludeSettings, IncludeSettingsFile},
		{render.IncludeEvents, IncludeEventsFile},
	}
	if c.Config.EnablePatching {
		stubs = append(stubs, struct{ tmpl, file string }{render.IncludePatching, IncludePatchingFile})
	}
	for _, s := range stubs {
		a, err := c.render(root.Dir, s.file, s.tmpl, c.header(root.Name))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// hostPackages returns the root package and every package declaring an
// entry or config container, ordered by directory.
func (c *Context) hostPackages(root scan.PackageInfo) []scan.PackageInfo {
	dirs := map[string]bool{root.Dir: true}
	for _, e := range c.Snapshot.Facts.Entries {
		dirs[e.Dir] = true
	}
	for _, cfg := range c.Snapshot.Facts.Configs {
		dirs[cfg.Dir] = true
	}
	var out []scan.PackageInfo
	for dir := range dirs {
		if p, ok := c.Snapshot.Package(dir); ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out
}

// rootPackage returns the package hosting module-wide artifacts.
func (c *Context) rootPackage() (scan.PackageInfo, error) {
	dir := rootDir(c.Config)
	p, ok := c.Snapshot.Package(dir)
	if !ok {
		return scan.PackageInfo{}, fmt.Errorf("root package %q has no Go files; set root_package in the build configuration", dir)
	}
	return p, nil
}
