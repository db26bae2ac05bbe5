// Package config loads the build configuration from modgen.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the module root.
const FileName = "modgen.yaml"

// Config is the build configuration.
type Config struct {
	// UniqueID is the project id rendered into the ModID constant and used to
	// prefix project-private resource keys. Defaults to the module path.
	UniqueID string `yaml:"unique_id"`

	// EnablePatching generates the runtime patching stub.
	EnablePatching bool `yaml:"enable_patching"`

	// RuntimeImport is the import path of the runtime package generated code
	// calls into. Defaults to "<module>/modrt".
	RuntimeImport string `yaml:"runtime_import"`

	// EventsImport is the package holding the framework event payloads.
	// Defaults to RuntimeImport.
	EventsImport string `yaml:"events_import"`

	// RootPackage is the module-relative directory of the package that hosts
	// module-wide artifacts.
	RootPackage string `yaml:"root_package"`

	ManifestDir  string `yaml:"manifest_dir"`
	TemplatesDir string `yaml:"templates_dir"`

	// OutDir is where artifacts are written. Empty means next to the sources.
	OutDir string `yaml:"out_dir"`

	// Ledger is the path of the artifact ledger database. Empty disables it.
	Ledger string `yaml:"ledger"`

	ImplicitUpgrade bool `yaml:"implicit_upgrade"`
	DumpLang        bool `yaml:"dump_lang"`
	ConfigStubs     bool `yaml:"config_stubs"`

	// TypeHints maps a file extension to the resource type inferred for
	// manifest files with that extension. Entries are merged over the
	// defaults; an empty type removes a default.
	TypeHints map[string]string `yaml:"type_hints"`

	// Properties are free-form values exposed to every template as .Build.
	Properties map[string]string `yaml:"properties"`
}

// DefaultTypeHints are the built-in extension hints.
func DefaultTypeHints() map[string]string {
	return map[string]string{
		".png":  "*modrt.Texture",
		".tmx":  "*modrt.Map",
		".tbin": "*modrt.Map",
	}
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		RootPackage:     ".",
		ManifestDir:     "manifest",
		ImplicitUpgrade: true,
		DumpLang:        true,
		ConfigStubs:     true,
		TypeHints:       DefaultTypeHints(),
	}
}

// Error reports an unreadable, malformed or invalid configuration file.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads the configuration at path. An empty path means FileName in root.
// A missing file yields the defaults.
func Load(root, path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(root, FileName)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes a configuration document over the defaults. Unknown fields
// are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	hints := cfg.TypeHints
	cfg.TypeHints = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	for ext, typ := range cfg.TypeHints {
		if typ == "" {
			delete(hints, ext)
			continue
		}
		hints[ext] = typ
	}
	cfg.TypeHints = hints

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var uniqueID = regexp.MustCompile(`^[A-Za-z0-9_.\-/]+$`)

// Validate checks field formats. It does not need defaults to be resolved.
func (c *Config) Validate() error {
	var errs []error
	if c.UniqueID != "" && !uniqueID.MatchString(c.UniqueID) {
		errs = append(errs, fmt.Errorf("unique_id %q: only letters, digits and _ . - / are allowed", c.UniqueID))
	}
	for _, field := range []struct{ name, val string }{
		{"runtime_import", c.RuntimeImport},
		{"events_import", c.EventsImport},
	} {
		if strings.ContainsAny(field.val, " \t\"\\") {
			errs = append(errs, fmt.Errorf("%s %q is not an import path", field.name, field.val))
		}
	}
	if c.RootPackage != "" && !filepath.IsLocal(filepath.FromSlash(c.RootPackage)) {
		errs = append(errs, fmt.Errorf("root_package %q must be a directory inside the module", c.RootPackage))
	}
	exts := make([]string, 0, len(c.TypeHints))
	for ext := range c.TypeHints {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("type_hints key %q must start with a dot", ext))
		}
	}
	return errors.Join(errs...)
}

// Resolve fills the defaults that depend on the scanned module path.
func (c *Config) Resolve(module string) {
	if c.UniqueID == "" {
		c.UniqueID = module
	}
	if c.RuntimeImport == "" {
		c.RuntimeImport = module + "/modrt"
	}
	if c.EventsImport == "" {
		c.EventsImport = c.RuntimeImport
	}
	if c.RootPackage == "" {
		c.RootPackage = "."
	}
	c.RootPackage = path.Clean(filepath.ToSlash(c.RootPackage))
}

// Path resolves p against root unless it is absolute.
func Path(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
