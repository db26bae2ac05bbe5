package ir

import (
	"go/token"
	"slices"
)

// DeclKind classifies a scanned declaration.
type DeclKind int

const (
	DeclType   DeclKind = iota // named type
	DeclField                  // struct field
	DeclFunc                   // package-level function
	DeclMethod                 // method with a receiver
	DeclVar                    // package-level variable
)

func (k DeclKind) String() string {
	switch k {
	case DeclType:
		return "type"
	case DeclField:
		return "field"
	case DeclFunc:
		return "func"
	case DeclMethod:
		return "method"
	case DeclVar:
		return "var"
	default:
		return "unknown"
	}
}

// TypeRef is a type expression seen from two sides: Text is the source as
// written (valid inside the declaring package), ID is the same expression with
// every named type qualified by its import path.
type TypeRef struct {
	Text string `json:"text"`
	ID   string `json:"id"`
}

// ArgKind classifies a marker argument token.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgInt
	ArgFloat
	ArgBool
	ArgChar
	ArgIdent // identifier or qualified identifier
)

// Arg is one literal marker argument.
type Arg struct {
	Kind  ArgKind `json:"kind"`
	Text  string  `json:"text"`  // Go source form, e.g. `"Pricing"` or `-1`
	Value string  `json:"value"` // unquoted form for strings, Text otherwise
}

// Marker is one `//modgen:<kind>` directive attached to a declaration.
type Marker struct {
	Kind    string         `json:"kind"`
	Args    []Arg          `json:"args,omitempty"`
	Named   map[string]Arg `json:"named,omitempty"`
	Invalid string         `json:"invalid,omitempty"` // tokenizer error, if any
	Pos     token.Position `json:"-"`
}

// StringArg returns the i-th positional argument if it is a string literal.
func (m Marker) StringArg(i int) (string, bool) {
	if i < 0 || i >= len(m.Args) || m.Args[i].Kind != ArgString {
		return "", false
	}
	return m.Args[i].Value, true
}

// NamedArg returns the named argument with the given key.
func (m Marker) NamedArg(key string) (Arg, bool) {
	a, ok := m.Named[key]
	return a, ok
}

// Declaration is one declaration of the scanned program together with the
// markers attached to it and the shape flags extraction predicates look at.
type Declaration struct {
	Kind       DeclKind       `json:"kind"`
	Package    string         `json:"package"`
	ImportPath string         `json:"import_path"`
	Dir        string         `json:"dir"` // slash-separated, relative to the module root
	Owner      string         `json:"owner"`
	Name       string         `json:"name"`
	Type       TypeRef        `json:"type"`
	TypeBase   string         `json:"type_base,omitempty"` // unqualified generic base name, e.g. "Event"
	TypeArgs   []TypeRef      `json:"type_args,omitempty"`
	Underlying string         `json:"underlying,omitempty"` // underlying type of a local named field type
	Params     []TypeRef      `json:"params,omitempty"`
	Results    []TypeRef      `json:"results,omitempty"`
	Methods    []string       `json:"methods,omitempty"` // methods declared on a type
	Struct     bool           `json:"struct,omitempty"`
	Embedded   bool           `json:"embedded,omitempty"`
	Exported   bool           `json:"exported"`
	Markers    []Marker       `json:"markers,omitempty"`
	Pos        token.Position `json:"-"`
}

// HasMethod reports whether a type declaration has a method with this name.
func (d *Declaration) HasMethod(name string) bool {
	return slices.Contains(d.Methods, name)
}

// Visibility returns the visibility of the declaration.
func (d *Declaration) Visibility() Visibility {
	if d.Exported {
		return Exported
	}
	return Unexported
}

// ContainerID returns the owner identity of a named type in a package.
func ContainerID(importPath, typeName string) string {
	return importPath + "." + typeName
}
