package generate

import (
	"github.com/roach88/modgen/internal/aggregate"
	"github.com/roach88/modgen/internal/ir"
)

// Header is the part of every template's data describing the target package
// and build.
type Header struct {
	Package       string
	RuntimeImport string
	ModID         string
	Build         map[string]string
}

// AssetData feeds the assets template.
type AssetData struct {
	Header
	Entry          ir.EntryFact
	Fields         []ir.PropertyFact
	Groups         []*aggregate.Group
	Aliases        []ir.Grouping[string]
	IncludeAliases map[string]string
	HasAnyHandlers bool
	NotifyMethod   string
}

// HelperData feeds the asset helper template.
type HelperData struct {
	Header
	Directs  []ir.Grouping[ir.DirectFileFact]
	DumpLang bool
}

// ConfigData feeds the config and config stub templates.
type ConfigData struct {
	Header
	Type  ir.ConfigType
	Props []*aggregate.RangedProperty
	Pages []ir.Grouping[*aggregate.RangedProperty]
}

// Import is one import of the event bus.
type Import struct {
	Alias string
	Path  string
}

// EventData feeds the event bus template.
type EventData struct {
	Header
	Imports []Import
	// Aliases maps an import path to the name it is referenced by. The root
	// package maps to "".
	Aliases    map[string]string
	Groups     []ir.EventGroup
	Unresolved []ir.EventTarget
}

// ConstantsData feeds the constants template.
type ConstantsData struct {
	Header
	EnablePatching bool
	Root           bool
}
