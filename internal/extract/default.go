package extract

import (
	"fmt"
	"strings"

	"github.com/roach88/modgen/internal/ir"
)

// Marker kinds understood by the default registry.
const (
	KindEntry   = "entry"
	KindAsset   = "asset"
	KindEdit    = "edit"
	KindLoad    = "load"
	KindInclude = "include"
	KindConfig  = "config"
	KindValue   = "value"
	KindRange   = "range"
	KindEvent   = "event"
)

// DefaultEntryMethod is the method an entry container's generated half
// defines when the entry marker names none.
const DefaultEntryMethod = "Setup"

// NotifyMethod is the method a container declares to be told when one of its
// resource-backed fields was reloaded.
const NotifyMethod = "NotifyChanged"

// EventBase is the generic type name whose type argument is an event
// source's payload.
const EventBase = "Event"

// Default returns a registry with every built-in marker kind.
func Default() *Registry {
	r := NewRegistry()
	r.Register(KindEntry, Strategy{
		Name:  "entry",
		Match: all(declKind(ir.DeclType), isStruct, optionalStringArg(0, "method"), entryMethodFree),
		Build: buildEntry,
	})
	r.Register(KindAsset, Strategy{
		Name:  "asset",
		Match: all(declKind(ir.DeclField), namedField, stringArg(0, "target"), optionalStringArg(1, "local path")),
		Build: buildProperty,
	})
	r.Register(KindEdit, Strategy{
		Name:  "edit",
		Match: all(declKind(ir.DeclMethod), paramCount(1), stringArg(0, "target")),
		Build: buildEdit,
	})
	r.Register(KindLoad, Strategy{
		Name:  "load",
		Match: all(declKind(ir.DeclMethod), paramCount(0), stringArg(0, "target")),
		Build: buildLoad,
	})
	r.Register(KindInclude, Strategy{
		Name:  "include",
		Match: all(declKind(ir.DeclType), isStruct, stringArg(0, "target"), stringArg(1, "source")),
		Build: buildInclude,
	})
	r.Register(KindConfig, Strategy{
		Name:  "config",
		Match: all(declKind(ir.DeclType), isStruct, namedKind("TitleOnly", ir.ArgBool)),
		Build: buildConfig,
	})
	r.Register(KindValue, Strategy{
		Name:  "value",
		Match: all(declKind(ir.DeclField), namedField, exported, argCount(1, "default value"), optionalStringArg(1, "page")),
		Build: buildValue,
	})
	r.Register(KindRange, Strategy{
		Name:  "range",
		Match: all(
			declKind(ir.DeclField),
			namedField,
			namedKind("Min", ir.ArgInt, ir.ArgFloat),
			namedKind("Max", ir.ArgInt, ir.ArgFloat),
			namedKind("Step", ir.ArgInt, ir.ArgFloat),
			namedKind("Enforce", ir.ArgBool),
		),
		Build: buildRange,
	})
	r.Register(KindEvent,
		Strategy{Name: "handler", Match: all(declKind(ir.DeclFunc), paramCount(2)), Build: buildEventTarget},
		Strategy{Name: "source", Match: declKind(ir.DeclVar), Build: buildEventSource},
	)
	return r
}

func entryMethodFree(d *ir.Declaration, m ir.Marker) error {
	method := stringOr(m, 0, DefaultEntryMethod)
	if d.HasMethod(method) {
		return fmt.Errorf("%s declares %s by hand; the generated half defines it", d.Name, method)
	}
	return nil
}

func buildEntry(d *ir.Declaration, m ir.Marker) ir.Fact {
	return ir.EntryFact{
		Owner:           d.Owner,
		Package:         d.Package,
		ImportPath:      d.ImportPath,
		Dir:             d.Dir,
		Type:            d.Name,
		Method:          stringOr(m, 0, DefaultEntryMethod),
		NotifiesChanges: d.HasMethod(NotifyMethod),
		Visibility:      d.Visibility(),
	}
}

func buildProperty(d *ir.Declaration, m ir.Marker) ir.Fact {
	return ir.PropertyFact{
		Owner:        d.Owner,
		Member:       d.Name,
		DeclaredType: d.Type.Text,
		TargetKey:    stringOr(m, 0, ""),
		Local:        stringOr(m, 1, ""),
		Visibility:   d.Visibility(),
	}
}

func buildEdit(d *ir.Declaration, m ir.Marker) ir.Fact {
	return ir.EditFact{Owner: d.Owner, Member: d.Name, TargetKey: stringOr(m, 0, "")}
}

func buildLoad(d *ir.Declaration, m ir.Marker) ir.Fact {
	f := ir.LoadFact{Owner: d.Owner, Member: d.Name, TargetKey: stringOr(m, 0, "")}
	if len(d.Results) > 0 {
		f.ResultType = d.Results[0].Text
	}
	return f
}

func buildInclude(d *ir.Declaration, m ir.Marker) ir.Fact {
	return ir.IncludeFact{Owner: d.Owner, TargetKey: stringOr(m, 0, ""), Source: stringOr(m, 1, "")}
}

func buildConfig(d *ir.Declaration, m ir.Marker) ir.Fact {
	return ir.ConfigType{
		Owner:      d.Owner,
		Package:    d.Package,
		ImportPath: d.ImportPath,
		Dir:        d.Dir,
		Type:       d.Name,
		TitleOnly:  boolArg(m, "TitleOnly", 0),
	}
}

func buildValue(d *ir.Declaration, m ir.Marker) ir.Fact {
	page := stringOr(m, 1, "")
	if a, ok := m.NamedArg("Page"); ok && a.Kind == ir.ArgString {
		page = a.Value
	}
	return ir.ConfigValue{
		Owner:      d.Owner,
		Member:     d.Name,
		ValueType:  ValueTypeOf(d),
		Default:    m.Args[0].Text,
		TypeName:   d.Type.Text,
		SimpleType: simpleType(d.Type.Text),
		Page:       page,
	}
}

func buildRange(d *ir.Declaration, m ir.Marker) ir.Fact {
	return ir.ConfigRange{
		Owner:   d.Owner,
		Member:  d.Name,
		IsFloat: isFloat(d.Type.Text) || isFloat(d.Underlying),
		Enforce: boolArg(m, "Enforce", -1),
		Min:     namedText(m, "Min"),
		Max:     namedText(m, "Max"),
		Step:    namedText(m, "Step"),
	}
}

func buildEventTarget(d *ir.Declaration, _ ir.Marker) ir.Fact {
	return ir.EventTarget{
		Package:     d.Package,
		ImportPath:  d.ImportPath,
		Func:        d.Name,
		PayloadType: d.Params[1].ID,
	}
}

// buildEventSource reads the payload from an Event[T] variable type. Any
// other type yields an inert source with no payload.
func buildEventSource(d *ir.Declaration, _ ir.Marker) ir.Fact {
	s := ir.EventSource{Package: d.Package, ImportPath: d.ImportPath, Name: d.Name}
	if d.TypeBase == EventBase && len(d.TypeArgs) == 1 {
		s.PayloadType = d.TypeArgs[0].ID
	}
	return s
}

// ValueTypeOf maps a field's Go type to its settings-UI kind. Local named
// types over an integer or string are enums.
func ValueTypeOf(d *ir.Declaration) ir.ConfigValueType {
	switch d.Type.Text {
	case "string":
		return ir.ValueString
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return ir.ValueInt
	case "bool":
		return ir.ValueBool
	case "float32", "float64":
		return ir.ValueFloat
	}
	switch simpleType(d.Type.Text) {
	case "Keybind":
		return ir.ValueKeybind
	case "KeybindList":
		return ir.ValueKeybindList
	}
	switch d.Underlying {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "string":
		return ir.ValueEnum
	}
	return ir.ValueNone
}

// simpleType strips pointer, slice and package qualifiers from a type name.
func simpleType(text string) string {
	text = strings.TrimLeft(text, "*[]")
	if i := strings.LastIndexByte(text, '.'); i >= 0 {
		text = text[i+1:]
	}
	return text
}

func isFloat(t string) bool {
	return t == "float32" || t == "float64"
}
