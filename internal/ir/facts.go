package ir

// FactKind tags the members of the Fact union.
type FactKind int

const (
	KindEntry FactKind = iota
	KindProperty
	KindEdit
	KindLoad
	KindInclude
	KindDirectFile
	KindConfig
	KindConfigValue
	KindConfigRange
	KindEventTarget
	KindEventSource
)

func (k FactKind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindProperty:
		return "property"
	case KindEdit:
		return "edit"
	case KindLoad:
		return "load"
	case KindInclude:
		return "include"
	case KindDirectFile:
		return "direct_file"
	case KindConfig:
		return "config"
	case KindConfigValue:
		return "config_value"
	case KindConfigRange:
		return "config_range"
	case KindEventTarget:
		return "event_target"
	case KindEventSource:
		return "event_source"
	default:
		return "unknown"
	}
}

// Fact is a structured record extracted from one marker on one declaration.
type Fact interface {
	FactKind() FactKind
}

// Visibility of the declaration a fact came from.
type Visibility string

const (
	Exported   Visibility = "exported"
	Unexported Visibility = "unexported"
)

// EntryFact marks a container: the struct type whose generated half wires up
// every asset handler declared on it.
type EntryFact struct {
	Owner           string     `json:"owner"`
	Package         string     `json:"package"`
	ImportPath      string     `json:"import_path"`
	Dir             string     `json:"dir"`
	Type            string     `json:"type"`
	Method          string     `json:"method"` // method the generated half defines
	NotifiesChanges bool       `json:"notifies_changes"`
	Visibility      Visibility `json:"visibility"`
}

// PropertyFact is a field backed by a resource. Local is the optional local
// override path; DeclaredType is empty or generic when nothing better is known.
type PropertyFact struct {
	Owner        string     `json:"owner"`
	Member       string     `json:"member"`
	DeclaredType string     `json:"declared_type"`
	TargetKey    string     `json:"target_key"`
	Local        string     `json:"local,omitempty"`
	Visibility   Visibility `json:"visibility"`
	Implicit     bool       `json:"implicit,omitempty"` // type inferred from a direct file
}

// EditFact is a method patching an existing resource.
type EditFact struct {
	Owner     string `json:"owner"`
	Member    string `json:"member"`
	TargetKey string `json:"target_key"`
}

// LoadFact is a method providing a resource.
type LoadFact struct {
	Owner      string `json:"owner"`
	Member     string `json:"member"`
	TargetKey  string `json:"target_key"`
	ResultType string `json:"result_type,omitempty"`
}

// IncludeFact merges the content of a source file into a resource.
type IncludeFact struct {
	Owner     string `json:"owner"`
	TargetKey string `json:"target_key"`
	Source    string `json:"source"`
}

// DirectFileFact is a manifest entry binding a file straight to a resource.
// TargetKey is empty when the entry names neither a load nor a merge target.
type DirectFileFact struct {
	TargetKey    string `json:"target_key,omitempty"`
	Source       string `json:"source"`
	IsMerge      bool   `json:"is_merge"`
	Priority     string `json:"priority,omitempty"`
	InferredType string `json:"inferred_type,omitempty"`
}

// ImplicitFact is a resource type hint inferred from a file name rather than
// declared explicitly.
type ImplicitFact struct {
	TargetKey    string `json:"target_key"`
	Source       string `json:"source"`
	InferredType string `json:"inferred_type"`
}

// Implicit derives the implicit type hint carried by a load-mode direct file.
func (f DirectFileFact) Implicit() (ImplicitFact, bool) {
	if f.IsMerge || f.TargetKey == "" {
		return ImplicitFact{}, false
	}
	return ImplicitFact{TargetKey: f.TargetKey, Source: f.Source, InferredType: f.InferredType}, true
}

// ConfigType marks a settings container.
type ConfigType struct {
	Owner      string `json:"owner"`
	Package    string `json:"package"`
	ImportPath string `json:"import_path"`
	Dir        string `json:"dir"`
	Type       string `json:"type"`
	TitleOnly  bool   `json:"title_only"`
}

// ConfigValueType is the settings-UI kind of a config value.
type ConfigValueType int

const (
	ValueNone ConfigValueType = iota
	ValueString
	ValueInt
	ValueBool
	ValueEnum
	ValueFloat
	ValueKeybind
	ValueKeybindList
)

func (t ConfigValueType) String() string {
	switch t {
	case ValueString:
		return "String"
	case ValueInt:
		return "Int"
	case ValueBool:
		return "Bool"
	case ValueEnum:
		return "Enum"
	case ValueFloat:
		return "Float"
	case ValueKeybind:
		return "Keybind"
	case ValueKeybindList:
		return "KeybindList"
	default:
		return "None"
	}
}

// ConfigValue is one settings field with its default value as Go source.
type ConfigValue struct {
	Owner      string          `json:"owner"`
	Member     string          `json:"member"`
	ValueType  ConfigValueType `json:"value_type"`
	Default    string          `json:"default"`
	TypeName   string          `json:"type_name"`
	SimpleType string          `json:"simple_type"`
	Page       string          `json:"page,omitempty"`
}

// ConfigRange bounds a numeric settings field. Unset bounds are empty.
type ConfigRange struct {
	Owner   string `json:"owner"`
	Member  string `json:"member"`
	IsFloat bool   `json:"is_float"`
	Enforce bool   `json:"enforce"`
	Min     string `json:"min,omitempty"`
	Max     string `json:"max,omitempty"`
	Step    string `json:"step,omitempty"`
}

// EventTarget is a handler function taking (sender, payload).
type EventTarget struct {
	Package     string `json:"package"`
	ImportPath  string `json:"import_path"`
	Func        string `json:"func"`
	PayloadType string `json:"payload_type"`
}

// EventSource is a package-level event variable. PayloadType is empty when the
// variable's type carries no payload; such sources are inert.
type EventSource struct {
	Package     string `json:"package"`
	ImportPath  string `json:"import_path"`
	Name        string `json:"name"`
	PayloadType string `json:"payload_type,omitempty"`
}

// Identifier returns the package-qualified name of the source.
func (s EventSource) Identifier() string {
	return s.Package + "." + s.Name
}

func (EntryFact) FactKind() FactKind      { return KindEntry }
func (PropertyFact) FactKind() FactKind   { return KindProperty }
func (EditFact) FactKind() FactKind       { return KindEdit }
func (LoadFact) FactKind() FactKind       { return KindLoad }
func (IncludeFact) FactKind() FactKind    { return KindInclude }
func (DirectFileFact) FactKind() FactKind { return KindDirectFile }
func (ConfigType) FactKind() FactKind     { return KindConfig }
func (ConfigValue) FactKind() FactKind    { return KindConfigValue }
func (ConfigRange) FactKind() FactKind    { return KindConfigRange }
func (EventTarget) FactKind() FactKind    { return KindEventTarget }
func (EventSource) FactKind() FactKind    { return KindEventSource }

// FactSet holds one ordered stream per fact kind for the whole program.
type FactSet struct {
	Entries      []EntryFact      `json:"entries"`
	Props        []PropertyFact   `json:"props"`
	Edits        []EditFact       `json:"edits"`
	Loads        []LoadFact       `json:"loads"`
	Includes     []IncludeFact    `json:"includes"`
	Directs      []DirectFileFact `json:"directs"`
	Configs      []ConfigType     `json:"configs"`
	ConfigValues []ConfigValue    `json:"config_values"`
	ConfigRanges []ConfigRange    `json:"config_ranges"`
	EventTargets []EventTarget    `json:"event_targets"`
	EventSources []EventSource    `json:"event_sources"`
}

// Add appends f to the stream matching its kind.
func (s *FactSet) Add(f Fact) {
	switch v := f.(type) {
	case EntryFact:
		s.Entries = append(s.Entries, v)
	case PropertyFact:
		s.Props = append(s.Props, v)
	case EditFact:
		s.Edits = append(s.Edits, v)
	case LoadFact:
		s.Loads = append(s.Loads, v)
	case IncludeFact:
		s.Includes = append(s.Includes, v)
	case DirectFileFact:
		s.Directs = append(s.Directs, v)
	case ConfigType:
		s.Configs = append(s.Configs, v)
	case ConfigValue:
		s.ConfigValues = append(s.ConfigValues, v)
	case ConfigRange:
		s.ConfigRanges = append(s.ConfigRanges, v)
	case EventTarget:
		s.EventTargets = append(s.EventTargets, v)
	case EventSource:
		s.EventSources = append(s.EventSources, v)
	}
}

// Implicit returns the implicit type hints carried by load-mode direct files,
// in manifest order.
func (s *FactSet) Implicit() []ImplicitFact {
	var out []ImplicitFact
	for _, d := range s.Directs {
		if f, ok := d.Implicit(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the total number of facts across all streams.
func (s *FactSet) Len() int {
	return len(s.Entries) + len(s.Props) + len(s.Edits) + len(s.Loads) +
		len(s.Includes) + len(s.Directs) + len(s.Configs) + len(s.ConfigValues) +
		len(s.ConfigRanges) + len(s.EventTargets) + len(s.EventSources)
}
