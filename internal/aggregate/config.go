package aggregate

import (
	"github.com/roach88/modgen/internal/ir"
)

// RangedProperty is a config value with its optional range.
type RangedProperty struct {
	Prop  ir.ConfigValue
	Range *ir.ConfigRange
}

// HasRange reports whether a range is attached.
func (p *RangedProperty) HasRange() bool {
	return p.Range != nil
}

// ConfigModel is the aggregation result for one config container.
type ConfigModel struct {
	Type  ir.ConfigType
	Props []*RangedProperty
	// Pages groups Props by page in first-appearance order. The default page
	// has an empty key.
	Pages []ir.Grouping[*RangedProperty]
}

// Config aggregates the values and ranges owned by cfg. Values without a
// settings-UI kind are dropped. A range attaches to the last value of the same
// member; ranges for unknown members are ignored.
func Config(cfg ir.ConfigType, values []ir.ConfigValue, ranges []ir.ConfigRange) *ConfigModel {
	m := &ConfigModel{Type: cfg}
	byMember := make(map[string]int)
	for _, v := range values {
		if v.Owner != cfg.Owner || v.ValueType == ir.ValueNone {
			continue
		}
		m.Props = append(m.Props, &RangedProperty{Prop: v})
		byMember[v.Member] = len(m.Props) - 1
	}
	for _, r := range ranges {
		if r.Owner != cfg.Owner {
			continue
		}
		if i, ok := byMember[r.Member]; ok {
			m.Props[i].Range = &r
		}
	}
	m.Pages = ir.GroupBy(m.Props, func(p *RangedProperty) string { return p.Prop.Page })
	return m
}

// Configs aggregates every config container in discovery order.
func Configs(facts *ir.FactSet) []*ConfigModel {
	seen := make(map[string]bool, len(facts.Configs))
	var out []*ConfigModel
	for _, c := range facts.Configs {
		if seen[c.Owner] {
			continue
		}
		seen[c.Owner] = true
		out = append(out, Config(c, facts.ConfigValues, facts.ConfigRanges))
	}
	return out
}

// Canonical returns the model as a canonical-JSON-ready map.
func (m *ConfigModel) Canonical() map[string]any {
	pages := make([]any, len(m.Pages))
	for i, page := range m.Pages {
		members := make([]any, len(page.Items))
		for j, p := range page.Items {
			members[j] = p.Prop.Member
		}
		pages[i] = map[string]any{"key": page.Key, "members": members}
	}
	props := make([]any, len(m.Props))
	for i, p := range m.Props {
		prop := map[string]any{
			"member":     p.Prop.Member,
			"value_type": p.Prop.ValueType.String(),
			"default":    p.Prop.Default,
			"type_name":  p.Prop.TypeName,
		}
		if p.Range != nil {
			rng := map[string]any{"is_float": p.Range.IsFloat, "enforce": p.Range.Enforce}
			for k, v := range map[string]string{"min": p.Range.Min, "max": p.Range.Max, "step": p.Range.Step} {
				if v != "" {
					rng[k] = v
				}
			}
			prop["range"] = rng
		}
		props[i] = prop
	}
	return map[string]any{
		"owner":      m.Type.Owner,
		"type":       m.Type.Type,
		"title_only": m.Type.TitleOnly,
		"props":      props,
		"pages":      pages,
	}
}
