package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/modgen/internal/ir"
)

const settings = "demo.Config"

var configType = ir.ConfigType{Owner: settings, Type: "Config"}

func value(member string, vt ir.ConfigValueType, page string) ir.ConfigValue {
	return ir.ConfigValue{Owner: settings, Member: member, ValueType: vt, Default: "0", TypeName: "int", Page: page}
}

func TestConfigDropsUntypedAndForeignValues(t *testing.T) {
	m := Config(configType, []ir.ConfigValue{
		value("Name", ir.ValueString, ""),
		value("Opaque", ir.ValueNone, ""),
		{Owner: "other.Config", Member: "Elsewhere", ValueType: ir.ValueInt},
	}, nil)
	require.Len(t, m.Props, 1)
	assert.Equal(t, "Name", m.Props[0].Prop.Member)
	assert.False(t, m.Props[0].HasRange())
}

func TestConfigAttachesRanges(t *testing.T) {
	m := Config(configType,
		[]ir.ConfigValue{value("Price", ir.ValueInt, ""), value("Stack", ir.ValueFloat, "")},
		[]ir.ConfigRange{
			{Owner: settings, Member: "Stack", IsFloat: true, Min: "1", Max: "5", Step: "0.1"},
			{Owner: settings, Member: "Missing", Min: "0"},
			{Owner: "other.Config", Member: "Price", Min: "9"},
		})
	require.Len(t, m.Props, 2)
	assert.False(t, m.Props[0].HasRange())
	require.True(t, m.Props[1].HasRange())
	assert.Equal(t, "0.1", m.Props[1].Range.Step)
}

func TestConfigPagesKeepFirstAppearanceOrder(t *testing.T) {
	m := Config(configType, []ir.ConfigValue{
		value("A", ir.ValueInt, "Pricing"),
		value("B", ir.ValueInt, ""),
		value("C", ir.ValueInt, "Pricing"),
		value("D", ir.ValueBool, "Display"),
	}, nil)

	require.Len(t, m.Pages, 3)
	assert.Equal(t, "Pricing", m.Pages[0].Key)
	assert.Equal(t, 2, m.Pages[0].Len())
	assert.False(t, m.Pages[1].Keyed(), "default page has no key")
	assert.Equal(t, "Display", m.Pages[2].String())
}

func TestConfigsOnePerContainer(t *testing.T) {
	facts := &ir.FactSet{
		Configs:      []ir.ConfigType{configType, {Owner: "b.Config", Type: "Config"}, configType},
		ConfigValues: []ir.ConfigValue{value("A", ir.ValueInt, "")},
	}
	models := Configs(facts)
	require.Len(t, models, 2)
	assert.Len(t, models[0].Props, 1)
	assert.Empty(t, models[1].Props)
}

func TestConfigCanonical(t *testing.T) {
	m := Config(configType,
		[]ir.ConfigValue{value("Price", ir.ValueInt, "Pricing")},
		[]ir.ConfigRange{{Owner: settings, Member: "Price", Min: "0"}})
	got, err := ir.MarshalCanonical(m)
	require.NoError(t, err)
	assert.Equal(t,
		`{"owner":"demo.Config","pages":[{"key":"Pricing","members":["Price"]}],`+
			`"props":[{"default":"0","member":"Price","range":{"enforce":false,"is_float":false,"min":"0"},"type_name":"int","value_type":"Int"}],`+
			`"title_only":false,"type":"Config"}`,
		string(got))
}
