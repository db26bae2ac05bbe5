package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/modgen/internal/ir"
)

var portraitProp = ir.PropertyFact{
	Owner: shop, Member: "Portrait", DeclaredType: "any", TargetKey: "/Portrait", Visibility: ir.Unexported,
}

func portraitModel() *AssetModel {
	return Assets(shopEntry, &ir.FactSet{Props: []ir.PropertyFact{catalogProp, portraitProp}})
}

func TestUpgradeReplacesProp(t *testing.T) {
	m := portraitModel()
	m.Upgrade([]ir.ImplicitFact{{TargetKey: "/Portrait", Source: "assets/portrait.png", InferredType: "*modrt.Texture"}})

	g := m.Groups["/Portrait"]
	require.True(t, g.Upgraded())
	assert.Equal(t, ir.PropertyFact{
		Owner:        shop,
		Member:       "Portrait",
		DeclaredType: "*modrt.Texture",
		TargetKey:    "/Portrait",
		Local:        "assets/portrait.png",
		Visibility:   ir.Unexported,
		Implicit:     true,
	}, *g.Prop)
	assert.Equal(t, []ir.PropertyFact{catalogProp}, m.LocalProps)
	assert.True(t, g.HasAnyHandlers(), "the upgraded prop is backed by a local file")
}

func TestUpgradeIsMonotonic(t *testing.T) {
	m := portraitModel()
	m.Upgrade([]ir.ImplicitFact{
		{TargetKey: "/Portrait", Source: "assets/portrait.png", InferredType: "*modrt.Texture"},
		{TargetKey: "/Portrait", Source: "assets/portrait.json"},
		{TargetKey: "/Portrait", Source: "assets/portrait.tmx", InferredType: "*modrt.Map"},
	})
	g := m.Groups["/Portrait"]
	assert.Equal(t, "*modrt.Texture", g.Prop.DeclaredType)
	assert.Equal(t, "assets/portrait.png", g.Prop.Local)
	assert.Len(t, m.LocalProps, 1)

	// A later pass with an untyped fact leaves the upgrade in place.
	m.Upgrade([]ir.ImplicitFact{{TargetKey: "/Portrait", Source: "other.bin"}})
	assert.Equal(t, "*modrt.Texture", g.Prop.DeclaredType)
}

func TestUpgradeIgnoresEmptyType(t *testing.T) {
	m := portraitModel()
	m.Upgrade([]ir.ImplicitFact{{TargetKey: "/Portrait", Source: "assets/portrait.json"}})
	assert.False(t, m.Groups["/Portrait"].Upgraded())
	assert.Equal(t, portraitProp, *m.Groups["/Portrait"].Prop)
	assert.Len(t, m.LocalProps, 2)
}

func TestUpgradeNeedsDeclaredProp(t *testing.T) {
	m := Assets(shopEntry, &ir.FactSet{
		Loads: []ir.LoadFact{{Owner: shop, Member: "Provide", TargetKey: "/Extra"}},
	})
	m.Upgrade([]ir.ImplicitFact{
		{TargetKey: "/Extra", Source: "extra.png", InferredType: "*modrt.Texture"},
		{TargetKey: "/Missing", Source: "missing.png", InferredType: "*modrt.Texture"},
	})
	assert.Nil(t, m.Groups["/Extra"].Prop)
	assert.NotContains(t, m.Groups, "/Missing", "upgrades never create groups")
}

func TestUpgradeRequiresPropInLocalProps(t *testing.T) {
	m := portraitModel()
	m.LocalProps = m.LocalProps[:1]
	m.Upgrade([]ir.ImplicitFact{{TargetKey: "/Portrait", Source: "p.png", InferredType: "*modrt.Texture"}})
	assert.False(t, m.Groups["/Portrait"].Upgraded())
}

func TestGroupUpgradeAssertsNoDowngrade(t *testing.T) {
	g := newGroup("/Portrait")
	p := portraitProp
	g.Prop = &p

	assert.Panics(t, func() { g.upgrade(ir.ImplicitFact{TargetKey: "/Portrait"}) })

	g.upgrade(ir.ImplicitFact{TargetKey: "/Portrait", Source: "p.png", InferredType: "*modrt.Texture"})
	assert.Panics(t, func() {
		g.upgrade(ir.ImplicitFact{TargetKey: "/Portrait", Source: "p.tmx", InferredType: "*modrt.Map"})
	})
	assert.Panics(t, func() { newGroup("/Empty").upgrade(ir.ImplicitFact{InferredType: "T"}) })
}

func TestAllAppliesUpgradeWhenEnabled(t *testing.T) {
	facts := &ir.FactSet{
		Entries: []ir.EntryFact{shopEntry},
		Props:   []ir.PropertyFact{portraitProp},
		Directs: []ir.DirectFileFact{{TargetKey: "/Portrait", Source: "p.png", InferredType: "*modrt.Texture"}},
	}
	assert.True(t, All(facts, true)[0].Groups["/Portrait"].Upgraded())
	assert.False(t, All(facts, false)[0].Groups["/Portrait"].Upgraded())
}
