package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/modgen/internal/ir"
	"github.com/roach88/modgen/internal/testutil"
)

const shop = "shop.Shop"

var shopEntry = ir.EntryFact{Owner: shop, Type: "Shop", Method: "Setup", Visibility: ir.Exported}

var (
	catalogProp = ir.PropertyFact{
		Owner: shop, Member: "Catalog", DeclaredType: "map[string]Item",
		TargetKey: "/Catalog", Local: "catalog.json", Visibility: ir.Exported,
	}
	patchEdit   = ir.EditFact{Owner: shop, Member: "Patch", TargetKey: "/Catalog"}
	provideLoad = ir.LoadFact{Owner: shop, Member: "Provide", TargetKey: "/Extra"}
)

func shopFacts() *ir.FactSet {
	return &ir.FactSet{
		Entries: []ir.EntryFact{shopEntry},
		Props:   []ir.PropertyFact{catalogProp},
		Edits:   []ir.EditFact{patchEdit},
		Loads:   []ir.LoadFact{provideLoad},
	}
}

func TestAssetsShopExample(t *testing.T) {
	m := Assets(shopEntry, shopFacts())

	require.Len(t, m.Groups, 2)
	catalog := m.Groups["/Catalog"]
	require.NotNil(t, catalog)
	assert.Equal(t, &catalogProp, catalog.Prop)
	assert.Equal(t, []ir.EditFact{patchEdit}, catalog.Edits)
	assert.Nil(t, catalog.Load)
	assert.Empty(t, catalog.Includes)

	extra := m.Groups["/Extra"]
	require.NotNil(t, extra)
	assert.Nil(t, extra.Prop)
	assert.Empty(t, extra.Edits)
	assert.Equal(t, &provideLoad, extra.Load)

	assert.Equal(t, []ir.PropertyFact{catalogProp}, m.LocalProps)
}

func TestAssetsShopCanonicalGolden(t *testing.T) {
	testutil.AssertGoldenCanonical(t, "shop_model", Assets(shopEntry, shopFacts()))
}

func TestAssetsFiltersByOwner(t *testing.T) {
	facts := shopFacts()
	facts.Props = append(facts.Props, ir.PropertyFact{Owner: "other.Other", TargetKey: "/Catalog", Member: "X"})
	facts.Edits = append(facts.Edits, ir.EditFact{Owner: "other.Other", TargetKey: "/Elsewhere"})

	m := Assets(shopEntry, facts)
	assert.Len(t, m.Groups, 2)
	assert.Equal(t, "Catalog", m.Groups["/Catalog"].Prop.Member)
	assert.Len(t, m.LocalProps, 1)
}

func TestAssetsLastWriteWins(t *testing.T) {
	l1 := ir.LoadFact{Owner: shop, Member: "First", TargetKey: "/Extra"}
	l2 := ir.LoadFact{Owner: shop, Member: "Second", TargetKey: "/Extra"}
	p1 := ir.PropertyFact{Owner: shop, Member: "A", TargetKey: "/Data"}
	p2 := ir.PropertyFact{Owner: shop, Member: "B", TargetKey: "/Data"}

	m := Assets(shopEntry, &ir.FactSet{Loads: []ir.LoadFact{l1, l2}, Props: []ir.PropertyFact{p1, p2}})
	assert.Equal(t, l2, *m.Groups["/Extra"].Load)
	assert.Equal(t, p2, *m.Groups["/Data"].Prop)
	assert.Equal(t, []ir.PropertyFact{p1, p2}, m.LocalProps, "every prop stays a local declaration")
}

func TestAssetsEditsAndIncludesAccumulate(t *testing.T) {
	e1 := ir.EditFact{Owner: shop, Member: "One", TargetKey: "Data/Objects"}
	e2 := ir.EditFact{Owner: shop, Member: "Two", TargetKey: "Data/Objects"}
	i1 := ir.IncludeFact{Owner: shop, TargetKey: "Data/Objects", Source: "assets/objects.json"}
	i2 := ir.IncludeFact{Owner: shop, TargetKey: "Data/Shops", Source: "assets/objects.json"}
	i3 := ir.IncludeFact{Owner: shop, TargetKey: "Data/Shops", Source: "assets/shops.json"}

	m := Assets(shopEntry, &ir.FactSet{Edits: []ir.EditFact{e1, e2}, Includes: []ir.IncludeFact{i1, i2, i3}})
	assert.Equal(t, []ir.EditFact{e1, e2}, m.Groups["Data/Objects"].Edits)
	assert.Equal(t, []ir.IncludeFact{i1}, m.Groups["Data/Objects"].Includes)
	assert.Equal(t, []ir.IncludeFact{i2, i3}, m.Groups["Data/Shops"].Includes)
	assert.Equal(t, map[string]string{
		"assets/objects.json": "include_assets_objects_json",
		"assets/shops.json":   "include_assets_shops_json",
	}, m.IncludeAliases)

	aliases := m.Aliases()
	require.Len(t, aliases, 2)
	assert.Equal(t, "include_assets_objects_json", aliases[0].Key)
	assert.Equal(t, []string{"assets/objects.json"}, aliases[0].Items)
}

func TestAssetsIncludeAliasesKeepExtension(t *testing.T) {
	i1 := ir.IncludeFact{Owner: shop, TargetKey: "/Prices", Source: "data/a.json"}
	i2 := ir.IncludeFact{Owner: shop, TargetKey: "/Stock", Source: "data/a.csv"}
	i3 := ir.IncludeFact{Owner: shop, TargetKey: "/Stock", Source: "data/a-json"}

	m := Assets(shopEntry, &ir.FactSet{Includes: []ir.IncludeFact{i1, i2, i3}})
	assert.Equal(t, map[string]string{
		"data/a.json": "include_data_a_json",
		"data/a.csv":  "include_data_a_csv",
		"data/a-json": "include_data_a_json_2",
	}, m.IncludeAliases)
}

func TestScopeAliasesAcrossModels(t *testing.T) {
	stallEntry := ir.EntryFact{Owner: "shop.Stall", Type: "Stall", Method: "Setup"}
	facts := &ir.FactSet{
		Entries:  []ir.EntryFact{shopEntry, stallEntry},
		Includes: []ir.IncludeFact{
			{Owner: shop, TargetKey: "/Prices", Source: "data/a.json"},
			{Owner: shop, TargetKey: "/Prices", Source: "data/a.csv"},
			{Owner: "shop.Stall", TargetKey: "/Prices", Source: "data/a.json"},
		},
	}
	models := All(facts, false)
	require.Len(t, models, 2)

	taken := map[string]bool{}
	for _, m := range models {
		m.ScopeAliases(taken)
	}
	assert.Equal(t, map[string]string{
		"data/a.json": "include_data_a_json",
		"data/a.csv":  "include_data_a_csv",
	}, models[0].IncludeAliases)
	assert.Equal(t, map[string]string{
		"data/a.json": "include_data_a_json_2",
	}, models[1].IncludeAliases)
	assert.Len(t, taken, 3)

	aliases := models[1].Aliases()
	require.Len(t, aliases, 1)
	assert.Equal(t, "include_data_a_json_2", aliases[0].Key)
	assert.Equal(t, []string{"data/a.json"}, aliases[0].Items)
}

func TestAssetsLazyGroups(t *testing.T) {
	m := Assets(shopEntry, &ir.FactSet{})
	assert.Empty(t, m.Groups)
	assert.Empty(t, m.Sorted())
	assert.False(t, m.HasAnyHandlers())
}

// Processing the edit, load and include streams in any order yields the same
// groups.
func TestAssetsStreamOrderIndependent(t *testing.T) {
	edits := []ir.EditFact{
		{Owner: shop, Member: "E1", TargetKey: "/A"},
		{Owner: shop, Member: "E2", TargetKey: "/B"},
		{Owner: shop, Member: "E3", TargetKey: "/A"},
	}
	loads := []ir.LoadFact{{Owner: shop, Member: "L1", TargetKey: "/B"}, {Owner: shop, Member: "L2", TargetKey: "/C"}}
	includes := []ir.IncludeFact{{Owner: shop, TargetKey: "/C", Source: "c.json"}, {Owner: shop, TargetKey: "/A", Source: "a.json"}}

	streams := map[string]func(m *AssetModel){
		"edits": func(m *AssetModel) {
			for _, e := range edits {
				m.addEdit(e)
			}
		},
		"loads": func(m *AssetModel) {
			for _, l := range loads {
				m.addLoad(l)
			}
		},
		"includes": func(m *AssetModel) {
			for _, inc := range includes {
				m.addInclude(inc)
			}
		},
	}
	orders := [][]string{
		{"edits", "loads", "includes"},
		{"edits", "includes", "loads"},
		{"loads", "edits", "includes"},
		{"loads", "includes", "edits"},
		{"includes", "edits", "loads"},
		{"includes", "loads", "edits"},
	}

	build := func(order []string) *AssetModel {
		m := newAssetModel(shopEntry)
		m.addProp(catalogProp)
		for _, name := range order {
			streams[name](m)
		}
		return m
	}

	want := build(orders[0])
	for _, order := range orders[1:] {
		got := build(order)
		if diff := cmp.Diff(want.Groups, got.Groups, cmp.AllowUnexported(Group{})); diff != "" {
			t.Errorf("order %v changed the groups (-want +got):\n%s", order, diff)
		}
		assert.Equal(t, want.IncludeAliases, got.IncludeAliases)
	}
}

func TestAssetsIdempotent(t *testing.T) {
	facts := shopFacts()
	a, err := ir.MarshalCanonical(Assets(shopEntry, facts))
	require.NoError(t, err)
	b, err := ir.MarshalCanonical(Assets(shopEntry, facts))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHandlerLess(t *testing.T) {
	bare := &Group{Key: "/Bare", Prop: &ir.PropertyFact{TargetKey: "/Bare"}}
	assert.True(t, bare.HandlerLess())

	tests := map[string]*Group{
		"local prop": {Prop: &ir.PropertyFact{Local: "bare.json"}},
		"load":       {Load: &ir.LoadFact{}},
		"edit":       {Edits: []ir.EditFact{{}}},
		"include":    {Includes: []ir.IncludeFact{{}}},
	}
	for name, g := range tests {
		assert.True(t, g.HasAnyHandlers(), name)
		assert.False(t, g.HandlerLess(), name)
	}
}

func TestSortedOrdersByKey(t *testing.T) {
	m := Assets(shopEntry, &ir.FactSet{Edits: []ir.EditFact{
		{Owner: shop, TargetKey: "/Zeta"},
		{Owner: shop, TargetKey: "/Alpha"},
		{Owner: shop, TargetKey: "Data/Mid"},
	}})
	var keys []string
	for _, g := range m.Sorted() {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"/Alpha", "/Zeta", "Data/Mid"}, keys)
}

func TestAllIndexesByOwner(t *testing.T) {
	facts := shopFacts()
	other := ir.EntryFact{Owner: "other.Other", Type: "Other", Method: "Setup"}
	facts.Entries = append(facts.Entries, other, shopEntry)
	facts.Loads = append(facts.Loads, ir.LoadFact{Owner: "other.Other", Member: "Give", TargetKey: "/Gift"})

	models := All(facts, false)
	require.Len(t, models, 2, "duplicate entries aggregate once")
	assert.Equal(t, "Shop", models[0].Entry.Type)
	assert.Equal(t, "Other", models[1].Entry.Type)

	if diff := cmp.Diff(Assets(shopEntry, facts).Groups, models[0].Groups, cmp.AllowUnexported(Group{})); diff != "" {
		t.Errorf("All differs from Assets (-want +got):\n%s", diff)
	}
	assert.Contains(t, models[1].Groups, "/Gift")
}

func TestDirectsGroupByTarget(t *testing.T) {
	facts := &ir.FactSet{Directs: []ir.DirectFileFact{
		{TargetKey: "Data/Objects", Source: "a.json", IsMerge: true},
		{TargetKey: "/Portrait", Source: "p.png"},
		{TargetKey: "Data/Objects", Source: "b.json", IsMerge: true},
		{Source: "loose.txt"},
	}}
	groups := Directs(facts)
	require.Len(t, groups, 2)
	assert.Equal(t, "Data/Objects", groups[0].Key)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "/Portrait", groups[1].Key)
}

func TestDirectsSkipUpgradedLoads(t *testing.T) {
	portrait := ir.PropertyFact{Owner: shop, Member: "portrait", TargetKey: "/Portrait", DeclaredType: "*modrt.AssetData"}
	facts := &ir.FactSet{
		Entries: []ir.EntryFact{shopEntry},
		Props:   []ir.PropertyFact{portrait},
		Directs: []ir.DirectFileFact{
			{TargetKey: "/Portrait", Source: "p.png", InferredType: "*modrt.Texture"},
			{TargetKey: "/Portrait", Source: "tint.json", IsMerge: true},
			{TargetKey: "/Banner", Source: "b.png", InferredType: "*modrt.Texture"},
		},
	}

	upgraded := All(facts, true)
	groups := Directs(facts, upgraded...)
	require.Len(t, groups, 2)
	assert.Equal(t, "/Portrait", groups[0].Key)
	assert.Equal(t, []ir.DirectFileFact{facts.Directs[1]}, groups[0].Items, "only the merge stays")
	assert.Equal(t, "/Banner", groups[1].Key)

	plain := All(facts, false)
	groups = Directs(facts, plain...)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Items, 2, "nothing consumed without an upgrade")
}
