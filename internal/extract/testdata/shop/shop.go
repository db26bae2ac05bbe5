package shop

import "example.com/shop/modrt"

type Item struct {
	Price int
}

//modgen:entry
type Shop struct {
	//modgen:asset "/Catalog", "catalog.json"
	Catalog map[string]Item

	//modgen:asset "/Portrait"
	Portrait *modrt.Texture
}

//modgen:edit "/Catalog"
func (s *Shop) Patch(asset modrt.Asset) {}

//modgen:load "/Extra"
func (s *Shop) Provide() *Item { return nil }
