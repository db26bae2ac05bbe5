package modrt

type Texture struct{}

type Asset interface{}
