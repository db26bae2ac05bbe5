package ir

// Grouping is a keyed sequence exposing a scalar key view and an independent
// iterable view. Templates may use either: `{{.Key}}` or `{{.}}` for the key,
// `{{range .Items}}` for the members. An empty key is valid and means "no key".
type Grouping[T any] struct {
	Key   string `json:"key"`
	Items []T    `json:"items"`
}

// String returns the key so a Grouping prints as its key in templates.
func (g Grouping[T]) String() string {
	return g.Key
}

// Len returns the number of members.
func (g Grouping[T]) Len() int {
	return len(g.Items)
}

// Keyed reports whether the grouping has a non-empty key.
func (g Grouping[T]) Keyed() bool {
	return g.Key != ""
}

// GroupBy partitions items by key, keeping first-appearance order of keys and
// discovery order of members.
func GroupBy[T any](items []T, key func(T) string) []Grouping[T] {
	var out []Grouping[T]
	index := make(map[string]int)
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Grouping[T]{Key: k})
		}
		out[i].Items = append(out[i].Items, item)
	}
	return out
}

// EventGroup is the handlers routed to one event source. An empty Key holds the
// handlers that matched no source. Source is set for program-declared sources.
type EventGroup struct {
	Grouping[EventTarget]
	Builtin bool         `json:"builtin"`
	Source  *EventSource `json:"source,omitempty"`
}
