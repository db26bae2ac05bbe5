// Package extract turns marked declarations into facts.
//
// Each marker kind maps to an ordered list of strategies. A strategy pairs a
// shape predicate with a constructor; the first strategy whose predicate
// accepts the declaration builds exactly one fact. Declarations no strategy
// accepts are skipped and reported, never treated as errors.
package extract

import (
	"errors"
	"fmt"
	"go/token"
	"sort"
	"strings"

	"github.com/roach88/modgen/internal/ir"
)

// Predicate checks the shape of a declaration for one marker. A nil result
// means the declaration matches; otherwise the error says why it does not.
type Predicate func(d *ir.Declaration, m ir.Marker) error

// Builder constructs the fact for a matching declaration.
type Builder func(d *ir.Declaration, m ir.Marker) ir.Fact

// Strategy is one way of turning a marker into a fact.
type Strategy struct {
	Name  string
	Match Predicate
	Build Builder
}

// Skip records a marker that produced no fact.
type Skip struct {
	Kind   string         `json:"kind"`
	Decl   string         `json:"decl"`
	Reason string         `json:"reason"`
	Pos    token.Position `json:"-"`
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: %s on %s: %s", s.Pos, s.Kind, s.Decl, s.Reason)
}

// ErrUnknownKind is the skip reason for markers no strategy is registered for.
var ErrUnknownKind = errors.New("unknown marker kind")

// Registry maps marker kinds to their strategies.
type Registry struct {
	strategies map[string][]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string][]Strategy)}
}

// Register appends strategies for a marker kind. Earlier strategies take
// precedence.
func (r *Registry) Register(kind string, strategies ...Strategy) {
	r.strategies[kind] = append(r.strategies[kind], strategies...)
}

// Kinds returns the registered marker kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.strategies))
	for k := range r.strategies {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build turns one marker on one declaration into a fact.
func (r *Registry) Build(d *ir.Declaration, m ir.Marker) (ir.Fact, error) {
	if m.Invalid != "" {
		return nil, fmt.Errorf("malformed arguments: %s", m.Invalid)
	}
	strategies, ok := r.strategies[m.Kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, m.Kind)
	}
	var reasons []string
	for _, s := range strategies {
		if err := s.Match(d, m); err != nil {
			reasons = append(reasons, err.Error())
			continue
		}
		return s.Build(d, m), nil
	}
	return nil, errors.New(strings.Join(reasons, "; "))
}

// Extract applies the registry to every marker of every declaration and
// collects the facts in discovery order.
func (r *Registry) Extract(decls []ir.Declaration) (*ir.FactSet, []Skip) {
	facts := &ir.FactSet{}
	var skips []Skip
	for i := range decls {
		d := &decls[i]
		for _, m := range d.Markers {
			f, err := r.Build(d, m)
			if err != nil {
				skips = append(skips, Skip{
					Kind:   m.Kind,
					Decl:   declName(d),
					Reason: err.Error(),
					Pos:    m.Pos,
				})
				continue
			}
			facts.Add(f)
		}
	}
	return facts, skips
}

func declName(d *ir.Declaration) string {
	switch d.Kind {
	case ir.DeclField, ir.DeclMethod:
		return d.Owner + "." + d.Name
	case ir.DeclType:
		return d.Owner
	default:
		return d.ImportPath + "." + d.Name
	}
}
