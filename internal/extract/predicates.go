package extract

import (
	"fmt"

	"github.com/roach88/modgen/internal/ir"
)

func all(preds ...Predicate) Predicate {
	return func(d *ir.Declaration, m ir.Marker) error {
		for _, p := range preds {
			if err := p(d, m); err != nil {
				return err
			}
		}
		return nil
	}
}

func declKind(kind ir.DeclKind) Predicate {
	return func(d *ir.Declaration, _ ir.Marker) error {
		if d.Kind != kind {
			return fmt.Errorf("want a %s declaration, got %s", kind, d.Kind)
		}
		return nil
	}
}

func isStruct(d *ir.Declaration, _ ir.Marker) error {
	if !d.Struct {
		return fmt.Errorf("%s is not a struct type", d.Name)
	}
	return nil
}

func namedField(d *ir.Declaration, _ ir.Marker) error {
	if d.Embedded {
		return fmt.Errorf("embedded field %s has no name", d.Name)
	}
	return nil
}

func exported(d *ir.Declaration, _ ir.Marker) error {
	if !d.Exported {
		return fmt.Errorf("%s is not exported", d.Name)
	}
	return nil
}

func paramCount(n int) Predicate {
	return func(d *ir.Declaration, _ ir.Marker) error {
		if len(d.Params) != n {
			return fmt.Errorf("want %d parameter(s), %s has %d", n, d.Name, len(d.Params))
		}
		return nil
	}
}

func stringArg(i int, what string) Predicate {
	return func(_ *ir.Declaration, m ir.Marker) error {
		if _, ok := m.StringArg(i); !ok {
			return fmt.Errorf("argument %d (%s) must be a string literal", i, what)
		}
		return nil
	}
}

func optionalStringArg(i int, what string) Predicate {
	return func(d *ir.Declaration, m ir.Marker) error {
		if i >= len(m.Args) {
			return nil
		}
		return stringArg(i, what)(d, m)
	}
}

func argCount(n int, what string) Predicate {
	return func(_ *ir.Declaration, m ir.Marker) error {
		if len(m.Args) < n {
			return fmt.Errorf("missing %s", what)
		}
		return nil
	}
}

func namedKind(key string, kinds ...ir.ArgKind) Predicate {
	return func(_ *ir.Declaration, m ir.Marker) error {
		a, ok := m.NamedArg(key)
		if !ok {
			return nil
		}
		for _, k := range kinds {
			if a.Kind == k {
				return nil
			}
		}
		return fmt.Errorf("%s=%s has the wrong literal kind", key, a.Text)
	}
}

// stringOr returns the i-th string argument, or def when it is absent.
func stringOr(m ir.Marker, i int, def string) string {
	if v, ok := m.StringArg(i); ok {
		return v
	}
	return def
}

// boolArg reads a bool from the named argument key or positional argument i.
func boolArg(m ir.Marker, key string, i int) bool {
	if a, ok := m.NamedArg(key); ok {
		return a.Kind == ir.ArgBool && a.Value == "true"
	}
	if i >= 0 && i < len(m.Args) && m.Args[i].Kind == ir.ArgBool {
		return m.Args[i].Value == "true"
	}
	return false
}

func namedText(m ir.Marker, key string) string {
	if a, ok := m.NamedArg(key); ok {
		return a.Text
	}
	return ""
}
