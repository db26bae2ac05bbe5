package scan

import (
	"go/ast"
	"go/types"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/modgen/internal/ir"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)
var dotMajorVersion = regexp.MustCompile(`\.v[0-9]+$`)

// ImportAlias returns the name a package is referred to by when imported
// without an explicit name.
func ImportAlias(importPath string) string {
	elems := strings.Split(importPath, "/")
	last := elems[len(elems)-1]
	if majorVersion.MatchString(last) && len(elems) > 1 {
		last = elems[len(elems)-2]
	}
	return dotMajorVersion.ReplaceAllString(last, "")
}

// importsOf maps each usable import name in a file to its import path.
func importsOf(f *ast.File) map[string]string {
	out := make(map[string]string, len(f.Imports))
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := ImportAlias(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		out[name] = p
	}
	return out
}

func exprText(expr ast.Expr) string {
	return types.ExprString(expr)
}

func (s *fileScope) typeRef(expr ast.Expr) ir.TypeRef {
	return ir.TypeRef{Text: exprText(expr), ID: s.qualify(expr)}
}

// qualify renders expr with local and imported type names replaced by
// import-path-qualified names.
func (s *fileScope) qualify(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		if _, local := s.types[e.Name]; local {
			return ir.ContainerID(s.importPath, e.Name)
		}
		return e.Name
	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok {
			if p, ok := s.imports[x.Name]; ok {
				return p + "." + e.Sel.Name
			}
		}
		return exprText(e)
	case *ast.StarExpr:
		return "*" + s.qualify(e.X)
	case *ast.ParenExpr:
		return s.qualify(e.X)
	case *ast.Ellipsis:
		return "..." + s.qualify(e.Elt)
	case *ast.ArrayType:
		if e.Len == nil {
			return "[]" + s.qualify(e.Elt)
		}
		return "[" + exprText(e.Len) + "]" + s.qualify(e.Elt)
	case *ast.MapType:
		return "map[" + s.qualify(e.Key) + "]" + s.qualify(e.Value)
	case *ast.IndexExpr:
		return s.qualify(e.X) + "[" + s.qualify(e.Index) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(e.Indices))
		for i, idx := range e.Indices {
			args[i] = s.qualify(idx)
		}
		return s.qualify(e.X) + "[" + strings.Join(args, ", ") + "]"
	default:
		return exprText(expr)
	}
}
