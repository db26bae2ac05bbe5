package render

import (
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/roach88/modgen/internal/ir"
)

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"varName":   ir.VarName,
		"makeLocal": ir.MakeLocal,
		"ident":     ir.Identifier,
		"quote":     strconv.Quote,
		"ref":       Ref,
		"join":      join,
		"lower":     strings.ToLower,
		"snake":     Snake,
	}
}

// Ref renders a reference to name from package alias pkg. An empty alias
// means the name is in the current package.
func Ref(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func join(sep string, items []string) string {
	return strings.Join(items, sep)
}

// Snake converts a Go identifier to snake_case. Runs of capitals are kept
// together: "HTTPServer" becomes "http_server".
func Snake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && runes[i-1] != '_' && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
