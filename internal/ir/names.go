package ir

import (
	"strconv"
	"strings"
	"unicode"
)

// ModIDConst is the name of the generated constant holding the project's
// unique id.
const ModIDConst = "ModID"

// VarName turns a resource path into a name fragment: the extension after the
// last dot is dropped (unless the dot leads the string) and path separators
// become underscores.
func VarName(s string) string {
	if dot := strings.LastIndexByte(s, '.'); dot > 0 {
		s = s[:dot]
	}
	return strings.NewReplacer("/", "_", `\`, "_").Replace(s)
}

// Identifier sanitizes s into a valid Go identifier fragment.
func Identifier(s string) string {
	return sanitize(VarName(s))
}

// SourceIdentifier sanitizes a file path into an identifier fragment. Unlike
// Identifier it keeps the extension, so "a.json" and "a.csv" stay distinct.
func SourceIdentifier(s string) string {
	return sanitize(strings.NewReplacer("/", "_", `\`, "_").Replace(s))
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

// MakeLocal renders a target key as a Go string expression. Keys starting
// with '/' are private to the project and get the mod prefix.
func MakeLocal(key string) string {
	if key == "" || key[0] != '/' {
		return strconv.Quote(key)
	}
	return `"Mods/" + ` + ModIDConst + ` + ` + strconv.Quote(key)
}

// SplitTypeID splits a qualified type ID into its import path and type name.
// Pointer and slice prefixes and type arguments are dropped. Unqualified IDs
// have an empty import path.
func SplitTypeID(id string) (importPath, name string) {
	id = strings.TrimLeft(id, "*[]")
	if i := strings.IndexByte(id, '['); i >= 0 {
		id = id[:i]
	}
	dot := strings.LastIndexByte(id, '.')
	if dot < 0 {
		return "", id
	}
	return id[:dot], id[dot+1:]
}
