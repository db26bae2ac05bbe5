package scan

import (
	"fmt"
	"go/ast"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/roach88/modgen/internal/ir"
)

// MarkerPrefix introduces a marker directive in a doc comment.
const MarkerPrefix = "//modgen:"

// markersFrom returns every marker found in the given comment groups, in
// source order. Nil groups are ignored.
func markersFrom(fset *token.FileSet, groups ...*ast.CommentGroup) []ir.Marker {
	var out []ir.Marker
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if !strings.HasPrefix(c.Text, MarkerPrefix) {
				continue
			}
			m := ParseMarker(strings.TrimPrefix(c.Text, MarkerPrefix))
			m.Pos = fset.Position(c.Slash)
			out = append(out, m)
		}
	}
	return out
}

// ParseMarker parses the text following the marker prefix: a kind, then
// positional literal arguments and Name=value pairs, optionally separated by
// commas. Tokenizer failures are reported through Marker.Invalid.
func ParseMarker(text string) ir.Marker {
	text = strings.TrimSpace(text)
	kind, rest, _ := strings.Cut(text, " ")
	m := ir.Marker{Kind: kind}

	args, named, err := parseArgs(rest)
	if err != nil {
		m.Invalid = err.Error()
		return m
	}
	m.Args = args
	m.Named = named
	return m
}

type lexeme struct {
	tok token.Token
	lit string
}

func tokenize(src string) ([]lexeme, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		errs.Add(pos, msg)
	}, 0)

	var out []lexeme
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		// automatic semicolon at end of input
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		if tok.IsOperator() && lit == "" {
			lit = tok.String()
		}
		out = append(out, lexeme{tok: tok, lit: lit})
	}
	if errs.Len() > 0 {
		return nil, errs.Err()
	}
	return out, nil
}

func parseArgs(src string) ([]ir.Arg, map[string]ir.Arg, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, nil, err
	}

	var args []ir.Arg
	var named map[string]ir.Arg
	for i := 0; i < len(toks); {
		if toks[i].tok == token.IDENT && i+1 < len(toks) && toks[i+1].tok == token.ASSIGN {
			key := toks[i].lit
			val, n, err := parseValue(toks[i+2:])
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", key, err)
			}
			if named == nil {
				named = make(map[string]ir.Arg)
			}
			named[key] = val
			i += 2 + n
		} else {
			val, n, err := parseValue(toks[i:])
			if err != nil {
				return nil, nil, fmt.Errorf("argument %d: %w", len(args), err)
			}
			args = append(args, val)
			i += n
		}
		if i < len(toks) && toks[i].tok == token.COMMA {
			i++
		}
	}
	return args, named, nil
}

// parseValue reads one literal value and returns it with the number of
// tokens consumed.
func parseValue(toks []lexeme) (ir.Arg, int, error) {
	if len(toks) == 0 {
		return ir.Arg{}, 0, fmt.Errorf("missing value")
	}

	switch t := toks[0]; t.tok {
	case token.SUB, token.ADD:
		if len(toks) < 2 || (toks[1].tok != token.INT && toks[1].tok != token.FLOAT) {
			return ir.Arg{}, 0, fmt.Errorf("sign must precede a number")
		}
		kind := ir.ArgInt
		if toks[1].tok == token.FLOAT {
			kind = ir.ArgFloat
		}
		text := toks[1].lit
		if t.tok == token.SUB {
			text = "-" + text
		}
		return ir.Arg{Kind: kind, Text: text, Value: text}, 2, nil
	case token.STRING:
		v, err := strconv.Unquote(t.lit)
		if err != nil {
			return ir.Arg{}, 0, fmt.Errorf("bad string %s: %w", t.lit, err)
		}
		return ir.Arg{Kind: ir.ArgString, Text: t.lit, Value: v}, 1, nil
	case token.CHAR:
		return ir.Arg{Kind: ir.ArgChar, Text: t.lit, Value: t.lit}, 1, nil
	case token.INT:
		return ir.Arg{Kind: ir.ArgInt, Text: t.lit, Value: t.lit}, 1, nil
	case token.FLOAT:
		return ir.Arg{Kind: ir.ArgFloat, Text: t.lit, Value: t.lit}, 1, nil
	case token.IDENT:
		if t.lit == "true" || t.lit == "false" {
			return ir.Arg{Kind: ir.ArgBool, Text: t.lit, Value: t.lit}, 1, nil
		}
		text := t.lit
		n := 1
		for n+1 < len(toks) && toks[n].tok == token.PERIOD && toks[n+1].tok == token.IDENT {
			text += "." + toks[n+1].lit
			n += 2
		}
		return ir.Arg{Kind: ir.ArgIdent, Text: text, Value: text}, n, nil
	default:
		return ir.Arg{}, 0, fmt.Errorf("unexpected %q", t.lit)
	}
}
