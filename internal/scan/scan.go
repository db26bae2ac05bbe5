// Package scan reads a Go module and turns every marked declaration into an
// ir.Declaration.
//
// Only declaration shape is read: names, type expressions as written, receiver
// and parameter lists. No type checking is performed; types are qualified by
// resolving import aliases per file and local identifiers per package.
package scan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/roach88/modgen/internal/ir"
)

// GeneratedSuffix marks files written by modgen. They are never scanned.
const GeneratedSuffix = ".gen.go"

// ErrNoModule is returned when the root holds no usable go.mod.
var ErrNoModule = errors.New("no go.mod with a module path")

// PackageInfo describes one scanned package directory.
type PackageInfo struct {
	Dir        string `json:"dir"` // slash-separated, relative to the root
	Name       string `json:"name"`
	ImportPath string `json:"import_path"`
}

// Result is everything the scanner found under a module root.
type Result struct {
	Root         string
	Module       string
	Packages     []PackageInfo
	Declarations []ir.Declaration
	FileCount    int
}

// Package returns the package scanned from dir.
func (r *Result) Package(dir string) (PackageInfo, bool) {
	for _, p := range r.Packages {
		if p.Dir == dir {
			return p, true
		}
	}
	return PackageInfo{}, false
}

// SkipDir reports whether a directory below the root is never scanned.
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata"
}

// SourceFile reports whether a file name is a scannable Go source file.
func SourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, GeneratedSuffix)
}

// ModulePath reads the module path from root/go.mod.
func ModulePath(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoModule, err)
	}
	mod := modfile.ModulePath(data)
	if mod == "" {
		return "", ErrNoModule
	}
	return mod, nil
}

// Dir scans the module rooted at root. Nested modules are not descended into.
func Dir(root string) (*Result, error) {
	module, err := ModulePath(root)
	if err != nil {
		return nil, err
	}

	files := make(map[string][]string)
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == root {
				return nil
			}
			if SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
				return filepath.SkipDir
			}
			return nil
		}
		if SourceFile(d.Name()) {
			dir := filepath.Dir(p)
			files[dir] = append(files[dir], p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	dirs := make([]string, 0, len(files))
	for dir := range files {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	res := &Result{Root: root, Module: module}
	fset := token.NewFileSet()
	for _, dir := range dirs {
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		importPath := module
		if rel != "." {
			importPath = path.Join(module, rel)
		}

		paths := files[dir]
		sort.Strings(paths)
		pkg, err := scanPackage(fset, rel, importPath, paths)
		if err != nil {
			return nil, err
		}
		if pkg == nil {
			continue
		}
		res.Packages = append(res.Packages, pkg.info)
		res.Declarations = append(res.Declarations, pkg.decls...)
		res.FileCount += pkg.fileCount
	}
	return res, nil
}

type scannedPackage struct {
	info      PackageInfo
	decls     []ir.Declaration
	fileCount int
}

// packageScope is what the second pass needs to know about the package.
type packageScope struct {
	fset       *token.FileSet
	dir        string
	name       string
	importPath string
	types      map[string]*ast.TypeSpec
	methods    map[string][]string
}

func scanPackage(fset *token.FileSet, dir, importPath string, paths []string) (*scannedPackage, error) {
	var parsed []*ast.File
	var name string
	for _, p := range paths {
		f, err := parser.ParseFile(fset, p, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p, err)
		}
		if name == "" {
			name = f.Name.Name
		}
		if f.Name.Name != name {
			continue
		}
		parsed = append(parsed, f)
	}
	if len(parsed) == 0 {
		return nil, nil
	}

	scope := &packageScope{
		fset:       fset,
		dir:        dir,
		name:       name,
		importPath: importPath,
		types:      make(map[string]*ast.TypeSpec),
		methods:    make(map[string][]string),
	}
	for _, f := range parsed {
		for _, d := range f.Decls {
			switch d := d.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, s := range d.Specs {
					ts := s.(*ast.TypeSpec)
					scope.types[ts.Name.Name] = ts
				}
			case *ast.FuncDecl:
				if d.Recv != nil && len(d.Recv.List) > 0 {
					recv := receiverBase(d.Recv.List[0].Type)
					scope.methods[recv] = append(scope.methods[recv], d.Name.Name)
				}
			}
		}
	}

	pkg := &scannedPackage{
		info:      PackageInfo{Dir: dir, Name: name, ImportPath: importPath},
		fileCount: len(parsed),
	}
	for _, f := range parsed {
		fc := &fileScope{packageScope: scope, imports: importsOf(f)}
		pkg.decls = append(pkg.decls, fc.declarations(f)...)
	}
	return pkg, nil
}

// fileScope adds the per-file import table to the package scope.
type fileScope struct {
	*packageScope
	imports map[string]string
}

func (s *fileScope) base(kind ir.DeclKind, name string, pos token.Pos) ir.Declaration {
	return ir.Declaration{
		Kind:       kind,
		Package:    s.name,
		ImportPath: s.importPath,
		Dir:        s.dir,
		Name:       name,
		Exported:   ast.IsExported(name),
		Pos:        s.fset.Position(pos),
	}
}

func (s *fileScope) declarations(f *ast.File) []ir.Declaration {
	var out []ir.Declaration
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					out = append(out, s.typeDecls(d, spec.(*ast.TypeSpec))...)
				}
			case token.VAR:
				for _, spec := range d.Specs {
					out = append(out, s.varDecls(d, spec.(*ast.ValueSpec))...)
				}
			}
		case *ast.FuncDecl:
			if decl, ok := s.funcDecl(d); ok {
				out = append(out, decl)
			}
		}
	}
	return out
}

// docFor returns the spec's own doc, falling back to the declaration doc for
// ungrouped declarations.
func docFor(gen *ast.GenDecl, specDoc *ast.CommentGroup) *ast.CommentGroup {
	if specDoc != nil {
		return specDoc
	}
	if !gen.Lparen.IsValid() {
		return gen.Doc
	}
	return nil
}

func (s *fileScope) typeDecls(gen *ast.GenDecl, ts *ast.TypeSpec) []ir.Declaration {
	var out []ir.Declaration
	owner := ir.ContainerID(s.importPath, ts.Name.Name)

	if markers := markersFrom(s.fset, docFor(gen, ts.Doc)); len(markers) > 0 {
		d := s.base(ir.DeclType, ts.Name.Name, ts.Pos())
		d.Owner = owner
		d.Type = ir.TypeRef{Text: ts.Name.Name, ID: owner}
		if _, isStruct := ts.Type.(*ast.StructType); !isStruct {
			d.Underlying = exprText(ts.Type)
		}
		_, d.Struct = ts.Type.(*ast.StructType)
		d.Methods = s.methods[ts.Name.Name]
		d.Markers = markers
		out = append(out, d)
	}

	st, ok := ts.Type.(*ast.StructType)
	if !ok || st.Fields == nil {
		return out
	}
	for _, field := range st.Fields.List {
		markers := markersFrom(s.fset, field.Doc)
		if len(markers) == 0 {
			continue
		}
		names := field.Names
		embedded := len(names) == 0
		if embedded {
			names = []*ast.Ident{{Name: receiverBase(field.Type), NamePos: field.Pos()}}
		}
		for _, n := range names {
			d := s.base(ir.DeclField, n.Name, n.Pos())
			d.Owner = owner
			d.Type = s.typeRef(field.Type)
			d.Embedded = embedded
			d.Underlying = s.underlying(field.Type)
			d.TypeBase, d.TypeArgs = s.generic(field.Type)
			d.Markers = markers
			out = append(out, d)
		}
	}
	return out
}

func (s *fileScope) varDecls(gen *ast.GenDecl, vs *ast.ValueSpec) []ir.Declaration {
	markers := markersFrom(s.fset, docFor(gen, vs.Doc))
	if len(markers) == 0 {
		return nil
	}
	var out []ir.Declaration
	for _, n := range vs.Names {
		d := s.base(ir.DeclVar, n.Name, n.Pos())
		d.Owner = s.importPath
		if vs.Type != nil {
			d.Type = s.typeRef(vs.Type)
			d.TypeBase, d.TypeArgs = s.generic(vs.Type)
		}
		d.Markers = markers
		out = append(out, d)
	}
	return out
}

func (s *fileScope) funcDecl(fd *ast.FuncDecl) (ir.Declaration, bool) {
	markers := markersFrom(s.fset, fd.Doc)
	if len(markers) == 0 {
		return ir.Declaration{}, false
	}
	kind := ir.DeclFunc
	owner := s.importPath
	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		kind = ir.DeclMethod
		owner = ir.ContainerID(s.importPath, receiverBase(fd.Recv.List[0].Type))
	}
	d := s.base(kind, fd.Name.Name, fd.Name.Pos())
	d.Owner = owner
	d.Params = s.fieldTypes(fd.Type.Params)
	d.Results = s.fieldTypes(fd.Type.Results)
	d.Markers = markers
	return d, true
}

// fieldTypes flattens a parameter or result list, one entry per name.
func (s *fileScope) fieldTypes(list *ast.FieldList) []ir.TypeRef {
	if list == nil {
		return nil
	}
	var out []ir.TypeRef
	for _, f := range list.List {
		ref := s.typeRef(f.Type)
		n := len(f.Names)
		if n == 0 {
			n = 1
		}
		for range n {
			out = append(out, ref)
		}
	}
	return out
}

// underlying resolves a plain local type name one level.
func (s *fileScope) underlying(expr ast.Expr) string {
	id, ok := expr.(*ast.Ident)
	if !ok {
		return ""
	}
	ts, ok := s.types[id.Name]
	if !ok {
		return ""
	}
	return exprText(ts.Type)
}

// generic splits an instantiated generic type into its base name and args.
func (s *fileScope) generic(expr ast.Expr) (string, []ir.TypeRef) {
	var x ast.Expr
	var indices []ast.Expr
	switch e := expr.(type) {
	case *ast.IndexExpr:
		x, indices = e.X, []ast.Expr{e.Index}
	case *ast.IndexListExpr:
		x, indices = e.X, e.Indices
	default:
		return "", nil
	}
	var base string
	switch b := x.(type) {
	case *ast.Ident:
		base = b.Name
	case *ast.SelectorExpr:
		base = b.Sel.Name
	default:
		return "", nil
	}
	args := make([]ir.TypeRef, len(indices))
	for i, idx := range indices {
		args[i] = s.typeRef(idx)
	}
	return base, args
}

func receiverBase(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverBase(e.X)
	case *ast.IndexExpr:
		return receiverBase(e.X)
	case *ast.IndexListExpr:
		return receiverBase(e.X)
	case *ast.ParenExpr:
		return receiverBase(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.Ident:
		return e.Name
	default:
		return ""
	}
}
