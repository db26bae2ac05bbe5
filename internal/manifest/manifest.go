// Package manifest reads the CUE asset manifest binding files straight to
// resources.
//
// A manifest is any set of CUE files in one directory declaring
//
//	files: [path=string]: {
//		load?:     string       // serve the file as the resource
//		merge?:    string       // merge the file into the resource
//		priority?: int | string // integer or a named runtime priority
//	}
//
// Every entry becomes one ir.DirectFileFact.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/modgen/internal/ir"
)

// Ext is the extension of manifest files.
const Ext = ".cue"

const schema = `
#Entry: {
	load?:     string
	merge?:    string
	priority?: int | string
}
files?: [string]: #Entry
`

// Result is a loaded manifest.
type Result struct {
	Directs   []ir.DirectFileFact
	Dropped   []string // paths naming neither a load nor a merge target
	FileCount int
}

// CompileError is a manifest error with its CUE position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads the manifest in dir. A missing directory, or one without CUE
// files, is an empty manifest.
func Load(dir string, hints map[string]string) (*Result, error) {
	files, err := FindFiles(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return &Result{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning manifest dir: %w", err)
	}
	if len(files) == 0 {
		return &Result{}, nil
	}

	// Files are named explicitly so manifests without a package clause load.
	args := make([]string, len(files))
	for i, f := range files {
		args[i] = filepath.Base(f)
	}
	ctx := cuecontext.New()
	instances := load.Instances(args, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}
	value := ctx.BuildInstance(inst)

	res, err := Compile(value, hints)
	if err != nil {
		return nil, err
	}
	res.FileCount = len(files)
	return res, nil
}

// Parse compiles a manifest from CUE source.
func Parse(src string, hints map[string]string) (*Result, error) {
	ctx := cuecontext.New()
	return Compile(ctx.CompileString(src, cue.Filename("manifest.cue")), hints)
}

// Compile turns a built manifest value into direct-file facts in declaration
// order.
func Compile(v cue.Value, hints map[string]string) (*Result, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	v = v.Context().CompileString(schema).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	res := &Result{}
	files := v.LookupPath(cue.ParsePath("files"))
	if !files.Exists() {
		return res, nil
	}
	iter, err := files.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		f, ok, err := CompileEntry(iter.Label(), iter.Value(), hints)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Dropped = append(res.Dropped, iter.Label())
			continue
		}
		res.Directs = append(res.Directs, f)
	}
	return res, nil
}

// CompileEntry converts one files entry. It reports false for an entry
// naming neither a load nor a merge target. Merge wins when both are set.
func CompileEntry(file string, v cue.Value, hints map[string]string) (ir.DirectFileFact, bool, error) {
	loadKey, err := optionalString(v, "load")
	if err != nil {
		return ir.DirectFileFact{}, false, err
	}
	mergeKey, err := optionalString(v, "merge")
	if err != nil {
		return ir.DirectFileFact{}, false, err
	}

	f := ir.DirectFileFact{Source: file}
	switch {
	case mergeKey != "":
		f.TargetKey = mergeKey
		f.IsMerge = true
	case loadKey != "":
		f.TargetKey = loadKey
	default:
		return ir.DirectFileFact{}, false, nil
	}

	if p := v.LookupPath(cue.ParsePath("priority")); p.Exists() {
		f.Priority, err = priority(p)
		if err != nil {
			return ir.DirectFileFact{}, false, err
		}
	}
	f.InferredType = InferType(file, hints)
	return f, true, nil
}

var priorityName = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// priority renders a priority value as a Go expression.
func priority(v cue.Value) (string, error) {
	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return "", formatCUEError(err)
		}
		return fmt.Sprintf("modrt.Priority(%d)", n), nil
	case cue.StringKind:
		name, err := v.String()
		if err != nil {
			return "", formatCUEError(err)
		}
		if !priorityName.MatchString(name) {
			return "", &CompileError{
				Field:   "priority",
				Message: fmt.Sprintf("%q is not a priority name", name),
				Pos:     v.Pos(),
			}
		}
		return "modrt.Priority" + name, nil
	default:
		return "", &CompileError{Field: "priority", Message: "must be an integer or a name", Pos: v.Pos()}
	}
}

func optionalString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// InferType returns the resource type hinted by the file extension, or "".
func InferType(file string, hints map[string]string) string {
	return hints[strings.ToLower(path.Ext(file))]
}

// FindFiles returns the CUE files directly inside dir, sorted.
func FindFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == Ext {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &CompileError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &CompileError{Field: "cue", Message: first.Error()}
}
