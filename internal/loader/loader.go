// Package loader builds one ast.Module graph from an entry source plus
// every source it transitively includes or imports, assigning stable
// source.FileIDs in load order and detecting cycles.
package loader

import (
	"fmt"
	"path"
	"strings"

	"fortio.org/safecast"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/source"
)

// ModuleID indexes a ModuleGraph's Nodes in load order.
type ModuleID uint32

// Dep is one edge from a module to another, typed by the import clause
// that introduced it (or absent for an include, which has no edge since it
// inlines directly into the including module rather than linking modules).
type Dep struct {
	ID        ModuleID
	Path      string
	Clause    ast.ImportClauseKind
	Alias     string
	Selective []ast.ImportItem
}

// Node is one loaded, parsed module plus its outgoing import edges.
type Node struct {
	ID     ModuleID
	FileID source.FileID
	Path   string
	Module *ast.Module
	Deps   []Dep
}

// Graph is the ordered set of loaded modules, in load order.
type Graph struct {
	Nodes []Node
}

// SourceProvider resolves a canonical path to its source text. Backed by
// disk or an in-memory virtual filesystem; the loader never touches the
// filesystem directly except through this interface.
type SourceProvider interface {
	Read(path string) ([]byte, error)
}

// ParseFunc parses one source into an ast.Module. The lexer/parser that
// implements this is an out-of-scope external collaborator; the loader
// only needs its result shape.
type ParseFunc func(id source.FileID, path string, content []byte) (*ast.Module, []*diag.Diagnostic, error)

// Options configures path resolution.
type Options struct {
	StdlibRoot string // root directory for "std/..." specifiers
	Extension  string // default extension when a specifier omits one; ".nepl" if empty
}

// Loader drives module-graph construction.
type Loader struct {
	provider SourceProvider
	parse    ParseFunc
	opts     Options
	fs       *source.FileSet
}

func New(provider SourceProvider, parse ParseFunc, opts Options) *Loader {
	if opts.Extension == "" {
		opts.Extension = ".nepl"
	}
	return &Loader{provider: provider, parse: parse, opts: opts, fs: source.NewFileSet()}
}

// Result is the loader's successful output: the module graph and the
// FileSet every span in it is relative to.
type Result struct {
	Graph    *Graph
	FileSet  *source.FileSet
	Warnings []*diag.Diagnostic // parser warnings and #target directive errors; neither halts loading
}

// Load resolves path through the configured SourceProvider.
func (l *Loader) Load(entryPath string) (*Result, error) {
	return l.load(entryPath, nil)
}

// LoadInline treats src as the entry source directly, useful for tests and
// REPL-style invocations that never touch the SourceProvider for the entry
// file.
func (l *Loader) LoadInline(path string, src []byte) (*Result, error) {
	return l.load(path, src)
}

type loadState struct {
	graph       *Graph
	processing  map[string]bool // canonical path -> currently being loaded (cycle detection)
	importedAt  map[string]ModuleID
	pathToID    map[string]ModuleID
	warnings    []*diag.Diagnostic
}

func (l *Loader) load(entryPath string, entrySrc []byte) (*Result, error) {
	st := &loadState{
		graph:      &Graph{},
		processing: make(map[string]bool),
		importedAt: make(map[string]ModuleID),
		pathToID:   make(map[string]ModuleID),
	}
	_, err := l.loadModule(st, canonicalize(entryPath), entrySrc, true)
	if err != nil {
		return nil, err
	}
	return &Result{Graph: st.graph, FileSet: l.fs, Warnings: st.warnings}, nil
}

// loadModule loads the module at canonical path cpath as a new graph node
// and recurses into its includes and imports. Reuse of an already-imported
// module is decided by the caller through st.importedAt; the trailing bool
// argument is not used.
func (l *Loader) loadModule(st *loadState, cpath string, preloaded []byte, _ bool) (ModuleID, error) {
	if st.processing[cpath] {
		return 0, fmt.Errorf("loader: import cycle detected at %q", cpath)
	}
	st.processing[cpath] = true
	defer delete(st.processing, cpath)

	content := preloaded
	if content == nil {
		var err error
		content, err = l.provider.Read(cpath)
		if err != nil {
			return 0, fmt.Errorf("loader: reading %q: %w", cpath, err)
		}
	}

	fid := l.fs.AddVirtual(cpath, content)
	mod, warnings, err := l.parse(fid, cpath, l.fs.Get(fid).Content)
	if err != nil {
		return 0, fmt.Errorf("loader: parsing %q: %w", cpath, err)
	}
	st.warnings = append(st.warnings, filterErrors(warnings)...)
	if hasFatal(warnings) {
		return 0, fmt.Errorf("loader: %q failed to parse with error-severity diagnostics", cpath)
	}

	targets := mod.TargetDirectives()
	if len(targets) > 1 {
		st.warnings = append(st.warnings, diag.Errorf(diag.MultipleTargetDirective, targets[1].Span(), "multiple #target directives in one module"))
	}
	for _, td := range targets {
		if _, ok := ast.ParseTarget(td.Name); !ok {
			st.warnings = append(st.warnings, diag.Errorf(diag.UnknownTargetDirective, td.Span(), fmt.Sprintf("unknown target %q", td.Name)))
		}
	}

	n, err := safecast.Conv[uint32](len(st.graph.Nodes))
	if err != nil {
		panic(fmt.Errorf("loader: module count overflow: %w", err))
	}
	id := ModuleID(n)
	st.pathToID[cpath] = id
	node := Node{ID: id, FileID: fid, Path: cpath, Module: mod}
	st.graph.Nodes = append(st.graph.Nodes, node) // append before recursing so self-referential includes see their own id

	var deps []Dep
	for _, d := range mod.Directives {
		switch dir := d.(type) {
		case ast.IncludeDirective:
			target := l.resolvePath(cpath, dir.Path)
			depID, err := l.loadModule(st, target, nil, true)
			if err != nil {
				return 0, err
			}
			// include inlines items; splice the included module's items and
			// directives into this one rather than recording a graph edge.
			inlineInto(&st.graph.Nodes[id], &st.graph.Nodes[depID])
		case ast.ImportDirective:
			target := l.resolvePath(cpath, dir.Path)
			depID, ok := st.importedAt[target]
			if !ok {
				var err error
				depID, err = l.loadModule(st, target, nil, false)
				if err != nil {
					return 0, err
				}
				st.importedAt[target] = depID
			}
			deps = append(deps, Dep{ID: depID, Path: target, Clause: dir.Clause, Alias: dir.Alias, Selective: dir.Selective})
		}
	}
	st.graph.Nodes[id].Deps = deps
	return id, nil
}

func inlineInto(dst, src *Node) {
	dst.Module.Directives = append(dst.Module.Directives, src.Module.Directives...)
	dst.Module.Items = append(dst.Module.Items, src.Module.Items...)
}

// resolvePath resolves an import/include specifier relative to the module
// that referenced it: "std/..." resolves under the configured stdlib root,
// otherwise relative to the referencing file's directory. A missing
// extension defaults to the configured one.
func (l *Loader) resolvePath(fromPath, spec string) string {
	p := spec
	if strings.HasPrefix(p, "std/") {
		p = path.Join(l.opts.StdlibRoot, strings.TrimPrefix(p, "std/"))
	} else if !path.IsAbs(p) {
		p = path.Join(path.Dir(fromPath), p)
	}
	if path.Ext(p) == "" {
		p += l.opts.Extension
	}
	return canonicalize(p)
}

func canonicalize(p string) string {
	return path.Clean(path.ToSlash(p))
}

func hasFatal(diags []*diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

func filterErrors(diags []*diag.Diagnostic) []*diag.Diagnostic {
	out := make([]*diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Severity != diag.SevError {
			out = append(out, d)
		}
	}
	return out
}
