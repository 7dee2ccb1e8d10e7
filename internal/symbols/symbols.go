// Package symbols assigns DefIds to public items, composes per-module
// export tables, and resolves each module's visible-name map, grounded on
// the original Rust resolver this core reimplements.
package symbols

import (
	"fmt"
	"sort"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/loader"
	"neplcore/internal/source"
)

// DefID is a monotonic identity assigned to every public function, struct,
// and enum across the whole module graph.
type DefID uint32

type DefKind uint8

const (
	DefFunction DefKind = iota
	DefStruct
	DefEnum
)

// DefInfo names a public definition's identity, kind, and owning module.
type DefInfo struct {
	ID     DefID
	Kind   DefKind
	Module loader.ModuleID
	Name   string
}

// DefTable maps each module to the public definitions it declares locally.
type DefTable struct {
	ByModule map[loader.ModuleID]map[string]DefInfo
}

// CollectDefs assigns a DefID to every `pub` FnDef/StructDef/EnumDef in
// graph, in node then item order (load order), so DefIDs are deterministic
// across repeat compiles of the same input.
func CollectDefs(graph *loader.Graph) *DefTable {
	table := &DefTable{ByModule: make(map[loader.ModuleID]map[string]DefInfo, len(graph.Nodes))}
	var next uint32
	for _, node := range graph.Nodes {
		m := make(map[string]DefInfo)
		for _, item := range node.Module.Items {
			name, kind, vis, ok := publicDefOf(item)
			if !ok || vis != ast.VisPublic {
				continue
			}
			m[name] = DefInfo{ID: DefID(next), Kind: kind, Module: node.ID, Name: name}
			next++
		}
		table.ByModule[node.ID] = m
	}
	return table
}

func publicDefOf(item ast.Item) (name string, kind DefKind, vis ast.Visibility, ok bool) {
	switch it := item.(type) {
	case *ast.FnDef:
		return it.Name, DefFunction, it.Vis, true
	case *ast.StructDef:
		return it.Name, DefStruct, it.Vis, true
	case *ast.EnumDef:
		return it.Name, DefEnum, it.Vis, true
	default:
		return "", 0, 0, false
	}
}

// ExportTable maps, per module, every name that module re-exports (its own
// public defs plus anything brought in via Open/Merge import clauses) to
// the DefInfo of its ultimate source.
type ExportTable struct {
	ByModule map[loader.ModuleID]map[string]DefInfo
}

// ComposeExports expands DefTable with Open/Merge re-exports. Open and
// Merge imports are treated identically for export propagation: a module
// that opens another module also re-exports everything that module
// exports.
func ComposeExports(graph *loader.Graph, defs *DefTable) *ExportTable {
	out := &ExportTable{ByModule: make(map[loader.ModuleID]map[string]DefInfo, len(graph.Nodes))}
	// Re-export propagation can itself chain (A opens B opens C), so process
	// nodes in load order for up to as many passes as there are nodes,
	// stopping early once a pass adds nothing — sufficient since the loader
	// already rejects cycles, bounding the chain length by the node count.
	for _, node := range graph.Nodes {
		m := make(map[string]DefInfo, len(defs.ByModule[node.ID]))
		for name, info := range defs.ByModule[node.ID] {
			m[name] = info
		}
		out.ByModule[node.ID] = m
	}
	for pass := 0; pass < len(graph.Nodes); pass++ {
		changed := false
		for _, node := range graph.Nodes {
			for _, dep := range node.Deps {
				if dep.Clause != ast.ImportOpen && dep.Clause != ast.ImportMerge {
					continue
				}
				for name, info := range out.ByModule[dep.ID] {
					if _, has := out.ByModule[node.ID][name]; !has {
						out.ByModule[node.ID][name] = info
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}
	return out
}

// ImportScope is one module's resolved import surface.
type ImportScope struct {
	AliasMap    map[string]loader.ModuleID // import alias -> module
	OpenModules []loader.ModuleID          // deduped, in first-seen order
	Selective   map[string]DefInfo         // local name (possibly aliased) -> def
}

// ResolveImports builds each module's ImportScope from its Dep edges and
// the already-composed ExportTable.
func ResolveImports(graph *loader.Graph, exports *ExportTable) map[loader.ModuleID]ImportScope {
	out := make(map[loader.ModuleID]ImportScope, len(graph.Nodes))
	for _, node := range graph.Nodes {
		scope := ImportScope{AliasMap: make(map[string]loader.ModuleID), Selective: make(map[string]DefInfo)}
		seenOpen := make(map[loader.ModuleID]bool)
		for _, dep := range node.Deps {
			switch dep.Clause {
			case ast.ImportDefaultAlias:
				scope.AliasMap[defaultAlias(dep.Path)] = dep.ID
			case ast.ImportAlias:
				scope.AliasMap[dep.Alias] = dep.ID
			case ast.ImportOpen, ast.ImportMerge:
				if !seenOpen[dep.ID] {
					seenOpen[dep.ID] = true
					scope.OpenModules = append(scope.OpenModules, dep.ID)
				}
			case ast.ImportSelective:
				depExports := exports.ByModule[dep.ID]
				for _, item := range dep.Selective {
					if item.Glob {
						if !seenOpen[dep.ID] {
							seenOpen[dep.ID] = true
							scope.OpenModules = append(scope.OpenModules, dep.ID)
						}
						continue
					}
					if def, ok := depExports[item.Name]; ok {
						local := item.Alias
						if local == "" {
							local = item.Name
						}
						scope.Selective[local] = def
					}
				}
			}
		}
		out[node.ID] = scope
	}
	return out
}

// BuildVisibleMap composes the per-module identifier-lookup map with
// priority Local > Selective > Open. Open imports that collide on a name
// are reported as AmbiguousImport and the first-seen binding (in Dep
// declaration order) wins.
func BuildVisibleMap(graph *loader.Graph, defs *DefTable, exports *ExportTable, imports map[loader.ModuleID]ImportScope) (map[loader.ModuleID]map[string]DefInfo, []*diag.Diagnostic) {
	visible := make(map[loader.ModuleID]map[string]DefInfo, len(graph.Nodes))
	var diags []*diag.Diagnostic
	for _, node := range graph.Nodes {
		m := make(map[string]DefInfo)
		for name, info := range defs.ByModule[node.ID] {
			m[name] = info
		}
		scope := imports[node.ID]
		for name, info := range scope.Selective {
			if _, has := m[name]; !has {
				m[name] = info
			}
		}
		seenOpen := make(map[string]DefInfo)
		var ambiguous []string
		for _, dep := range scope.OpenModules {
			names := sortedNames(exports.ByModule[dep])
			for _, name := range names {
				info := exports.ByModule[dep][name]
				if prev, has := seenOpen[name]; has {
					_ = prev
					ambiguous = append(ambiguous, name)
					continue
				}
				seenOpen[name] = info
			}
		}
		sort.Strings(ambiguous)
		for _, name := range ambiguous {
			diags = append(diags, diag.Errorf(diag.AmbiguousImport, source.Span{File: node.FileID},
				fmt.Sprintf("ambiguous import: %q is provided by multiple open imports", name)))
		}
		for name, info := range seenOpen {
			if _, has := m[name]; !has {
				m[name] = info
			}
		}
		visible[node.ID] = m
	}
	return visible, diags
}

func sortedNames(m map[string]DefInfo) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func defaultAlias(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' || p[i] == '\\' {
			return p[i+1:]
		}
	}
	return p
}

// Count returns the total number of defs assigned, used by callers that
// need a DefID-indexed array sized to match.
func (t *DefTable) Count() int {
	n := 0
	for _, m := range t.ByModule {
		n += len(m)
	}
	return n
}
