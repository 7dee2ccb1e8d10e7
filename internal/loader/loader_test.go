package loader

import (
	"fmt"
	"testing"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/source"
)

// fakeFS is an in-memory SourceProvider for tests.
type fakeFS map[string][]byte

func (f fakeFS) Read(path string) ([]byte, error) {
	if b, ok := f[path]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("not found: %s", path)
}

// stubParse returns an empty Module per path carrying the directives listed
// for that path in directives; the source content itself is ignored, since
// the real lexer/parser is out of scope.
func stubParse(directives map[string][]ast.Directive) ParseFunc {
	return func(id source.FileID, path string, content []byte) (*ast.Module, []*diag.Diagnostic, error) {
		m := ast.NewModule(path)
		for _, d := range directives[path] {
			m.AddDirective(d)
		}
		return m, nil, nil
	}
}

func TestLoadSingleModule(t *testing.T) {
	fs := fakeFS{"main.nepl": []byte("fn f()->i32: 1\n")}
	ld := New(fs, stubParse(nil), Options{})
	res, err := ld.Load("main.nepl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Graph.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(res.Graph.Nodes))
	}
}

func TestImportIsLoadedAtMostOnce(t *testing.T) {
	fs := fakeFS{
		"main.nepl": []byte("..."),
		"a.nepl":    []byte("..."),
		"lib.nepl":  []byte("..."),
	}
	directives := map[string][]ast.Directive{
		"main.nepl": {ast.NewImportDirective(source.Span{}, "a.nepl", ast.ImportOpen), ast.NewImportDirective(source.Span{}, "lib.nepl", ast.ImportOpen)},
		"a.nepl":    {ast.NewImportDirective(source.Span{}, "lib.nepl", ast.ImportOpen)},
	}
	ld := New(fs, stubParse(directives), Options{})
	res, err := ld.Load("main.nepl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Graph.Nodes) != 3 {
		t.Fatalf("expected 3 distinct modules (diamond import deduped), got %d", len(res.Graph.Nodes))
	}
}

func TestImportCycleIsRejected(t *testing.T) {
	fs := fakeFS{"a.nepl": []byte("..."), "b.nepl": []byte("...")}
	directives := map[string][]ast.Directive{
		"a.nepl": {ast.NewImportDirective(source.Span{}, "b.nepl", ast.ImportOpen)},
		"b.nepl": {ast.NewImportDirective(source.Span{}, "a.nepl", ast.ImportOpen)},
	}
	ld := New(fs, stubParse(directives), Options{})
	_, err := ld.Load("a.nepl")
	if err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestIncludeInlinesItems(t *testing.T) {
	fs := fakeFS{"main.nepl": []byte("..."), "part.nepl": []byte("...")}
	directives := map[string][]ast.Directive{
		"main.nepl": {ast.NewIncludeDirective(source.Span{}, "part.nepl")},
	}
	ld := New(fs, stubParse(directives), Options{})
	res, err := ld.Load("main.nepl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Graph.Nodes) != 2 {
		t.Fatalf("expected include target to also be loaded as a node, got %d", len(res.Graph.Nodes))
	}
}

func TestStdPathResolvesUnderStdlibRoot(t *testing.T) {
	fs := fakeFS{"main.nepl": []byte("..."), "stdlib/io.nepl": []byte("...")}
	directives := map[string][]ast.Directive{
		"main.nepl": {ast.NewImportDirective(source.Span{}, "std/io", ast.ImportOpen)},
	}
	ld := New(fs, stubParse(directives), Options{StdlibRoot: "stdlib"})
	res, err := ld.Load("main.nepl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Graph.Nodes[1].Path != "stdlib/io.nepl" {
		t.Fatalf("expected std/io to resolve to stdlib/io.nepl, got %s", res.Graph.Nodes[1].Path)
	}
}
