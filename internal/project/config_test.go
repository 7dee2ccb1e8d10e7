package project

import (
	"os"
	"path/filepath"
	"testing"

	"neplcore/internal/ast"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "nepl.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoadConfigResolvesStdlibRootRelativeToManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "std"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := writeManifest(t, dir, "[stdlib]\nroot = \"std\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := filepath.Join(dir, "std")
	if cfg.StdlibRoot != want {
		t.Fatalf("StdlibRoot = %q, want %q", cfg.StdlibRoot, want)
	}
	if cfg.DefaultTarget != ast.TargetLlvm || cfg.DefaultProfile != ast.ProfileDebug {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigParsesBuildDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[build]\ntarget = \"wasm\"\nprofile = \"release\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DefaultTarget != ast.TargetWasm {
		t.Fatalf("DefaultTarget = %v, want wasm", cfg.DefaultTarget)
	}
	if cfg.DefaultProfile != ast.ProfileRelease {
		t.Fatalf("DefaultProfile = %v, want release", cfg.DefaultProfile)
	}
}

func TestLoadConfigRejectsUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[build]\ntarget = \"bogus\"\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}

func TestLoadFromDirWithNoManifestReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir: %v", err)
	}
	if cfg.StdlibRoot != "" {
		t.Fatalf("expected empty stdlib root, got %q", cfg.StdlibRoot)
	}
	if cfg.DefaultTarget != ast.TargetLlvm || cfg.DefaultProfile != ast.ProfileDebug {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestFindManifestWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[stdlib]\nroot = \"std\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	want := filepath.Join(root, "nepl.toml")
	if found != want {
		t.Fatalf("FindManifest = %q, want %q", found, want)
	}
}
