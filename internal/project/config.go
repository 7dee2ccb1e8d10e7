// Package project parses the per-repository nepl.toml manifest: the
// standard-library root a loader.Options needs for "std/" specifiers, and
// the default target/profile a CLI uses when none is passed explicitly.
// Grounded on the teacher's toml.DecodeFile manifest-loading idiom.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"neplcore/internal/ast"
)

// ErrNotFound is returned by FindManifest when no nepl.toml exists above
// startDir.
var ErrNotFound = errors.New("project: no nepl.toml found")

type manifestFile struct {
	Stdlib struct {
		Root string `toml:"root"`
	} `toml:"stdlib"`
	Build struct {
		Target  string `toml:"target"`
		Profile string `toml:"profile"`
	} `toml:"build"`
}

// Config is the resolved manifest: an absolute stdlib root and the
// project's default compile options.
type Config struct {
	StdlibRoot     string
	DefaultTarget  ast.Target
	DefaultProfile ast.Profile
}

// FindManifest walks up from startDir looking for nepl.toml, the same way
// the teacher's project loader walks up for its own manifest file.
func FindManifest(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("project: resolving start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "nepl.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("project: stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// LoadConfig parses manifestPath and resolves stdlib.root relative to the
// manifest's own directory. Missing [build] fields default to
// TargetLlvm/ProfileDebug, the CLI's own defaults.
func LoadConfig(manifestPath string) (Config, error) {
	var raw manifestFile
	if _, err := toml.DecodeFile(manifestPath, &raw); err != nil {
		return Config{}, fmt.Errorf("project: parsing %q: %w", manifestPath, err)
	}
	cfg := Config{DefaultTarget: ast.TargetLlvm, DefaultProfile: ast.ProfileDebug}
	if raw.Stdlib.Root != "" {
		cfg.StdlibRoot = filepath.Join(filepath.Dir(manifestPath), raw.Stdlib.Root)
	}
	if raw.Build.Target != "" {
		t, ok := ast.ParseTarget(raw.Build.Target)
		if !ok {
			return Config{}, fmt.Errorf("project: %q: unknown build.target %q", manifestPath, raw.Build.Target)
		}
		cfg.DefaultTarget = t
	}
	if raw.Build.Profile != "" {
		switch raw.Build.Profile {
		case "debug":
			cfg.DefaultProfile = ast.ProfileDebug
		case "release":
			cfg.DefaultProfile = ast.ProfileRelease
		default:
			return Config{}, fmt.Errorf("project: %q: unknown build.profile %q", manifestPath, raw.Build.Profile)
		}
	}
	return cfg, nil
}

// LoadFromDir finds and loads the manifest above startDir. A missing
// manifest is not an error: it returns a Config with no stdlib root and
// the llvm/debug defaults so a CLI can run against a single file with no
// project at all.
func LoadFromDir(startDir string) (Config, error) {
	path, err := FindManifest(startDir)
	if errors.Is(err, ErrNotFound) {
		return Config{DefaultTarget: ast.TargetLlvm, DefaultProfile: ast.ProfileDebug}, nil
	}
	if err != nil {
		return Config{}, err
	}
	return LoadConfig(path)
}
