// Package config loads per-project build configuration files and
// normalizes them into domain descriptors.
//
// JSON is the canonical format; YAML is accepted for the same schema.
// Both decode to a raw map first and are mapped onto the typed struct via
// mapstructure, so the two formats share one decode path.
package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"typeref/internal/fsx"
	"typeref/pkg/domain"
)

// DefaultFileName is probed when a reference points at a directory.
const DefaultFileName = "tsconfig.json"

type rawCompilerOptions struct {
	RootDir   string   `json:"rootDir"`
	OutDir    string   `json:"outDir"`
	Module    string   `json:"module"`
	Types     []string `json:"types"`
	TypeRoots []string `json:"typeRoots"`
}

type rawReference struct {
	Path string `json:"path"`
}

type rawConfig struct {
	CompilerOptions rawCompilerOptions `json:"compilerOptions"`
	References      []rawReference     `json:"references"`
	Files           []string           `json:"files"`
}

// Load reads, decodes and normalizes the project configuration at path.
// All paths in the returned descriptor are absolute.
func Load(snap *fsx.Snapshot, path string) (*domain.ProjectDescriptor, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if snap.IsDir(path) {
		path = filepath.Join(path, DefaultFileName)
	}

	data, err := snap.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var generic map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	var raw rawConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(generic); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	return normalize(path, raw)
}

func normalize(path string, raw rawConfig) (*domain.ProjectDescriptor, error) {
	baseDir := filepath.Dir(path)
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(baseDir, p)
	}

	desc := &domain.ProjectDescriptor{
		ConfigPath: path,
		RootDir:    baseDir,
		OutDir:     baseDir,
		ModuleKind: "commonjs",
		Types:      raw.CompilerOptions.Types,
	}
	if raw.CompilerOptions.RootDir != "" {
		desc.RootDir = abs(raw.CompilerOptions.RootDir)
	}
	if raw.CompilerOptions.OutDir != "" {
		desc.OutDir = abs(raw.CompilerOptions.OutDir)
	}
	if raw.CompilerOptions.Module != "" {
		desc.ModuleKind = strings.ToLower(raw.CompilerOptions.Module)
	}
	for _, root := range raw.CompilerOptions.TypeRoots {
		desc.TypeRoots = append(desc.TypeRoots, abs(root))
	}
	for _, ref := range raw.References {
		if ref.Path == "" {
			return nil, fmt.Errorf("config %s: reference with empty path", path)
		}
		desc.References = append(desc.References, abs(ref.Path))
	}

	sources, err := collectSources(desc.RootDir, desc.OutDir, raw.Files, baseDir)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	for _, src := range sources {
		rel, err := filepath.Rel(desc.RootDir, src)
		if err != nil || strings.HasPrefix(rel, "..") {
			// Sources outside rootDir carry no declaration output.
			continue
		}
		decl := filepath.Join(desc.OutDir, strings.TrimSuffix(rel, ".ts")+".d.ts")
		desc.Outputs = append(desc.Outputs, domain.OutputArtifact{
			Declaration: decl,
			Source:      src,
		})
	}
	return desc, nil
}

// collectSources returns the project's source files: the explicit files
// list when declared, otherwise every .ts file under rootDir (declaration
// files and build outputs excluded).
func collectSources(rootDir, outDir string, files []string, baseDir string) ([]string, error) {
	if len(files) > 0 {
		out := make([]string, 0, len(files))
		for _, f := range files {
			if filepath.IsAbs(f) {
				out = append(out, filepath.Clean(f))
			} else {
				out = append(out, filepath.Join(baseDir, f))
			}
		}
		return out, nil
	}

	var out []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are not sources
		}
		if d.IsDir() {
			name := d.Name()
			if name == "node_modules" || strings.HasPrefix(name, ".") || (path == outDir && path != rootDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".ts") && !strings.HasSuffix(path, ".d.ts") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
