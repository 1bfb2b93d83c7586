package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeref/internal/fsx"
	"typeref/internal/testutils"
	"typeref/pkg/domain"
)

func TestLoadNormalizesPaths(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteFile(t, filepath.Join(dir, "app", "tsconfig.json"), `{
		"compilerOptions": {
			"rootDir": "src",
			"outDir": "dist",
			"module": "commonjs",
			"types": ["common-lib"],
			"typeRoots": ["./typings"]
		},
		"references": [{"path": "../common"}]
	}`)
	testutils.WriteFile(t, filepath.Join(dir, "app", "src", "index.ts"), "")
	testutils.WriteFile(t, filepath.Join(dir, "app", "src", "util", "helper.ts"), "")
	testutils.WriteFile(t, filepath.Join(dir, "app", "src", "types.d.ts"), "")

	desc, err := Load(fsx.NewSnapshot(), path)
	require.NoError(t, err)

	appDir := filepath.Join(dir, "app")
	assert.Equal(t, path, desc.ConfigPath)
	assert.Equal(t, filepath.Join(appDir, "src"), desc.RootDir)
	assert.Equal(t, filepath.Join(appDir, "dist"), desc.OutDir)
	assert.Equal(t, "commonjs", desc.ModuleKind)
	assert.Equal(t, []string{"common-lib"}, desc.Types)
	assert.Equal(t, []string{filepath.Join(appDir, "typings")}, desc.TypeRoots)
	assert.Equal(t, []string{filepath.Join(dir, "common")}, desc.References)

	// Declaration outputs derive from sources; .d.ts files are not sources.
	assert.ElementsMatch(t, []domain.OutputArtifact{
		{
			Source:      filepath.Join(appDir, "src", "index.ts"),
			Declaration: filepath.Join(appDir, "dist", "index.d.ts"),
		},
		{
			Source:      filepath.Join(appDir, "src", "util", "helper.ts"),
			Declaration: filepath.Join(appDir, "dist", "util", "helper.d.ts"),
		},
	}, desc.Outputs)
}

func TestLoadYAMLAndJSONAreEquivalent(t *testing.T) {
	dir := t.TempDir()
	jsonPath := testutils.WriteFile(t, filepath.Join(dir, "j", "tsconfig.json"), `{
		"compilerOptions": {"rootDir": "src", "outDir": "dist", "module": "module", "types": ["x"]}
	}`)
	yamlPath := testutils.WriteFile(t, filepath.Join(dir, "y", "tsconfig.yaml"), `
compilerOptions:
  rootDir: src
  outDir: dist
  module: module
  types:
    - x
`)
	testutils.WriteFile(t, filepath.Join(dir, "j", "src", "index.ts"), "")
	testutils.WriteFile(t, filepath.Join(dir, "y", "src", "index.ts"), "")

	snap := fsx.NewSnapshot()
	fromJSON, err := Load(snap, jsonPath)
	require.NoError(t, err)
	fromYAML, err := Load(snap, yamlPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON.ModuleKind, fromYAML.ModuleKind)
	assert.Equal(t, fromJSON.Types, fromYAML.Types)
	assert.Equal(t, filepath.Base(fromJSON.RootDir), filepath.Base(fromYAML.RootDir))
	assert.Len(t, fromYAML.Outputs, 1)
}

func TestLoadDirectoryProbesDefaultFileName(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, filepath.Join(dir, "proj", "tsconfig.json"), `{
		"compilerOptions": {"rootDir": "src", "outDir": "dist"}
	}`)
	testutils.WriteFile(t, filepath.Join(dir, "proj", "src", "a.ts"), "")

	desc, err := Load(fsx.NewSnapshot(), filepath.Join(dir, "proj"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "proj", "tsconfig.json"), desc.ConfigPath)
}

func TestLoadExplicitFilesList(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteFile(t, filepath.Join(dir, "p", "tsconfig.json"), `{
		"compilerOptions": {"rootDir": "src", "outDir": "dist"},
		"files": ["src/main.ts"]
	}`)
	testutils.WriteFile(t, filepath.Join(dir, "p", "src", "main.ts"), "")
	testutils.WriteFile(t, filepath.Join(dir, "p", "src", "ignored.ts"), "")

	desc, err := Load(fsx.NewSnapshot(), path)
	require.NoError(t, err)
	require.Len(t, desc.Outputs, 1)
	assert.Equal(t, filepath.Join(dir, "p", "src", "main.ts"), desc.Outputs[0].Source)
}

func TestLoadRejectsEmptyReference(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteFile(t, filepath.Join(dir, "p", "tsconfig.json"), `{
		"references": [{"path": ""}]
	}`)
	_, err := Load(fsx.NewSnapshot(), path)
	assert.Error(t, err)
}
