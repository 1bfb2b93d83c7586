package resolver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeref/internal/fsx"
	"typeref/internal/manifest"
	"typeref/internal/testutils"
	"typeref/pkg/domain"
)

func writeManifestPkg(t *testing.T, dir, manifestJSON string, files ...string) *manifest.Manifest {
	t.Helper()
	testutils.WriteFile(t, filepath.Join(dir, "package.json"), manifestJSON)
	for _, f := range files {
		testutils.WriteFile(t, filepath.Join(dir, f), "")
	}
	m, err := manifest.Load(fsx.NewSnapshot(), filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	return m
}

func TestResolveExportTypesWinsOverRequire(t *testing.T) {
	dir := t.TempDir()
	m := writeManifestPkg(t, dir, `{
		"name": "pkg",
		"exports": {
			"./common": {"types": "./dist/common/index.d.ts", "require": "./dist/common/index.js"}
		}
	}`, "dist/common/index.d.ts", "dist/common/index.js")

	snap := fsx.NewSnapshot()
	path, condition, err := ResolveExport(snap, m, "./common",
		[]string{domain.ConditionTypes, domain.ConditionRequire}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dist", "common", "index.d.ts"), path)
	assert.Equal(t, domain.ConditionTypes, condition)
}

func TestResolveExportDefaultFallback(t *testing.T) {
	dir := t.TempDir()
	m := writeManifestPkg(t, dir, `{
		"name": "pkg",
		"exports": {".": {"import": "./dist/index.mjs", "default": "./dist/index.js"}}
	}`, "dist/index.js")

	path, condition, err := ResolveExport(fsx.NewSnapshot(), m, ".",
		[]string{domain.ConditionTypes, domain.ConditionRequire}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dist", "index.js"), path)
	assert.Equal(t, domain.ConditionDefault, condition)
}

func TestResolveExportErrors(t *testing.T) {
	dir := t.TempDir()
	m := writeManifestPkg(t, dir, `{
		"name": "pkg",
		"exports": {
			".": {"import": "./dist/index.mjs"},
			"./ghost": {"types": "./dist/ghost.d.ts"}
		}
	}`)

	snap := fsx.NewSnapshot()

	t.Run("no matching subpath", func(t *testing.T) {
		_, _, err := ResolveExport(snap, m, "./other", []string{domain.ConditionTypes}, nil)
		assert.ErrorIs(t, err, domain.ErrNoMatchingSubpath)
	})

	t.Run("no matching condition", func(t *testing.T) {
		_, _, err := ResolveExport(snap, m, ".", []string{domain.ConditionTypes, domain.ConditionRequire}, nil)
		assert.ErrorIs(t, err, domain.ErrNoMatchingCondition)
	})

	t.Run("target file missing", func(t *testing.T) {
		_, _, err := ResolveExport(snap, m, "./ghost", []string{domain.ConditionTypes}, nil)
		assert.ErrorIs(t, err, domain.ErrTargetFileMissing)
	})

	t.Run("no exports map", func(t *testing.T) {
		bare, err := manifest.Parse([]byte(`{"name": "bare"}`), dir)
		require.NoError(t, err)
		_, _, rerr := ResolveExport(snap, bare, ".", []string{domain.ConditionTypes}, nil)
		assert.ErrorIs(t, rerr, domain.ErrNoMatchingSubpath)
	})
}

func TestResolveExportWildcard(t *testing.T) {
	dir := t.TempDir()
	m := writeManifestPkg(t, dir, `{
		"name": "pkg",
		"exports": {
			"./*": {"types": "./dist/*.d.ts"},
			"./utils/*": {"types": "./dist/utils/*.d.ts"}
		}
	}`, "dist/a.d.ts", "dist/utils/b.d.ts")

	snap := fsx.NewSnapshot()

	path, _, err := ResolveExport(snap, m, "./a", []string{domain.ConditionTypes}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dist", "a.d.ts"), path)

	// The longer literal prefix must win the tie-break.
	path, _, err = ResolveExport(snap, m, "./utils/b", []string{domain.ConditionTypes}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dist", "utils", "b.d.ts"), path)
}

func TestResolveExportExactBeatsWildcard(t *testing.T) {
	dir := t.TempDir()
	m := writeManifestPkg(t, dir, `{
		"name": "pkg",
		"exports": {
			"./*": {"types": "./dist/*.d.ts"},
			"./common": {"types": "./dist/common/index.d.ts"}
		}
	}`, "dist/common.d.ts", "dist/common/index.d.ts")

	path, _, err := ResolveExport(fsx.NewSnapshot(), m, "./common", []string{domain.ConditionTypes}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dist", "common", "index.d.ts"), path)
}
