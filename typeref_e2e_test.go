package typeref_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeref"
	"typeref/internal/testutils"
	"typeref/pkg/domain"
)

// setupWorkspace builds one project with a conditional-exports dependency:
//
//	app/
//	  tsconfig.json        (types: ["pkg/common"])
//	  src/index.ts         (imports pkg/common)
//	  dist/index.d.ts      (fresh output)
//	  node_modules/pkg/    (exports "./common" with types + require)
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	srcTime := time.Now().Add(-2 * time.Hour)
	declTime := time.Now().Add(-1 * time.Hour)

	pkgDir := filepath.Join(dir, "app", "node_modules", "pkg")
	testutils.WriteFile(t, filepath.Join(pkgDir, "package.json"), `{
		"name": "pkg",
		"version": "1.0.0",
		"exports": {
			"./common": {"types": "./dist/common/index.d.ts", "require": "./dist/common/index.js"}
		}
	}`)
	testutils.WriteFile(t, filepath.Join(pkgDir, "dist", "common", "index.d.ts"), "export declare const c: number;\n")
	testutils.WriteFile(t, filepath.Join(pkgDir, "dist", "common", "index.js"), "exports.c = 1;\n")

	testutils.WriteFile(t, filepath.Join(dir, "app", "tsconfig.json"), `{
		"compilerOptions": {
			"rootDir": "src",
			"outDir": "dist",
			"module": "commonjs",
			"types": ["pkg/common"]
		}
	}`)
	src := testutils.WriteFile(t, filepath.Join(dir, "app", "src", "index.ts"), "import 'pkg/common';\n")
	decl := testutils.WriteFile(t, filepath.Join(dir, "app", "dist", "index.d.ts"), "")
	testutils.Touch(t, src, srcTime)
	testutils.Touch(t, decl, declTime)

	return filepath.Join(dir, "app", "tsconfig.json")
}

func TestEngineValidateFreshWorkspace(t *testing.T) {
	root := setupWorkspace(t)
	eng, err := typeref.New(root)
	require.NoError(t, err)

	plan, diags, err := eng.Validate(context.Background())
	require.NoError(t, err)
	require.Empty(t, diags)
	require.NotNil(t, plan)
	assert.True(t, plan.AllSkip())
}

// The worked example: exports {"./common": {"types": ..., "require": ...}}
// under conditions [types, require] must yield the types target, and the
// ambient types entry must agree with an import-triggered lookup.
func TestEngineResolveTypesBeforeRequire(t *testing.T) {
	root := setupWorkspace(t)
	eng, err := typeref.New(root, typeref.WithTrace())
	require.NoError(t, err)

	ctx := context.Background()
	viaAmbient, err := eng.Resolve(ctx, "pkg/common", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionTypes, viaAmbient.Condition)
	assert.Equal(t,
		filepath.Join(filepath.Dir(root), "node_modules", "pkg", "dist", "common", "index.d.ts"),
		viaAmbient.Path)

	viaImport, err := eng.Resolve(ctx, "pkg/common", filepath.Join(filepath.Dir(root), "src", "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, viaAmbient.Path, viaImport.Path)

	assert.NotEmpty(t, eng.TraceLines())
}

func TestEngineResolveUnresolved(t *testing.T) {
	root := setupWorkspace(t)
	eng, err := typeref.New(root)
	require.NoError(t, err)

	_, err = eng.Resolve(context.Background(), "no-such-pkg", "")
	assert.ErrorIs(t, err, domain.ErrUnresolved)
}

func TestEngineRejectsMissingRootConfig(t *testing.T) {
	_, err := typeref.New(filepath.Join(t.TempDir(), "nope", "tsconfig.json"))
	assert.Error(t, err)
}

func TestEngineGraphEvaluatesStates(t *testing.T) {
	root := setupWorkspace(t)
	eng, err := typeref.New(root)
	require.NoError(t, err)

	g, err := eng.Graph(context.Background())
	require.NoError(t, err)
	nodes := g.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.StateFresh, nodes[0].State)
}
