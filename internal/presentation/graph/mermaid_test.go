package graph

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeref/internal/buildgraph"
	"typeref/internal/fsx"
	"typeref/internal/testutils"
)

func TestGenerateMermaid(t *testing.T) {
	dir := t.TempDir()
	for name, refs := range map[string]string{
		"common": `[]`,
		"app":    `[{"path": "../common"}]`,
	} {
		testutils.WriteFile(t, filepath.Join(dir, name, "tsconfig.json"), fmt.Sprintf(`{
			"compilerOptions": {"rootDir": "src", "outDir": "dist"},
			"references": %s
		}`, refs))
		testutils.WriteFile(t, filepath.Join(dir, name, "src", "index.ts"), "")
	}

	g, err := buildgraph.Build(fsx.NewSnapshot(), filepath.Join(dir, "app", "tsconfig.json"))
	require.NoError(t, err)

	out := GenerateMermaid(g)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `["app"]`)
	assert.Contains(t, out, `["common"]`)
	assert.Contains(t, out, "-->")
	// Unevaluated nodes render as unbuilt.
	assert.Contains(t, out, "classDef unbuilt")
}
