package buildgraph

import (
	"regexp"
	"strings"
)

// Import statements come in a few syntactic shapes; a full parser is not
// needed to recover the specifier strings.
var (
	importFromRe = regexp.MustCompile(`(?m)^\s*(?:import|export)\s+[^;]*?\bfrom\s+['"]([^'"]+)['"]`)
	bareImportRe = regexp.MustCompile(`(?m)^\s*import\s+['"]([^'"]+)['"]`)
	requireRe    = regexp.MustCompile(`\brequire\(\s*['"]([^'"]+)['"]\s*\)`)
)

// ScanImports extracts bare module specifiers from source text, in order
// of first appearance. Relative and absolute specifiers are skipped: only
// bare specifiers go through package resolution.
func ScanImports(src []byte) []string {
	text := string(src)
	seen := make(map[string]struct{})
	var out []string

	add := func(matches [][]string) {
		for _, m := range matches {
			spec := m[1]
			if spec == "" || strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
				continue
			}
			if _, dup := seen[spec]; dup {
				continue
			}
			seen[spec] = struct{}{}
			out = append(out, spec)
		}
	}
	add(importFromRe.FindAllStringSubmatch(text, -1))
	add(bareImportRe.FindAllStringSubmatch(text, -1))
	add(requireRe.FindAllStringSubmatch(text, -1))
	return out
}
