package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"typeref/internal/fsx"
)

// Locate finds the manifest for pkg by walking ancestor directories of
// startDir, probing <dir>/node_modules/<pkg>/package.json at each level.
// The walk stops at the filesystem root.
func Locate(fs *fsx.Snapshot, startDir, pkg string) (*Manifest, error) {
	dir := filepath.Clean(startDir)
	for {
		candidate := filepath.Join(dir, "node_modules", pkg, "package.json")
		if fs.Exists(candidate) {
			return Load(fs, candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("package %q not found from %s", pkg, startDir)
		}
		dir = parent
	}
}

// SplitSpecifier splits a bare module specifier into package name and
// subpath. Scoped packages keep their two-segment name. The subpath is
// returned in exports form: "." when empty, "./x/y" otherwise.
func SplitSpecifier(specifier string) (pkg, subpath string) {
	if strings.HasPrefix(specifier, "@") {
		// @scope/name[/subpath]
		slash := strings.IndexByte(specifier, '/')
		if slash < 0 {
			return specifier, "."
		}
		second := strings.IndexByte(specifier[slash+1:], '/')
		if second < 0 {
			return specifier, "."
		}
		cut := slash + 1 + second
		return specifier[:cut], "./" + specifier[cut+1:]
	}
	slash := strings.IndexByte(specifier, '/')
	if slash < 0 {
		return specifier, "."
	}
	return specifier[:slash], "./" + specifier[slash+1:]
}
