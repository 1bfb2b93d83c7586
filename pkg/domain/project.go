package domain

import "path/filepath"

// OutputArtifact pairs a declaration file a project is expected to emit
// with the source file it is derived from. Both paths are absolute.
type OutputArtifact struct {
	Declaration string `json:"declaration"`
	Source      string `json:"source"`
}

// ProjectDescriptor is the loaded, normalized form of one project
// configuration file. All paths are absolute; References holds the
// absolute config paths of referenced projects, in declaration order.
//
// Descriptors are shared: multiple parents may reference the same project,
// and the build graph deduplicates on ConfigPath rather than instantiating
// per edge.
type ProjectDescriptor struct {
	ConfigPath string `json:"configPath"`
	RootDir    string `json:"rootDir"`
	OutDir     string `json:"outDir"`

	References []string `json:"references,omitempty"`

	// Types lists ambient specifiers force-included as global type
	// declarations regardless of imports.
	Types []string `json:"types,omitempty"`

	// TypeRoots lists directories searched for flat declaration files.
	// When non-empty, node_modules discovery is skipped for root search.
	TypeRoots []string `json:"typeRoots,omitempty"`

	// ModuleKind selects the resolution condition for non-type lookups:
	// "commonjs" maps to the "require" condition, "module" to "import".
	ModuleKind string `json:"module,omitempty"`

	// Outputs are the declaration artifacts this project is expected to
	// have emitted, with their source provenance.
	Outputs []OutputArtifact `json:"outputs,omitempty"`
}

// Name returns a short human-readable identity for the project: the name
// of the directory holding its configuration file.
func (p *ProjectDescriptor) Name() string {
	return filepath.Base(filepath.Dir(p.ConfigPath))
}
