/*
Package typeref validates project-reference build graphs and resolves type
declarations through conditional package exports.

It addresses a class of build failures where the same module specifier
resolves differently depending on which compiler feature triggered the
lookup: an ambient types list entry searched only flat type-root
directories while an import statement went through conditional exports.
typeref runs every lookup through one ordered strategy list, so a
specifier resolves identically no matter who asked.

# Concept

A workspace is a graph of projects connected by references. For each
build invocation typeref loads the graph once, deduplicating projects
referenced from multiple parents, orders it topologically, and evaluates
per-project staleness from declared output artifacts and their source
provenance. Resolution results that land inside a referenced project's
source tree are only accepted when that project's own outputs are fresh;
otherwise the run reports a reference-not-built diagnostic instead of
silently consuming unbuilt sources.

# Usage

	eng, err := typeref.New("path/to/tsconfig.json")
	if err != nil {
		log.Fatal(err)
	}
	plan, diags, err := eng.Validate(context.Background())

Validate returns an ordered build plan when the graph is sound, or the
complete diagnostic list: diagnostics are collected across every project
so one invocation shows every problem.

# Determinism

All inputs are local files. Filesystem reads and stats are cached per
invocation, resolution results are memoized per (specifier, directory,
condition set), and graph traversal uses canonical ordering throughout,
so an unchanged workspace always produces the identical plan.
*/
package typeref
