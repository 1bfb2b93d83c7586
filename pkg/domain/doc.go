// Package domain holds the shared vocabulary of the typeref tool:
// project descriptors, resolution requests and results, staleness states,
// diagnostics and the build plan. It has no dependencies on the resolver
// or validator machinery so that every layer can speak the same types.
package domain
