package domain

import "errors"

// ErrNoMatchingSubpath is returned when a manifest's exports map has no
// entry (exact or pattern) for the requested subpath.
var ErrNoMatchingSubpath = errors.New("no matching subpath in exports")

// ErrNoMatchingCondition is returned when a subpath matched but none of the
// requested conditions (nor "default") is present.
var ErrNoMatchingCondition = errors.New("no matching condition for subpath")

// ErrTargetFileMissing is returned when exports resolution produced a path
// that does not exist on disk.
var ErrTargetFileMissing = errors.New("export target file missing")

// ErrUnresolved is returned when every resolution strategy exhausted its
// search space for a specifier.
var ErrUnresolved = errors.New("specifier could not be resolved")

// ErrCyclicReference is returned when the project reference graph contains
// a cycle and no build order exists.
var ErrCyclicReference = errors.New("cyclic project reference")

// ErrReferenceNotBuilt is returned when resolution landed inside an
// upstream project's source tree while that project's outputs are missing
// or stale.
var ErrReferenceNotBuilt = errors.New("referenced project is not built")
