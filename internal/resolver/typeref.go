package resolver

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"typeref/internal/fsx"
	"typeref/internal/manifest"
	"typeref/pkg/domain"
)

const memoSize = 1024

type memoEntry struct {
	result domain.ResolutionResult
	err    error
}

// Resolver resolves bare module specifiers to type declaration files.
//
// There is exactly one strategy list, run in the same order for every
// caller: exports-aware resolution first, explicit type-root search
// second. An ambient types entry and an import statement for the same
// specifier therefore always resolve identically; callers cannot select
// a strategy.
type Resolver struct {
	snap   *fsx.Snapshot
	trace  *Trace
	logger *slog.Logger
	memo   *lru.Cache[string, memoEntry]
}

// New creates a resolver over one invocation's filesystem snapshot.
func New(snap *fsx.Snapshot, trace *Trace, logger *slog.Logger) *Resolver {
	memo, err := lru.New[string, memoEntry](memoSize)
	if err != nil {
		panic(fmt.Sprintf("resolver: memo cache: %v", err))
	}
	return &Resolver{snap: snap, trace: trace, logger: logger, memo: memo}
}

// ResolveTypeReference resolves req within the given project. Results are
// memoized per (specifier, containing directory, condition set) for the
// lifetime of the resolver, i.e. one build invocation.
func (r *Resolver) ResolveTypeReference(req domain.ResolutionRequest, proj *domain.ProjectDescriptor) (domain.ResolutionResult, error) {
	containingDir := filepath.Dir(req.ContainingFile)
	key := req.Specifier + "\x00" + containingDir + "\x00" + strings.Join(req.Conditions, ",")
	if e, ok := r.memo.Get(key); ok {
		return e.result, e.err
	}

	result, err := r.resolve(req, proj, containingDir)
	r.memo.Add(key, memoEntry{result: result, err: err})
	return result, err
}

func (r *Resolver) resolve(req domain.ResolutionRequest, proj *domain.ProjectDescriptor, containingDir string) (domain.ResolutionResult, error) {
	pkg, subpath := manifest.SplitSpecifier(req.Specifier)

	// Strategy 1: conditional exports.
	r.trace.Stepf("resolve %q from %s: trying exports strategy", req.Specifier, containingDir)
	if m, err := manifest.Locate(r.snap, containingDir, pkg); err == nil {
		path, condition, rerr := ResolveExport(r.snap, m, subpath, req.Conditions, r.trace)
		if rerr == nil {
			result := domain.ResolutionResult{
				Path:      path,
				Strategy:  domain.StrategyExports,
				Condition: condition,
			}
			r.logger.Debug("resolved via exports",
				"specifier", req.Specifier, "path", path, "condition", condition)
			return result, nil
		}
		r.trace.Stepf("resolve %q: exports strategy failed: %v", req.Specifier, rerr)
	} else {
		r.trace.Stepf("resolve %q: no package manifest found for %q", req.Specifier, pkg)
	}

	// Strategy 2: explicit type roots. Flat declaration files under a
	// root cannot express a conditional subpath, so this only ever adds
	// coverage, never disagreement.
	if len(proj.TypeRoots) > 0 {
		for _, root := range proj.TypeRoots {
			for _, candidate := range typeRootCandidates(root, pkg, subpath) {
				r.trace.Stepf("resolve %q: probing type root %s", req.Specifier, candidate)
				if r.snap.Exists(candidate) {
					r.logger.Debug("resolved via type root",
						"specifier", req.Specifier, "path", candidate)
					return domain.ResolutionResult{
						Path:     candidate,
						Strategy: domain.StrategyTypeRoot,
					}, nil
				}
			}
		}
	}

	r.trace.Stepf("resolve %q: all strategies exhausted", req.Specifier)
	return domain.ResolutionResult{}, fmt.Errorf("specifier %q from %s: %w",
		req.Specifier, req.ContainingFile, domain.ErrUnresolved)
}

// ConditionsFor derives the active condition priority for a project:
// "types" always first, then the module-kind condition ("require" for
// commonjs, "import" for es modules).
func ConditionsFor(proj *domain.ProjectDescriptor) []string {
	kind := domain.ConditionRequire
	if proj.ModuleKind == "module" || strings.HasPrefix(proj.ModuleKind, "es") {
		kind = domain.ConditionImport
	}
	return []string{domain.ConditionTypes, kind}
}

// typeRootCandidates lists the flat declaration paths probed under one
// type root, in order.
func typeRootCandidates(root, pkg, subpath string) []string {
	if subpath != "." {
		rel := filepath.FromSlash(strings.TrimPrefix(subpath, "./"))
		return []string{filepath.Join(root, pkg, rel+".d.ts")}
	}
	return []string{
		filepath.Join(root, pkg+".d.ts"),
		filepath.Join(root, pkg, "index.d.ts"),
	}
}
