package buildgraph

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"typeref/internal/fsx"
	"typeref/internal/resolver"
	"typeref/pkg/domain"
)

// Validator runs the full pipeline: graph construction, topological
// ordering, staleness evaluation, type reference resolution and the
// cross-reference check. Diagnostics are collected across every node
// before reporting; one invocation shows every problem.
type Validator struct {
	snap     *fsx.Snapshot
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// NewValidator wires a validator over one invocation's snapshot.
func NewValidator(snap *fsx.Snapshot, res *resolver.Resolver, logger *slog.Logger) *Validator {
	return &Validator{snap: snap, resolver: res, logger: logger}
}

// Validate loads the reference graph rooted at rootConfigPath and returns
// an ordered build plan, or the complete diagnostic list when anything is
// wrong. The error return is reserved for unreadable inputs.
func (v *Validator) Validate(rootConfigPath string) (*domain.BuildPlan, []domain.Diagnostic, error) {
	g, err := Build(v.snap, rootConfigPath)
	if err != nil {
		return nil, nil, err
	}

	order, err := g.EvaluateStates(v.snap)
	if err != nil {
		if errors.Is(err, domain.ErrCyclicReference) {
			return nil, []domain.Diagnostic{{
				Code:    domain.CodeCyclicReference,
				Path:    rootConfigPath,
				Message: err.Error(),
			}}, nil
		}
		return nil, nil, err
	}

	var diags []domain.Diagnostic
	for _, node := range order {
		v.logger.Debug("staleness evaluated",
			"project", node.Project.Name(), "state", string(node.State))
		diags = append(diags, v.checkResolutions(g, node)...)
	}

	if len(diags) > 0 {
		return nil, diags, nil
	}

	plan := &domain.BuildPlan{Steps: make([]domain.PlanStep, 0, len(order))}
	for _, node := range order {
		action := domain.ActionSkip
		if node.State.NeedsRebuild() {
			action = domain.ActionRebuild
		}
		plan.Steps = append(plan.Steps, domain.PlanStep{
			ConfigPath: node.Project.ConfigPath,
			Action:     action,
			State:      node.State,
		})
	}
	return plan, nil, nil
}

// checkResolutions resolves every specifier the project names (ambient
// types entries and specifiers imported by its sources) through the one
// unified resolver, then applies the cross-reference check to each result.
func (v *Validator) checkResolutions(g *Graph, node *Node) []domain.Diagnostic {
	proj := node.Project
	conditions := resolver.ConditionsFor(proj)

	type lookup struct {
		specifier      string
		containingFile string
	}
	var lookups []lookup
	for _, spec := range proj.Types {
		lookups = append(lookups, lookup{specifier: spec, containingFile: proj.ConfigPath})
	}
	for _, out := range proj.Outputs {
		src, err := v.snap.ReadFile(out.Source)
		if err != nil {
			continue
		}
		for _, spec := range ScanImports(src) {
			lookups = append(lookups, lookup{specifier: spec, containingFile: out.Source})
		}
	}

	var diags []domain.Diagnostic
	for _, l := range lookups {
		req := domain.ResolutionRequest{
			Specifier:      l.specifier,
			ContainingFile: l.containingFile,
			Conditions:     conditions,
		}
		result, err := v.resolver.ResolveTypeReference(req, proj)
		if err != nil {
			diags = append(diags, domain.Diagnostic{
				Code:           domain.CodeForError(err),
				Specifier:      l.specifier,
				ContainingFile: l.containingFile,
				Message:        err.Error(),
			})
			continue
		}
		if d, bad := v.crossReferenceCheck(g, node, l.specifier, l.containingFile, result); bad {
			diags = append(diags, d)
		}
	}
	return diags
}

// crossReferenceCheck rejects a resolution that landed inside an upstream
// project's source tree while that upstream is unbuilt or stale. The
// resolution itself was correct; consuming the source file instead of a
// fresh declaration output is what must not pass silently.
func (v *Validator) crossReferenceCheck(g *Graph, node *Node, specifier, containingFile string, result domain.ResolutionResult) (domain.Diagnostic, bool) {
	for _, other := range g.nodes {
		if other == node {
			continue
		}
		proj := other.Project
		if !pathWithin(proj.RootDir, result.Path) || pathWithin(proj.OutDir, result.Path) {
			continue
		}
		if other.State.NeedsRebuild() {
			return domain.Diagnostic{
				Code:           domain.CodeReferenceNotBuilt,
				Specifier:      specifier,
				Path:           result.Path,
				ContainingFile: containingFile,
				Message: domain.ErrReferenceNotBuilt.Error() +
					": " + proj.Name() + " is " + strings.ToLower(string(other.State)),
			}, true
		}
	}
	return domain.Diagnostic{}, false
}

func pathWithin(dir, path string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
