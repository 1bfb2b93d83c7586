// Package resolver implements conditional-exports resolution and the
// unified type reference resolver built on top of it.
package resolver

import (
	"fmt"
	"path/filepath"
	"strings"

	"typeref/internal/fsx"
	"typeref/internal/manifest"
	"typeref/pkg/domain"
)

// ResolveExport resolves subpath against the manifest's conditional
// exports map. Exact subpath matches are preferred over wildcard pattern
// matches; within the matched entry, conditions are consulted in the
// caller's priority order with "default" as the final fallback. The
// resolved target must exist on disk.
func ResolveExport(snap *fsx.Snapshot, m *manifest.Manifest, subpath string, conditions []string, trace *Trace) (string, string, error) {
	if m.Exports == nil {
		return "", "", fmt.Errorf("package %q has no exports: %w", m.Name, domain.ErrNoMatchingSubpath)
	}

	value, wildcard, ok := matchSubpath(m, subpath)
	if !ok {
		trace.Stepf("exports: %s: no subpath pattern matches %q", m.Name, subpath)
		return "", "", fmt.Errorf("package %q subpath %q: %w", m.Name, subpath, domain.ErrNoMatchingSubpath)
	}

	target, condition, ok := matchConditions(value, conditions)
	if !ok {
		trace.Stepf("exports: %s%s: no condition of %v matches", m.Name, strings.TrimPrefix(subpath, "."), conditions)
		return "", "", fmt.Errorf("package %q subpath %q conditions %v: %w", m.Name, subpath, conditions, domain.ErrNoMatchingCondition)
	}

	if wildcard != "" {
		target = strings.ReplaceAll(target, "*", wildcard)
	}
	resolved := filepath.Join(m.Dir, filepath.FromSlash(target))
	trace.Stepf("exports: %s: subpath %q condition %q -> %s", m.Name, subpath, condition, resolved)

	if !snap.Exists(resolved) {
		return "", "", fmt.Errorf("package %q target %s: %w", m.Name, resolved, domain.ErrTargetFileMissing)
	}
	return resolved, condition, nil
}

// matchSubpath finds the exports entry for subpath. Exact match wins;
// otherwise single-star patterns compete and the longest literal prefix
// wins the tie-break. The captured wildcard text is returned for target
// substitution.
func matchSubpath(m *manifest.Manifest, subpath string) (*manifest.ExportValue, string, bool) {
	if v, ok := m.Exports.Get(subpath); ok {
		return v, "", true
	}

	var (
		best        *manifest.ExportValue
		bestCapture string
		bestPrefix  = -1
	)
	for pair := m.Exports.Oldest(); pair != nil; pair = pair.Next() {
		pattern := pair.Key
		star := strings.IndexByte(pattern, '*')
		if star < 0 || strings.IndexByte(pattern[star+1:], '*') >= 0 {
			continue
		}
		prefix, suffix := pattern[:star], pattern[star+1:]
		if len(subpath) < len(prefix)+len(suffix) {
			continue
		}
		if !strings.HasPrefix(subpath, prefix) || !strings.HasSuffix(subpath, suffix) {
			continue
		}
		if len(prefix) > bestPrefix {
			best = pair.Value
			bestCapture = subpath[len(prefix) : len(subpath)-len(suffix)]
			bestPrefix = len(prefix)
		}
	}
	if best == nil {
		return nil, "", false
	}
	return best, bestCapture, true
}

// matchConditions walks an export value with the caller's condition
// priority. Nested condition objects recurse with the same priority list;
// a branch that dead-ends falls through to the next condition.
func matchConditions(v *manifest.ExportValue, conditions []string) (string, string, bool) {
	if v == nil {
		return "", "", false
	}
	if v.IsTarget() {
		return v.Target, "", true
	}
	if v.Conditions == nil {
		return "", "", false // blocked (null) subpath
	}
	for _, cond := range append(append([]string{}, conditions...), domain.ConditionDefault) {
		sub, ok := v.Conditions.Get(cond)
		if !ok {
			continue
		}
		target, inner, ok := matchConditions(sub, conditions)
		if !ok {
			continue
		}
		if inner == "" {
			inner = cond
		}
		return target, inner, true
	}
	return "", "", false
}
