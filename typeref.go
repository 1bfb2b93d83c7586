package typeref

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"typeref/internal/buildgraph"
	"typeref/internal/config"
	"typeref/internal/fsx"
	"typeref/internal/logging"
	"typeref/internal/resolver"
	"typeref/pkg/domain"
)

// Engine wires the resolution and validation machinery for one root
// project. Each Engine owns one filesystem snapshot: create a new Engine
// per build invocation so that staleness is observed consistently.
type Engine struct {
	rootConfig string
	snap       *fsx.Snapshot
	trace      *resolver.Trace
	resolver   *resolver.Resolver
	validator  *buildgraph.Validator
	logger     *slog.Logger

	conditionsOver []string
	traceOn        bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTrace enables the resolution trace recorder.
func WithTrace() Option {
	return func(e *Engine) {
		e.traceOn = true
	}
}

// WithConditions overrides the condition priority derived from the
// project's module kind. "types" should come first; the engine does not
// reorder the caller's list.
func WithConditions(conditions []string) Option {
	return func(e *Engine) {
		e.conditionsOver = append([]string{}, conditions...)
	}
}

// New creates an Engine rooted at the given project configuration path.
// The path may name the config file or its directory.
func New(rootConfigPath string, opts ...Option) (*Engine, error) {
	abs, err := filepath.Abs(rootConfigPath)
	if err != nil {
		return nil, fmt.Errorf("resolve root config path: %w", err)
	}

	e := &Engine{
		rootConfig: abs,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.snap = fsx.NewSnapshot()
	e.trace = resolver.NewTrace(e.traceOn, e.logger)
	e.resolver = resolver.New(e.snap, e.trace, e.logger)
	e.validator = buildgraph.NewValidator(e.snap, e.resolver, e.logger)

	if e.snap.IsDir(abs) {
		e.rootConfig = filepath.Join(abs, config.DefaultFileName)
	}
	if !e.snap.Exists(e.rootConfig) {
		return nil, fmt.Errorf("root config %s does not exist", e.rootConfig)
	}
	return e, nil
}

// Validate runs the full pipeline and returns the ordered build plan, or
// the complete diagnostic list when validation failed. The error return
// is reserved for unreadable inputs.
func (e *Engine) Validate(ctx context.Context) (*domain.BuildPlan, []domain.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return e.validator.Validate(e.rootConfig)
}

// Graph loads the reference graph and evaluates staleness states without
// running resolution checks. A cyclic graph is still returned so it can
// be rendered; its states remain UNBUILT.
func (e *Engine) Graph(ctx context.Context) (*buildgraph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := buildgraph.Build(e.snap, e.rootConfig)
	if err != nil {
		return nil, err
	}
	if _, err := g.EvaluateStates(e.snap); err != nil && !errors.Is(err, domain.ErrCyclicReference) {
		return nil, err
	}
	return g, nil
}

// Resolve performs a single specifier lookup under the root project's
// configuration. containingFile defaults to the root config path when
// empty, matching how ambient types entries resolve.
func (e *Engine) Resolve(ctx context.Context, specifier, containingFile string) (domain.ResolutionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ResolutionResult{}, err
	}

	proj, err := config.Load(e.snap, e.rootConfig)
	if err != nil {
		return domain.ResolutionResult{}, err
	}
	if containingFile == "" {
		containingFile = proj.ConfigPath
	} else if containingFile, err = filepath.Abs(containingFile); err != nil {
		return domain.ResolutionResult{}, err
	}

	conditions := e.conditionsOver
	if len(conditions) == 0 {
		conditions = resolver.ConditionsFor(proj)
	}
	return e.resolver.ResolveTypeReference(domain.ResolutionRequest{
		Specifier:      specifier,
		ContainingFile: containingFile,
		Conditions:     conditions,
	}, proj)
}

// TraceLines returns the resolution trace recorded so far. Empty unless
// the engine was created with WithTrace.
func (e *Engine) TraceLines() []string {
	return e.trace.Lines()
}
