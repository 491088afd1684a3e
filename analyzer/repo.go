package analyzer

import (
	"context"
	"log/slog"

	"github.com/viant/afs"

	"github.com/viant/microfy/analyzer/python"
	"github.com/viant/microfy/analyzer/repository"
)

// Option configures a RepoAnalyzer.
type Option func(*RepoAnalyzer)

// WithScanConfig replaces the repository scan configuration.
func WithScanConfig(config *repository.Config) Option {
	return func(a *RepoAnalyzer) {
		a.walker = repository.NewWalker(config)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *RepoAnalyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTracerOptions forwards options to every per-module tracer, for
// example WithTargetFunctions.
func WithTracerOptions(opts ...python.TracerOption) Option {
	return func(a *RepoAnalyzer) {
		a.tracerOptions = append(a.tracerOptions, opts...)
	}
}

// Result is the merged outcome of a repository scan.
type Result struct {
	Registry map[string]*python.DependencyNode
	Targets  map[string]*python.Node
	Skipped  []string
}

// RepoAnalyzer runs the static Python pipeline over every source file in a
// repository, merging the per-module dependency registries. Files that fail
// to parse or resolve are logged and skipped; the scan continues.
type RepoAnalyzer struct {
	fs            afs.Service
	walker        *repository.Walker
	logger        *slog.Logger
	tracerOptions []python.TracerOption
}

func NewRepoAnalyzer(opts ...Option) *RepoAnalyzer {
	analyzer := &RepoAnalyzer{
		fs:     afs.New(),
		walker: repository.NewWalker(nil),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(analyzer)
	}
	return analyzer
}

// Analyze scans the repository rooted at root.
func (a *RepoAnalyzer) Analyze(ctx context.Context, root string) (*Result, error) {
	files, err := a.walker.List(ctx, root)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Registry: make(map[string]*python.DependencyNode),
		Targets:  make(map[string]*python.Node),
	}
	parser := python.NewParser()
	for _, file := range files {
		src, err := a.fs.DownloadWithURL(ctx, file)
		if err != nil {
			a.skip(result, file, err)
			continue
		}
		module, err := parser.Parse(ctx, src)
		if err != nil {
			a.skip(result, file, err)
			continue
		}
		moduleName := repository.ModuleName(file, root)
		tracer := python.NewTracer(moduleName, a.tracerOptions...)
		registry, targets, err := tracer.Trace(module)
		if err != nil {
			a.skip(result, file, err)
			continue
		}
		for fullName, node := range registry {
			result.Registry[fullName] = node
		}
		for name, node := range targets {
			result.Targets[name] = node
		}
	}
	return result, nil
}

func (a *RepoAnalyzer) skip(result *Result, file string, err error) {
	a.logger.Warn("skipping file",
		slog.String("file", file),
		slog.String("error", err.Error()))
	result.Skipped = append(result.Skipped, file)
}
