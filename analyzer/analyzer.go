package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/microfy/analyzer/java"
	"github.com/viant/microfy/analyzer/python"
	"github.com/viant/microfy/graph"
)

// FileAnalyzer extracts symbol cross-reference records from one source
// file; static pipelines for every language reduce to this shape so the
// graph layer can treat them uniformly.
type FileAnalyzer interface {
	AnalyzeFile(ctx context.Context, filename string) ([]graph.SymbolRecord, error)
}

// Factory selects the analysis pipeline for a source file by extension.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// AnalyzerFor returns the file analyzer handling the given filename.
func (f *Factory) AnalyzerFor(filename string) (FileAnalyzer, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".py":
		return &pythonFileAnalyzer{parser: python.NewParser()}, nil
	case ".java":
		return &javaFileAnalyzer{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

type pythonFileAnalyzer struct {
	parser *python.Parser
}

func (a *pythonFileAnalyzer) AnalyzeFile(ctx context.Context, filename string) ([]graph.SymbolRecord, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	module, err := a.parser.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	moduleName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	tracer := python.NewTracer(moduleName)
	registry, _, err := tracer.Trace(module)
	if err != nil {
		return nil, err
	}
	return python.RegistryRecords(registry), nil
}

type javaFileAnalyzer struct{}

func (a *javaFileAnalyzer) AnalyzeFile(ctx context.Context, filename string) ([]graph.SymbolRecord, error) {
	collector := java.NewCollector()
	if err := collector.CollectFile(ctx, filename); err != nil {
		return nil, err
	}
	index := java.NewIndex(collector.Classes())
	interactions := java.NewInteractionAnalyzer(collector.Classes(), index)
	if err := interactions.AnalyzeFile(ctx, filename); err != nil {
		return nil, err
	}
	return interactions.Records(), nil
}
