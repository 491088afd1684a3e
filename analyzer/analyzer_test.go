package analyzer_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/microfy/analyzer"
	"github.com/viant/microfy/analyzer/python"
	"github.com/viant/microfy/analyzer/repository"
	"github.com/viant/microfy/graph"
)

func writeFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFactory_AnalyzerFor(t *testing.T) {
	factory := analyzer.NewFactory()

	pythonAnalyzer, err := factory.AnalyzerFor("main.py")
	require.NoError(t, err)
	assert.NotNil(t, pythonAnalyzer)

	javaAnalyzer, err := factory.AnalyzerFor("Main.java")
	require.NoError(t, err)
	assert.NotNil(t, javaAnalyzer)

	_, err = factory.AnalyzerFor("script.rb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestFactory_PythonRecords(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "mod.py", `def helper():
    pass

def caller():
    helper()
`)
	factory := analyzer.NewFactory()
	fileAnalyzer, err := factory.AnalyzerFor(path)
	require.NoError(t, err)

	records, err := fileAnalyzer.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	byName := map[string]graph.SymbolRecord{}
	for _, record := range records {
		byName[record.FullName] = record
	}
	require.Contains(t, byName, "mod.caller")
	assert.Equal(t, []string{"mod.helper"}, byName["mod.caller"].Dependencies)
}

func TestFactory_JavaRecords(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "UserService.java", `package com.example;

public class UserService {
    private User user;
}

class User {
}
`)
	factory := analyzer.NewFactory()
	fileAnalyzer, err := factory.AnalyzerFor(path)
	require.NoError(t, err)

	records, err := fileAnalyzer.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	g := graph.BuildStatic(records)
	assert.Equal(t, 1, g.Edge("com.example.UserService", "com.example.User").Weight)
}

func TestRepoAnalyzer_Analyze(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/user.py", `def get_user(user_id):
    return user_id
`)
	writeFile(t, root, "app/order.py", `def get_order():
    pass
`)

	repoAnalyzer := analyzer.NewRepoAnalyzer(
		analyzer.WithTracerOptions(python.WithTargetFunctions("get_user")),
	)
	result, err := repoAnalyzer.Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Contains(t, result.Registry, "app.user.get_user")
	assert.Contains(t, result.Registry, "app.order.get_order")
	assert.Contains(t, result.Targets, "get_user")
	assert.Empty(t, result.Skipped)
}

func TestRepoAnalyzer_SkipAndContinue(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bad.py", `def broken():
    return missing_name
`)
	writeFile(t, root, "good.py", `value = 1
`)

	var logged bytes.Buffer
	repoAnalyzer := analyzer.NewRepoAnalyzer(
		analyzer.WithLogger(slog.New(slog.NewTextHandler(&logged, nil))),
	)
	result, err := repoAnalyzer.Analyze(context.Background(), root)
	require.NoError(t, err)

	// the failing file is reported and skipped, the scan continues
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0], "bad.py")
	assert.Contains(t, logged.String(), "skipping file")
	assert.Contains(t, result.Registry, "good.value")
}

func TestRepoAnalyzer_WithScanConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/mod.py", "a = 1\n")
	writeFile(t, root, "skip/ignored.py", "b = 2\n")

	repoAnalyzer := analyzer.NewRepoAnalyzer(
		analyzer.WithScanConfig(&repository.Config{
			IgnoreRules: []string{"skip"},
			Extensions:  []string{".py"},
		}),
	)
	result, err := repoAnalyzer.Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.Contains(t, result.Registry, "pkg.mod.a")
	assert.NotContains(t, result.Registry, "skip.ignored.b")
}
