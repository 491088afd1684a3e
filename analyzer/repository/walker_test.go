package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/microfy/analyzer/repository"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relative(t *testing.T, root string, files []string) []string {
	t.Helper()
	var out []string
	for _, file := range files {
		idx := strings.Index(file, root)
		require.GreaterOrEqual(t, idx, 0, file)
		out = append(out, strings.Trim(strings.TrimPrefix(file[idx:], root), "/"))
	}
	sort.Strings(out)
	return out
}

func TestWalker_List(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/main.py", "x = 1\n")
	writeFile(t, root, "app/util/helpers.py", "y = 2\n")
	writeFile(t, root, "app/__pycache__/main.cpython-311.pyc", "")
	writeFile(t, root, "tests/test_main.py", "z = 3\n")
	writeFile(t, root, "README.md", "docs\n")

	walker := repository.NewWalker(&repository.Config{
		IgnoreRules: []string{"__pycache__", "/tests*"},
		Extensions:  []string{".py"},
	})
	files, err := walker.List(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"app/main.py", "app/util/helpers.py"}, relative(t, root, files))
}

func TestWalker_SegmentRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py", "a = 1\n")
	writeFile(t, root, "src/.venv/lib/site.py", "b = 2\n")

	walker := repository.NewWalker(&repository.Config{
		IgnoreRules: []string{".venv"},
		Extensions:  []string{".py"},
	})
	files, err := walker.List(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.py"}, relative(t, root, files))
}

func TestWalker_DefaultConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/mod.py", "a = 1\n")
	writeFile(t, root, ".git/config", "[core]\n")

	walker := repository.NewWalker(nil)
	files, err := walker.List(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/mod.py"}, relative(t, root, files))
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		file string
		root string
		want string
	}{
		{"/repo/app/main.py", "/repo", "app.main"},
		{"/repo/app/util/helpers.py", "/repo/", "app.util.helpers"},
		{"file:///repo/pkg/mod.py", "/repo", "pkg.mod"},
		{"/repo/top.py", "/repo", "top"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, repository.ModuleName(test.file, test.root), test.file)
	}
}

func TestLoadConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scan.yaml", "ignoreRules:\n  - __pycache__\n  - /build*\nextensions:\n  - .py\n  - .pyi\n")

	config, err := repository.LoadConfig(context.Background(), filepath.Join(root, "scan.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"__pycache__", "/build*"}, config.IgnoreRules)
	assert.Equal(t, []string{".py", ".pyi"}, config.Extensions)
}

func TestLoadConfig_Defaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scan.yaml", "{}\n")

	config, err := repository.LoadConfig(context.Background(), filepath.Join(root, "scan.yaml"))
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultConfig().Extensions, config.Extensions)
	assert.NotEmpty(t, config.IgnoreRules)
}
