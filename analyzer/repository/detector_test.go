package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/microfy/analyzer/repository"
)

func TestDetector_Python(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", "[project]\nname = \"shop-backend\"\n")
	writeFile(t, root, "src/app/main.py", "x = 1\n")

	detector := repository.NewDetector()
	project, err := detector.Detect(context.Background(), filepath.Join(root, "src", "app", "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "python", project.Type)
	assert.Equal(t, "shop-backend", project.Name)
	assert.Equal(t, root, project.RootPath)
}

func TestDetector_Java(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pom.xml", "<project><artifactId>orders</artifactId></project>\n")
	writeFile(t, root, "src/Main.java", "class Main {}\n")

	detector := repository.NewDetector()
	project, err := detector.Detect(context.Background(), filepath.Join(root, "src"))
	require.NoError(t, err)
	assert.Equal(t, "java", project.Type)
	assert.Equal(t, "orders", project.Name)
}

func TestDetector_GoModule(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/tool\n\ngo 1.23\n")

	detector := repository.NewDetector()
	project, err := detector.Detect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "go", project.Type)
	assert.Equal(t, "example.com/tool", project.Name)
}

func TestDetector_GitFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/config", "[remote \"origin\"]\n\turl = https://example.com/team/repo.git\n")
	writeFile(t, root, "notes.txt", "n\n")

	detector := repository.NewDetector()
	project, err := detector.Detect(context.Background(), filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "git", project.Type)
	assert.Equal(t, "https://example.com/team/repo.git", project.Origin)
	assert.Equal(t, filepath.Base(root), project.Name)
}
