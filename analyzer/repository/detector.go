package repository

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Project describes a detected repository root.
type Project struct {
	RootPath string
	Type     string
	Name     string
	Origin   string
}

type marker struct {
	file string
	kind string
}

// Detector identifies a repository's root directory and primary language by
// walking up from a location until a project marker is found. Python and
// Java markers take precedence since those are the languages analyzed.
type Detector struct {
	fs      afs.Service
	markers []marker
}

func NewDetector() *Detector {
	return &Detector{
		fs: afs.New(),
		markers: []marker{
			{"pyproject.toml", "python"},
			{"setup.py", "python"},
			{"requirements.txt", "python"},
			{"pom.xml", "java"},
			{"build.gradle", "java"},
			{"go.mod", "go"},
			{".git", "git"},
		},
	}
}

// Detect returns project information for the repository containing location.
func (d *Detector) Detect(ctx context.Context, location string) (*Project, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	dir := abs
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		dir = filepath.Dir(abs)
	}
	root, kind := d.findRoot(dir)
	project := &Project{RootPath: abs, Type: "unknown"}
	if root != "" {
		project.RootPath = root
		project.Type = kind
		project.Name = d.projectName(ctx, root, kind)
		project.Origin = gitOrigin(root)
	}
	if project.Name == "" {
		project.Name = filepath.Base(project.RootPath)
	}
	return project, nil
}

func (d *Detector) findRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, m := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, m.file)); err == nil {
				return dir, m.kind
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

func (d *Detector) projectName(ctx context.Context, root, kind string) string {
	switch kind {
	case "python":
		if name := matchFile(filepath.Join(root, "pyproject.toml"), `name\s*=\s*["']([^"']+)["']`); name != "" {
			return name
		}
		return matchFile(filepath.Join(root, "setup.py"), `name\s*=\s*["']([^"']+)["']`)
	case "java":
		if name := matchFile(filepath.Join(root, "pom.xml"), `<artifactId>([^<]+)</artifactId>`); name != "" {
			return name
		}
		return matchFile(filepath.Join(root, "build.gradle"), `(?:rootProject|project)\.name\s*=\s*['"]([^'"]+)['"]`)
	case "go":
		goModPath := filepath.Join(root, "go.mod")
		if content, _ := d.fs.DownloadWithURL(ctx, goModPath); len(content) > 0 {
			if mod, _ := modfile.Parse(goModPath, content, nil); mod != nil {
				return mod.Module.Mod.Path
			}
		}
	}
	return ""
}

func matchFile(path, expr string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	matches := regexp.MustCompile(expr).FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

// gitOrigin reads the origin remote URL from the repository's git config.
func gitOrigin(root string) string {
	file, err := os.Open(filepath.Join(root, ".git", "config"))
	if err != nil {
		return ""
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, `[remote "origin"]`) {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			return strings.TrimPrefix(line, "url = ")
		}
	}
	return ""
}
