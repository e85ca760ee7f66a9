package cli

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const modulePath = "seltext"

// moduleImports follows the in-module imports of pkg (a module-relative
// directory) and returns every import path reached, across all platforms.
func moduleImports(t *testing.T, root, pkg string) map[string]string {
	t.Helper()

	seen := map[string]string{} // import path -> first importing package
	queue := []string{pkg}
	visited := map[string]bool{}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]
		if visited[dir] {
			continue
		}
		visited[dir] = true

		files, err := filepath.Glob(filepath.Join(root, dir, "*.go"))
		if err != nil {
			t.Fatalf("Glob(%s) error: %v", dir, err)
		}
		for _, file := range files {
			if strings.HasSuffix(file, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("ParseFile(%s) error: %v", file, err)
			}
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				if _, ok := seen[path]; !ok {
					seen[path] = dir
				}
				if rel, ok := strings.CutPrefix(path, modulePath+"/"); ok {
					queue = append(queue, rel)
				}
			}
		}
	}
	return seen
}

func TestSeltextDoesNotLinkHotkey(t *testing.T) {
	root := filepath.Join("..", "..")
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Fatalf("module root not found: %v", err)
	}

	imports := moduleImports(t, root, "cmd/seltext")
	for path, from := range imports {
		if strings.HasPrefix(path, "golang.design/x/hotkey") || path == modulePath+"/internal/hotkey" {
			t.Errorf("cmd/seltext reaches %s through %s", path, from)
		}
	}
	if _, ok := imports["golang.design/x/clipboard"]; !ok {
		t.Error("import walk did not reach the clipboard backend; the walk is broken")
	}

	listen := moduleImports(t, root, "cmd/seltext-listen")
	if _, ok := listen["golang.design/x/hotkey"]; !ok {
		t.Error("cmd/seltext-listen does not import the hotkey library")
	}
}
