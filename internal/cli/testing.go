package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI invokes Run with an isolated environment and returns exit code,
// stdout, and stderr. The global config lookup is pointed at an empty
// directory so the host machine's config never leaks into tests.
func runCLI(t *testing.T, workDir string, args ...string) (int, string, string) {
	t.Helper()

	var out, errOut bytes.Buffer

	env := map[string]string{
		"XDG_CONFIG_HOME": filepath.Join(t.TempDir(), "xdg"),
	}

	argv := append([]string{"sheetup", "-C", workDir}, args...)
	code := Run(strings.NewReader(""), &out, &errOut, argv, env)

	return code, out.String(), errOut.String()
}

// writeTestFile writes a fixture file, creating parent directories.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	mkdirErr := os.MkdirAll(filepath.Dir(path), 0o750)
	if mkdirErr != nil {
		t.Fatalf("mkdir for %s: %v", path, mkdirErr)
	}

	writeErr := os.WriteFile(path, []byte(content), 0o600)
	if writeErr != nil {
		t.Fatalf("writing %s: %v", path, writeErr)
	}
}

// writeTestWorkspace lays out a workspace with two books under dir and
// returns the workspace path.
func writeTestWorkspace(t *testing.T, dir string) string {
	t.Helper()

	wsPath := filepath.Join(dir, "project.json")
	writeTestFile(t, wsPath, `{
		"name": "novel",
		"books": [
			{"dataPath": "books/one.json"},
			{"dataPath": "books/two.json"}
		]
	}`)
	writeTestFile(t, filepath.Join(dir, "books", "one.json"), `{"chapters": ["a"]}`)
	writeTestFile(t, filepath.Join(dir, "books", "two.json"), `{"chapters": ["b"]}`)

	return wsPath
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if !strings.Contains(haystack, needle) {
		t.Errorf("output %q does not contain %q", haystack, needle)
	}
}

func assertNotContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if strings.Contains(haystack, needle) {
		t.Errorf("output %q should not contain %q", haystack, needle)
	}
}
