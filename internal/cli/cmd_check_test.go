package cli

import (
	"path/filepath"
	"testing"
)

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestWorkspace(t, dir)

	code, stdout, stderr := runCLI(t, dir, "check", "project.json")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, stderr)
	}

	assertContains(t, stdout, "ok: "+filepath.Join(dir, "project.json"))
	assertContains(t, stdout, "(2 books)")
}

func TestCheckCommandParallel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestWorkspace(t, dir)

	code, stdout, stderr := runCLI(t, dir, "check", "project.json", "--jobs", "3")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, stderr)
	}

	assertContains(t, stdout, "(2 books)")
}

func TestCheckCommandMissingBook(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "project.json"), `{"books": [{"dataPath": "gone.json"}]}`)

	code, _, stderr := runCLI(t, dir, "check", "project.json")
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}

	assertContains(t, stderr, "cannot read document")
	assertContains(t, stderr, filepath.Join(dir, "gone.json"))
}

func TestCheckCommandBadJobsFlag(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCLI(t, t.TempDir(), "check", "--jobs", "many")
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}

	assertContains(t, stderr, "error:")
}
