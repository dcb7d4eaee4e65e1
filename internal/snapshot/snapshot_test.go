package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadAssemblesSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeRaw(t, filepath.Join(dir, "project.json"), `{
		"name": "novel",
		"books": [
			{"dataPath": "books/one.json", "title": "One"},
			{"dataPath": "books/two.json", "title": "Two"}
		]
	}`)
	mustMkdir(t, filepath.Join(dir, "books"))
	writeRaw(t, filepath.Join(dir, "books", "one.json"), `{"chapters": ["a"]}`)
	writeRaw(t, filepath.Join(dir, "books", "two.json"), `{"chapters": ["b", "c"]}`)

	snap, err := Load(filepath.Join(dir, "project.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if snap.Workspace.FilePath != filepath.Join(dir, "project.json") {
		t.Errorf("workspace path = %q", snap.Workspace.FilePath)
	}

	wantBooks := []Document{
		{FilePath: filepath.Join(dir, "books", "one.json"), Data: map[string]any{"chapters": []any{"a"}}},
		{FilePath: filepath.Join(dir, "books", "two.json"), Data: map[string]any{"chapters": []any{"b", "c"}}},
	}

	if diff := cmp.Diff(wantBooks, snap.Books); diff != "" {
		t.Errorf("books mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingBooksKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeRaw(t, filepath.Join(dir, "project.json"), `{"name": "no books here"}`)

	snap, err := Load(filepath.Join(dir, "project.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(snap.Books) != 0 {
		t.Errorf("expected no books, got %d", len(snap.Books))
	}
}

func TestLoadSurfacesWorkspaceErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, missingErr := Load(filepath.Join(dir, "absent.json"))
	if !errors.Is(missingErr, ErrRead) {
		t.Errorf("missing workspace: expected ErrRead, got %v", missingErr)
	}

	writeRaw(t, filepath.Join(dir, "broken.json"), "][")

	_, parseErr := Load(filepath.Join(dir, "broken.json"))
	if !errors.Is(parseErr, ErrParse) {
		t.Errorf("broken workspace: expected ErrParse, got %v", parseErr)
	}
}

// Load followed by Save with the unmodified snapshot must reproduce every
// file up to pretty-print normalization, and a second load must see
// identical data at identical locations.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Deliberately ragged formatting; the round trip normalizes it.
	writeRaw(t, filepath.Join(dir, "project.json"),
		`{"name":"novel","books":[{"dataPath":"one.json"},{"dataPath":"two.json"}]}`)
	writeRaw(t, filepath.Join(dir, "one.json"), `{   "n": 1 }`)
	writeRaw(t, filepath.Join(dir, "two.json"), `{"deep":{"tree":[true,null,"x"]}}`)

	first, loadErr := Load(filepath.Join(dir, "project.json"))
	if loadErr != nil {
		t.Fatalf("first load: %v", loadErr)
	}

	saveErr := Save(first)
	if saveErr != nil {
		t.Fatalf("save: %v", saveErr)
	}

	second, reloadErr := Load(filepath.Join(dir, "project.json"))
	if reloadErr != nil {
		t.Fatalf("second load: %v", reloadErr)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip changed the snapshot (-first +second):\n%s", diff)
	}

	for _, name := range []string{"project.json", "one.json", "two.json"} {
		raw, readErr := os.ReadFile(filepath.Join(dir, name))
		if readErr != nil {
			t.Fatalf("reading %s: %v", name, readErr)
		}

		if !strings.HasSuffix(string(raw), "\n") || strings.HasSuffix(string(raw), "\n\n") {
			t.Errorf("%s does not end with exactly one newline", name)
		}
	}
}

func TestSavePartialWriteExposure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	writeRaw(t, blocker, "a file, not a directory")

	snap := &Snapshot{
		Workspace: Document{
			FilePath: filepath.Join(dir, "project.json"),
			Data:     map[string]any{"name": "ws"},
		},
		Books: []Document{
			{FilePath: filepath.Join(dir, "zero.json"), Data: map[string]any{"i": float64(0)}},
			{FilePath: filepath.Join(blocker, "sub", "one.json"), Data: map[string]any{"i": float64(1)}},
			{FilePath: filepath.Join(dir, "two.json"), Data: map[string]any{"i": float64(2)}},
		},
	}

	err := Save(snap)
	if !errors.Is(err, ErrDirCreate) {
		t.Fatalf("expected ErrDirCreate from book 1, got %v", err)
	}

	// Book 0 precedes the failure and stays durably written.
	raw, readErr := os.ReadFile(filepath.Join(dir, "zero.json"))
	if readErr != nil {
		t.Fatalf("book 0 was not written: %v", readErr)
	}

	if !strings.Contains(string(raw), `"i": 0`) {
		t.Errorf("book 0 content unexpected: %q", raw)
	}

	// Book 2 follows the failure and is never attempted.
	if _, statErr := os.Stat(filepath.Join(dir, "two.json")); !os.IsNotExist(statErr) {
		t.Errorf("book 2 should not exist, stat: %v", statErr)
	}
}

func TestSaveWorkspaceFailureWritesNoBooks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	writeRaw(t, blocker, "a file, not a directory")

	snap := &Snapshot{
		Workspace: Document{
			FilePath: filepath.Join(blocker, "sub", "project.json"),
			Data:     map[string]any{},
		},
		Books: []Document{
			{FilePath: filepath.Join(dir, "zero.json"), Data: map[string]any{}},
		},
	}

	err := Save(snap)
	if !errors.Is(err, ErrDirCreate) {
		t.Fatalf("expected ErrDirCreate from workspace write, got %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "zero.json")); !os.IsNotExist(statErr) {
		t.Errorf("no book should be written after a workspace failure, stat: %v", statErr)
	}
}

func TestLoadWithOptionsParallel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeRaw(t, filepath.Join(dir, "project.json"),
		`{"books":[{"dataPath":"a.json"},{"dataPath":"b.json"},{"dataPath":"c.json"}]}`)
	writeRaw(t, filepath.Join(dir, "a.json"), `{"n": 1}`)
	writeRaw(t, filepath.Join(dir, "b.json"), `{"n": 2}`)
	writeRaw(t, filepath.Join(dir, "c.json"), `{"n": 3}`)

	sequential, seqErr := Load(filepath.Join(dir, "project.json"))
	if seqErr != nil {
		t.Fatalf("sequential load: %v", seqErr)
	}

	parallel, parErr := LoadWithOptions(filepath.Join(dir, "project.json"), LoadOptions{Jobs: 3})
	if parErr != nil {
		t.Fatalf("parallel load: %v", parErr)
	}

	if diff := cmp.Diff(sequential, parallel); diff != "" {
		t.Errorf("parallel load differs from sequential (-seq +par):\n%s", diff)
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()

	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}
