package snapshot

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Reader is the read primitive the resolver needs from the store.
type Reader interface {
	ReadDocument(path string) (any, error)
}

// Resolver turns the book references inside a workspace document into loaded
// book payloads.
type Resolver struct {
	Reader Reader

	// Jobs caps concurrent book reads. 0 or 1 reads sequentially, in
	// reference order. Any higher value reads concurrently; order and error
	// reporting stay deterministic (see ResolveBooks).
	Jobs int
}

// ResolveBooks extracts the "books" reference list from workspaceData,
// resolves each entry's dataPath against the workspace document's directory,
// and loads every referenced book in reference order.
//
// A missing or absent "books" key (or one that is not an array) means no
// books; that is not an error. A reference entry whose dataPath is missing
// or not a string aborts resolution with ErrMissingField naming the entry's
// zero-based index. Read and parse failures propagate unchanged. Resolution
// is fail-fast: on any failure no partial result is returned, and with
// concurrent reads the reported failure is always the lowest-index one.
func (r Resolver) ResolveBooks(workspacePath string, workspaceData any) ([]Document, error) {
	workspaceDir := filepath.Dir(workspacePath)
	refs := bookRefs(workspaceData)

	if r.Jobs > 1 && len(refs) > 1 {
		return r.resolveParallel(workspaceDir, refs)
	}

	return r.resolveSequential(workspaceDir, refs)
}

func (r Resolver) resolveSequential(workspaceDir string, refs []any) ([]Document, error) {
	books := make([]Document, 0, len(refs))

	for index, ref := range refs {
		path, extractErr := bookPath(workspaceDir, ref, index)
		if extractErr != nil {
			return nil, extractErr
		}

		data, readErr := r.Reader.ReadDocument(path)
		if readErr != nil {
			return nil, readErr
		}

		books = append(books, Document{FilePath: path, Data: data})
	}

	return books, nil
}

// resolveParallel reads book files concurrently, at most r.Jobs at a time.
//
// Reference extraction still walks entries in order, so a bad entry stops
// any later read from being dispatched. After all dispatched reads finish,
// the lowest-index failure wins — a read error at index 0 beats a missing
// dataPath at index 1, matching what sequential resolution would report.
func (r Resolver) resolveParallel(workspaceDir string, refs []any) ([]Document, error) {
	paths := make([]string, 0, len(refs))

	var fieldErr error

	for index, ref := range refs {
		path, extractErr := bookPath(workspaceDir, ref, index)
		if extractErr != nil {
			fieldErr = extractErr

			break
		}

		paths = append(paths, path)
	}

	values := make([]any, len(paths))
	readErrs := make([]error, len(paths))
	sem := make(chan struct{}, r.Jobs)

	var wg sync.WaitGroup

	for index, path := range paths {
		index, path := index, path

		wg.Add(1)

		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			values[index], readErrs[index] = r.Reader.ReadDocument(path)
		}()
	}

	wg.Wait()

	for _, readErr := range readErrs {
		if readErr != nil {
			return nil, readErr
		}
	}

	if fieldErr != nil {
		return nil, fieldErr
	}

	books := make([]Document, len(paths))
	for index, path := range paths {
		books[index] = Document{FilePath: path, Data: values[index]}
	}

	return books, nil
}

// bookRefs pulls the raw "books" array out of a workspace value. A missing
// key or a non-array value is treated as no references.
func bookRefs(workspaceData any) []any {
	obj, ok := workspaceData.(map[string]any)
	if !ok {
		return nil
	}

	refs, ok := obj["books"].([]any)
	if !ok {
		return nil
	}

	return refs
}

// bookPath extracts the dataPath string from one reference entry and joins
// it with the workspace directory. An absolute dataPath overrides the base
// directory per normal path semantics.
func bookPath(workspaceDir string, ref any, index int) (string, error) {
	obj, ok := ref.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: books[%d].dataPath is missing or invalid", ErrMissingField, index)
	}

	relPath, ok := obj["dataPath"].(string)
	if !ok {
		return "", fmt.Errorf("%w: books[%d].dataPath is missing or invalid", ErrMissingField, index)
	}

	if filepath.IsAbs(relPath) {
		return relPath, nil
	}

	return filepath.Join(workspaceDir, relPath), nil
}
