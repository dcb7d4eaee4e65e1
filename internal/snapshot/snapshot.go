// Package snapshot loads and saves a sheet-up document graph: one workspace
// JSON file that references zero or more book JSON files by relative path.
//
// A snapshot is assembled fresh on every load and owned by the caller until
// it is handed back to Save. Nothing is cached between calls.
package snapshot

// Document pairs a file location with its decoded JSON value.
//
// The location string is the document's identity: two payloads refer to the
// same document iff their FilePath values are equal. Data is the plain
// encoding/json value tree (map[string]any, []any, string, float64, bool,
// nil); the package only ever inspects the "books" and "dataPath" fields,
// everything else passes through untouched.
type Document struct {
	FilePath string `json:"filePath"`
	Data     any    `json:"data"`
}

// Snapshot is one loaded workspace document plus all of its resolved books,
// in the order their references appear in the workspace's "books" array.
type Snapshot struct {
	Workspace Document   `json:"workspace"`
	Books     []Document `json:"books"`
}

// LoadOptions configures Load behavior.
type LoadOptions struct {
	// Jobs caps concurrent book reads. 0 or 1 reads sequentially.
	Jobs int
}

// Load reads the workspace document at workspacePath, resolves and loads
// every referenced book, and assembles the snapshot.
//
// Any failure — unreadable or unparsable file, or a book reference without a
// valid dataPath — aborts the whole load; no partial snapshot is returned.
func Load(workspacePath string) (*Snapshot, error) {
	return LoadWithOptions(workspacePath, LoadOptions{})
}

// LoadWithOptions is Load with explicit options. With opts.Jobs > 1 the book
// files are read concurrently; the returned book order is still reference
// order, and on failure the error is always the lowest-index failing entry.
func LoadWithOptions(workspacePath string, opts LoadOptions) (*Snapshot, error) {
	store := Store{}

	workspaceData, readErr := store.ReadDocument(workspacePath)
	if readErr != nil {
		return nil, readErr
	}

	resolver := Resolver{Reader: store, Jobs: opts.Jobs}

	books, resolveErr := resolver.ResolveBooks(workspacePath, workspaceData)
	if resolveErr != nil {
		return nil, resolveErr
	}

	return &Snapshot{
		Workspace: Document{FilePath: workspacePath, Data: workspaceData},
		Books:     books,
	}, nil
}

// Save writes the workspace document to its recorded location, then each
// book in sequence order, stopping at the first failure.
//
// Saving is not transactional across files: when a book write fails, earlier
// books in the sequence have already been written and stay written, and the
// remaining books are never attempted. Each individual file write is atomic
// (temp file + rename), so no single file is ever left torn.
func Save(snap *Snapshot) error {
	store := Store{}

	writeErr := store.WriteDocument(snap.Workspace.FilePath, snap.Workspace.Data)
	if writeErr != nil {
		return writeErr
	}

	for _, book := range snap.Books {
		bookErr := store.WriteDocument(book.FilePath, book.Data)
		if bookErr != nil {
			return bookErr
		}
	}

	return nil
}
