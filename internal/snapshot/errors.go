package snapshot

import "errors"

// ErrRead reports a document file that could not be read (missing,
// permission denied, I/O fault).
var ErrRead = errors.New("cannot read document")

// ErrParse reports document content that is not valid JSON.
var ErrParse = errors.New("cannot parse document")

// ErrDirCreate reports a target directory that could not be created before a
// write.
var ErrDirCreate = errors.New("cannot create directory")

// ErrWrite reports a document file that could not be serialized or written.
var ErrWrite = errors.New("cannot write document")

// ErrMissingField reports a book reference entry without a valid dataPath
// string; the wrapped message names the entry's zero-based index.
var ErrMissingField = errors.New("invalid book reference")
