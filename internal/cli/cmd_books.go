package cli

import (
	"github.com/Repayment-inc/sheet-up/internal/snapshot"
)

const booksHelp = `  books [workspace]       List resolved book paths in reference order`

func cmdBooks(o *IO, cfg Config, workDir string, args []string) error {
	if hasHelpFlag(args) {
		printBooksHelp(o)

		return nil
	}

	positional, err := parsePositional("books", args)
	if err != nil {
		return err
	}

	path := resolveWorkspacePath(cfg, workDir, positional)

	snap, loadErr := snapshot.Load(path)
	if loadErr != nil {
		return loadErr
	}

	for _, book := range snap.Books {
		o.Println(book.FilePath)
	}

	return nil
}

func printBooksHelp(o *IO) {
	o.Println(`Usage: sheetup books [workspace]

Print the absolute path of every book referenced by the workspace,
one per line, in the order the references appear.`)
}
