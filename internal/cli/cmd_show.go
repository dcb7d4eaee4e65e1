package cli

import (
	"fmt"
	"io"

	"github.com/Repayment-inc/sheet-up/internal/snapshot"

	flag "github.com/spf13/pflag"
)

const showHelp = `  show [workspace]        Summarize a workspace snapshot`

func cmdShow(o *IO, cfg Config, workDir string, args []string) error {
	if hasHelpFlag(args) {
		printShowHelp(o)

		return nil
	}

	positional, err := parsePositional("show", args)
	if err != nil {
		return err
	}

	path := resolveWorkspacePath(cfg, workDir, positional)

	snap, loadErr := snapshot.Load(path)
	if loadErr != nil {
		return loadErr
	}

	o.Println("workspace:", snap.Workspace.FilePath)
	o.Printf("books: %d\n", len(snap.Books))

	for index, book := range snap.Books {
		o.Printf("  [%d] %s (%s)\n", index, book.FilePath, describeValue(book.Data))
	}

	return nil
}

func printShowHelp(o *IO) {
	o.Println(`Usage: sheetup show [workspace]

Load the workspace snapshot and print a one-line summary per book.
With no argument the configured workspace file is used.`)
}

// parsePositional parses a command's arguments when the command takes no
// flags of its own, allowing at most one positional workspace path.
func parsePositional(name string, args []string) ([]string, error) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		return nil, parseErr
	}

	positional := flagSet.Args()
	if len(positional) > 1 {
		return nil, fmt.Errorf("%w: %v", errTooManyArgs, positional[1:])
	}

	return positional, nil
}

// describeValue renders a short shape description of a document value.
func describeValue(data any) string {
	switch v := data.(type) {
	case map[string]any:
		if len(v) == 1 {
			return "1 key"
		}

		return fmt.Sprintf("%d keys", len(v))
	case []any:
		if len(v) == 1 {
			return "1 item"
		}

		return fmt.Sprintf("%d items", len(v))
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
