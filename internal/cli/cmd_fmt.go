package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Repayment-inc/sheet-up/internal/snapshot"

	flag "github.com/spf13/pflag"
)

const fmtHelp = `  fmt [workspace]         Rewrite the graph in canonical form`

func cmdFmt(o *IO, cfg Config, workDir string, args []string) error {
	if hasHelpFlag(args) {
		printFmtHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("fmt", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	checkOnly := flagSet.Bool("check", false, "Report files that would change, write nothing")

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		return parseErr
	}

	positional := flagSet.Args()
	if len(positional) > 1 {
		return fmt.Errorf("%w: %v", errTooManyArgs, positional[1:])
	}

	path := resolveWorkspacePath(cfg, workDir, positional)

	snap, loadErr := snapshot.Load(path)
	if loadErr != nil {
		return loadErr
	}

	if *checkOnly {
		return fmtCheck(o, snap)
	}

	saveErr := snapshot.Save(snap)
	if saveErr != nil {
		return saveErr
	}

	o.Printf("formatted %d files\n", 1+len(snap.Books))

	return nil
}

// fmtCheck reports documents whose on-disk bytes differ from the canonical
// serialized form. Files that would change are warnings, so the exit code
// flips to 1 without aborting the listing.
func fmtCheck(o *IO, snap *snapshot.Snapshot) error {
	docs := append([]snapshot.Document{snap.Workspace}, snap.Books...)

	for _, doc := range docs {
		canonical, marshalErr := json.MarshalIndent(doc.Data, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("serializing %s: %w", doc.FilePath, marshalErr)
		}

		canonical = append(canonical, '\n')

		onDisk, readErr := os.ReadFile(doc.FilePath)
		if readErr != nil {
			return fmt.Errorf("rereading %s: %w", doc.FilePath, readErr)
		}

		if !bytes.Equal(canonical, onDisk) {
			o.Warn("not canonical", doc.FilePath)
		}
	}

	return nil
}

func printFmtHelp(o *IO) {
	o.Println(`Usage: sheetup fmt [workspace] [--check]

Load the snapshot and immediately save it back unchanged, normalizing
every file of the graph to pretty-printed JSON with a trailing newline.

Options:
  --check   List files that are not in canonical form; write nothing`)
}
