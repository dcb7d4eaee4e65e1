package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Repayment-inc/sheet-up/internal/snapshot"

	flag "github.com/spf13/pflag"
)

const dumpHelp = `  dump [workspace]        Print the assembled snapshot as JSON`

func cmdDump(o *IO, cfg Config, workDir string, args []string) error {
	if hasHelpFlag(args) {
		printDumpHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("dump", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	compact := flagSet.Bool("compact", false, "Minified single-line output")

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

	var (
		payload    []byte
		marshalErr error
	)

	if *compact {
		payload, marshalErr = json.Marshal(snap)
	} else {
		payload, marshalErr = json.MarshalIndent(snap, "", "  ")
	}

	if marshalErr != nil {
		return fmt.Errorf("serializing snapshot: %w", marshalErr)
	}

	o.Println(string(payload))

	return nil
}

func printDumpHelp(o *IO) {
	o.Println(`Usage: sheetup dump [workspace] [--compact]

Print the whole snapshot - the workspace document plus every book,
each paired with its file path - as one JSON value on stdout.

Options:
  --compact   Minified single-line output`)
}
