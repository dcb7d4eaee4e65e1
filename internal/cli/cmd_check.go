package cli

import (
	"fmt"
	"io"

	"github.com/Repayment-inc/sheet-up/internal/snapshot"

	flag "github.com/spf13/pflag"
)

const checkHelp = `  check [workspace]       Verify the whole document graph loads`

func cmdCheck(o *IO, cfg Config, workDir string, args []string) error {
	if hasHelpFlag(args) {
		printCheckHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("check", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	jobs := flagSet.IntP("jobs", "j", cfg.Jobs, "Concurrent book reads")

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		return parseErr
	}

	positional := flagSet.Args()
	if len(positional) > 1 {
		return fmt.Errorf("%w: %v", errTooManyArgs, positional[1:])
	}

	path := resolveWorkspacePath(cfg, workDir, positional)

	snap, loadErr := snapshot.LoadWithOptions(path, snapshot.LoadOptions{Jobs: *jobs})
	if loadErr != nil {
		return loadErr
	}

	o.Printf("ok: %s (%d books)\n", snap.Workspace.FilePath, len(snap.Books))

	return nil
}

func printCheckHelp(o *IO) {
	o.Println(`Usage: sheetup check [workspace] [--jobs N]

Load the workspace and every referenced book without writing anything.
Exits 0 when the whole graph loads; prints the first failure otherwise.

Options:
  -j, --jobs N   Read up to N book files concurrently (default from config)`)
}
