package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// Run is the main entry point. Returns exit code.
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	// Parse global flags
	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	// Default workDir to current directory
	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	// Load and validate config
	cliOverrides := Config{WorkspaceFile: flags.workspaceFile}

	cfg, sources, err := LoadConfig(workDir, flags.configPath, cliOverrides, flags.hasWorkspaceOverride, env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	cmdArgs := flags.remaining[1:]

	// Handle help flags
	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	// Create IO for command
	ioCtx := NewIO(out, errOut)

	// Dispatch to command
	var cmdErr error

	switch cmd {
	case "show":
		cmdErr = cmdShow(ioCtx, cfg, workDir, cmdArgs)
	case "books":
		cmdErr = cmdBooks(ioCtx, cfg, workDir, cmdArgs)
	case "check":
		cmdErr = cmdCheck(ioCtx, cfg, workDir, cmdArgs)
	case "fmt":
		cmdErr = cmdFmt(ioCtx, cfg, workDir, cmdArgs)
	case "dump":
		cmdErr = cmdDump(ioCtx, cfg, workDir, cmdArgs)
	case "print-config":
		cmdErr = cmdPrintConfig(ioCtx, cfg, sources)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}

	// Fatal error
	if cmdErr != nil {
		fprintln(errOut, "error:", cmdErr)

		return 1
	}

	// Finish handles warnings and exit code
	return ioCtx.Finish()
}

type globalFlags struct {
	workDir              string
	configPath           string
	workspaceFile        string
	hasWorkspaceOverride bool
	remaining            []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --workspace flag
	if arg == "--workspace" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.workspaceFile = args[idx+1]
		flags.hasWorkspaceOverride = true

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--workspace="); ok {
		flags.workspaceFile = after
		flags.hasWorkspaceOverride = true

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", errUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func cmdPrintConfig(o *IO, cfg Config, sources ConfigSources) error {
	formatted, err := FormatConfig(cfg)
	if err != nil {
		return err
	}

	o.Println(formatted)

	// Print sources
	o.Println("")
	o.Println("# Sources:")

	if sources.Global != "" {
		o.Println("#   global:", sources.Global)
	}

	if sources.Project != "" {
		o.Println("#   project:", sources.Project)
	}

	if sources.Global == "" && sources.Project == "" {
		o.Println("#   (using defaults only)")
	}

	return nil
}

// resolveWorkspacePath picks the workspace file for a command: the first
// positional argument if given, the configured workspace_file otherwise,
// made absolute against the working directory.
func resolveWorkspacePath(cfg Config, workDir string, positional []string) string {
	path := cfg.WorkspaceFile
	if len(positional) > 0 {
		path = positional[0]
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	return path
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == helpFlag {
			return true
		}
	}

	return false
}

func printUsage(writer io.Writer) {
	fprintln(writer, `sheetup - workspace snapshot tool for sheet-up document graphs

Usage: sheetup [options] <command> [args]

Options:
  -C, --cwd <dir>       Run as if started in <dir>
  -c, --config <file>   Use specified config file
  --workspace <file>    Override the configured workspace file

Commands:`)
	fprintln(writer, showHelp)
	fprintln(writer, booksHelp)
	fprintln(writer, checkHelp)
	fprintln(writer, fmtHelp)
	fprintln(writer, dumpHelp)
	fprintln(writer, `  print-config            Show resolved configuration`)
}
