// sheetsh is an interactive shell for inspecting and editing a sheet-up
// workspace snapshot.
//
// Usage:
//
//	sheetsh [workspace-file]
//
// Commands (in REPL):
//
//	open <workspace>        Load a workspace snapshot
//	info                    Show workspace path and book count
//	books                   List book index + path
//	show <i|ws>             Pretty-print book i (or the workspace)
//	get <i|ws> <dot.path>   Print the value at an object key path
//	set <i|ws> <dot.path> <json>   Replace the value at a key path
//	save                    Write the whole snapshot back to disk
//	reload                  Discard edits and load again from disk
//	help                    Show this help
//	exit / quit / q         Exit
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Repayment-inc/sheet-up/internal/snapshot"
	"github.com/peterh/liner"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	repl := &REPL{}

	if len(os.Args) > 2 {
		printUsage()

		return errors.New("too many arguments")
	}

	if len(os.Args) == 2 {
		openErr := repl.open(os.Args[1])
		if openErr != nil {
			return openErr
		}
	}

	return repl.Run()
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  sheetsh [workspace-file]   Start the shell, optionally loading a workspace\n")
}

var replCommands = []string{
	"open", "info", "books", "show", "get", "set", "save", "reload", "help", "exit", "quit",
}

// REPL is the interactive command loop.
type REPL struct {
	snap  *snapshot.Snapshot
	path  string
	dirty bool
	liner *liner.State
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".sheetsh_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	// Set up liner for readline-style input
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	// Configure liner
	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	// Load history
	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	if r.snap != nil {
		fmt.Printf("sheetsh - workspace shell (%s, %d books)\n", r.path, len(r.snap.Books))
	} else {
		fmt.Println("sheetsh - workspace shell (no workspace loaded, use 'open')")
	}

	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("sheetsh> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Add to history
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			if r.dirty {
				fmt.Println("unsaved edits discarded")
			}

			fmt.Println("Bye!")

			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "open":
			r.cmdOpen(args)

		case "info":
			r.cmdInfo()

		case "books":
			r.cmdBooks()

		case "show":
			r.cmdShow(args)

		case "get":
			r.cmdGet(args)

		case "set":
			r.cmdSet(args)

		case "save":
			r.cmdSave()

		case "reload":
			r.cmdReload()

		default:
			fmt.Printf("unknown command: %s (try 'help')\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil { //nolint:gosec // history file under $HOME
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	var matches []string

	for _, cmd := range replCommands {
		if strings.HasPrefix(cmd, strings.ToLower(line)) {
			matches = append(matches, cmd)
		}
	}

	return matches
}

func (r *REPL) printHelp() {
	fmt.Println(`Commands:
  open <workspace>               Load a workspace snapshot
  info                           Show workspace path and book count
  books                          List book index + path
  show <i|ws>                    Pretty-print book i (or the workspace)
  get <i|ws> <dot.path>          Print the value at an object key path
  set <i|ws> <dot.path> <json>   Replace the value at a key path (in memory)
  save                           Write the whole snapshot back to disk
  reload                         Discard edits and load again from disk
  exit / quit / q                Exit`)
}

func (r *REPL) open(path string) error {
	snap, err := snapshot.Load(path)
	if err != nil {
		return err
	}

	r.snap = snap
	r.path = path
	r.dirty = false

	return nil
}

func (r *REPL) loaded() bool {
	if r.snap == nil {
		fmt.Println("no workspace loaded (use 'open <workspace>')")

		return false
	}

	return true
}

func (r *REPL) cmdOpen(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: open <workspace>")

		return
	}

	err := r.open(args[0])
	if err != nil {
		fmt.Printf("open failed: %v\n", err)

		return
	}

	fmt.Printf("loaded %s (%d books)\n", r.path, len(r.snap.Books))
}

func (r *REPL) cmdInfo() {
	if !r.loaded() {
		return
	}

	fmt.Printf("workspace: %s\n", r.snap.Workspace.FilePath)
	fmt.Printf("books:     %d\n", len(r.snap.Books))

	if r.dirty {
		fmt.Println("state:     modified (unsaved)")
	} else {
		fmt.Println("state:     clean")
	}
}

func (r *REPL) cmdBooks() {
	if !r.loaded() {
		return
	}

	for index, book := range r.snap.Books {
		fmt.Printf("  [%d] %s\n", index, book.FilePath)
	}
}

// pickDocument resolves a "ws" or book-index selector against the snapshot.
func (r *REPL) pickDocument(selector string) (*snapshot.Document, bool) {
	if selector == "ws" || selector == "workspace" {
		return &r.snap.Workspace, true
	}

	index, err := strconv.Atoi(selector)
	if err != nil || index < 0 || index >= len(r.snap.Books) {
		fmt.Printf("no such document: %s (want 'ws' or 0..%d)\n", selector, len(r.snap.Books)-1)

		return nil, false
	}

	return &r.snap.Books[index], true
}

func (r *REPL) cmdShow(args []string) {
	if !r.loaded() {
		return
	}

	if len(args) != 1 {
		fmt.Println("usage: show <i|ws>")

		return
	}

	doc, ok := r.pickDocument(args[0])
	if !ok {
		return
	}

	printJSON(doc.Data)
}

func (r *REPL) cmdGet(args []string) {
	if !r.loaded() {
		return
	}

	if len(args) != 2 {
		fmt.Println("usage: get <i|ws> <dot.path>")

		return
	}

	doc, ok := r.pickDocument(args[0])
	if !ok {
		return
	}

	value, err := walkPath(doc.Data, args[1])
	if err != nil {
		fmt.Printf("get failed: %v\n", err)

		return
	}

	printJSON(value)
}

func (r *REPL) cmdSet(args []string) {
	if !r.loaded() {
		return
	}

	if len(args) < 3 {
		fmt.Println("usage: set <i|ws> <dot.path> <json>")

		return
	}

	doc, ok := r.pickDocument(args[0])
	if !ok {
		return
	}

	var value any

	err := json.Unmarshal([]byte(strings.Join(args[2:], " ")), &value)
	if err != nil {
		fmt.Printf("set failed: value is not valid JSON: %v\n", err)

		return
	}

	setErr := setPath(doc, args[1], value)
	if setErr != nil {
		fmt.Printf("set failed: %v\n", setErr)

		return
	}

	r.dirty = true

	fmt.Println("ok (in memory, use 'save' to persist)")
}

func (r *REPL) cmdSave() {
	if !r.loaded() {
		return
	}

	err := snapshot.Save(r.snap)
	if err != nil {
		fmt.Printf("save failed: %v\n", err)

		return
	}

	r.dirty = false

	fmt.Printf("saved %d files\n", 1+len(r.snap.Books))
}

func (r *REPL) cmdReload() {
	if !r.loaded() {
		return
	}

	err := r.open(r.path)
	if err != nil {
		fmt.Printf("reload failed: %v\n", err)

		return
	}

	fmt.Printf("reloaded %s (%d books)\n", r.path, len(r.snap.Books))
}

// walkPath follows dot-separated object keys through a document value.
func walkPath(data any, dotPath string) (any, error) {
	current := data

	for _, key := range strings.Split(dotPath, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q is not an object", key)
		}

		value, exists := obj[key]
		if !exists {
			return nil, fmt.Errorf("no key %q", key)
		}

		current = value
	}

	return current, nil
}

// setPath replaces the value at a dot-separated key path. Every parent along
// the path must already exist and be an object. An empty path is rejected;
// replacing a whole document goes through its file instead.
func setPath(doc *snapshot.Document, dotPath string, value any) error {
	keys := strings.Split(dotPath, ".")

	parent, ok := doc.Data.(map[string]any)
	if !ok {
		return errors.New("document root is not an object")
	}

	for _, key := range keys[:len(keys)-1] {
		next, exists := parent[key].(map[string]any)
		if !exists {
			return fmt.Errorf("no object at %q", key)
		}

		parent = next
	}

	parent[keys[len(keys)-1]] = value

	return nil
}

func printJSON(value any) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fmt.Printf("cannot render value: %v\n", err)

		return
	}

	fmt.Println(string(payload))
}
