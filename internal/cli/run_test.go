package cli

import (
	"testing"
)

func TestRunNoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, t.TempDir())
	if code != 0 {
		t.Errorf("exit = %d, want 0", code)
	}

	assertContains(t, stdout, "Usage: sheetup")
}

func TestRunHelpFlag(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, t.TempDir(), "--help")
	if code != 0 {
		t.Errorf("exit = %d, want 0", code)
	}

	assertContains(t, stdout, "Commands:")
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCLI(t, t.TempDir(), "frobnicate")
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}

	assertContains(t, stderr, "unknown command: frobnicate")
}

func TestRunUnknownGlobalFlag(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCLI(t, t.TempDir(), "--bogus", "show")
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}

	assertContains(t, stderr, "unknown flag")
}

func TestRunGlobalFlagMissingArgument(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCLI(t, t.TempDir(), "--workspace")
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}

	assertContains(t, stderr, "flag requires an argument")
}

func TestRunPrintConfigDefaults(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, t.TempDir(), "print-config")
	if code != 0 {
		t.Errorf("exit = %d, want 0", code)
	}

	assertContains(t, stdout, `"workspace_file": "workspace.json"`)
	assertContains(t, stdout, "(using defaults only)")
}
