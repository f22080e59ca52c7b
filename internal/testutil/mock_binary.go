// Package testutil provides cross-platform test helpers.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// FakeEditor is an executable that records the arguments of every call.
type FakeEditor struct {
	// Path is the executable to put in EDITOR or on PATH.
	Path string
	// Log receives one line per invocation with the arguments joined by spaces.
	Log string
}

// CreateFakeEditor creates a fake editor named name in dir that appends its
// arguments to a log file and exits with exitCode.
// On Unix: creates a shell script. On Windows: creates a .bat file.
func CreateFakeEditor(t *testing.T, dir, name string, exitCode int) *FakeEditor {
	t.Helper()

	log := filepath.Join(dir, name+".log")

	if runtime.GOOS == "windows" {
		path := filepath.Join(dir, name+".bat")
		script := "@echo off\r\n" +
			fmt.Sprintf("echo %%* >> \"%s\"\r\n", log) +
			fmt.Sprintf("exit /b %d\r\n", exitCode)
		writeExecutable(t, path, script)

		return &FakeEditor{Path: path, Log: log}
	}

	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" +
		fmt.Sprintf("echo \"$*\" >> '%s'\n", log) +
		fmt.Sprintf("exit %d\n", exitCode)
	writeExecutable(t, path, script)

	return &FakeEditor{Path: path, Log: log}
}

// Invocations returns the recorded argument lines, oldest first.
func (e *FakeEditor) Invocations(t *testing.T) []string {
	t.Helper()

	data, err := os.ReadFile(e.Log)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read fake editor log: %v", err)
	}

	var calls []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\r\n"), "\n") {
		calls = append(calls, strings.TrimRight(line, " \r"))
	}

	return calls
}

func writeExecutable(t *testing.T, path, script string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(script), 0o755); err != nil { //nolint:gosec // test helper: fake editor must be executable
		t.Fatalf("failed to create fake editor %s: %v", path, err)
	}
}

// WriteTemplates creates a template directory holding files, keyed by
// slash-separated relative path, and returns it.
func WriteTemplates(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	return dir
}

// PrependPath returns the current PATH with dir prepended, using the
// OS-appropriate path list separator.
func PrependPath(t *testing.T, dir string) string {
	t.Helper()

	return dir + string(os.PathListSeparator) + os.Getenv("PATH")
}
