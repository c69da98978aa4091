package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestEditorArgs(t *testing.T) {
	cases := []struct {
		editor   string
		line     int
		wantName string
		wantArgs []string
	}{
		{"vim", 12, "vim", []string{"+12", "/p/A.cs"}},
		{"nvim", 0, "nvim", []string{"+1", "/p/A.cs"}},
		{"code -r", 5, "code", []string{"-r", "--goto", "/p/A.cs:5"}},
		{"/usr/local/bin/cursor", 7, "/usr/local/bin/cursor", []string{"--goto", "/p/A.cs:7"}},
		{"subl", 3, "subl", []string{"/p/A.cs:3"}},
		{"rider64.exe", 9, "rider64.exe", []string{"--line", "9", "/p/A.cs"}},
	}
	for _, c := range cases {
		name, args, err := EditorArgs(c.editor, "/p/A.cs", c.line)
		if err != nil {
			t.Fatalf("%s: %v", c.editor, err)
		}
		if name != c.wantName || !slices.Equal(args, c.wantArgs) {
			t.Errorf("EditorArgs(%q) = %s %v, want %s %v", c.editor, name, args, c.wantName, c.wantArgs)
		}
	}
	if _, _, err := EditorArgs("   ", "/p/A.cs", 1); !errors.Is(err, ErrNoEditor) {
		t.Fatalf("expected ErrNoEditor, got %v", err)
	}
}

func TestResolveEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")
	if got := ResolveEditor(""); got != "nano" {
		t.Fatalf("got %q want nano", got)
	}
	t.Setenv("VISUAL", "hx")
	if got := ResolveEditor(""); got != "hx" {
		t.Fatalf("VISUAL should win over EDITOR, got %q", got)
	}
	if got := ResolveEditor(" code "); got != "code" {
		t.Fatalf("configured editor should win, got %q", got)
	}
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := ResolveEditor(""); got != "" {
		t.Fatalf("expected empty editor, got %q", got)
	}
}

func TestOpenAtLineMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "gone.cs")
	err := OpenAtLine(context.Background(), "vim", p, 1, nil, io.Discard, io.Discard)
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestRunCommandNotFound(t *testing.T) {
	err := NewExecutor(context.Background(), "codescope-no-such-editor-xyz").Run()
	var ee *ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExecError, got %v", err)
	}
	if ee.ExitCode() != -1 || !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("unexpected error %v (exit %d)", err, ee.ExitCode())
	}
}

func TestOpenAtLineRunsEditor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as editor")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "A.cs")
	if err := os.WriteFile(target, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "fake-editor")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\"\nexit 3\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := OpenAtLine(context.Background(), script, target, 4, nil, &out, io.Discard)
	if strings.TrimSpace(out.String()) != "+4 "+target {
		t.Fatalf("editor received %q", out.String())
	}
	var ee *ExecError
	if !errors.As(err, &ee) || ee.ExitCode() != 3 {
		t.Fatalf("expected exit code 3, got %v", err)
	}
}
