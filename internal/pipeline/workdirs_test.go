// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestPrepareWorkDirs(t *testing.T) {
	confirmYes := func(string) bool { return true }
	confirmNo := func(string) bool { return false }

	t.Run("creates missing directories", func(t *testing.T) {
		base := t.TempDir()
		out := filepath.Join(base, "out")
		errd := filepath.Join(base, "err")

		if err := PrepareWorkDirs(out, errd, false, confirmNo, discardLogger()); err != nil {
			t.Fatal(err)
		}
		for _, dir := range []string{out, errd} {
			if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
				t.Errorf("%s should exist as a directory", dir)
			}
		}
	})

	t.Run("clears non-empty directory on confirmation", func(t *testing.T) {
		base := t.TempDir()
		out := filepath.Join(base, "out")
		if err := os.MkdirAll(out, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(out, "stale.pdf"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := PrepareWorkDirs(out, filepath.Join(base, "err"), false, confirmYes, discardLogger()); err != nil {
			t.Fatal(err)
		}
		entries, err := os.ReadDir(out)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("directory should be empty after clearing, has %d entries", len(entries))
		}
	})

	t.Run("declining aborts", func(t *testing.T) {
		base := t.TempDir()
		out := filepath.Join(base, "out")
		if err := os.MkdirAll(out, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(out, "stale.pdf"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		err := PrepareWorkDirs(out, filepath.Join(base, "err"), false, confirmNo, discardLogger())
		if !errors.Is(err, ErrAborted) {
			t.Fatalf("err = %v, want ErrAborted", err)
		}
		if _, err := os.Stat(filepath.Join(out, "stale.pdf")); err != nil {
			t.Error("declined directory must stay untouched")
		}
	})

	t.Run("force skips the prompt", func(t *testing.T) {
		base := t.TempDir()
		out := filepath.Join(base, "out")
		if err := os.MkdirAll(out, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(out, "stale.pdf"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		asked := false
		confirm := func(string) bool { asked = true; return false }
		if err := PrepareWorkDirs(out, filepath.Join(base, "err"), true, confirm, discardLogger()); err != nil {
			t.Fatal(err)
		}
		if asked {
			t.Error("force must not prompt")
		}
	})
}

func TestStdinConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes uppercase", "Y\n", true},
		{"no", "n\n", false},
		{"garbage", "whatever\n", false},
		{"eof", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt bytes.Buffer
			confirm := StdinConfirm(strings.NewReader(tt.input), &prompt)
			if got := confirm("PDFA_OUT"); got != tt.want {
				t.Errorf("confirm = %v, want %v", got, tt.want)
			}
			if !strings.Contains(prompt.String(), "PDFA_OUT") {
				t.Error("prompt should name the directory")
			}
		})
	}
}
