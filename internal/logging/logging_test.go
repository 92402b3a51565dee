// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_FileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	log, closer, err := New(false, path)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("converted: doc.pdf")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "converted: doc.pdf") {
		t.Errorf("log file should contain the message, got %q", data)
	}
}

func TestNew_Verbose(t *testing.T) {
	log, closer, err := New(true, "")
	if err != nil {
		t.Fatal(err)
	}
	if closer != nil {
		t.Error("no file requested, closer should be nil")
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}
}
