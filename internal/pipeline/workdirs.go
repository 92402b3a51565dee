// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrAborted is returned when the user declines to clear a work directory.
var ErrAborted = fmt.Errorf("operation aborted by the user")

// ConfirmFunc asks whether the named directory may be cleared.
type ConfirmFunc func(dir string) bool

// StdinConfirm prompts on w and reads a y/n answer from rd.
func StdinConfirm(rd io.Reader, w io.Writer) ConfirmFunc {
	reader := bufio.NewReader(rd)
	return func(dir string) bool {
		fmt.Fprintf(w, "Directory %s is not empty. Delete all contents? (y/n): ", dir)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(line), "y")
	}
}

// PrepareWorkDirs ensures the output and error roots exist and are empty.
// A non-empty root is cleared only after confirm approves it (force skips
// the question); declining aborts the run with ErrAborted.
func PrepareWorkDirs(outputDir, errorDir string, force bool, confirm ConfirmFunc, log *logrus.Logger) error {
	for _, dir := range []string{outputDir, errorDir} {
		if err := prepareDir(dir, force, confirm, log); err != nil {
			return err
		}
	}
	return nil
}

func prepareDir(dir string, force bool, confirm ConfirmFunc, log *logrus.Logger) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	if len(entries) == 0 {
		return nil
	}

	if !force && !confirm(dir) {
		return fmt.Errorf("%w: %s not cleared", ErrAborted, dir)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("recreating %s: %w", dir, err)
	}
	log.Infof("All contents of %s have been deleted", dir)
	return nil
}
