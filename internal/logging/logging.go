// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the shared logrus logger: console plus an
// append-only conversion log file, so a batch run leaves an audit trail
// next to the trees it reorganizes.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLogFile is the conversion log written in the working directory.
const DefaultLogFile = "pdf_conversion.log"

// New returns a logger writing to stderr and, when logFile is non-empty,
// to the named file as well. The file handle is returned for closing;
// it is nil when no file is used.
func New(verbose bool, logFile string) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if logFile == "" {
		return log, nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", logFile, err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return log, f, nil
}
