// Package logger holds the process-wide info/error loggers.
package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	InfoLogger  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	initOnce sync.Once
)

// Init wires the loggers to stdout/stderr and, when LOG_FILE is set, mirrors both into that file.
func Init() {
	initOnce.Do(func() {
		infoOut := io.Writer(os.Stdout)
		errOut := io.Writer(os.Stderr)

		if path := os.Getenv("LOG_FILE"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				log.Printf("⚠️ LOG_FILE could not be opened (%s): %v", path, err)
			} else {
				infoOut = io.MultiWriter(os.Stdout, f)
				errOut = io.MultiWriter(os.Stderr, f)
			}
		}

		InfoLogger = log.New(infoOut, "INFO: ", log.Ldate|log.Ltime)
		ErrorLogger = log.New(errOut, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	})
}

// SetOutput redirects both loggers, used by tests to silence output.
func SetOutput(w io.Writer) {
	InfoLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
}
