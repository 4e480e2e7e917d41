// Package logctl provides leveled logging for the predict CLI: a
// terse, prefix-based wrapper over the standard library's log.Logger,
// with per-level writers; -v toggles the debug writer between discard
// and stderr, while info, warn and error always go to stderr.
// Grounded on ClusterCockpit-cc-backend's pkg/log, the only logging
// implementation anywhere in the retrieval pack.
package logctl

import (
	"fmt"
	"io"
	"log"
	"os"
)

var (
	DebugWriter io.Writer = io.Discard
	InfoWriter  io.Writer = os.Stderr
	WarnWriter  io.Writer = os.Stderr
	ErrWriter   io.Writer = os.Stderr
)

var (
	DebugPrefix = "[DEBUG] "
	InfoPrefix  = "[INFO]  "
	WarnPrefix  = "[WARN]  "
	ErrPrefix   = "[ERROR] "
)

var (
	debugLog = log.New(DebugWriter, DebugPrefix, 0)
	infoLog  = log.New(InfoWriter, InfoPrefix, 0)
	warnLog  = log.New(WarnWriter, WarnPrefix, 0)
	errLog   = log.New(ErrWriter, ErrPrefix, 0)
)

// SetVerbose toggles DebugWriter between discard and stderr, matching
// predict.c's -v flag ("print out extra info").
func SetVerbose(verbose bool) {
	if verbose {
		DebugWriter = os.Stderr
	} else {
		DebugWriter = io.Discard
	}
	debugLog = log.New(DebugWriter, DebugPrefix, 0)
}

func Debugf(format string, v ...interface{}) {
	debugLog.Output(2, fmt.Sprintf(format, v...))
}

func Infof(format string, v ...interface{}) {
	infoLog.Output(2, fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...interface{}) {
	warnLog.Output(2, fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...interface{}) {
	errLog.Output(2, fmt.Sprintf(format, v...))
}

// Fatalf logs at error level and exits with status 1, mirroring
// predict.c's error_exit paths (which all call exit(-1) after printing).
func Fatalf(format string, v ...interface{}) {
	Errorf(format, v...)
	os.Exit(1)
}
