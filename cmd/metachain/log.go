package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/bitfsorg/metachain/chain"
	"github.com/bitfsorg/metachain/journal"
	"github.com/bitfsorg/metachain/network"
)

// logWriter implements an io.Writer that outputs to logOutput and, when a
// log file is configured, the log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	_, _ = logOutput.Write(p)
	if logRotator != nil {
		_, _ = logRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem. A single backend logger is created and all
// subsystem loggers created from it write to the backend. When adding new
// subsystems, add the subsystem logger variable here and to the
// subsystemLoggers map.
var (
	// backendLog is the logging backend used to create all subsystem loggers.
	backendLog = btclog.NewBackend(logWriter{})

	// logOutput is the console side of the backend.
	logOutput io.Writer = os.Stderr

	// logRotator is nil unless a log file is configured. It should be
	// closed on application shutdown.
	logRotator *rotator.Rotator

	mainLog = backendLog.Logger("MCHN")
	chanLog = backendLog.Logger("CHAN")
	ntwkLog = backendLog.Logger("NTWK")
	jrnlLog = backendLog.Logger("JRNL")
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"MCHN": mainLog,
	"CHAN": chanLog,
	"NTWK": ntwkLog,
	"JRNL": jrnlLog,
}

func init() {
	chain.UseLogger(chanLog)
	network.UseLogger(ntwkLog)
	journal.UseLogger(jrnlLog)
}

// initLogRotator starts writing logs to logFile, rolling it over in the
// same directory once it exceeds 10 MiB and keeping three old files.
func initLogRotator(logFile string) error {
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// closeLogRotator flushes and closes the log file, if any.
func closeLogRotator() {
	if logRotator != nil {
		_ = logRotator.Close()
		logRotator = nil
	}
}

// setLogLevels sets the log level for all subsystem loggers. Unknown
// levels fall back to info.
func setLogLevels(logLevel string) {
	level, ok := btclog.LevelFromString(strings.ToLower(logLevel))
	if !ok {
		level = btclog.LevelInfo
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}
