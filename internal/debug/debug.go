package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// HookLogName is the event log kept next to config.json.
const HookLogName = "hooks.log"

// EventTimeLayout formats event log timestamps (local time).
const EventTimeLayout = "2006-01-02 15:04:05"

var (
	enabled     = os.Getenv("TASKS_DEBUG") != ""
	verboseMode = false
	quietMode   = false
	logMutex    sync.Mutex

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	now              = time.Now
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(stderr, format, args...)
	}
}

// PrintNormal prints output unless quiet mode is enabled
// Use this for normal informational output that should be suppressed in quiet mode
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Fprintf(stdout, format, args...)
	}
}

// PrintlnNormal prints a line unless quiet mode is enabled
func PrintlnNormal(args ...interface{}) {
	if !quietMode {
		fmt.Fprintln(stdout, args...)
	}
}

// LogEvent appends a line to <tasksDir>/hooks.log.
// Format: YYYY-MM-DD HH:MM:SS - message
//
// Failures are silent: logging must never interrupt the operation being logged.
// The line is also echoed through Logf.
func LogEvent(tasksDir, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	entry := fmt.Sprintf("%s - %s\n", now().Format(EventTimeLayout), msg)
	Logf("%s", entry)

	if tasksDir == "" {
		return
	}
	logPath := filepath.Join(tasksDir, HookLogName)

	logMutex.Lock()
	defer logMutex.Unlock()

	if err := os.MkdirAll(tasksDir, 0750); err != nil {
		return
	}
	// #nosec G304 - path is built from the workspace root
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer file.Close()

	_, _ = file.WriteString(entry)
}
