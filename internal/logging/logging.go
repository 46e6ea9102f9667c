// Package logging routes the standard logger to stdout and an optional log file.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	runID   string
	console io.Writer = os.Stderr
	muted   bool
)

// Init points the standard logger at stdout and, when logPath is set, at an
// append-mode log file. Parent directories of logPath are created.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	console = os.Stdout
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
	}

	log.SetOutput(outputLocked())
	return nil
}

// SetConsole turns the console half of the log output on or off and returns
// the previous setting. The log file, if any, keeps receiving every line.
func SetConsole(enabled bool) bool {
	mu.Lock()
	defer mu.Unlock()
	prev := !muted
	muted = !enabled
	log.SetOutput(outputLocked())
	return prev
}

func outputLocked() io.Writer {
	var writers []io.Writer
	if !muted {
		writers = append(writers, console)
	}
	if logFile != nil {
		writers = append(writers, logFile)
	}
	switch len(writers) {
	case 0:
		return io.Discard
	case 1:
		return writers[0]
	}
	return io.MultiWriter(writers...)
}

// Close releases the log file and restores stderr as the log destination.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	console = os.Stderr
	muted = false
	if logFile == nil {
		log.SetOutput(outputLocked())
		return nil
	}
	err := logFile.Close()
	logFile = nil
	log.SetOutput(outputLocked())
	return err
}

// SetRunID tags every subsequent log line with the given evaluation run ID.
// An empty id removes the tag.
func SetRunID(id string) {
	mu.Lock()
	defer mu.Unlock()
	runID = strings.TrimSpace(id)
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(withRun(msg))
}

// LogInvocation records traffic across the recognizer process boundary.
// direction is "out" for the command sent and "in" for what came back.
func LogInvocation(direction, binary, sample string, payload any) {
	msg := buildInvocationMessage(direction, binary, sample, payload)
	log.Println(withRun(msg))
}

func withRun(msg string) string {
	mu.Lock()
	id := runID
	mu.Unlock()
	if id == "" {
		return msg
	}
	return fmt.Sprintf("[run=%s] %s", id, msg)
}

func buildInvocationMessage(direction, binary, sample string, payload any) string {
	dir := strings.TrimSpace(direction)
	if dir != "" {
		dir = strings.ToUpper(dir)
	}
	binValue := strings.TrimSpace(binary)
	if binValue == "" {
		binValue = "unknown"
	}
	sampleValue := strings.TrimSpace(sample)
	if sampleValue == "" {
		sampleValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("bin=%s", binValue))
	parts = append(parts, fmt.Sprintf("sample=%s", sampleValue))
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case error:
		return v.Error()
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return strings.TrimSpace(v)
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return strings.TrimSpace(string(v))
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
