// Package logger provides the leveled diagnostic logger used by fixcheck.
//
// Diagnostics are separate from the verification report: the report goes to
// stdout, diagnostics go to stderr, so piping the report never mixes in log
// lines. Output is prefixed with [HH:MM:SS] timestamps and colorized on
// terminals.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/fixcheck/internal/models"
)

// Level is a log verbosity threshold
type Level int

// Log levels, most verbose first
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var levelColors = map[Level]color.Attribute{
	LevelTrace: color.FgHiBlack,
	LevelDebug: color.FgCyan,
	LevelInfo:  color.FgBlue,
	LevelWarn:  color.FgYellow,
	LevelError: color.FgRed,
}

// String returns the upper-case level name
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INFO"
}

// ParseLevel converts a level name (case-insensitive) to a Level.
// Empty or unknown names yield LevelInfo and ok=false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Logger is the diagnostic logging surface used by the commands
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogManifest(m *models.Manifest)
	LogResult(result *models.Result, elapsed time.Duration)
}

// ConsoleLogger writes timestamped, leveled messages to a writer.
// It is safe for concurrent use.
type ConsoleLogger struct {
	writer      io.Writer
	level       Level
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// An empty or invalid logLevel defaults to "info".
// Color output is enabled when writing to os.Stdout or os.Stderr with TTY support.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	level, _ := ParseLevel(logLevel)
	return &ConsoleLogger{
		writer:      writer,
		level:       level,
		colorOutput: isTerminal(writer),
		now:         time.Now,
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// fatih/color's TTY detection also honours NO_COLOR
		return !color.NoColor
	}
	return false
}

// Level returns the configured threshold
func (cl *ConsoleLogger) Level() Level {
	return cl.level
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.log(LevelTrace, message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.log(LevelDebug, message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.log(LevelInfo, message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.log(LevelWarn, message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.log(LevelError, message)
}

// LogManifest logs which manifest is in use at DEBUG level and each of its
// checks at TRACE level.
func (cl *ConsoleLogger) LogManifest(m *models.Manifest) {
	source := m.SourceFile
	if source == "" {
		source = "built-in"
	}
	present, absent := m.CountByExpectation()
	cl.log(LevelDebug, fmt.Sprintf("manifest %s (%s): %d required, %d forbidden", m.Name, source, present, absent))
	for i, c := range m.Checks {
		cl.log(LevelTrace, fmt.Sprintf("check %d [%s] %s: %s", i+1, c.Expect, c.Label, c.Pattern))
	}
}

// LogResult logs the verdict of a run at INFO level.
// Format: "[HH:MM:SS] [INFO] <target>: 6/7 checks passed, run failed (1.2ms)"
func (cl *ConsoleLogger) LogResult(result *models.Result, elapsed time.Duration) {
	verdict := "passed"
	if !result.Passed {
		verdict = "failed"
	}
	cl.log(LevelInfo, fmt.Sprintf("%s: %d/%d checks passed, run %s (%s)",
		result.Target, result.PassedCount(), len(result.Outcomes), verdict, formatDuration(elapsed)))
}

func (cl *ConsoleLogger) log(level Level, message string) {
	if cl.writer == nil || level < cl.level {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	name := level.String()
	if cl.colorOutput {
		c := color.New(levelColors[level])
		c.EnableColor()
		name = c.Sprint(name)
	}

	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", cl.now().Format("15:04:05"), name, message)
}

// formatDuration renders sub-second durations in ms and longer ones in s
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
)

// NoOpLogger discards everything
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that discards all messages
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string) {}
func (n *NoOpLogger) LogDebug(message string) {}
func (n *NoOpLogger) LogInfo(message string) {}
func (n *NoOpLogger) LogWarn(message string) {}
func (n *NoOpLogger) LogError(message string) {}
func (n *NoOpLogger) LogManifest(m *models.Manifest) {}
func (n *NoOpLogger) LogResult(result *models.Result, elapsed time.Duration) {}
