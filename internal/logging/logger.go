// Package logging provides structured, colorful logging utilities for the
// Meridian admin client, ensuring consistent log formatting and visual clarity
// across the client library, the meridianctl CLI, and integrated third-party
// libraries (Serf, memberlist).
//
// Implements a unified logging interface that standardizes log output from the
// call engine, transport, gossip discovery, and CLI tools. Uses color-coded
// log levels and consistent timestamp formatting to improve operational
// visibility and debugging efficiency.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Log interception: Captures and reformats Serf/memberlist library logs with a custom writer
//   - Flexible output: Configurable log levels and output suppression for CLI tools
//   - Standard redirection: Routes standard library logs through the unified system
//
// Used throughout the client for engine operations, CLI commands, and all
// internal components to maintain consistent logging across cluster tooling.
package logging

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// Logger for INFO/SUCCESS messages (stdout by default, follows Unix conventions)
	stdoutLogger = log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	// Logger for WARN/ERROR/DEBUG messages (stderr by default, follows Unix conventions)
	stderrLogger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	// Track if logging has been explicitly configured by CLI tools
	cliConfigured = false

	// Track the current output destinations for different log levels
	currentStdoutOutput io.Writer = os.Stdout // For INFO/SUCCESS
	currentStderrOutput io.Writer = os.Stderr // For WARN/ERROR/DEBUG

	// Track if we're using a single log file (overrides stdout/stderr separation)
	usingLogFile  = false
	logFileHandle io.Writer
)

// setupCustomStyles creates custom color styling for log levels with professional
// appearance. Configures distinct colors for each log level to improve visual
// parsing of log output during development and operational monitoring.
//
// Provides carefully chosen colors that work well in both light and dark terminals
// while maintaining readability and professional appearance for production logging.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()

	// DEBUG: light purple
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	// INFO: light blue
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	// WARN: light yellow
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	// ERROR: light red/pink
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

// init sets up custom color styling on package initialization for consistent
// visual formatting across all client logging output.
func init() {
	styles := setupCustomStyles()
	stdoutLogger.SetStyles(styles)
	stderrLogger.SetStyles(styles)
}

// getStdoutLoggerOutput returns the current output destination for stdout logger.
// Used by Success function to respect log file redirection.
func getStdoutLoggerOutput() io.Writer {
	if usingLogFile {
		return logFileHandle
	}
	return currentStdoutOutput
}

// Info logs informational messages for admin operations and status updates.
// Uses stdout following Unix conventions (or log file when specified).
func Info(format string, v ...any) {
	stdoutLogger.Info(fmt.Sprintf(format, v...))
}

// Warn logs warning messages for non-critical issues requiring attention.
// Uses stderr following Unix conventions (or log file when specified).
func Warn(format string, v ...any) {
	stderrLogger.Warn(fmt.Sprintf(format, v...))
}

// Error logs error messages for failures and critical issues in admin operations.
// Uses stderr following Unix conventions (or log file when specified).
func Error(format string, v ...any) {
	stderrLogger.Error(fmt.Sprintf(format, v...))
}

// Success logs successful operations in green using INFO level with custom styling.
// Uses stdout following Unix conventions (or log file when specified).
// Implements a custom SUCCESS level that respects INFO level filtering.
func Success(format string, v ...any) {
	// Check if INFO level logs are enabled (Success uses INFO level internally)
	if stdoutLogger.GetLevel() > log.InfoLevel {
		return // Skip if INFO level is suppressed
	}

	// Get the current stdout logger's output destination to respect log file redirection
	currentOutput := getStdoutLoggerOutput()

	// Create a temporary logger with custom styling for success messages
	// We override the INFO level to display "SUCCESS" in light green
	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281")) // Light green

	tempLogger := log.NewWithOptions(currentOutput, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	tempLogger.SetStyles(styles)

	// Log using INFO level but with "SUCCESS" label in light green
	tempLogger.Info(fmt.Sprintf(format, v...))
}

// Debug logs detailed debugging information for development and troubleshooting.
// Uses stderr following Unix conventions (or log file when specified).
func Debug(format string, v ...any) {
	stderrLogger.Debug(fmt.Sprintf(format, v...))
}

// SetLevel configures the minimum logging level for filtering log output across
// all client components. Accepts standard level strings (DEBUG, INFO, WARN, ERROR)
// and applies filtering to reduce noise during production operations or increase
// verbosity during troubleshooting sessions.
func SetLevel(level string) {
	var logLevel log.Level
	switch level {
	case "DEBUG":
		logLevel = log.DebugLevel
	case "INFO":
		logLevel = log.InfoLevel
	case "WARN":
		logLevel = log.WarnLevel
	case "ERROR":
		logLevel = log.ErrorLevel
	default:
		logLevel = log.InfoLevel
	}

	// Apply level to both loggers
	stdoutLogger.SetLevel(logLevel)
	stderrLogger.SetLevel(logLevel)
}

// SetOutput configures log output destination for operational log management.
// When a file is specified, all logs go to the file (overriding Unix stdout/stderr
// separation). When nil, suppresses all output. When not called, uses Unix
// conventions (INFO/SUCCESS->stdout, others->stderr).
func SetOutput(w *os.File) {
	if w == nil {
		// Suppress output by setting level to a high value
		stdoutLogger.SetLevel(log.FatalLevel + 1)
		stderrLogger.SetLevel(log.FatalLevel + 1)
		usingLogFile = false
	} else {
		// When using a log file, all logs go to the same file (production mode)
		usingLogFile = true
		logFileHandle = w

		// Recreate both loggers to use the file
		stdoutLogger = log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
		})
		stderrLogger = log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
		})

		// Apply custom styles to both loggers
		styles := setupCustomStyles()
		stdoutLogger.SetStyles(styles)
		stderrLogger.SetStyles(styles)
	}
}

// SuppressOutput disables INFO/WARN/DEBUG logs while keeping ERROR logs visible.
// Used by CLI tools to reduce output noise during normal operations.
func SuppressOutput() {
	stdoutLogger.SetLevel(log.ErrorLevel) // Only show ERROR level and above
	stderrLogger.SetLevel(log.ErrorLevel) // Only show ERROR level and above
	cliConfigured = true
}

// RestoreOutput restores normal logging with Unix conventions at INFO level and
// above. Recreates both loggers with default settings and custom color styling.
// INFO/SUCCESS go to stdout, WARN/ERROR/DEBUG go to stderr.
//
// Used by CLI tools to re-enable logging after suppression during operations.
func RestoreOutput() {
	// Reset to Unix conventions: stdout for INFO/SUCCESS, stderr for others
	usingLogFile = false

	stdoutLogger = log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	stderrLogger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	// Apply custom styles to both loggers
	styles := setupCustomStyles()
	stdoutLogger.SetStyles(styles)
	stderrLogger.SetStyles(styles)

	// Set INFO level for both
	stdoutLogger.SetLevel(log.InfoLevel)
	stderrLogger.SetLevel(log.InfoLevel)

	// Track the restored output destinations
	currentStdoutOutput = os.Stdout
	currentStderrOutput = os.Stderr
	cliConfigured = true
}

// IsConfiguredByCLI returns true if logging has been explicitly configured by CLI tools.
func IsConfiguredByCLI() bool {
	return cliConfigured
}

// ============================================================================
// GOSSIP LOG INTEGRATION - Capture and reformat Serf/memberlist library logs
// ============================================================================

// logEntry represents a deduplicated log message with its count and timing
type logEntry struct {
	message   string
	level     string
	count     int
	lastSeen  time.Time
	firstSeen time.Time
}

// GossipWriter captures Serf and memberlist library logs and routes them
// through the unified colorful logging system for consistent formatting.
// Includes deduplication for repetitive probe-failure messages so a single
// dead broker does not flood the client's output.
type GossipWriter struct {
	reader *io.PipeReader
	writer *io.PipeWriter

	// Deduplication state
	mu          sync.Mutex
	pendingLogs map[string]*logEntry
	flushTicker *time.Ticker
	done        chan struct{}
}

// NewGossipWriter creates a new writer for capturing and reformatting gossip
// library logs. Serf and memberlist share the same timestamped bracket format,
// so one writer serves both LogOutput hooks.
func NewGossipWriter() *GossipWriter {
	r, w := io.Pipe()
	gw := &GossipWriter{
		reader:      r,
		writer:      w,
		pendingLogs: make(map[string]*logEntry),
		flushTicker: time.NewTicker(3 * time.Second), // Flush deduplicated logs every 3 seconds
		done:        make(chan struct{}),
	}

	go gw.processLogs()
	go gw.flushDuplicates()
	return gw
}

// Write implements io.Writer interface for capturing gossip log output.
func (gw *GossipWriter) Write(p []byte) (n int, err error) {
	return gw.writer.Write(p)
}

// Close closes the writer and stops log processing and deduplication.
func (gw *GossipWriter) Close() error {
	close(gw.done)
	gw.flushTicker.Stop()

	// Flush any remaining deduplicated logs
	gw.mu.Lock()
	gw.flushPendingLogs()
	gw.mu.Unlock()

	return gw.writer.Close()
}

// flushDuplicates runs in a background goroutine to periodically flush
// deduplicated log entries. This ensures that even repeated messages
// eventually get logged with their frequency count.
func (gw *GossipWriter) flushDuplicates() {
	for {
		select {
		case <-gw.done:
			return
		case <-gw.flushTicker.C:
			gw.mu.Lock()
			gw.flushPendingLogs()
			gw.mu.Unlock()
		}
	}
}

// flushPendingLogs outputs all pending deduplicated log entries and clears the map.
// Must be called with mutex held.
func (gw *GossipWriter) flushPendingLogs() {
	for key, entry := range gw.pendingLogs {
		// Print aggregated count only, ignore time range to reduce noise
		var formattedMessage string
		if entry.count > 1 {
			formattedMessage = fmt.Sprintf("%s (x%d)", entry.message, entry.count)
		} else {
			formattedMessage = entry.message
		}

		gw.outputMessage(entry.level, formattedMessage)
		delete(gw.pendingLogs, key)
	}
}

// outputMessage routes a message to the appropriate log level function.
func (gw *GossipWriter) outputMessage(level, message string) {
	// Probe failures against dead brokers are expected; keep them at WARN
	adjustedLevel := gw.adjustLogLevel(level, message)

	switch adjustedLevel {
	case "DEBUG":
		Debug("(gossip) %s", message)
	case "INFO":
		Info("(gossip) %s", message)
	case "WARN", "WARNING":
		Warn("(gossip) %s", message)
	case "ERR", "ERROR":
		Error("(gossip) %s", message)
	default:
		Info("(gossip)[%s]: %s", adjustedLevel, message)
	}
}

// adjustLogLevel downgrades certain noisy error messages to warnings.
// This reduces log noise for expected failure scenarios while brokers
// restart or leave the cluster.
func (gw *GossipWriter) adjustLogLevel(level, message string) string {
	if level == "ERR" || level == "ERROR" {
		if strings.Contains(message, "failed to send") ||
			strings.Contains(message, "push/pull") ||
			strings.Contains(message, "connection refused") {
			return "WARN"
		}
	}
	return level
}

// shouldDeduplicate determines if a message should be deduplicated based on
// patterns. Returns true for repetitive probe/connection messages that can
// flood logs when a broker stays unreachable.
func (gw *GossipWriter) shouldDeduplicate(message string) bool {
	patterns := []string{
		"failed to ping",
		"suspect",
		"no acks received",
		"connection refused",
		"dial tcp",
	}

	for _, pattern := range patterns {
		if strings.Contains(message, pattern) {
			return true
		}
	}
	return false
}

// createDeduplicationKey creates a unique key for grouping similar log messages.
// Groups messages by their core content, ignoring timestamps and minor variations.
func (gw *GossipWriter) createDeduplicationKey(level, message string) string {
	// Group probe/connection failures by peer address like "192.168.0.204:7946"
	re := regexp.MustCompile(`\d+\.\d+\.\d+\.\d+:\d+`)
	if addr := re.FindString(message); addr != "" {
		return fmt.Sprintf("%s:probe_failure:%s", level, addr)
	}

	// Default: use level + first 50 chars as key
	if len(message) > 50 {
		return fmt.Sprintf("%s:%s", level, message[:50])
	}
	return fmt.Sprintf("%s:%s", level, message)
}

// processLogs parses gossip log lines and routes them through the colorful
// logging system. Runs in a background goroutine to continuously process logs
// from the Serf and memberlist libraries. Extracts log levels from the
// "timestamp [LEVEL] component: message" format and re-emits through our
// colored logger with a "(gossip)" prefix.
func (gw *GossipWriter) processLogs() {
	scanner := bufio.NewScanner(gw.reader)

	// Regex to parse the hashicorp log format: timestamp [LEVEL] component: message
	logRegex := regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} \[(\w+)\] (.+)$`)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		matches := logRegex.FindStringSubmatch(line)
		if len(matches) != 3 {
			// If we can't parse it, still route through colorful logging
			Info("(gossip) %s", line)
			continue
		}

		level := matches[1]
		message := matches[2]

		// Avoid redundant component prefixes since we add our own "(gossip)" label
		for _, p := range []string{"serf: ", "memberlist: "} {
			if strings.HasPrefix(strings.ToLower(message), p) {
				message = strings.TrimSpace(message[len(p):])
				break
			}
		}

		if gw.shouldDeduplicate(message) {
			gw.mu.Lock()
			key := gw.createDeduplicationKey(level, message)

			if entry, exists := gw.pendingLogs[key]; exists {
				entry.count++
				entry.lastSeen = time.Now()
			} else {
				now := time.Now()
				gw.pendingLogs[key] = &logEntry{
					message:   message,
					level:     level,
					count:     1,
					firstSeen: now,
					lastSeen:  now,
				}
			}
			gw.mu.Unlock()
		} else {
			gw.outputMessage(level, message)
		}
	}
}

// ============================================================================
// GENERIC LOG INTEGRATION - General purpose writers for third-party libraries
// ============================================================================

// LevelWriter forwards log lines to a specific log level with optional prefix.
// Useful for integrating third-party libraries that expect io.Writer interfaces.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter creates a writer that logs each line at the specified level with prefix.
// Valid levels: DEBUG, INFO, WARN, ERROR
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write implements io.Writer by splitting input into lines and logging each at
// the configured level. Processes each line separately and routes through the
// appropriate log level function.
func (w *LevelWriter) Write(p []byte) (int, error) {
	text := string(p)
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msg := line
		if w.prefix != "" {
			msg = w.prefix + ": " + line
		}
		switch w.level {
		case "DEBUG":
			Debug("%s", msg)
		case "INFO":
			Info("%s", msg)
		case "WARN":
			Warn("%s", msg)
		case "ERROR":
			Error("%s", msg)
		default:
			Info("%s", msg)
		}
	}
	return len(p), nil
}

// RedirectStandardLog redirects Go's standard library logger output to the
// provided writer. Captures logs from dependencies that use the global logger
// and routes them through the unified logging pipeline. Passing nil discards
// standard log output.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetOutput(w)
}
