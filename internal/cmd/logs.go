package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nexus-sus/nexus/internal/config"
	"github.com/nexus-sus/nexus/internal/logging"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View nexus logs",
	Long: `View and filter the nexus log file.

Examples:
  # Show the last 50 entries
  nexus logs

  # Show everything
  nexus logs -n 0

  # Follow new entries as they are written
  nexus logs -f

  # Only warnings and errors from the last hour
  nexus logs --level warn --since 1h

  # Search for specific patterns
  nexus logs --grep "rate limited|malformed"`,
	RunE: runLogs,
}

var (
	logsTail   int
	logsFollow bool
	logsLevel  string
	logsSince  string
	logsGrep   string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	Code      string         `json:"code,omitempty"`
	Extra     map[string]any `json:"-"` // Captures additional fields
}

// UnmarshalJSON implements custom unmarshaling to capture extra fields
func (e *logEntry) UnmarshalJSON(data []byte) error {
	// First, unmarshal known fields using a type alias to avoid recursion
	type Alias logEntry
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	// Then unmarshal all fields to capture extras
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	// Remove known fields, keep the rest as extra
	for _, known := range []string{"time", "level", "msg", "component", "code"} {
		delete(all, known)
	}

	if len(all) > 0 {
		e.Extra = all
	}

	return nil
}

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// levelColor returns the ANSI color code for a log level
func levelColor(level string) string {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return colorGray
	case logging.LevelInfo:
		return colorBlue
	case logging.LevelWarn:
		return colorYellow
	case logging.LevelError:
		return colorRed
	default:
		return colorReset
	}
}

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry *logEntry) string {
	var sb strings.Builder

	// Timestamp
	sb.WriteString(colorGray)
	sb.WriteString("[")
	sb.WriteString(entry.Time.Format("15:04:05.000"))
	sb.WriteString("]")
	sb.WriteString(colorReset)

	// Level with color
	sb.WriteString(" ")
	sb.WriteString(levelColor(entry.Level))
	sb.WriteString("[")
	sb.WriteString(strings.ToUpper(entry.Level))
	sb.WriteString("]")
	sb.WriteString(colorReset)

	if entry.Component != "" {
		sb.WriteString(" ")
		sb.WriteString(entry.Component)
		sb.WriteString(":")
	}

	// Message
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	if entry.Code != "" {
		writeField(&sb, "code", entry.Code)
	}

	// Extra fields, sorted so output is stable
	keys := make([]string, 0, len(entry.Extra))
	for key := range entry.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		writeField(&sb, key, entry.Extra[key])
	}

	return sb.String()
}

func writeField(sb *strings.Builder, key string, value any) {
	sb.WriteString(" ")
	sb.WriteString(colorCyan)
	sb.WriteString(key)
	sb.WriteString("=")
	sb.WriteString(colorReset)
	sb.WriteString(fmt.Sprintf("%v", value))
}

// logFilter holds the parsed filter flags.
type logFilter struct {
	minLevel int
	since    time.Time
	grep     *regexp.Regexp
}

func newLogFilter(level, since, grep string) (logFilter, error) {
	f := logFilter{minLevel: -1}

	if level != "" {
		f.minLevel = levelPriority(logging.ParseLevel(level))
	}

	if since != "" {
		duration, err := time.ParseDuration(since)
		if err != nil {
			return f, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = time.Now().Add(-duration)
	}

	if grep != "" {
		re, err := regexp.Compile(grep)
		if err != nil {
			return f, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}

	return f, nil
}

// passes checks if a log entry passes all filter criteria
func (f logFilter) passes(entry *logEntry) bool {
	// Level filter
	if f.minLevel >= 0 && levelPriority(entry.Level) < f.minLevel {
		return false
	}

	// Time filter
	if !f.since.IsZero() && entry.Time.Before(f.since) {
		return false
	}

	// Grep filter - search in message and context fields
	if f.grep != nil {
		searchText := entry.Msg + " " + entry.Component + " " + entry.Code
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !f.grep.MatchString(searchText) {
			return false
		}
	}

	return true
}

// passesRaw applies the filters to a line that is not a log entry.
func (f logFilter) passesRaw(line string) bool {
	if f.minLevel >= 0 || !f.since.IsZero() {
		return false
	}
	return f.grep == nil || f.grep.MatchString(line)
}

// render parses and filters one line. ok is false when the line is
// filtered out. Lines that are not JSON have no level or time, so they are
// dropped by --level and --since and matched verbatim by --grep.
func (f logFilter) render(line string) (string, bool) {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, f.passesRaw(line)
	}
	if !f.passes(&entry) {
		return "", false
	}
	return formatLogEntry(&entry), true
}

func runLogs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logPath := filepath.Join(config.Get().Logging.ResolveDir(), logging.FileName)

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Logs are stored at:", logPath)
		return nil
	}

	filter, err := newLogFilter(logsLevel, logsSince, logsGrep)
	if err != nil {
		return err
	}

	if logsFollow {
		return followLogs(cmd.Context(), out, logPath, filter)
	}
	return displayLogs(out, logPath, logsTail, filter)
}

// displayLogs reads the log file and displays filtered entries
func displayLogs(w io.Writer, logPath string, tail int, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)

	// Increase buffer size for potentially long log lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if rendered, ok := filter.render(line); ok {
			entries = append(entries, rendered)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	// Apply tail limit
	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}

	for _, entry := range entries {
		fmt.Fprintln(w, entry)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No matching log entries found.")
	}

	return nil
}

// followLogs prints entries appended to the log file until ctx is done.
// It watches the log directory so it picks up the fresh file after a
// rotation.
func followLogs(ctx context.Context, w io.Writer, logPath string, filter logFilter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(logPath)); err != nil {
		return fmt.Errorf("failed to watch log directory: %w", err)
	}

	t, err := openTail(logPath, true)
	if err != nil {
		return err
	}
	defer func() { t.close() }()

	fmt.Fprintf(w, "Following logs... (Ctrl+C to stop)\n\n")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(logPath) {
				continue
			}

			switch {
			case event.Has(fsnotify.Write):
				t.emit(w, filter)
			case event.Has(fsnotify.Create):
				// Rotated: finish the old file, then start the new one from the top
				t.emit(w, filter)
				t.close()
				if t, err = openTail(logPath, false); err != nil {
					return err
				}
				t.emit(w, filter)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("log watcher failed: %w", err)
		}
	}
}

// tailReader reads complete lines appended to a file.
type tailReader struct {
	file    *os.File
	reader  *bufio.Reader
	partial string
}

func openTail(path string, fromEnd bool) (*tailReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if fromEnd {
		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to seek to end: %w", err)
		}
	}
	return &tailReader{file: file, reader: bufio.NewReader(file)}, nil
}

// emit prints every complete line available, keeping a trailing partial
// line for the next call.
func (t *tailReader) emit(w io.Writer, filter logFilter) {
	for {
		chunk, err := t.reader.ReadString('\n')
		t.partial += chunk
		if err != nil {
			return
		}

		line := strings.TrimSpace(t.partial)
		t.partial = ""
		if line == "" {
			continue
		}
		if rendered, ok := filter.render(line); ok {
			fmt.Fprintln(w, rendered)
		}
	}
}

func (t *tailReader) close() {
	if t != nil && t.file != nil {
		_ = t.file.Close()
	}
}
