package lilduino

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// LogLevel represents the severity of a log message (higher value = higher severity)
type LogLevel int

const (
	LevelTrace  LogLevel = iota // Detailed tracing (requires enabled + category)
	LevelInfo                   // Informational messages (requires enabled + category)
	LevelDebug                  // Development debugging (requires enabled + category)
	LevelNotice                 // Notable events (always shown)
	LevelWarn                   // Warnings (always shown)
	LevelError                  // Runtime errors (always shown)
)

// LogCategory represents the subsystem generating the message
type LogCategory string

const (
	CatNone       LogCategory = ""           // Uncategorized
	CatCommand    LogCategory = "command"    // Registration and dispatch
	CatArgument   LogCategory = "argument"   // Argument validation
	CatIO         LogCategory = "io"         // Serial console and callbacks
	CatPeripheral LogCategory = "peripheral" // GPIO, LED, IR, battery
	CatRadio      LogCategory = "radio"      // WiFi
	CatStorage    LogCategory = "storage"    // File store
	CatShell      LogCategory = "shell"      // Script splitting and execution
	CatSystem     LogCategory = "system"     // Host setup
)

var allCategories = []LogCategory{
	CatCommand, CatArgument, CatIO, CatPeripheral, CatRadio, CatStorage, CatShell, CatSystem,
}

// Logger handles logging for the bridge
type Logger struct {
	enabled           bool
	enabledCategories map[LogCategory]bool
	out               io.Writer
	errOut            io.Writer
	warnColor         *color.Color
}

// stderrSupportsColor checks if stderr is a terminal that supports color output
func stderrSupportsColor() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	if (info.Mode() & os.ModeCharDevice) == 0 {
		return false
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// NewLogger creates a new logger
func NewLogger(enabled bool) *Logger {
	warn := color.New(color.FgHiYellow)
	if stderrSupportsColor() {
		warn.EnableColor()
	} else {
		warn.DisableColor()
	}
	return &Logger{
		enabled:           enabled,
		enabledCategories: make(map[LogCategory]bool),
		out:               os.Stdout,
		errOut:            os.Stderr,
		warnColor:         warn,
	}
}

// SetOutput redirects log output. Low-severity messages go to out, the
// rest to errOut. Colour is turned off since the writers are not known to
// be terminals.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	l.out = out
	l.errOut = errOut
	l.warnColor.DisableColor()
}

// SetEnabled enables or disables debug logging
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// EnableCategory enables debug logging for a specific category
func (l *Logger) EnableCategory(cat LogCategory) {
	l.enabledCategories[cat] = true
}

// DisableCategory disables debug logging for a specific category
func (l *Logger) DisableCategory(cat LogCategory) {
	delete(l.enabledCategories, cat)
}

// EnableAllCategories enables all categories for debug logging
func (l *Logger) EnableAllCategories() {
	for _, cat := range allCategories {
		l.enabledCategories[cat] = true
	}
}

// EnableCategoryNames enables categories by name; "all" enables every one.
// Unknown names are returned.
func (l *Logger) EnableCategoryNames(names []string) []string {
	var unknown []string
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "all" {
			l.EnableAllCategories()
			continue
		}
		found := false
		for _, cat := range allCategories {
			if string(cat) == name {
				l.EnableCategory(cat)
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// IsCategoryEnabled checks if a category is enabled
func (l *Logger) IsCategoryEnabled(cat LogCategory) bool {
	return l.enabledCategories[cat]
}

// shouldLog determines if a message should be logged based on level and category
func (l *Logger) shouldLog(level LogLevel, cat LogCategory) bool {
	switch level {
	case LevelError, LevelWarn, LevelNotice:
		return true
	case LevelDebug, LevelInfo, LevelTrace:
		return l.enabled && (cat == CatNone || l.enabledCategories[cat])
	default:
		return false
	}
}

// Log is the unified logging method
func (l *Logger) Log(level LogLevel, cat LogCategory, message string, position *SourcePosition) {
	if !l.shouldLog(level, cat) {
		return
	}

	catSuffix := ""
	if cat != CatNone {
		catSuffix = fmt.Sprintf(":%s", cat)
	}

	var prefix string
	switch level {
	case LevelTrace:
		prefix = fmt.Sprintf("[TRACE%s]", catSuffix)
	case LevelInfo:
		prefix = fmt.Sprintf("[INFO%s]", catSuffix)
	case LevelDebug:
		prefix = fmt.Sprintf("[DEBUG%s]", catSuffix)
	case LevelNotice:
		prefix = fmt.Sprintf("[lilduino%s NOTICE]", catSuffix)
	case LevelWarn:
		prefix = fmt.Sprintf("[lilduino%s WARN]", catSuffix)
	case LevelError:
		prefix = fmt.Sprintf("[lilduino%s ERROR]", catSuffix)
	}

	output := prefix + " " + message
	if position != nil {
		output += fmt.Sprintf("\n  at %s (pos %d)", position, position.Offset)
	}

	if level == LevelTrace || level == LevelInfo || level == LevelDebug {
		_, _ = fmt.Fprintln(l.out, output)
		return
	}
	_, _ = l.warnColor.Fprintln(l.errOut, output)
}

// ErrorCat logs a categorized error message
func (l *Logger) ErrorCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelError, cat, fmt.Sprintf(format, args...), nil)
}

// WarnCat logs a categorized warning message
func (l *Logger) WarnCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelWarn, cat, fmt.Sprintf(format, args...), nil)
}

// NoticeCat logs a categorized notice message
func (l *Logger) NoticeCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelNotice, cat, fmt.Sprintf(format, args...), nil)
}

// DebugCat logs a categorized debug message
func (l *Logger) DebugCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelDebug, cat, fmt.Sprintf(format, args...), nil)
}

// InfoCat logs a categorized informational message
func (l *Logger) InfoCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelInfo, cat, fmt.Sprintf(format, args...), nil)
}

// TraceCat logs a categorized trace message
func (l *Logger) TraceCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelTrace, cat, fmt.Sprintf(format, args...), nil)
}

// CommandFailure logs a failed command at debug level. The user-facing
// report goes through the UnhandledError callback instead.
func (l *Logger) CommandFailure(cat LogCategory, cmdName, message string, position *SourcePosition) {
	l.Log(LevelDebug, cat, commandMessage(cmdName, message), position)
}

// CommandWarning logs a command warning with category
func (l *Logger) CommandWarning(cat LogCategory, cmdName, message string, position *SourcePosition) {
	l.Log(LevelWarn, cat, commandMessage(cmdName, message), position)
}

func commandMessage(cmdName, message string) string {
	if cmdName == "" {
		return message
	}
	return fmt.Sprintf("%s: %s", strings.ToUpper(cmdName), message)
}
