package shared

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// GetRawForgeVersion strips the minecraft version from a "mcVersion-loaderVersion" forge version.
func GetRawForgeVersion(version string) string {
	if _, loaderVersion, ok := strings.Cut(version, "-"); ok {
		return loaderVersion
	}
	return version
}

var logger = newLogger()

func newLogger() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{})
	styles := log.DefaultStyles()
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Foreground(lipgloss.Color("214"))
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("NOTE").
		Foreground(lipgloss.Color("86"))
	l.SetStyles(styles)
	return l
}

// Warn prints a recoverable, per-item problem and lets the command carry on.
func Warn(msg interface{}, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

func Warnf(format string, a ...interface{}) {
	logger.Warnf(format, a...)
}

// Notice prints a one-line informational message, e.g. a skipped duplicate.
func Notice(msg interface{}, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

func Exitf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, format, a...)
	os.Exit(1)
}

func Exitln(a ...interface{}) {
	_, _ = fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}
