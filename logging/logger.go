// Package logging provides the leveled run logger and the daily log files
// it writes to.
package logging

import (
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR"}

var levelColors = [...]*color.Color{
	color.New(color.FgHiBlack),
	color.New(color.FgCyan),
	color.New(color.FgYellow),
	color.New(color.FgRed, color.Bold),
}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// Logger writes "<time> LEVEL - message" lines. It is passed explicitly to
// every component; there is no package-level instance.
type Logger struct {
	out     *log.Logger
	colored bool
	min     Level
}

// New logs to w. colored tags each level with an ANSI colour and is meant
// for terminals only.
func New(w io.Writer, colored bool) *Logger {
	return &Logger{
		out:     log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		colored: colored,
		min:     LevelDebug,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, false)
}

func (l *Logger) SetLevel(min Level) {
	l.min = min
}

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil || level < l.min {
		return
	}
	tag := level.String()
	if l.colored {
		tag = levelColors[level].Sprint(tag)
	}
	l.out.Printf("%s - %s", tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }
