package logging

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

const DefaultTimeFormat = "2006-01-02T15:04:05.0000Z"

// Options configure the logger built by New.
type Options struct {
	Debug bool
	// Console switches from JSON lines to zerolog's human readable writer.
	Console bool
	Color   bool
}

// New builds the logger used by the command line tools. Library code only
// reads it back with zerolog.Ctx.
func New(w io.Writer, opts Options) zerolog.Logger {
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: !opts.Color, PartsExclude: []string{zerolog.TimestampFieldName}}
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		Hook(TimeHook{}).
		Hook(CallerHook{WithColor: opts.Color && opts.Console})
}

// TimeHook stamps events with millisecond precision and no timezone.
type TimeHook struct {
	Format string
}

func (t TimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	format := t.Format
	if format == "" {
		format = DefaultTimeFormat
	}
	e.Str("time", time.Now().Format(format))
}

// CallerHook records "pkg:file:line" of the code that emitted the event.
type CallerHook struct {
	WithColor bool
}

func (c CallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	// Run <- (*Event).msg <- (*Event).Msg <- caller
	pc, file, line, ok := runtime.Caller(3)
	if !ok {
		return
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return
	}

	pkg, _ := SplitFuncName(fn.Name())
	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

// SplitFuncName splits a fully qualified function name as reported by the
// runtime into its package path and the rest.
func SplitFuncName(name string) (pkg, function string) {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}

	dot := strings.IndexByte(name[lastSlash:], '.')
	if dot < 0 {
		return name, ""
	}
	dot += lastSlash

	pkg = name[:dot]
	function = name[dot+1:]

	if strings.Contains(pkg, ".(") {
		parts := strings.SplitN(pkg, ".(", 2)
		pkg = parts[0]
		function = "(" + parts[1] + "." + function
	}

	return pkg, function
}

func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		file = path[i+1:]
	}

	if colorize {
		sep := color.New(color.Faint).Sprint(":")
		return fmt.Sprintf("%s%s%s%s%s", pkg, sep,
			color.New(color.Bold).Sprint(file), sep,
			color.New(color.FgHiRed, color.Bold).Sprintf("%d", line))
	}

	return fmt.Sprintf("%s:%s:%d", pkg, file, line)
}
