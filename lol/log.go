// Package lol (log of location) is a levelled logging library that prints a
// high precision timestamp and the code location of the log call site, so
// tracing a fault back to its origin needs no grepping. Higher levels can be
// filtered out for quieter output.
package lol

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

const (
	Off = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

var LevelNames = []string{
	"off",
	"fatal",
	"error",
	"warn",
	"info",
	"debug",
	"trace",
}

type (
	// Ln prints a list of values separated by spaces.
	Ln func(a ...any)
	// F prints with a printf format string.
	F func(format string, a ...any)
	// S prints a spew.Sdump of the parameters.
	S func(a ...any)
	// C accepts a closure, deferring the computation of an expensive print
	// until after the level filter has passed.
	C func(closure func() string)
	// Chk prints an error if it is not nil, and returns whether it was.
	Chk func(e error) bool
	// Err constructs an error fmt.Errorf style, logging it at the call site.
	Err func(format string, a ...any) error

	// LevelPrinter is the set of printers available at each log level.
	LevelPrinter struct {
		Ln
		F
		S
		C
		Chk
		Err
	}

	// LevelSpec is the name and colorizer of one log level.
	LevelSpec struct {
		ID        int
		Name      string
		Colorizer func(a ...any) string
	}
)

var (
	// LevelSpecs are the print specifications of each log level.
	LevelSpecs = []LevelSpec{
		{Off, "", func(a ...any) string { return "" }},
		{Fatal, "FTL", color.New(color.BgRed, color.FgHiWhite).Sprint},
		{Error, "ERR", color.New(color.FgHiRed).Sprint},
		{Warn, "WRN", color.New(color.FgHiYellow).Sprint},
		{Info, "INF", color.New(color.FgHiGreen).Sprint},
		{Debug, "DBG", color.New(color.FgHiBlue).Sprint},
		{Trace, "TRC", color.New(color.FgHiMagenta).Sprint},
	}
	locCol = color.New(color.FgBlue).Sprint
)

// Log is the set of LevelPrinter for each log level.
type Log struct {
	F, E, W, I, D, T LevelPrinter
}

// Check is the set of error check printers for each log level.
type Check struct {
	F, E, W, I, D, T Chk
}

// Errorf is the set of log-and-return-error printers for each log level.
type Errorf struct {
	F, E, W, I, D, T Err
}

// Logger bundles the three printer sets.
type Logger struct {
	*Log
	*Check
	*Errorf
}

// Level is the level the logger is currently printing at.
var Level atomic.Int32

// Main is the default process-wide logger, writing to stderr.
var Main = &Logger{}

func init() {
	Main.Log, Main.Check, Main.Errorf = New(os.Stderr)
	Level.Store(Info)
}

// GetLogLevel returns the level number for a string level name, defaulting to
// Info for unrecognized names.
func GetLogLevel(level string) (i int) {
	for i = range LevelNames {
		if level == LevelNames[i] {
			return
		}
	}
	return Info
}

// SetLogLevel sets the level of the Main logger from a string level name.
func SetLogLevel(level string) { Level.Store(int32(GetLogLevel(level))) }

func timeStamp() string {
	return time.Now().Format("2006-01-02T15:04:05.000Z07:00 ")
}

// GetLoc returns the file:line of a call site n levels up the stack, trimmed
// to be relative to the working directory where possible.
func GetLoc(n int) (loc string) {
	_, file, line, ok := runtime.Caller(n)
	if !ok {
		return
	}
	if wd, err := os.Getwd(); err == nil {
		file = strings.TrimPrefix(strings.TrimPrefix(file, wd), string(os.PathSeparator))
	}
	return fmt.Sprintf("%s:%d", file, line)
}

func joinStrings(a ...any) (s string) {
	for i := range a {
		s += fmt.Sprint(a[i])
		if i < len(a)-1 {
			s += " "
		}
	}
	return
}

func printer(w io.Writer, l int32, text string) {
	fmt.Fprintf(w, "%s%s %s %s\n",
		locCol(timeStamp()),
		LevelSpecs[l].Colorizer(LevelSpecs[l].Name),
		text,
		locCol(GetLoc(3)),
	)
}

// GetPrinter returns the printers of one level writing to the given writer.
func GetPrinter(l int32, w io.Writer) LevelPrinter {
	return LevelPrinter{
		Ln: func(a ...any) {
			if Level.Load() < l {
				return
			}
			printer(w, l, joinStrings(a...))
		},
		F: func(format string, a ...any) {
			if Level.Load() < l {
				return
			}
			printer(w, l, fmt.Sprintf(format, a...))
		},
		S: func(a ...any) {
			if Level.Load() < l {
				return
			}
			printer(w, l, spew.Sdump(a...))
		},
		C: func(closure func() string) {
			if Level.Load() < l {
				return
			}
			printer(w, l, closure())
		},
		Chk: func(e error) bool {
			if e == nil {
				return false
			}
			if Level.Load() >= l {
				printer(w, l, e.Error())
			}
			return true
		},
		Err: func(format string, a ...any) error {
			if Level.Load() >= l {
				printer(w, l, fmt.Sprintf(format, a...))
			}
			return fmt.Errorf(format, a...)
		},
	}
}

// New creates the printer sets of a logger writing to the given writer.
func New(w io.Writer) (l *Log, c *Check, e *Errorf) {
	l = &Log{
		F: GetPrinter(Fatal, w),
		E: GetPrinter(Error, w),
		W: GetPrinter(Warn, w),
		I: GetPrinter(Info, w),
		D: GetPrinter(Debug, w),
		T: GetPrinter(Trace, w),
	}
	c = &Check{
		F: l.F.Chk, E: l.E.Chk, W: l.W.Chk, I: l.I.Chk, D: l.D.Chk, T: l.T.Chk,
	}
	e = &Errorf{
		F: l.F.Err, E: l.E.Err, W: l.W.Err, I: l.I.Err, D: l.D.Err, T: l.T.Err,
	}
	return
}
