// Package errors formats compiler diagnostics with source context: a
// message plus line/column plus a caret pointing at the offending column,
// optionally ANSI-colored.
package errors

import (
	"fmt"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/cwbudde/go-portugol/internal/lexer"
)

// Kind classifies a CompilerError by the phase that raised it.
type Kind int

const (
	KindLexical Kind = iota
	KindSyntactic
	KindNameResolution
	KindTypeMismatch
	KindInheritance
	KindLowering
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntactic:
		return "syntactic"
	case KindNameResolution:
		return "name-resolution"
	case KindTypeMismatch:
		return "type-mismatch"
	case KindInheritance:
		return "inheritance"
	case KindLowering:
		return "lowering"
	case KindRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// CompilerError is a single diagnostic with optional source position.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
	Kind    Kind
}

func New(kind Kind, pos lexer.Position, message string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message}
}

func Newf(kind Kind, pos lexer.Position, format string, args ...any) *CompilerError {
	return New(kind, pos, fmt.Sprintf(format, args...))
}

func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders the error with a source snippet and caret. When color is
// true, ANSI codes highlight the caret and message.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s error in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s error at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max0(e.Pos.Column-1)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func (e *CompilerError) sourceLine(line int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// List is an accumulating diagnostic list shared by every compiler phase.
// A phase fails iff its List is non-empty, and it keeps going as far as it
// safely can to report as many diagnostics as possible in one run.
type List struct {
	errs []*CompilerError
}

func (l *List) Add(e *CompilerError)        { l.errs = append(l.errs, e) }
func (l *List) Addf(kind Kind, pos lexer.Position, format string, args ...any) {
	l.Add(Newf(kind, pos, format, args...))
}
func (l *List) Errors() []*CompilerError { return l.errs }
func (l *List) HasErrors() bool          { return len(l.errs) > 0 }
func (l *List) Len() int                 { return len(l.errs) }

// AttachSource stamps File/Source on every accumulated diagnostic, used
// once a phase finishes so the CLI can render context without threading
// filename/source through every call site.
func (l *List) AttachSource(file, source string) {
	for _, e := range l.errs {
		e.File = file
		e.Source = source
	}
}

// FormatAll renders every diagnostic in the list, one per paragraph.
// Color is passed through to every Format call; the caller decides it
// (the CLI uses StderrSupportsColor).
func FormatAll(errs []*CompilerError, color bool) string {
	var sb strings.Builder
	for i, e := range errs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Format(color))
		sb.WriteString("\n")
	}
	return sb.String()
}

// StderrSupportsColor reports whether fd is a terminal (including a Cygwin
// terminal); the CLI calls it with stderr's descriptor to decide whether to
// colorize diagnostics.
func StderrSupportsColor(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
