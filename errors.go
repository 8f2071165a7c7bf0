package dartsass

import (
	"fmt"
	"strings"

	"github.com/sassdriver/dartsass/internal/embeddedsass"
)

// ErrShutdown is returned from Compile, Reinit, and Shutdown when the
// Transpiler is or is about to be shut down. Mirrors the teacher's
// ErrShutdown sentinel.
var ErrShutdown = fmt.Errorf("connection is shut down")

// Span is the source location attached to a CompilerError or a LogEvent.
type Span struct {
	Text    string
	Url     string
	Start   Position
	End     Position
	HasEnd  bool
	Context string
}

// Position is a single line/column/offset location within a Span.
type Position struct {
	Offset int
	Line   int
	Column int
}

func spanFromWire(s *embeddedsass.SourceSpan) *Span {
	if s == nil {
		return nil
	}
	return &Span{
		Text:    s.Text,
		Url:     s.Url,
		Start:   Position{Offset: int(s.StartOffset), Line: int(s.StartLine), Column: int(s.StartColumn)},
		End:     Position{Offset: int(s.EndOffset), Line: int(s.EndLine), Column: int(s.EndColumn)},
		HasEnd:  s.HasEnd,
		Context: s.Context,
	}
}

// CompilerError is returned when the stylesheet fails to compile cleanly:
// a Sass-level error with a message, a span, a stack trace, every log
// message accumulated up to the failure, and a pre-formatted description
// mirroring what the Dart Sass CLI would print.
type CompilerError struct {
	Message     string
	Span        *Span
	StackTrace  string
	Messages    []LogEvent
	Description string
}

func (e *CompilerError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Span != nil {
		return fmt.Sprintf("%s:%d:%d: %s", e.Span.Url, e.Span.Start.Line, e.Span.Start.Column, e.Message)
	}
	return e.Message
}

// ProtocolErrorType classifies how the compiler process misbehaved.
type ProtocolErrorType int

const (
	ProtocolErrorParse ProtocolErrorType = iota
	ProtocolErrorParams
	ProtocolErrorInternal
)

// ProtocolError means the child process violated the Embedded Sass
// protocol: a malformed frame, an unknown message kind, or a version
// mismatch at handshake. Every in-flight compilation and the owning child
// process are torn down as a consequence. Frames addressed to an unknown
// compilation id are dropped and do not produce a ProtocolError.
type ProtocolError struct {
	Type    ProtocolErrorType
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s", e.Message)
}

// LifecycleError is a host-side lifecycle failure: a per-compilation
// timeout, a user-requested Reinit, a compiler that failed to
// start, or a compile attempted after shutdown.
type LifecycleError struct {
	Message string
}

func (e *LifecycleError) Error() string { return e.Message }

// IsTimeout reports whether this LifecycleError was raised because a
// compilation's deadline fired, as opposed to a Reinit, a failed start, or
// a compile attempted after shutdown.
func (e *LifecycleError) IsTimeout() bool { return isTimeoutDescription(e.Message) }

func newLifecycleError(format string, args ...any) *LifecycleError {
	return &LifecycleError{Message: fmt.Sprintf(format, args...)}
}

// SassFunctionError is returned by a host function or importer callback
// to signal a clean, stylesheet-visible failure (distinct from a Go
// panic, which is not recovered).
type SassFunctionError struct {
	Message string
}

func (e *SassFunctionError) Error() string { return e.Message }

// isTimeoutDescription reports whether a LifecycleError's message matches
// the timeout wording used in §8's scenario S6, so tests and callers can
// recognize the cause without string-matching everywhere.
func isTimeoutDescription(msg string) bool { return strings.Contains(msg, "Timeout") }
