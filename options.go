package dartsass

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sassdriver/dartsass/internal/embeddedsass"
	"github.com/sassdriver/dartsass/internal/godartsasstesting"
	"github.com/sassdriver/dartsass/value"
)

const defaultDartSassEmbeddedFilename = "dart-sass-embedded"

// Syntax is the stylesheet syntax of an inline compile input or of content
// an importer loads.
type Syntax int

const (
	SyntaxSCSS Syntax = iota
	SyntaxIndented
	SyntaxCSS
)

// OutputStyle controls how the compiler formats its CSS output.
type OutputStyle int

const (
	OutputStyleExpanded OutputStyle = iota
	OutputStyleCompressed
)

// ParseOutputStyle parses a config string (as found in a host's own config
// file) into an OutputStyle, falling back to OutputStyleExpanded for any
// unrecognized value.
func ParseOutputStyle(s string) OutputStyle {
	if strings.EqualFold(s, "compressed") {
		return OutputStyleCompressed
	}
	return OutputStyleExpanded
}

// ParseSyntax parses a config string into a Syntax, falling back to
// SyntaxSCSS for any unrecognized value.
func ParseSyntax(s string) Syntax {
	switch {
	case strings.EqualFold(s, "css"):
		return SyntaxCSS
	case strings.EqualFold(s, "sass"), strings.EqualFold(s, "indented"):
		return SyntaxIndented
	default:
		return SyntaxSCSS
	}
}

// SourceMapStyle controls whether and how a source map is generated.
type SourceMapStyle int

const (
	SourceMapStyleNone SourceMapStyle = iota
	SourceMapStyleSeparate
	SourceMapStyleEmbeddedSources
)

// MessageStyle controls whether diagnostic text the compiler formats
// itself (e.g. a CompilerError's Description) carries terminal color
// codes.
type MessageStyle int

const (
	MessageStylePlain MessageStyle = iota
	MessageStyleTerminalColored
)

// WarningLevel controls how many of the compiler's own warnings are
// reported through LogEvent.
type WarningLevel int

const (
	WarningLevelDefault WarningLevel = iota
	WarningLevelSilent
	WarningLevelVerbose
)

// LogEventType classifies a LogEvent. LogEventTypeInternal is never sent by
// the compiler; the driver uses it for its own diagnostic notices (a broken
// connection to the child, a protocol error the compiler reports) so they
// flow through the same
// LogEventHandler callback instead of a separate logging dependency.
type LogEventType int

const (
	LogEventTypeWarning LogEventType = iota
	LogEventTypeDeprecation
	LogEventTypeDebug
	LogEventTypeInternal
)

// LogEvent is one warning, deprecation, debug message, or driver-internal
// notice accumulated during a compilation.
type LogEvent struct {
	Type            LogEventType
	Message         string
	Span            *Span
	StackTrace      string
	DeprecationType string
}

// Options configures a Transpiler for its entire lifetime: the compiler
// binary to run, the compiler-global importers and functions available to
// every compilation, and the deadline/diagnostics policy.
type Options struct {
	// The path to the Dart Sass Embedded wrapper binary, an absolute
	// filename if not in $PATH. If this is not set, "dart-sass-embedded"
	// (or "dart-sass-embedded.bat" on Windows) is resolved via $PATH.
	DartSassEmbeddedFilename string

	// Extra arguments passed to the compiler binary on start.
	CompilerArgs []string

	// Timeout bounds how long a single Compile call waits for the child
	// to respond. Zero or negative disables the timeout entirely, per
	// spec.md §4.7's "timeout-seconds: int (-1 disables)".
	Timeout time.Duration

	// GlobalImporters and GlobalFunctions are available to every
	// compilation in addition to that compilation's own Args.Importers
	// and Args.Functions; per-compilation entries win on signature
	// collision.
	GlobalImporters []ImporterBinding
	GlobalFunctions map[string]value.Callable

	MessageStyle MessageStyle
	WarningLevel WarningLevel

	// LogEventHandler receives every warning, deprecation, and debug
	// message logged during any compilation, plus the driver's own
	// LogEventTypeInternal notices.
	LogEventHandler func(LogEvent)

	sassMessageStyle embeddedsass.MessageStyle
	sassWarningLevel embeddedsass.WarningLevel
}

func (opts *Options) init() error {
	if opts.DartSassEmbeddedFilename == "" {
		opts.DartSassEmbeddedFilename = defaultDartSassEmbeddedFilename
	}
	opts.sassMessageStyle = embeddedsass.MessageStyle(opts.MessageStyle)
	opts.sassWarningLevel = embeddedsass.WarningLevel(opts.WarningLevel)
	return nil
}

func (opts *Options) logInternal(format string, args ...any) {
	if opts.LogEventHandler == nil {
		return
	}
	opts.LogEventHandler(LogEvent{Type: LogEventTypeInternal, Message: fmt.Sprintf(format, args...)})
}

// Args holds the per-compile configuration passed to Transpiler.Compile,
// the per-compilation subset of the closed option set in spec.md §4.7.
type Args struct {
	// IncludeCharset controls whether a leading @charset/BOM is emitted
	// on CSS output containing non-ASCII characters, per spec.md §6.
	IncludeCharset bool

	// Importers and Functions apply to this compilation only, in
	// addition to the Transpiler's Options.GlobalImporters/GlobalFunctions.
	Importers []ImporterBinding
	Functions map[string]value.Callable

	// IncludePaths is sugar for appending a LoadPath importer binding per
	// directory, matching the teacher's Options.IncludePaths field.
	IncludePaths []string

	OutputStyle    OutputStyle
	SourceMapStyle SourceMapStyle

	SilenceDeprecations           []string
	SilenceDependencyDeprecations bool
	FatalDeprecations             []string
	FutureDeprecations            []string
	VerboseDeprecations           bool

	sassOutputStyle    embeddedsass.OutputStyle
	sassSourceMapStyle embeddedsass.SourceMapStyle
	panicWhen          godartsasstesting.PanicWhen
}

func (args *Args) init() error {
	args.sassOutputStyle = embeddedsass.OutputStyle(args.OutputStyle)
	args.sassSourceMapStyle = embeddedsass.SourceMapStyle(args.SourceMapStyle)

	for _, p := range args.IncludePaths {
		args.Importers = append(args.Importers, LoadPath(filepath.Clean(p)))
	}

	return nil
}
