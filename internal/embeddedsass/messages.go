package embeddedsass

import (
	"encoding/binary"
	"io"
)

// Syntax is the stylesheet syntax carried by CompileRequest's string input
// and by ImportResponse's loaded contents.
type Syntax int32

const (
	SyntaxSCSS Syntax = iota
	SyntaxIndented
	SyntaxCSS
)

type OutputStyle int32

const (
	OutputStyleExpanded OutputStyle = iota
	OutputStyleCompressed
)

type SourceMapStyle int32

const (
	SourceMapStyleNone SourceMapStyle = iota
	SourceMapStyleSeparate
	SourceMapStyleEmbeddedSources
)

type WarningLevel int32

const (
	WarningLevelDefault WarningLevel = iota
	WarningLevelSilent
	WarningLevelVerbose
)

type MessageStyle int32

const (
	MessageStylePlain MessageStyle = iota
	MessageStyleTerminalColored
)

type LogEventKind int32

const (
	LogEventKindWarning LogEventKind = iota
	LogEventKindDeprecation
	LogEventKindDebug
)

type ProtocolErrorType int32

const (
	ProtocolErrorParse ProtocolErrorType = iota
	ProtocolErrorParams
	ProtocolErrorInternal
)

// SourceSpan is the optional source-location payload attached to compile
// failures and log events.
type SourceSpan struct {
	Text        string
	Url         string
	StartOffset uint32
	StartLine   uint32
	StartColumn uint32
	HasEnd      bool
	EndOffset   uint32
	EndLine     uint32
	EndColumn   uint32
	Context     string
}

func (s *SourceSpan) marshal() []byte {
	var b []byte
	b = appendString(b, 1, s.Text)
	b = appendString(b, 2, s.Url)
	b = appendVarint(b, 3, uint64(s.StartOffset))
	b = appendVarint(b, 4, uint64(s.StartLine))
	b = appendVarint(b, 5, uint64(s.StartColumn))
	b = appendBool(b, 6, s.HasEnd)
	b = appendVarint(b, 7, uint64(s.EndOffset))
	b = appendVarint(b, 8, uint64(s.EndLine))
	b = appendVarint(b, 9, uint64(s.EndColumn))
	b = appendString(b, 10, s.Context)
	return b
}

func unmarshalSourceSpan(b []byte) (*SourceSpan, error) {
	s := new(SourceSpan)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			s.Text = f.str()
		case 2:
			s.Url = f.str()
		case 3:
			s.StartOffset = uint32(f.u64)
		case 4:
			s.StartLine = uint32(f.u64)
		case 5:
			s.StartColumn = uint32(f.u64)
		case 6:
			s.HasEnd = f.boolean()
		case 7:
			s.EndOffset = uint32(f.u64)
		case 8:
			s.EndLine = uint32(f.u64)
		case 9:
			s.EndColumn = uint32(f.u64)
		case 10:
			s.Context = f.str()
		}
		return nil
	})
	return s, err
}

// --- CompileRequest -------------------------------------------------------

type CompileRequestStringInput struct {
	Source string
	Url    string
	Syntax Syntax
}

func (i *CompileRequestStringInput) marshal() []byte {
	var b []byte
	b = appendString(b, 1, i.Source)
	b = appendString(b, 2, i.Url)
	b = appendVarint(b, 3, uint64(i.Syntax)+1)
	return b
}

func unmarshalStringInput(b []byte) (*CompileRequestStringInput, error) {
	i := new(CompileRequestStringInput)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			i.Source = f.str()
		case 2:
			i.Url = f.str()
		case 3:
			i.Syntax = Syntax(f.u64 - 1)
		}
		return nil
	})
	return i, err
}

// CompileRequestImporter is one entry of the ordered importer table; at
// most one of its fields is set, addressing the importer by host-allocated
// id, by a compiler-resolved load path, or by a host-allocated file-importer
// id (FileImporter binding, resolved to a file:// URL by the callback).
type CompileRequestImporter struct {
	Path            string
	ImporterId      uint32
	FileImporterId  uint32
	HasFileImporter bool

	// NonCanonicalScheme lists the URL schemes this importer claims that
	// aren't themselves valid canonical URL schemes, per the Custom
	// importer binding's non-canonical-scheme-list. Only meaningful
	// alongside ImporterId.
	NonCanonicalScheme []string
}

func (i *CompileRequestImporter) marshal() []byte {
	var b []byte
	switch {
	case i.Path != "":
		b = appendString(b, 1, i.Path)
	case i.HasFileImporter:
		b = appendVarint(b, 3, uint64(i.FileImporterId)+1)
	default:
		b = appendVarint(b, 2, uint64(i.ImporterId)+1)
	}
	b = appendStrings(b, 4, i.NonCanonicalScheme)
	return b
}

func unmarshalImporter(b []byte) (*CompileRequestImporter, error) {
	i := new(CompileRequestImporter)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			i.Path = f.str()
		case 2:
			i.ImporterId = uint32(f.u64 - 1)
		case 3:
			i.FileImporterId = uint32(f.u64 - 1)
			i.HasFileImporter = true
		case 4:
			i.NonCanonicalScheme = append(i.NonCanonicalScheme, f.str())
		}
		return nil
	})
	return i, err
}

type CompileRequest struct {
	StringInput                   *CompileRequestStringInput
	FileInputUrl                  string
	Style                         OutputStyle
	SourceMapStyle                SourceMapStyle
	IncludeCharset                bool
	Importers                     []*CompileRequestImporter
	GlobalFunctions                []string
	SilenceDeprecations           []string
	FatalDeprecations             []string
	FutureDeprecations            []string
	SilenceDependencyDeprecations bool
	VerboseDeprecations           bool
	MessageStyle                  MessageStyle
	WarningLevel                  WarningLevel
}

func (r *CompileRequest) Marshal() []byte {
	var b []byte
	if r.StringInput != nil {
		b = appendMessage(b, 1, r.StringInput.marshal())
	} else {
		b = appendString(b, 2, r.FileInputUrl)
	}
	b = appendVarint(b, 3, uint64(r.Style)+1)
	b = appendVarint(b, 4, uint64(r.SourceMapStyle)+1)
	b = appendBool(b, 5, r.IncludeCharset)
	for _, imp := range r.Importers {
		b = appendMessage(b, 6, imp.marshal())
	}
	b = appendStrings(b, 7, r.GlobalFunctions)
	b = appendStrings(b, 8, r.SilenceDeprecations)
	b = appendStrings(b, 9, r.FatalDeprecations)
	b = appendStrings(b, 10, r.FutureDeprecations)
	b = appendBool(b, 11, r.SilenceDependencyDeprecations)
	b = appendBool(b, 12, r.VerboseDeprecations)
	b = appendVarint(b, 13, uint64(r.MessageStyle)+1)
	b = appendVarint(b, 14, uint64(r.WarningLevel)+1)
	return b
}

func UnmarshalCompileRequest(b []byte) (*CompileRequest, error) {
	r := new(CompileRequest)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			i, err := unmarshalStringInput(f.bytes)
			if err != nil {
				return err
			}
			r.StringInput = i
		case 2:
			r.FileInputUrl = f.str()
		case 3:
			r.Style = OutputStyle(f.u64 - 1)
		case 4:
			r.SourceMapStyle = SourceMapStyle(f.u64 - 1)
		case 5:
			r.IncludeCharset = f.boolean()
		case 6:
			imp, err := unmarshalImporter(f.bytes)
			if err != nil {
				return err
			}
			r.Importers = append(r.Importers, imp)
		case 7:
			r.GlobalFunctions = append(r.GlobalFunctions, f.str())
		case 8:
			r.SilenceDeprecations = append(r.SilenceDeprecations, f.str())
		case 9:
			r.FatalDeprecations = append(r.FatalDeprecations, f.str())
		case 10:
			r.FutureDeprecations = append(r.FutureDeprecations, f.str())
		case 11:
			r.SilenceDependencyDeprecations = f.boolean()
		case 12:
			r.VerboseDeprecations = f.boolean()
		case 13:
			r.MessageStyle = MessageStyle(f.u64 - 1)
		case 14:
			r.WarningLevel = WarningLevel(f.u64 - 1)
		}
		return nil
	})
	return r, err
}

// --- CompileResponse -------------------------------------------------------

type CompileResponseSuccess struct {
	Css        string
	SourceMap  string
	LoadedUrls []string
}

func (s *CompileResponseSuccess) marshal() []byte {
	var b []byte
	b = appendString(b, 1, s.Css)
	b = appendString(b, 2, s.SourceMap)
	b = appendStrings(b, 3, s.LoadedUrls)
	return b
}

func unmarshalSuccess(b []byte) (*CompileResponseSuccess, error) {
	s := new(CompileResponseSuccess)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			s.Css = f.str()
		case 2:
			s.SourceMap = f.str()
		case 3:
			s.LoadedUrls = append(s.LoadedUrls, f.str())
		}
		return nil
	})
	return s, err
}

type CompileResponseFailure struct {
	Message               string
	Span                  *SourceSpan
	StackTrace            string
	FormattedDescription  string
}

func (f *CompileResponseFailure) marshal() []byte {
	var b []byte
	b = appendString(b, 1, f.Message)
	if f.Span != nil {
		b = appendMessage(b, 2, f.Span.marshal())
	}
	b = appendString(b, 3, f.StackTrace)
	b = appendString(b, 4, f.FormattedDescription)
	return b
}

func unmarshalFailure(b []byte) (*CompileResponseFailure, error) {
	out := new(CompileResponseFailure)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			out.Message = f.str()
		case 2:
			span, err := unmarshalSourceSpan(f.bytes)
			if err != nil {
				return err
			}
			out.Span = span
		case 3:
			out.StackTrace = f.str()
		case 4:
			out.FormattedDescription = f.str()
		}
		return nil
	})
	return out, err
}

type CompileResponse struct {
	Success *CompileResponseSuccess
	Failure *CompileResponseFailure
}

func (r *CompileResponse) Marshal() []byte {
	var b []byte
	if r.Success != nil {
		b = appendMessage(b, 1, r.Success.marshal())
	} else if r.Failure != nil {
		b = appendMessage(b, 2, r.Failure.marshal())
	}
	return b
}

func UnmarshalCompileResponse(b []byte) (*CompileResponse, error) {
	r := new(CompileResponse)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			s, err := unmarshalSuccess(f.bytes)
			if err != nil {
				return err
			}
			r.Success = s
		case 2:
			fail, err := unmarshalFailure(f.bytes)
			if err != nil {
				return err
			}
			r.Failure = fail
		}
		return nil
	})
	return r, err
}

// --- Canonicalize ----------------------------------------------------------

type CanonicalizeRequest struct {
	Id            uint32
	ImporterId    uint32
	Url           string
	ContainingUrl string
	FromImport    bool
}

func UnmarshalCanonicalizeRequest(b []byte) (*CanonicalizeRequest, error) {
	r := new(CanonicalizeRequest)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			r.Id = uint32(f.u64)
		case 2:
			r.ImporterId = uint32(f.u64)
		case 3:
			r.Url = f.str()
		case 4:
			r.ContainingUrl = f.str()
		case 5:
			r.FromImport = f.boolean()
		}
		return nil
	})
	return r, err
}

type CanonicalizeResponse struct {
	Id    uint32
	Url   string
	Error string
}

func (r *CanonicalizeResponse) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(r.Id))
	if r.Error != "" {
		b = appendString(b, 3, r.Error)
	} else if r.Url != "" {
		b = appendString(b, 2, r.Url)
	}
	return b
}

// --- Import (stylesheet-content loader) -------------------------------------

type ImportRequest struct {
	Id         uint32
	ImporterId uint32
	Url        string
}

func UnmarshalImportRequest(b []byte) (*ImportRequest, error) {
	r := new(ImportRequest)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			r.Id = uint32(f.u64)
		case 2:
			r.ImporterId = uint32(f.u64)
		case 3:
			r.Url = f.str()
		}
		return nil
	})
	return r, err
}

type ImportResponseSuccess struct {
	Contents     string
	Syntax       Syntax
	SourceMapUrl string
}

func (s *ImportResponseSuccess) marshal() []byte {
	var b []byte
	b = appendString(b, 1, s.Contents)
	b = appendVarint(b, 2, uint64(s.Syntax)+1)
	b = appendString(b, 3, s.SourceMapUrl)
	return b
}

type ImportResponse struct {
	Id      uint32
	Success *ImportResponseSuccess
	Error   string
}

func (r *ImportResponse) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(r.Id))
	if r.Error != "" {
		b = appendString(b, 3, r.Error)
	} else if r.Success != nil {
		b = appendMessage(b, 2, r.Success.marshal())
	}
	return b
}

// --- FileImport --------------------------------------------------------------

type FileImportRequest struct {
	Id            uint32
	ImporterId    uint32
	Url           string
	ContainingUrl string
	FromImport    bool
}

func UnmarshalFileImportRequest(b []byte) (*FileImportRequest, error) {
	r := new(FileImportRequest)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			r.Id = uint32(f.u64)
		case 2:
			r.ImporterId = uint32(f.u64)
		case 3:
			r.Url = f.str()
		case 4:
			r.ContainingUrl = f.str()
		case 5:
			r.FromImport = f.boolean()
		}
		return nil
	})
	return r, err
}

type FileImportResponse struct {
	Id      uint32
	FileUrl string
	Error   string
}

func (r *FileImportResponse) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(r.Id))
	if r.Error != "" {
		b = appendString(b, 3, r.Error)
	} else {
		b = appendString(b, 2, r.FileUrl)
	}
	return b
}

// --- FunctionCall ------------------------------------------------------------

type FunctionCallRequestKeyword struct {
	Name  string
	Value *Value
}

type FunctionCallRequest struct {
	Id         uint32
	Name       string
	FunctionId uint32
	HasFunctionId bool
	Arguments  []*Value
	Keywords   []*FunctionCallRequestKeyword
}

func UnmarshalFunctionCallRequest(b []byte) (*FunctionCallRequest, error) {
	r := new(FunctionCallRequest)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			r.Id = uint32(f.u64)
		case 2:
			r.Name = f.str()
		case 3:
			r.FunctionId = uint32(f.u64)
			r.HasFunctionId = true
		case 4:
			v, err := UnmarshalValue(f.bytes)
			if err != nil {
				return err
			}
			r.Arguments = append(r.Arguments, v)
		case 5:
			kw := new(FunctionCallRequestKeyword)
			err := rangeFields(f.bytes, func(kf field) error {
				switch kf.num {
				case 1:
					kw.Name = kf.str()
				case 2:
					v, err := UnmarshalValue(kf.bytes)
					if err != nil {
						return err
					}
					kw.Value = v
				}
				return nil
			})
			if err != nil {
				return err
			}
			r.Keywords = append(r.Keywords, kw)
		}
		return nil
	})
	return r, err
}

type FunctionCallResponse struct {
	Id      uint32
	Success *Value
	Error   string
}

func (r *FunctionCallResponse) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(r.Id))
	if r.Error != "" {
		b = appendString(b, 3, r.Error)
	} else {
		b = appendMessage(b, 2, r.Success.Marshal())
	}
	return b
}

// --- LogEvent ------------------------------------------------------------

type LogEvent struct {
	Kind            LogEventKind
	Message         string
	Span            *SourceSpan
	StackTrace      string
	DeprecationType string
}

func UnmarshalLogEvent(b []byte) (*LogEvent, error) {
	e := new(LogEvent)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			e.Kind = LogEventKind(f.u64)
		case 2:
			e.Message = f.str()
		case 3:
			span, err := unmarshalSourceSpan(f.bytes)
			if err != nil {
				return err
			}
			e.Span = span
		case 4:
			e.StackTrace = f.str()
		case 5:
			e.DeprecationType = f.str()
		}
		return nil
	})
	return e, err
}

// --- Version ---------------------------------------------------------------

type VersionResponse struct {
	ProtocolVersion       string
	CompilerVersion       string
	ImplementationVersion string
	ImplementationName    string
}

func UnmarshalVersionResponse(b []byte) (*VersionResponse, error) {
	v := new(VersionResponse)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			v.ProtocolVersion = f.str()
		case 2:
			v.CompilerVersion = f.str()
		case 3:
			v.ImplementationVersion = f.str()
		case 4:
			v.ImplementationName = f.str()
		}
		return nil
	})
	return v, err
}

// --- ErrorMessage (protocol errors, addressed to compilation id 0) ---------

type ErrorMessage struct {
	Type    ProtocolErrorType
	Id      uint32
	Message string
}

func (e *ErrorMessage) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(e.Type)+1)
	b = appendVarint(b, 2, uint64(e.Id))
	b = appendString(b, 3, e.Message)
	return b
}

func UnmarshalErrorMessage(b []byte) (*ErrorMessage, error) {
	e := new(ErrorMessage)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			e.Type = ProtocolErrorType(f.u64 - 1)
		case 2:
			e.Id = uint32(f.u64)
		case 3:
			e.Message = f.str()
		}
		return nil
	})
	return e, err
}

// --- InboundMessage / OutboundMessage envelopes -----------------------------

// InboundMessage is the host-to-compiler oneof envelope.
type InboundMessage struct {
	CompileRequest       *CompileRequest
	CanonicalizeResponse *CanonicalizeResponse
	ImportResponse       *ImportResponse
	FileImportResponse   *FileImportResponse
	FunctionCallResponse *FunctionCallResponse
	VersionRequest       bool
}

const (
	fInCompileRequest       = 1
	fInCanonicalizeResponse = 2
	fInImportResponse       = 3
	fInFileImportResponse   = 4
	fInFunctionCallResponse = 5
	fInVersionRequest       = 6
)

func (m *InboundMessage) Marshal() []byte {
	var b []byte
	switch {
	case m.CompileRequest != nil:
		b = appendMessage(b, fInCompileRequest, m.CompileRequest.Marshal())
	case m.CanonicalizeResponse != nil:
		b = appendMessage(b, fInCanonicalizeResponse, m.CanonicalizeResponse.Marshal())
	case m.ImportResponse != nil:
		b = appendMessage(b, fInImportResponse, m.ImportResponse.Marshal())
	case m.FileImportResponse != nil:
		b = appendMessage(b, fInFileImportResponse, m.FileImportResponse.Marshal())
	case m.FunctionCallResponse != nil:
		b = appendMessage(b, fInFunctionCallResponse, m.FunctionCallResponse.Marshal())
	case m.VersionRequest:
		b = appendBool(b, fInVersionRequest, true)
	}
	return b
}

// OutboundMessage is the compiler-to-host oneof envelope.
type OutboundMessage struct {
	CompileResponse     *CompileResponse
	CanonicalizeRequest *CanonicalizeRequest
	ImportRequest       *ImportRequest
	FileImportRequest   *FileImportRequest
	FunctionCallRequest *FunctionCallRequest
	LogEvent            *LogEvent
	VersionResponse     *VersionResponse
	Error               *ErrorMessage
}

func UnmarshalOutboundMessage(b []byte) (*OutboundMessage, error) {
	m := new(OutboundMessage)
	err := rangeFields(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			m.CompileResponse, err = UnmarshalCompileResponse(f.bytes)
		case 2:
			m.CanonicalizeRequest, err = UnmarshalCanonicalizeRequest(f.bytes)
		case 3:
			m.ImportRequest, err = UnmarshalImportRequest(f.bytes)
		case 4:
			m.FileImportRequest, err = UnmarshalFileImportRequest(f.bytes)
		case 5:
			m.FunctionCallRequest, err = UnmarshalFunctionCallRequest(f.bytes)
		case 6:
			m.LogEvent, err = UnmarshalLogEvent(f.bytes)
		case 7:
			m.VersionResponse, err = UnmarshalVersionResponse(f.bytes)
		case 8:
			m.Error, err = UnmarshalErrorMessage(f.bytes)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// --- Framing ----------------------------------------------------------------
//
// Each frame on the wire is varint(compilation_id) || varint(len(body)) ||
// body, per the protocol's external interface.

// WriteFrame writes one frame to w: the compilation id, the message length,
// then the message bytes, in that order.
func WriteFrame(w io.Writer, compilationId uint32, body []byte) error {
	var hdr [2 * binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(compilationId))
	n += binary.PutUvarint(hdr[n:], uint64(len(body)))
	if _, err := w.Write(hdr[:n]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// byteReader is the minimal read interface ReadFrame needs: a buffered
// reader able to read a single byte at a time for varint decoding plus
// io.ReadFull-style bulk reads.
type byteReader interface {
	io.Reader
	io.ByteReader
}

// ReadFrame reads one frame from r and returns its compilation id and raw
// message body.
func ReadFrame(r byteReader) (compilationId uint32, body []byte, err error) {
	id, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, nil, err
	}
	l, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, nil, err
	}
	body = make([]byte, l)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return uint32(id), body, nil
}
