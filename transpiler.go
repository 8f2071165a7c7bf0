// Package dartsass embeds the Dart Sass compiler into a host application
// as a long-lived child process, exposing a typed, in-process API for
// compiling stylesheets and for extending compilation with host-defined
// importers and host-defined Sass functions.
//
// Use Start to create and start a Transpiler. Shut it down with Shutdown
// when done.
package dartsass

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/cli/safeexec"

	"github.com/sassdriver/dartsass/internal/conn"
	"github.com/sassdriver/dartsass/internal/embeddedsass"
	"github.com/sassdriver/dartsass/internal/godartsasstesting"
)

// compilerState models the child process's state explicitly, per §9
// "Process supervision": all state changes go through the Lifecycle
// Controller.
type compilerState int

const (
	stateRunning compilerState = iota
	// stateBroken means the child exited or protocol-violated after a
	// successful start; the next Compile call attempts a restart.
	stateBroken
	// stateIdleBroken means start (or a restart attempt) itself failed;
	// every subsequent call fails until a new Transpiler is constructed.
	stateIdleBroken
	stateShutdown
)

// CompileInput is the per-compile input: either inline source with a
// syntax and optional URL, or a file URL, the two compile() shapes in
// spec.md §6.
type CompileInput struct {
	Source string
	Syntax Syntax
	URL    string

	FileURL string
}

// CompileResult holds the result of a successful compilation.
type CompileResult struct {
	CSS        string
	SourceMap  string
	LoadedURLs []string
	Messages   []LogEvent
}

// Transpiler drives one Dart Sass Embedded child process: it multiplexes
// concurrent Compile calls over the child's single stdio connection (C4),
// runs each compilation's state machine (C5), dispatches host callbacks
// (C6), and supervises the child's lifecycle (C7). A Transpiler is safe
// for concurrent use by multiple goroutines.
type Transpiler struct {
	opts Options

	mu           sync.Mutex // protects everything below
	conn         *conn.Conn
	state        compilerState
	startCount   int
	compilations map[uint32]*compilation
	nextID       uint32

	sendMu sync.Mutex // serializes writes to conn
}

// Start creates and starts a new Transpiler communicating with the Dart
// Sass Embedded protocol over the child's stdin/stdout.
func Start(opts Options) (*Transpiler, error) {
	if err := opts.init(); err != nil {
		return nil, err
	}
	t := &Transpiler{opts: opts, compilations: make(map[uint32]*compilation)}
	if err := t.start(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transpiler) start() error {
	bin, err := safeexec.LookPath(t.opts.DartSassEmbeddedFilename)
	if err != nil {
		return newLifecycleError("embedded compiler not found: %s", err)
	}

	cmd := exec.Command(bin, t.opts.CompilerArgs...)
	cmd.Stderr = os.Stderr

	c, err := conn.New(cmd)
	if err != nil {
		return newLifecycleError("failed to start: %s", err)
	}
	if err := c.Start(); err != nil {
		return newLifecycleError("failed to start: %s", err)
	}

	versionResp, err := handshake(c)
	if err != nil {
		c.Kill()
		c.Close()
		return err
	}
	if err := checkVersion(versionResp); err != nil {
		c.Kill()
		c.Close()
		return err
	}

	t.mu.Lock()
	t.conn = c
	t.state = stateRunning
	t.startCount++
	t.compilations = make(map[uint32]*compilation)
	t.nextID = 1
	t.mu.Unlock()

	go t.readLoop(c)
	return nil
}

// handshake sends a VersionRequest to compilation id 0 and reads back the
// VersionResponse, synchronously, before any reader loop is running.
func handshake(c *conn.Conn) (*embeddedsass.VersionResponse, error) {
	req := &embeddedsass.InboundMessage{VersionRequest: true}
	if err := embeddedsass.WriteFrame(c, 0, req.Marshal()); err != nil {
		return nil, newLifecycleError("failed to start: %s", err)
	}
	_, body, err := embeddedsass.ReadFrame(c)
	if err != nil {
		return nil, newLifecycleError("failed to start: %s", err)
	}
	out, err := embeddedsass.UnmarshalOutboundMessage(body)
	if err != nil {
		return nil, &ProtocolError{Type: ProtocolErrorParse, Message: err.Error()}
	}
	if out.VersionResponse == nil {
		return nil, &ProtocolError{Type: ProtocolErrorParams, Message: "expected a version response at handshake"}
	}
	return out.VersionResponse, nil
}

// probeVersion starts bin just long enough to read its version handshake
// and tears it down immediately after, for the package-level Version
// helper.
func probeVersion(bin string) (*embeddedsass.VersionResponse, error) {
	cmd := exec.Command(bin)
	cmd.Stderr = os.Stderr
	c, err := conn.New(cmd)
	if err != nil {
		return nil, err
	}
	if err := c.Start(); err != nil {
		return nil, err
	}
	defer c.Close()
	return handshake(c)
}

// Compile runs one compilation and blocks until it completes, the
// Transpiler's Options.Timeout elapses, or the Transpiler is shut down.
func (t *Transpiler) Compile(input CompileInput, args Args) (CompileResult, error) {
	if err := args.init(); err != nil {
		return CompileResult{}, err
	}

	t.mu.Lock()
	switch t.state {
	case stateShutdown:
		t.mu.Unlock()
		return CompileResult{}, ErrShutdown
	case stateIdleBroken:
		t.mu.Unlock()
		return CompileResult{}, newLifecycleError("failed to start")
	case stateBroken:
		t.mu.Unlock()
		if err := t.start(); err != nil {
			t.mu.Lock()
			t.state = stateIdleBroken
			t.mu.Unlock()
			return CompileResult{}, err
		}
		t.mu.Lock()
	}

	id := t.allocateID()
	importers := buildImporterTable(args.Importers, t.opts.GlobalImporters)
	functions := buildFunctionTable(args.Functions, t.opts.GlobalFunctions)
	comp := newCompilation(id, importers, functions)
	t.compilations[id] = comp
	c := t.conn
	t.mu.Unlock()

	if args.panicWhen.Has(godartsasstesting.ShouldPanicInNewCall) {
		panic("dartsasstesting: fault injection: " + godartsasstesting.ShouldPanicInNewCall.String())
	}

	req := &embeddedsass.CompileRequest{
		Style:                         args.sassOutputStyle,
		SourceMapStyle:                args.sassSourceMapStyle,
		IncludeCharset:                args.IncludeCharset,
		Importers:                     importers.wire,
		GlobalFunctions:               functions.signatures(),
		SilenceDeprecations:           args.SilenceDeprecations,
		FatalDeprecations:             args.FatalDeprecations,
		FutureDeprecations:            args.FutureDeprecations,
		SilenceDependencyDeprecations: args.SilenceDependencyDeprecations,
		VerboseDeprecations:           args.VerboseDeprecations,
		MessageStyle:                  t.opts.sassMessageStyle,
		WarningLevel:                  t.opts.sassWarningLevel,
	}
	if input.FileURL != "" {
		req.FileInputUrl = input.FileURL
	} else {
		req.StringInput = &embeddedsass.CompileRequestStringInput{
			Source: input.Source,
			Url:    input.URL,
			Syntax: embeddedsass.Syntax(input.Syntax),
		}
	}

	if err := t.sendInboundChecked(c, id, &embeddedsass.InboundMessage{CompileRequest: req}, args.panicWhen); err != nil {
		t.mu.Lock()
		delete(t.compilations, id)
		t.mu.Unlock()
		return CompileResult{}, err
	}

	var timeoutCh <-chan time.Time
	if t.opts.Timeout > 0 {
		timer := time.NewTimer(t.opts.Timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case <-comp.done:
		return comp.result, comp.err
	case <-timeoutCh:
		t.mu.Lock()
		delete(t.compilations, id)
		t.mu.Unlock()
		timeoutErr := newLifecycleError("Timeout waiting for the embedded compiler to respond")
		go t.Reinit()
		return CompileResult{}, timeoutErr
	}
}

// allocateID returns the next compilation id, skipping 0 and wrapping to
// the smallest free id on overflow, per §4.4. Callers must hold t.mu.
func (t *Transpiler) allocateID() uint32 {
	id := t.nextID
	for {
		t.nextID++
		if t.nextID == 0 {
			t.nextID = 1
		}
		if _, taken := t.compilations[id]; !taken && id != 0 {
			return id
		}
		id = t.nextID
	}
}

func (t *Transpiler) sendInbound(c *conn.Conn, id uint32, msg *embeddedsass.InboundMessage) error {
	return t.sendInboundChecked(c, id, msg, 0)
}

// sendInboundChecked is sendInbound with the two fault-injection points a
// test can arm via Args.panicWhen: before marshaling the message
// (ShouldPanicInSendInbound1) and after marshaling it, before the frame
// hits the wire (ShouldPanicInSendInbound2). Both are no-ops outside a
// test binary since panicWhen is always zero there.
func (t *Transpiler) sendInboundChecked(c *conn.Conn, id uint32, msg *embeddedsass.InboundMessage, panicWhen godartsasstesting.PanicWhen) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	t.mu.Lock()
	if t.state != stateRunning {
		t.mu.Unlock()
		return ErrShutdown
	}
	t.mu.Unlock()

	if panicWhen.Has(godartsasstesting.ShouldPanicInSendInbound1) {
		panic("dartsasstesting: fault injection: " + godartsasstesting.ShouldPanicInSendInbound1.String())
	}
	body := msg.Marshal()
	if panicWhen.Has(godartsasstesting.ShouldPanicInSendInbound2) {
		panic("dartsasstesting: fault injection: " + godartsasstesting.ShouldPanicInSendInbound2.String())
	}
	return embeddedsass.WriteFrame(c, id, body)
}

// Reinit forcibly ends every in-flight compilation with a LifecycleError,
// kills the child process, and starts a fresh one, per §4.7.
func (t *Transpiler) Reinit() error {
	t.mu.Lock()
	if t.state == stateShutdown {
		t.mu.Unlock()
		return ErrShutdown
	}
	c := t.conn
	comps := t.compilations
	t.compilations = make(map[uint32]*compilation)
	t.state = stateBroken
	t.mu.Unlock()

	for _, comp := range comps {
		comp.err = newLifecycleError("User requested a reinitialization of the embedded compiler")
		close(comp.done)
	}
	if c != nil {
		c.Kill()
		c.Close()
	}

	return t.start()
}

// Shutdown blocks new compilations, closes the child's pipes, and waits
// for it to exit. Idempotent.
func (t *Transpiler) Shutdown() error {
	t.mu.Lock()
	if t.state == stateShutdown {
		t.mu.Unlock()
		return ErrShutdown
	}
	t.state = stateShutdown
	c := t.conn
	t.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

// TestingApplyArgsSettings arms fault-injection flags on args for this
// module's own concurrency tests. It has no effect on a production build:
// nothing outside _test.go files ever calls it, so panicWhen stays zero.
func TestingApplyArgsSettings(args *Args, panicWhen godartsasstesting.PanicWhen) {
	args.panicWhen = panicWhen
}

// StartCount reports how many times the underlying child process has been
// started, for test observability per §8 invariant 5.
func (t *Transpiler) StartCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startCount
}

// IsShutDown reports whether every pending compilation has resolved with
// ErrShutdown; used in tests.
func (t *Transpiler) IsShutDown() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, comp := range t.compilations {
		select {
		case <-comp.done:
			if comp.err != ErrShutdown {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (t *Transpiler) readLoop(c *conn.Conn) {
	var err error
	for {
		var id uint32
		var body []byte
		id, body, err = embeddedsass.ReadFrame(c)
		if err != nil {
			break
		}

		msg, uerr := embeddedsass.UnmarshalOutboundMessage(body)
		if uerr != nil {
			err = &ProtocolError{Type: ProtocolErrorParse, Message: uerr.Error()}
			break
		}

		if id == 0 {
			t.handleControlMessage(msg)
			continue
		}

		t.mu.Lock()
		comp, ok := t.compilations[id]
		t.mu.Unlock()
		if !ok {
			// Stale or unknown id (e.g. a log event arriving after the
			// final result): the frame is dropped and the child is kept.
			continue
		}
		t.dispatchToCompilation(c, comp, msg)
	}

	t.breakAll(err)
}

func (t *Transpiler) handleControlMessage(msg *embeddedsass.OutboundMessage) {
	if msg.Error != nil {
		t.opts.logInternal("embedded compiler reported a protocol error: %s", msg.Error.Message)
	}
}

func (t *Transpiler) dispatchToCompilation(c *conn.Conn, comp *compilation, msg *embeddedsass.OutboundMessage) {
	switch {
	case msg.CompileResponse != nil:
		t.completeCompilation(comp, msg.CompileResponse)
	case msg.CanonicalizeRequest != nil:
		req := msg.CanonicalizeRequest
		ticket := comp.takeTicket()
		go func() {
			resp := dispatchCanonicalize(comp, req)
			comp.awaitTurn(ticket)
			t.sendInbound(c, comp.id, &embeddedsass.InboundMessage{CanonicalizeResponse: resp})
			comp.finishTurn(ticket)
		}()
	case msg.ImportRequest != nil:
		req := msg.ImportRequest
		ticket := comp.takeTicket()
		go func() {
			resp := dispatchImport(comp, req)
			comp.awaitTurn(ticket)
			t.sendInbound(c, comp.id, &embeddedsass.InboundMessage{ImportResponse: resp})
			comp.finishTurn(ticket)
		}()
	case msg.FileImportRequest != nil:
		req := msg.FileImportRequest
		ticket := comp.takeTicket()
		go func() {
			resp := dispatchFileImport(comp, req)
			comp.awaitTurn(ticket)
			t.sendInbound(c, comp.id, &embeddedsass.InboundMessage{FileImportResponse: resp})
			comp.finishTurn(ticket)
		}()
	case msg.FunctionCallRequest != nil:
		req := msg.FunctionCallRequest
		ticket := comp.takeTicket()
		go func() {
			resp := dispatchFunctionCall(comp, req)
			comp.awaitTurn(ticket)
			t.sendInbound(c, comp.id, &embeddedsass.InboundMessage{FunctionCallResponse: resp})
			comp.finishTurn(ticket)
		}()
	case msg.LogEvent != nil:
		e := msg.LogEvent
		event := LogEvent{
			Type:            LogEventType(e.Kind),
			Message:         e.Message,
			Span:            spanFromWire(e.Span),
			StackTrace:      e.StackTrace,
			DeprecationType: e.DeprecationType,
		}
		comp.appendMessage(event)
		if t.opts.LogEventHandler != nil {
			t.opts.LogEventHandler(event)
		}
	}
}

func (t *Transpiler) completeCompilation(comp *compilation, resp *embeddedsass.CompileResponse) {
	t.mu.Lock()
	delete(t.compilations, comp.id)
	t.mu.Unlock()

	switch {
	case resp.Success != nil:
		comp.result = CompileResult{
			CSS:        resp.Success.Css,
			SourceMap:  resp.Success.SourceMap,
			LoadedURLs: resp.Success.LoadedUrls,
			Messages:   comp.snapshotMessages(),
		}
	case resp.Failure != nil:
		comp.err = &CompilerError{
			Message:     resp.Failure.Message,
			Span:        spanFromWire(resp.Failure.Span),
			StackTrace:  resp.Failure.StackTrace,
			Messages:    comp.snapshotMessages(),
			Description: resp.Failure.FormattedDescription,
		}
	default:
		comp.err = &ProtocolError{Type: ProtocolErrorParams, Message: "compile response carried neither success nor failure"}
	}
	close(comp.done)
}

// breakAll tears down every in-flight compilation after the reader loop's
// connection dies, per §4.5's "any time, on a protocol-violation event
// ... the entire child is then torn down" and §5's cancellation rules.
func (t *Transpiler) breakAll(err error) {
	t.mu.Lock()
	wasClosing := t.state == stateShutdown
	if !wasClosing {
		t.state = stateBroken
	}
	comps := t.compilations
	t.compilations = make(map[uint32]*compilation)
	t.mu.Unlock()

	var final error
	switch {
	case wasClosing:
		final = ErrShutdown
	case err == nil || err == io.EOF:
		final = &ProtocolError{Type: ProtocolErrorInternal, Message: "embedded compiler closed the connection unexpectedly"}
	default:
		if perr, ok := err.(*ProtocolError); ok {
			final = perr
		} else {
			final = &ProtocolError{Type: ProtocolErrorInternal, Message: err.Error()}
		}
	}

	for _, comp := range comps {
		comp.err = final
		close(comp.done)
	}

	if !wasClosing {
		t.opts.logInternal("embedded compiler connection broken: %s", final)
	}
}
