package dartsass

import (
	"fmt"
	"sync"

	"github.com/sassdriver/dartsass/funcreflect"
	"github.com/sassdriver/dartsass/internal/embeddedsass"
	"github.com/sassdriver/dartsass/internal/wire"
	"github.com/sassdriver/dartsass/value"
)

// importerTable is the per-compilation ordered importer list sent on the
// wire plus the id-addressed host resolvers a callback can land on. Ids
// are allocated densely starting at 1, per-compilation bindings first,
// then compiler-global ones, per §4.6.
type importerTable struct {
	wire      []*embeddedsass.CompileRequestImporter
	resolvers map[uint32]ImportResolver
	files     map[uint32]FileResolver
}

func buildImporterTable(perCompile, global []ImporterBinding) *importerTable {
	t := &importerTable{
		resolvers: make(map[uint32]ImportResolver),
		files:     make(map[uint32]FileResolver),
	}
	var nextID uint32 = 1
	add := func(b ImporterBinding) {
		switch {
		case b.resolver != nil:
			id := nextID
			nextID++
			t.resolvers[id] = b.resolver
			t.wire = append(t.wire, &embeddedsass.CompileRequestImporter{ImporterId: id, NonCanonicalScheme: b.schemes})
		case b.file != nil:
			id := nextID
			nextID++
			t.files[id] = b.file
			t.wire = append(t.wire, &embeddedsass.CompileRequestImporter{FileImporterId: id, HasFileImporter: true})
		default:
			t.wire = append(t.wire, &embeddedsass.CompileRequestImporter{Path: b.loadPath})
		}
	}
	for _, b := range perCompile {
		add(b)
	}
	for _, b := range global {
		add(b)
	}
	return t
}

// functionTable is the merged signature -> Callable set for a compilation;
// per-compilation entries win on collision (by exact signature string) with
// compiler-global ones, per §4.6. The compiler echoes a FunctionCallRequest
// by bare name (e.g. "double" for the registered signature "double($x)"),
// exactly as the teacher's function-registry.go keys its dispatch map by
// `signature[:openParen]` rather than by the full signature string, so
// dispatch is keyed by bare name while the full signatures are what gets
// sent to CompileRequest.GlobalFunctions.
type functionTable struct {
	signaturesList []string
	byName         map[string]value.Callable

	mu         sync.Mutex
	nextAnonID uint32
	anonymous  map[uint32]value.Callable
}

func buildFunctionTable(perCompile, global map[string]value.Callable) *functionTable {
	merged := make(map[string]value.Callable, len(perCompile)+len(global))
	for sig, fn := range global {
		merged[sig] = fn
	}
	for sig, fn := range perCompile {
		merged[sig] = fn
	}

	t := &functionTable{
		byName:    make(map[string]value.Callable, len(merged)),
		anonymous: make(map[uint32]value.Callable),
	}
	for sig, fn := range merged {
		name, err := funcreflect.SignatureName(sig)
		if err != nil {
			name = sig
		}
		t.byName[name] = fn
		t.signaturesList = append(t.signaturesList, sig)
	}
	return t
}

func (t *functionTable) signatures() []string {
	return t.signaturesList
}

// registerAnonymous assigns a fresh id to fn, for a *value.HostFunction a
// host Callable returns as a first-class reference rather than registering
// up front by signature, so a later FunctionCallRequest addressing it by
// function_id (instead of by name) can still resolve it.
func (t *functionTable) registerAnonymous(fn value.Callable) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextAnonID++
	id := t.nextAnonID
	t.anonymous[id] = fn
	return id
}

func (t *functionTable) resolveByID(id uint32) (value.Callable, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn, ok := t.anonymous[id]
	return fn, ok
}

// dispatchCanonicalize resolves a CanonicalizeRequest against the
// compilation's importer table. A resolver returning an empty canonical
// URL and no error is not itself an error here: the compiler treats an
// empty CanonicalizeResponse.Url as "try the next importer" per §4.5's
// "canonicalize call that returns null is not an error".
func dispatchCanonicalize(comp *compilation, req *embeddedsass.CanonicalizeRequest) *embeddedsass.CanonicalizeResponse {
	resolver, ok := comp.importers.resolvers[req.ImporterId]
	if !ok {
		return &embeddedsass.CanonicalizeResponse{Id: req.Id, Error: fmt.Sprintf("unknown importer id %d", req.ImporterId)}
	}
	canonical, err := resolver.CanonicalizeURL(req.Url)
	if err != nil {
		return &embeddedsass.CanonicalizeResponse{Id: req.Id, Error: err.Error()}
	}
	return &embeddedsass.CanonicalizeResponse{Id: req.Id, Url: canonical}
}

func dispatchImport(comp *compilation, req *embeddedsass.ImportRequest) *embeddedsass.ImportResponse {
	resolver, ok := comp.importers.resolvers[req.ImporterId]
	if !ok {
		return &embeddedsass.ImportResponse{Id: req.Id, Error: fmt.Sprintf("unknown importer id %d", req.ImporterId)}
	}
	imp, err := resolver.Load(req.Url)
	if err != nil {
		return &embeddedsass.ImportResponse{Id: req.Id, Error: err.Error()}
	}
	sourceMapURL := imp.SourceMapURL
	if sourceMapURL == "" && hasScheme(req.Url) {
		sourceMapURL = req.Url
	}
	return &embeddedsass.ImportResponse{Id: req.Id, Success: &embeddedsass.ImportResponseSuccess{
		Contents:     imp.Content,
		Syntax:       embeddedsass.Syntax(imp.SourceSyntax),
		SourceMapUrl: sourceMapURL,
	}}
}

func dispatchFileImport(comp *compilation, req *embeddedsass.FileImportRequest) *embeddedsass.FileImportResponse {
	resolver, ok := comp.importers.files[req.ImporterId]
	if !ok {
		return &embeddedsass.FileImportResponse{Id: req.Id, Error: fmt.Sprintf("unknown file importer id %d", req.ImporterId)}
	}
	fileURL, err := resolver.ResolveFileURL(req.Url)
	if err != nil {
		return &embeddedsass.FileImportResponse{Id: req.Id, Error: err.Error()}
	}
	return &embeddedsass.FileImportResponse{Id: req.Id, FileUrl: fileURL}
}

// dispatchFunctionCall resolves a FunctionCallRequest against the
// compilation's function table — by bare name for an ordinary call, or by
// function_id for a call back through a first-class *value.HostFunction
// reference the host previously returned — decodes its arguments into
// value.Values, invokes the matching Callable, and re-encodes its return. A
// cycle in a returned List/Map (§9 "Cycle detection in user values")
// surfaces here as a FunctionCallResponse.Error, same as any other
// SassFunctionError; a Go panic inside the Callable is deliberately not
// recovered, distinct from that clean failure path.
func dispatchFunctionCall(comp *compilation, req *embeddedsass.FunctionCallRequest) *embeddedsass.FunctionCallResponse {
	var fn value.Callable
	if req.HasFunctionId {
		var ok bool
		fn, ok = comp.functions.resolveByID(req.FunctionId)
		if !ok {
			return &embeddedsass.FunctionCallResponse{Id: req.Id, Error: fmt.Sprintf("unknown host function id %d", req.FunctionId)}
		}
	} else {
		var ok bool
		fn, ok = comp.functions.byName[req.Name]
		if !ok {
			return &embeddedsass.FunctionCallResponse{Id: req.Id, Error: fmt.Sprintf("undefined host function %q", req.Name)}
		}
	}

	args := make([]value.Value, 0, len(req.Arguments))
	for _, a := range req.Arguments {
		v, err := wire.FromWire(a)
		if err != nil {
			return &embeddedsass.FunctionCallResponse{Id: req.Id, Error: err.Error()}
		}
		args = append(args, v)
	}

	result, err := fn(args)
	if err != nil {
		return &embeddedsass.FunctionCallResponse{Id: req.Id, Error: err.Error()}
	}

	w, err := wire.ToWire(result)
	if err != nil {
		return &embeddedsass.FunctionCallResponse{Id: req.Id, Error: err.Error()}
	}
	if hf, ok := result.(*value.HostFunction); ok && w.HostFunction != nil {
		w.HostFunction.Id = comp.functions.registerAnonymous(hf.Fn)
	}
	return &embeddedsass.FunctionCallResponse{Id: req.Id, Success: w}
}
