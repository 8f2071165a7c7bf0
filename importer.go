package dartsass

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Import is the loaded content of a canonicalized URL, returned by an
// ImportResolver's Load.
type Import struct {
	Content      string
	SourceSyntax Syntax
	SourceMapURL string
}

// ImportResolver lets host code resolve @use/@forward/@import rules the
// compiler cannot resolve on its own filesystem load paths, per spec.md
// §3 "Importer Binding: Custom(canonicalize-fn, load-fn, ...)".
//
// CanonicalizeURL returns a canonical version of url if this resolver
// recognizes it, or an empty string to let the compiler try the next
// importer; an error means "this importer matched the URL but load
// failed", reported back to the compiler as a clean import error.
//
// Load returns the stylesheet contents addressed by a URL this resolver
// has already canonicalized.
type ImportResolver interface {
	CanonicalizeURL(url string) (string, error)
	Load(canonicalURL string) (Import, error)
}

// FileResolver resolves a URL to a file:// URL that the compiler then
// loads itself, per spec.md §4.5's FileImportRequest handling.
type FileResolver interface {
	ResolveFileURL(url string) (string, error)
}

// ImporterBinding is one compiler-visible way a compilation resolves
// stylesheet URLs, per §3 "Importer Binding". Exactly one of its fields is
// set: a filesystem load path resolved entirely by the compiler, a
// host-code ImportResolver, or a host-code FileResolver.
type ImporterBinding struct {
	loadPath string
	resolver ImportResolver
	schemes  []string
	file     FileResolver
}

// LoadPath registers directory as a filesystem load path the compiler
// searches directly, without any host round trip. Equivalent to the
// teacher's Options.IncludePaths entries.
func LoadPath(directory string) ImporterBinding {
	return ImporterBinding{loadPath: directory}
}

// CustomImporter registers a host-code importer addressed by an id the
// host allocates per compilation, per §3's
// "Custom(canonicalize-fn, load-fn, non-canonical-scheme-list)". schemes
// lists the URL schemes resolver claims that are not themselves valid
// canonical URL schemes (e.g. a bare "foo" a CanonicalizeURL turns into
// "foo://..."), so the compiler knows to route those schemes to this
// importer's canonicalize callback instead of rejecting them outright.
func CustomImporter(resolver ImportResolver, schemes ...string) ImporterBinding {
	return ImporterBinding{resolver: resolver, schemes: schemes}
}

// FilesystemImporter registers a sandboxed filesystem root: URLs are
// resolved relative to root and never escape it, without exposing the
// full Go filesystem to the compiler the way LoadPath would.
func FilesystemImporter(root string) ImporterBinding {
	return ImporterBinding{file: &filesystemResolver{root: root}}
}

type filesystemResolver struct {
	root string
}

func (f *filesystemResolver) ResolveFileURL(urlStr string) (string, error) {
	rel := filepath.FromSlash(urlStr)
	clean := filepath.Join(f.root, rel)
	if !hasPrefixPath(clean, f.root) {
		return "", fmt.Errorf("resolved path %q escapes importer root %q", clean, f.root)
	}
	if _, err := os.Stat(clean); err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(clean), nil
}

func hasPrefixPath(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[:2] == ".." && (len(rel) == 2 || rel[2] == filepath.Separator)
}

// hasScheme reports whether s begins with a URL scheme (e.g. "file:",
// "custom:"), used to decide whether an imported stylesheet's own URL can
// double as its source map URL.
func hasScheme(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return u.Scheme != ""
}
