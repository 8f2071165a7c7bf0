package dartsass_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/sassdriver/dartsass"
	"github.com/sassdriver/dartsass/internal/godartsasstesting"

	qt "github.com/frankban/quicktest"
)

type testImportResolver struct {
	name    string
	content string
	syntax  dartsass.Syntax

	failOnCanonicalizeURL bool
	failOnLoad            bool
}

func (r testImportResolver) CanonicalizeURL(url string) (string, error) {
	if r.failOnCanonicalizeURL {
		return "", errors.New("failed")
	}
	if url != r.name {
		return "", nil
	}
	return "file:/my" + r.name + "/scss/" + url + "_myfile.scss", nil
}

func (r testImportResolver) Load(url string) (dartsass.Import, error) {
	if r.failOnLoad {
		return dartsass.Import{}, errors.New("failed")
	}
	if !strings.Contains(url, r.name) {
		panic("protocol error")
	}
	return dartsass.Import{Content: r.content, SourceSyntax: r.syntax}, nil
}

func TestTranspilerVariants(t *testing.T) {
	c := qt.New(t)

	colorsResolver := testImportResolver{
		name:    "colors",
		content: `$white:    #ffff`,
	}

	resolverIndented := testImportResolver{
		name: "main",
		content: `
#main
    color: blue
`,
		syntax: dartsass.SyntaxIndented,
	}

	for _, test := range []struct {
		name       string
		args       dartsass.Args
		input      dartsass.CompileInput
		expectCSS  string
		expectFail bool
	}{
		{
			name:      "Output style compressed",
			args:      dartsass.Args{OutputStyle: dartsass.OutputStyleCompressed},
			input:     dartsass.CompileInput{Source: "div { color: #ccc; }"},
			expectCSS: "div{color:#ccc}",
		},
		{
			name: "Sass syntax",
			args: dartsass.Args{OutputStyle: dartsass.OutputStyleCompressed},
			input: dartsass.CompileInput{
				Syntax: dartsass.SyntaxIndented,
				Source: `$font-stack:    Helvetica, sans-serif
$primary-color: #333

body
  font: 100% $font-stack
  color: $primary-color
`,
			},
			expectCSS: "body{font:100% Helvetica,sans-serif;color:#333}",
		},
		{
			name:      "Import resolver",
			args:      dartsass.Args{Importers: []dartsass.ImporterBinding{dartsass.CustomImporter(colorsResolver)}},
			input:     dartsass.CompileInput{Source: "@import \"colors\";\ndiv { p { color: $white; } }"},
			expectCSS: "div p {\n  color: white;\n}",
		},
		{
			name:      "Import resolver with indented source syntax",
			args:      dartsass.Args{Importers: []dartsass.ImporterBinding{dartsass.CustomImporter(resolverIndented)}},
			input:     dartsass.CompileInput{Source: "@import \"main\";\n"},
			expectCSS: "#main {\n  color: blue;\n}",
		},
		{
			name:       "Undefined variable",
			input:      dartsass.CompileInput{Source: "div { color: $white; }"},
			expectFail: true,
		},
		{
			name:       "Import not found",
			input:      dartsass.CompileInput{Source: `@import "foo"`},
			expectFail: true,
		},
		{
			name:       "Import with resolver, not found",
			args:       dartsass.Args{Importers: []dartsass.ImporterBinding{dartsass.CustomImporter(colorsResolver)}},
			input:      dartsass.CompileInput{Source: `@import "foo"`},
			expectFail: true,
		},
		{
			name: "Error in ImportResolver.CanonicalizeURL",
			args: dartsass.Args{Importers: []dartsass.ImporterBinding{
				dartsass.CustomImporter(testImportResolver{name: "colors", failOnCanonicalizeURL: true}),
			}},
			input:      dartsass.CompileInput{Source: `@import "colors";`},
			expectFail: true,
		},
		{
			name: "Error in ImportResolver.Load",
			args: dartsass.Args{Importers: []dartsass.ImporterBinding{
				dartsass.CustomImporter(testImportResolver{name: "colors", failOnLoad: true}),
			}},
			input:      dartsass.CompileInput{Source: `@import "colors";`},
			expectFail: true,
		},
		{
			name:       "Error logging",
			input:      dartsass.CompileInput{Source: `@error "foo";`},
			expectFail: true,
		},
	} {
		test := test
		c.Run(test.name, func(c *qt.C) {
			transpiler, clean := newTestTranspiler(c, dartsass.Options{})
			defer clean()
			result, err := transpiler.Compile(test.input, test.args)
			if test.expectFail {
				c.Assert(err, qt.Not(qt.IsNil))
				// Verify the child is still alive and usable.
				_, err2 := transpiler.Compile(dartsass.CompileInput{Source: "a { color: red; }"}, dartsass.Args{})
				c.Assert(err2, qt.IsNil)
			} else {
				c.Assert(err, qt.IsNil)
				c.Assert(result.CSS, qt.Equals, test.expectCSS)
			}
		})
	}
}

func TestDebugWarn(t *testing.T) {
	c := qt.New(t)

	input := dartsass.CompileInput{
		URL: "/a/b/c.scss",
		Source: `
$color: #333;
body {
	  color: $color;
}

 @debug "foo";
@warn "bar";

`,
	}

	var events []dartsass.LogEvent
	opts := dartsass.Options{
		LogEventHandler: func(e dartsass.LogEvent) {
			events = append(events, e)
		},
	}

	transpiler, clean := newTestTranspiler(c, opts)
	defer clean()
	result, err := transpiler.Compile(input, dartsass.Args{})
	c.Assert(err, qt.IsNil)
	c.Assert(result.CSS, qt.Equals, "body {\n  color: #333;\n}")

	var sawDebug, sawWarn bool
	for _, e := range result.Messages {
		if e.Type == dartsass.LogEventTypeDebug && strings.Contains(e.Message, "foo") {
			sawDebug = true
		}
		if e.Type == dartsass.LogEventTypeWarning && strings.Contains(e.Message, "bar") {
			sawWarn = true
		}
	}
	c.Assert(sawDebug, qt.IsTrue)
	c.Assert(sawWarn, qt.IsTrue)
}

func TestIncludePaths(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	colors := filepath.Join(dir1, "_colors.scss")
	content := filepath.Join(dir2, "_content.scss")

	os.WriteFile(colors, []byte(`
$moo:       #f442d1 !default;
`), 0o644)
	os.WriteFile(content, []byte(`
content { color: #ccc; }
`), 0o644)

	c := qt.New(t)
	src := `
@import "colors";
@import "content";
div { p { color: $moo; } }`

	transpiler, clean := newTestTranspiler(c, dartsass.Options{})
	defer clean()

	result, err := transpiler.Compile(dartsass.CompileInput{Source: src}, dartsass.Args{
		OutputStyle:  dartsass.OutputStyleCompressed,
		IncludePaths: []string{dir1, dir2},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(result.CSS, qt.Equals, "content{color:#ccc}div p{color:#f442d1}")
}

func TestSilenceDeprecations(t *testing.T) {
	dir1 := t.TempDir()
	colors := filepath.Join(dir1, "_colors.scss")
	os.WriteFile(colors, []byte(`
$moo:       #f442d1 !default;
`), 0o644)

	c := qt.New(t)
	src := `
@import "colors";
div { p { color: $moo; } }`

	var loggedImportDeprecation bool
	transpiler, clean := newTestTranspiler(c, dartsass.Options{
		LogEventHandler: func(e dartsass.LogEvent) {
			if e.DeprecationType == "import" {
				loggedImportDeprecation = true
			}
		},
	})
	defer clean()

	result, err := transpiler.Compile(dartsass.CompileInput{Source: src}, dartsass.Args{
		OutputStyle:         dartsass.OutputStyleCompressed,
		IncludePaths:        []string{dir1},
		SilenceDeprecations: []string{"import"},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(loggedImportDeprecation, qt.IsFalse)
	c.Assert(result.CSS, qt.Equals, "div p{color:#f442d1}")
}

func TestTranspilerParallel(t *testing.T) {
	c := qt.New(t)
	transpiler, clean := newTestTranspiler(c, dartsass.Options{})
	defer clean()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(num int) {
			defer wg.Done()
			for j := 0; j < 8; j++ {
				src := fmt.Sprintf(`
$primary-color: #%03d;

div { color: $primary-color; }`, num)

				var panicWhen godartsasstesting.PanicWhen
				if num == 3 {
					panicWhen = panicWhen.Set(godartsasstesting.ShouldPanicInSendInbound1)
				}
				if num == 8 {
					panicWhen = panicWhen.Set(godartsasstesting.ShouldPanicInNewCall)
				}
				if num == 10 {
					panicWhen = panicWhen.Set(godartsasstesting.ShouldPanicInSendInbound2)
				}
				args := dartsass.Args{}
				dartsass.TestingApplyArgsSettings(&args, panicWhen)
				if panicWhen > 0 {
					c.Check(func() { transpiler.Compile(dartsass.CompileInput{Source: src}, args) }, qt.PanicMatches, ".*ShouldPanicIn.*")
				} else {
					result, err := transpiler.Compile(dartsass.CompileInput{Source: src}, args)
					c.Check(err, qt.IsNil)
					c.Check(result.CSS, qt.Equals, fmt.Sprintf("div {\n  color: #%03d;\n}", num))
				}
				if c.Failed() {
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestTranspilerParallelImportResolver(t *testing.T) {
	c := qt.New(t)

	createImportResolver := func(width int) dartsass.ImportResolver {
		return testImportResolver{
			name:    "widths",
			content: fmt.Sprintf(`$width:  %d`, width),
		}
	}

	transpiler, clean := newTestTranspiler(c, dartsass.Options{})
	defer clean()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				for k := 0; k < 20; k++ {
					args := dartsass.Args{
						OutputStyle: dartsass.OutputStyleCompressed,
						Importers:   []dartsass.ImporterBinding{dartsass.CustomImporter(createImportResolver(j + i))},
					}
					result, err := transpiler.Compile(dartsass.CompileInput{Source: `
@import "widths";

div { p { width: $width; } }`}, args)
					c.Check(err, qt.IsNil)
					c.Check(result.CSS, qt.Equals, fmt.Sprintf("div p{width:%d}", j+i))
					if c.Failed() {
						return
					}
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestTranspilerShutdown(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}
	c := qt.New(t)
	transpiler, _ := newTestTranspiler(c, dartsass.Options{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(gor int) {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				src := fmt.Sprintf(`
$primary-color: #%03d;

div { color: $primary-color; }`, gor)

				num := gor + j
				if num == 10 {
					err := transpiler.Shutdown()
					if err != nil {
						c.Check(err, qt.Equals, dartsass.ErrShutdown)
					}
				}

				result, err := transpiler.Compile(dartsass.CompileInput{Source: src}, dartsass.Args{})
				if err != nil {
					c.Check(err, qt.Equals, dartsass.ErrShutdown)
				} else {
					c.Check(result.CSS, qt.Equals, fmt.Sprintf("div {\n  color: #%03d;\n}", gor))
				}
				if c.Failed() {
					return
				}
			}
		}(i)
	}
	wg.Wait()

	c.Assert(transpiler.IsShutDown(), qt.Equals, true)
}

func TestVersion(t *testing.T) {
	c := qt.New(t)

	version, err := dartsass.Version(getSassEmbeddedFilename())
	c.Assert(err, qt.IsNil)
	c.Assert(version.ProtocolVersion, qt.Not(qt.Equals), "")
}

func newTestTranspiler(c *qt.C, opts dartsass.Options) (*dartsass.Transpiler, func()) {
	opts.DartSassEmbeddedFilename = getSassEmbeddedFilename()
	transpiler, err := dartsass.Start(opts)
	c.Assert(err, qt.IsNil)

	return transpiler, func() {
		err := transpiler.Shutdown()
		if err != nil {
			c.Assert(err, qt.Equals, dartsass.ErrShutdown)
		}
	}
}

func getSassEmbeddedFilename() string {
	if filename := os.Getenv("DART_SASS_EMBEDDED_BINARY"); filename != "" {
		return filename
	}
	return "dart-sass-embedded"
}
