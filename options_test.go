package dartsass

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseOutputStyle(t *testing.T) {
	c := qt.New(t)

	c.Assert(ParseOutputStyle("compressed"), qt.Equals, OutputStyleCompressed)
	c.Assert(ParseOutputStyle("ComPressed"), qt.Equals, OutputStyleCompressed)
	c.Assert(ParseOutputStyle("expanded"), qt.Equals, OutputStyleExpanded)
	c.Assert(ParseOutputStyle("foo"), qt.Equals, OutputStyleExpanded)
}

func TestParseSyntax(t *testing.T) {
	c := qt.New(t)

	c.Assert(ParseSyntax("scss"), qt.Equals, SyntaxSCSS)
	c.Assert(ParseSyntax("css"), qt.Equals, SyntaxCSS)
	c.Assert(ParseSyntax("cSS"), qt.Equals, SyntaxCSS)
	c.Assert(ParseSyntax("sass"), qt.Equals, SyntaxIndented)
	c.Assert(ParseSyntax("indented"), qt.Equals, SyntaxIndented)
	c.Assert(ParseSyntax("foo"), qt.Equals, SyntaxSCSS)
}

func TestArgsInitExpandsIncludePaths(t *testing.T) {
	c := qt.New(t)

	args := Args{IncludePaths: []string{"node_modules/foo", "node_modules/bar/"}}
	c.Assert(args.init(), qt.IsNil)
	c.Assert(len(args.Importers), qt.Equals, 2)
}
