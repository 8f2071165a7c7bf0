package dartsass

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cli/safeexec"

	"github.com/sassdriver/dartsass/internal/embeddedsass"
)

// minSupportedProtocolVersion and the compiler version compatibility range
// are policy choices spec.md §9 deliberately leaves unspecified as a
// default while requiring them be configurable at build time; these vars
// are that configuration point.
var (
	minSupportedProtocolVersion = "1.0.0"
	minSupportedCompilerVersion = "1.0.0"
	maxSupportedCompilerVersion = "2.0.0"
)

// DartSassVersion reports the version information a running compiler
// binary announces at handshake.
type DartSassVersion struct {
	ProtocolVersion       string
	CompilerVersion       string
	ImplementationVersion string
	ImplementationName    string
}

// Version starts dartSassEmbeddedFilename just long enough to read its
// version handshake, without keeping it running as a Transpiler would.
func Version(dartSassEmbeddedFilename string) (DartSassVersion, error) {
	var v DartSassVersion

	if dartSassEmbeddedFilename == "" {
		dartSassEmbeddedFilename = defaultDartSassEmbeddedFilename
	}
	bin, err := safeexec.LookPath(dartSassEmbeddedFilename)
	if err != nil {
		return v, err
	}

	resp, err := probeVersion(bin)
	if err != nil {
		return v, err
	}

	return DartSassVersion{
		ProtocolVersion:       resp.ProtocolVersion,
		CompilerVersion:       resp.CompilerVersion,
		ImplementationVersion: resp.ImplementationVersion,
		ImplementationName:    resp.ImplementationName,
	}, nil
}

func parseMajorVersion(v string) (int, error) {
	parts := strings.SplitN(v, ".", 2)
	if len(parts) == 0 || parts[0] == "" {
		return 0, fmt.Errorf("empty version")
	}
	return strconv.Atoi(parts[0])
}

// checkVersion validates the child's protocol version against the build's
// minimum and its compiler version against the pinned compatible range,
// per §4.7's "new(options) ... validates the child's protocol version
// against a compile-time minimum and the child's compiler version against
// a pinned compatible range".
func checkVersion(v *embeddedsass.VersionResponse) error {
	pMajor, err := parseMajorVersion(v.ProtocolVersion)
	if err != nil {
		return &ProtocolError{Type: ProtocolErrorInternal, Message: fmt.Sprintf("malformed protocol version %q", v.ProtocolVersion)}
	}
	minProtoMajor, _ := parseMajorVersion(minSupportedProtocolVersion)
	if pMajor < minProtoMajor {
		return &ProtocolError{Type: ProtocolErrorParams, Message: fmt.Sprintf("embedded compiler protocol version %s is older than the minimum supported %s", v.ProtocolVersion, minSupportedProtocolVersion)}
	}

	cMajor, err := parseMajorVersion(v.CompilerVersion)
	if err != nil {
		return &ProtocolError{Type: ProtocolErrorInternal, Message: fmt.Sprintf("malformed compiler version %q", v.CompilerVersion)}
	}
	minCompMajor, _ := parseMajorVersion(minSupportedCompilerVersion)
	maxCompMajor, _ := parseMajorVersion(maxSupportedCompilerVersion)
	if cMajor < minCompMajor || cMajor >= maxCompMajor {
		return &ProtocolError{Type: ProtocolErrorParams, Message: fmt.Sprintf("embedded compiler version %s is outside the supported range [%s, %s)", v.CompilerVersion, minSupportedCompilerVersion, maxSupportedCompilerVersion)}
	}
	return nil
}
