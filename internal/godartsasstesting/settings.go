// Package godartsasstesting holds fault-injection flags this module's own
// tests use to simulate a panic at a specific point in the Transpiler
// driver, to verify a panic in one compilation's path doesn't corrupt
// state shared with other in-flight compilations.
package godartsasstesting

import (
	"os"
	"strings"
)

// IsTest reports whether we're running as a test.
var IsTest bool

func init() {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			IsTest = true
			break
		}
	}
}

type PanicWhen uint8

func (p PanicWhen) Has(flag PanicWhen) bool {
	return p&flag != 0
}

func (p PanicWhen) Set(flag PanicWhen) PanicWhen {
	return p | flag
}

const (
	// ShouldPanicInNewCall fires right after a compilation is allocated
	// an id and registered, before its CompileRequest is built or sent.
	ShouldPanicInNewCall PanicWhen = 1 << iota
	// ShouldPanicInSendInbound1 fires in sendInboundChecked before the
	// outbound message is marshaled.
	ShouldPanicInSendInbound1
	// ShouldPanicInSendInbound2 fires in sendInboundChecked after marshaling,
	// before the frame is written to the child.
	ShouldPanicInSendInbound2
)

func (p PanicWhen) String() string {
	switch p {
	case ShouldPanicInNewCall:
		return "ShouldPanicInNewCall"
	case ShouldPanicInSendInbound1:
		return "ShouldPanicInSendInbound1"
	case ShouldPanicInSendInbound2:
		return "ShouldPanicInSendInbound2"
	default:
		return "PanicWhen(none)"
	}
}
