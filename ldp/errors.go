package ldp

import "fmt"

// Error categories, mirroring the taxonomy in spec.md §7.
const (
	ErrProtocolViolation = iota // malformed header or TLV; the message is dropped
	ErrSessionEstablish         // open/keepwait-style setup failure
	ErrAllocation               // interface, socket or listener could not be set up
)

// LdpError is the local error type for conditions the message engine or
// session transport needs to report with a class attached, mirroring the
// teacher's PcepError (pcep/objects.go).
type LdpError struct {
	msg   string
	Class int
}

func (e LdpError) Error() string {
	return e.msg
}

func newProtocolError(format string, args ...interface{}) LdpError {
	return LdpError{msg: fmt.Sprintf(format, args...), Class: ErrProtocolViolation}
}

func newAllocationError(format string, args ...interface{}) LdpError {
	return LdpError{msg: fmt.Sprintf(format, args...), Class: ErrAllocation}
}
