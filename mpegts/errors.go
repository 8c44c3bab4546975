package mpegts

import "fmt"

// Kind identifies the structural failure mode of a parse error. Every Kind
// carries the byte offset within the packet at which it was detected.
type Kind int32

const (
	// KindPacketOverrun is raised when a bounded read asked for more bytes
	// than remained in the current view.
	KindPacketOverrun Kind = iota
	// KindLostSync is raised when a transport packet's first byte was not
	// the 0x47 sync byte.
	KindLostSync
	// KindBadAdaptationHeader is raised when the adaptation field length is
	// out of range, or a flagged PCR/OPCR field did not fit.
	KindBadAdaptationHeader
	// KindBadPsiHeader is raised when a PSI section is too short to cover
	// its own CRC, or the pointer field overruns the payload.
	KindBadPsiHeader
	// KindBadPesHeader is raised when the PES optional header flagged a
	// field (PTS/DTS) that did not fit in the declared additional length.
	KindBadPesHeader
	// KindPsiCrcMismatch is raised when a PSI section's trailing CRC-32
	// does not match the computed CRC over header+syntax+body.
	KindPsiCrcMismatch
	// KindAppError wraps a domain-specific decode error from an
	// application-supplied PES payload decoder (PG segments, MObj, etc).
	KindAppError
)

func (k Kind) String() string {
	switch k {
	case KindPacketOverrun:
		return "PacketOverrun"
	case KindLostSync:
		return "LostSync"
	case KindBadAdaptationHeader:
		return "BadAdaptationHeader"
	case KindBadPsiHeader:
		return "BadPsiHeader"
	case KindBadPesHeader:
		return "BadPesHeader"
	case KindPsiCrcMismatch:
		return "PsiCrcMismatch"
	case KindAppError:
		return "AppError"
	default:
		return "Unknown"
	}
}

// Error is the structured error type returned by every parse operation in
// this module. It always carries the byte offset at which the failure was
// detected, mirroring the teacher's common/errs.Error shape (a typed error
// with a stable code instead of a bare string).
type Error struct {
	Offset int
	Kind   Kind
	N      int   // requested length, for KindPacketOverrun
	App    error // underlying domain error, for KindAppError
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindPacketOverrun:
		return fmt.Sprintf("mpegts: packet overrun reading %d bytes @ offset %d", e.N, e.Offset)
	case KindAppError:
		return fmt.Sprintf("mpegts: %s @ offset %d", e.App, e.Offset)
	default:
		return fmt.Sprintf("mpegts: %s @ offset %d", e.Kind, e.Offset)
	}
}

func (e *Error) Unwrap() error {
	return e.App
}

func newError(offset int, kind Kind) *Error {
	return &Error{Offset: offset, Kind: kind}
}

func newOverrunError(offset, n int) *Error {
	return &Error{Offset: offset, Kind: KindPacketOverrun, N: n}
}

// NewAppError wraps a domain-specific decode error (e.g. an unrecognised PG
// segment type, or an unknown MObj opcode) with the offset at which it was
// detected, so it can flow through the same Error surface as structural
// parser failures.
func NewAppError(offset int, app error) *Error {
	return &Error{Offset: offset, Kind: KindAppError, App: app}
}
