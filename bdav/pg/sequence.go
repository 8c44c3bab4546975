package pg

import "github.com/bugVanisher/mpegts/mpegts"

// PgSequenceDescriptor is the top two bits of one byte, present on both
// Object and IG Composition segments, that drive the second-level
// fragmentation state machine.
type PgSequenceDescriptor struct {
	FirstInSeq bool
	LastInSeq  bool
}

func parsePgSequenceDescriptor(r *mpegts.Reader) (PgSequenceDescriptor, error) {
	b, err := r.U8()
	if err != nil {
		return PgSequenceDescriptor{}, err
	}
	return PgSequenceDescriptor{FirstInSeq: b&0x80 != 0, LastInSeq: b&0x40 != 0}, nil
}

// PgCompositionUnitState is the 2-bit composition state of a PG
// Composition Descriptor.
type PgCompositionUnitState uint8

const (
	CompositionStateIncremental PgCompositionUnitState = iota
	CompositionStateNewPalette
	CompositionStateEpochStart
)

func (s PgCompositionUnitState) String() string {
	switch s {
	case CompositionStateIncremental:
		return "Incremental"
	case CompositionStateNewPalette:
		return "NewPalette"
	case CompositionStateEpochStart:
		return "EpochStart"
	default:
		return "Invalid"
	}
}

func parseCompositionUnitState(v uint8) (PgCompositionUnitState, error) {
	if v > uint8(CompositionStateEpochStart) {
		return 0, newErr(UnknownPgCompositionUnitState, uint32(v))
	}
	return PgCompositionUnitState(v), nil
}

// PgCompositionDescriptor identifies one composition: its sequence number
// and the 2-bit state carried in the top bits of the following byte. It
// doubles as the second-level reassembly key for IG Composition segments,
// so it must be comparable (used as a Go map key).
type PgCompositionDescriptor struct {
	Number uint16
	State  uint8 // whole raw state byte (the 2-bit state is its top bits), kept raw so the struct stays a valid map key even when the state is out of range
}

func parsePgCompositionDescriptor(r *mpegts.Reader) (PgCompositionDescriptor, error) {
	number, err := r.BEU16()
	if err != nil {
		return PgCompositionDescriptor{}, err
	}
	state, err := r.U8()
	if err != nil {
		return PgCompositionDescriptor{}, err
	}
	return PgCompositionDescriptor{Number: number, State: state}, nil
}

// CompositionState decodes the descriptor's raw state byte's top 2 bits.
func (d PgCompositionDescriptor) CompositionState() (PgCompositionUnitState, error) {
	return parseCompositionUnitState(d.State >> 6)
}
