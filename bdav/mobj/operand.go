package mobj

import (
	"strconv"
)

// OperandKind discriminates the Operand tagged union.
type OperandKind int

const (
	OperandGPR OperandKind = iota
	OperandPSR
	OperandImm
)

// Operand is a resolved command operand: a General-Purpose Register
// (0..=4095), a Player Status Register (0..=127), or an immediate u32.
type Operand struct {
	Kind  OperandKind
	Value uint32
}

// resolveOperand implements §4.8's resolve(value, is_imm): immediates pass
// through untouched; otherwise bit 31 of the raw operand word selects PSR
// (low 7 bits) versus GPR (low 12 bits).
func resolveOperand(raw uint32, isImm bool) Operand {
	if isImm {
		return Operand{Kind: OperandImm, Value: raw}
	}
	if raw&0x80000000 == 0 {
		return Operand{Kind: OperandGPR, Value: raw & 0xfff}
	}
	return Operand{Kind: OperandPSR, Value: raw & 0x7f}
}

// encode packs an Operand back into a raw 32-bit operand word.
func (o Operand) encode() uint32 {
	switch o.Kind {
	case OperandPSR:
		return 0x80000000 | o.Value
	default:
		return o.Value
	}
}

func (o Operand) isImm() bool {
	return o.Kind == OperandImm
}

// String renders an operand the way the disassembler does: rN, PSRN, or a
// bare decimal immediate.
func (o Operand) String() string {
	switch o.Kind {
	case OperandGPR:
		return "r" + strconv.FormatUint(uint64(o.Value), 10)
	case OperandPSR:
		return "PSR" + strconv.FormatUint(uint64(o.Value), 10)
	default:
		return strconv.FormatUint(uint64(o.Value), 10)
	}
}

// DebugString appends the well-known PSR slot's comment, when one exists,
// the same way the debug-form disassembly does.
func (o Operand) DebugString() string {
	s := o.String()
	if o.Kind == OperandPSR {
		if comment := PsrComment(o.Value); comment != "" {
			return s + " " + comment
		}
	}
	return s
}

// PsrComment names the well-known purpose of PSR slot n, or "" if n has no
// documented meaning.
func PsrComment(n uint32) string {
	if c, ok := psrComments[n]; ok {
		return c
	}
	return ""
}

var psrComments = map[uint32]string{
	0:   "/* Interactive graphics stream number */",
	1:   "/* Primary audio stream number */",
	2:   "/* PG TextST stream number and PiP PG stream number */",
	3:   "/* Angle number */",
	4:   "/* Title number */",
	5:   "/* Chapter number */",
	6:   "/* PlayList ID */",
	7:   "/* PlayItem ID */",
	8:   "/* Presentation time */",
	9:   "/* Navigation timer */",
	10:  "/* Selected button ID */",
	11:  "/* Page ID */",
	12:  "/* User style number */",
	13:  "/* RO: User age */",
	14:  "/* Secondary audio stream number and secondary video stream number */",
	15:  "/* RO: player capability for audio */",
	16:  "/* RO: Language code for audio */",
	17:  "/* RO: Language code for PG and Text subtitles */",
	18:  "/* RO: Menu description language code */",
	19:  "/* RO: Country code */",
	20:  "/* RO: Region code */ /* 1 - A, 2 - B, 4 - C */",
	21:  "/* RO: Output Mode Preference */ /* 0 - 2D, 1 - 3D */",
	22:  "/* Stereoscopic status */ /* 2D / 3D */ ",
	23:  "/* RO: display capability */",
	24:  "/* RO: 3D capability */",
	25:  "/* RO: UHD capability */",
	26:  "/* RO: UHD display capability */",
	27:  "/* RO: HDR preference */",
	28:  "/* RO: SDR conversion preference */",
	29:  "/* RO: player capability for video */",
	30:  "/* RO: player capability for text subtitle */",
	31:  "/* RO: Player profile and version */",
	36:  "/* backup PSR4 */",
	37:  "/* backup PSR5 */",
	38:  "/* backup PSR6 */",
	39:  "/* backup PSR7 */",
	40:  "/* backup PSR8 */",
	42:  "/* backup PSR10 */",
	43:  "/* backup PSR11 */",
	44:  "/* backup PSR12 */",
	48:  "/* RO: Characteristic text caps */",
	49:  "/* RO: Characteristic text caps */",
	50:  "/* RO: Characteristic text caps */",
	51:  "/* RO: Characteristic text caps */",
	52:  "/* RO: Characteristic text caps */",
	53:  "/* RO: Characteristic text caps */",
	54:  "/* RO: Characteristic text caps */",
	55:  "/* RO: Characteristic text caps */",
	56:  "/* RO: Characteristic text caps */",
	57:  "/* RO: Characteristic text caps */",
	58:  "/* RO: Characteristic text caps */",
	59:  "/* RO: Characteristic text caps */",
	60:  "/* RO: Characteristic text caps */",
	61:  "/* RO: Characteristic text caps */",
	102: "/* BD+ receive */",
	103: "/* BD+ send */",
	104: "/* BD+ shared */",
}

func fitsU32(v int64) bool {
	return v >= 0 && v <= int64(^uint32(0))
}
