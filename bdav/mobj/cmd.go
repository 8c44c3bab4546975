// Package mobj decodes, encodes, disassembles and assembles Blu-Ray Movie
// Object bytecode: the 12-byte interactive navigation commands that drive
// menus and playback control in a BD-ROM title.
package mobj

import "github.com/bugVanisher/mpegts/mpegts"

// Group is the 2-bit top-level opcode group.
type Group uint8

const (
	GroupBranch Group = iota
	GroupCmp
	GroupSet
)

// BranchSubGroup is the 3-bit sub-group of a Branch command.
type BranchSubGroup uint8

const (
	BranchGoto BranchSubGroup = iota
	BranchJump
	BranchPlay
)

// SetSubGroup is the 3-bit sub-group of a Set command.
type SetSubGroup uint8

const (
	SetSet SetSubGroup = iota
	SetSetSystem
)

// Instruction is the decoded 32-bit instruction word preceding a command's
// dst/src operand words.
type Instruction struct {
	OpCount   uint8
	Group     Group
	SubGroup  uint8
	ImmOp1    bool
	ImmOp2    bool
	BranchOpt uint8
	CmpOpt    uint8
	SetOpt    uint8
}

// parseInstruction extracts every field of the MSB-first instruction word
// laid out in the data model: 3-bit op_cnt, 2-bit grp, 3-bit sub_grp,
// imm_op1, imm_op2, 2 skip bits, 4-bit branch_opt, 4 skip bits, 4-bit
// cmp_opt, 3 skip bits, 5-bit set_opt.
func parseInstruction(v uint32) Instruction {
	return Instruction{
		OpCount:   uint8(v>>29) & 0x7,
		Group:     Group(uint8(v>>27) & 0x3),
		SubGroup:  uint8(v>>24) & 0x7,
		ImmOp1:    v&(1<<23) != 0,
		ImmOp2:    v&(1<<22) != 0,
		BranchOpt: uint8(v>>16) & 0xf,
		CmpOpt:    uint8(v>>8) & 0xf,
		SetOpt:    uint8(v) & 0x1f,
	}
}

func (i Instruction) encode() uint32 {
	v := uint32(i.OpCount&0x7) << 29
	v |= uint32(i.Group&0x3) << 27
	v |= uint32(i.SubGroup&0x7) << 24
	if i.ImmOp1 {
		v |= 1 << 23
	}
	if i.ImmOp2 {
		v |= 1 << 22
	}
	v |= uint32(i.BranchOpt&0xf) << 16
	v |= uint32(i.CmpOpt&0xf) << 8
	v |= uint32(i.SetOpt & 0x1f)
	return v
}

// Cmd is one fully decoded 12-byte Movie Object command.
type Cmd struct {
	Inst Instruction
	Dst  uint32
	Src  uint32
}

// Decode reads a 12-byte command from r: a 32-bit instruction word followed
// by the dst and src 32-bit operand words, all big-endian. The group/
// sub-group/option nesting is validated against the known opcode taxonomy;
// an unrecognised value at any level is reported via mpegts.NewAppError at
// the offset of the command's first byte.
func Decode(r *mpegts.Reader) (Cmd, error) {
	start := r.Offset()
	word, err := r.BEU32()
	if err != nil {
		return Cmd{}, err
	}
	dst, err := r.BEU32()
	if err != nil {
		return Cmd{}, err
	}
	src, err := r.BEU32()
	if err != nil {
		return Cmd{}, err
	}
	cmd := Cmd{Inst: parseInstruction(word), Dst: dst, Src: src}
	if _, err := cmd.mnemonic(); err != nil {
		return Cmd{}, mpegts.NewAppError(start, err)
	}
	return cmd, nil
}

// DecodeBytes decodes a command from a standalone 12-byte slice.
func DecodeBytes(b []byte) (Cmd, error) {
	return Decode(mpegts.NewReader(b))
}

// Encode packs a command back into its 12-byte wire form.
func (c Cmd) Encode() []byte {
	out := make([]byte, 12)
	putBE32(out[0:4], c.Inst.encode())
	putBE32(out[4:8], c.Dst)
	putBE32(out[8:12], c.Src)
	return out
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// DstOperand resolves the dst word against imm_op1.
func (c Cmd) DstOperand() Operand {
	return resolveOperand(c.Dst, c.Inst.ImmOp1)
}

// SrcOperand resolves the src word against imm_op2.
func (c Cmd) SrcOperand() Operand {
	return resolveOperand(c.Src, c.Inst.ImmOp2)
}

type opcodeKey struct {
	group    Group
	subGroup uint8
	option   uint8
}

var mnemonicByOpcode = map[opcodeKey]string{}
var opcodeByMnemonic = map[string]opcodeKey{}
var mnemonicOpCount = map[string]uint8{}

func register(group Group, subGroup, option uint8, mnemonic string, opCount uint8) {
	key := opcodeKey{group: group, subGroup: subGroup, option: option}
	mnemonicByOpcode[key] = mnemonic
	opcodeByMnemonic[mnemonic] = key
	mnemonicOpCount[mnemonic] = opCount
}

func init() {
	register(GroupBranch, uint8(BranchGoto), 0, "nop", 0)
	register(GroupBranch, uint8(BranchGoto), 1, "goto", 1)
	register(GroupBranch, uint8(BranchGoto), 2, "break", 0)

	register(GroupBranch, uint8(BranchJump), 0, "jump_object", 1)
	register(GroupBranch, uint8(BranchJump), 1, "jump_title", 1)
	register(GroupBranch, uint8(BranchJump), 2, "call_object", 1)
	register(GroupBranch, uint8(BranchJump), 3, "call_title", 1)
	register(GroupBranch, uint8(BranchJump), 4, "resume", 0)

	register(GroupBranch, uint8(BranchPlay), 0, "play_pl", 1)
	register(GroupBranch, uint8(BranchPlay), 1, "play_pl_pi", 2)
	register(GroupBranch, uint8(BranchPlay), 2, "play_pl_pm", 2)
	register(GroupBranch, uint8(BranchPlay), 3, "terminate_pl", 0)
	register(GroupBranch, uint8(BranchPlay), 4, "link_pi", 1)
	register(GroupBranch, uint8(BranchPlay), 5, "link_mk", 1)

	// Cmp has no sub-group; cmp_opt is read straight off the instruction
	// word, so every Cmp entry shares sub-group 0.
	register(GroupCmp, 0, 1, "bc", 2)
	register(GroupCmp, 0, 2, "eq", 2)
	register(GroupCmp, 0, 3, "ne", 2)
	register(GroupCmp, 0, 4, "ge", 2)
	register(GroupCmp, 0, 5, "gt", 2)
	register(GroupCmp, 0, 6, "le", 2)
	register(GroupCmp, 0, 7, "lt", 2)

	register(GroupSet, uint8(SetSet), 1, "move", 2)
	register(GroupSet, uint8(SetSet), 2, "swap", 2)
	register(GroupSet, uint8(SetSet), 3, "add", 2)
	register(GroupSet, uint8(SetSet), 4, "sub", 2)
	register(GroupSet, uint8(SetSet), 5, "mul", 2)
	register(GroupSet, uint8(SetSet), 6, "div", 2)
	register(GroupSet, uint8(SetSet), 7, "mod", 2)
	register(GroupSet, uint8(SetSet), 8, "rnd", 2)
	register(GroupSet, uint8(SetSet), 9, "and", 2)
	register(GroupSet, uint8(SetSet), 10, "or", 2)
	register(GroupSet, uint8(SetSet), 11, "xor", 2)
	register(GroupSet, uint8(SetSet), 12, "bset", 2)
	register(GroupSet, uint8(SetSet), 13, "bclr", 2)
	register(GroupSet, uint8(SetSet), 14, "shl", 2)
	register(GroupSet, uint8(SetSet), 15, "shr", 2)

	register(GroupSet, uint8(SetSetSystem), 1, "set_stream", 2)
	register(GroupSet, uint8(SetSetSystem), 2, "set_nv_timer", 2)
	register(GroupSet, uint8(SetSetSystem), 3, "set_button_page", 2)
	register(GroupSet, uint8(SetSetSystem), 4, "enable_button", 1)
	register(GroupSet, uint8(SetSetSystem), 5, "disable_button", 1)
	register(GroupSet, uint8(SetSetSystem), 6, "set_sec_stream", 2)
	register(GroupSet, uint8(SetSetSystem), 7, "popup_off", 0)
	register(GroupSet, uint8(SetSetSystem), 8, "still_on", 0)
	register(GroupSet, uint8(SetSetSystem), 9, "still_off", 0)
	register(GroupSet, uint8(SetSetSystem), 10, "set_output_mode", 1)
	register(GroupSet, uint8(SetSetSystem), 11, "set_stream_ss", 2)
	register(GroupSet, uint8(SetSetSystem), 0x10, "bd_plus_msg", 2)
}

// mnemonic classifies the command's group/sub-group/option nesting,
// returning one of the specific UnknownXxx kinds for whichever level of the
// taxonomy first fails to resolve.
func (c Cmd) mnemonic() (string, error) {
	switch c.Inst.Group {
	case GroupBranch:
		if c.Inst.SubGroup > uint8(BranchPlay) {
			return "", &DecodeError{Kind: UnknownBranchSubGroup, Value: c.Inst.SubGroup}
		}
		m, ok := mnemonicByOpcode[opcodeKey{GroupBranch, c.Inst.SubGroup, c.Inst.BranchOpt}]
		if !ok {
			switch BranchSubGroup(c.Inst.SubGroup) {
			case BranchGoto:
				return "", &DecodeError{Kind: UnknownGotoInstruction, Value: c.Inst.BranchOpt}
			case BranchJump:
				return "", &DecodeError{Kind: UnknownJumpInstruction, Value: c.Inst.BranchOpt}
			default:
				return "", &DecodeError{Kind: UnknownPlayInstruction, Value: c.Inst.BranchOpt}
			}
		}
		return m, nil
	case GroupCmp:
		m, ok := mnemonicByOpcode[opcodeKey{GroupCmp, 0, c.Inst.CmpOpt}]
		if !ok {
			return "", &DecodeError{Kind: UnknownCmpInstruction, Value: c.Inst.CmpOpt}
		}
		return m, nil
	case GroupSet:
		if c.Inst.SubGroup > uint8(SetSetSystem) {
			return "", &DecodeError{Kind: UnknownSetSubGroup, Value: c.Inst.SubGroup}
		}
		m, ok := mnemonicByOpcode[opcodeKey{GroupSet, c.Inst.SubGroup, c.Inst.SetOpt}]
		if !ok {
			if SetSubGroup(c.Inst.SubGroup) == SetSet {
				return "", &DecodeError{Kind: UnknownSetInstruction, Value: c.Inst.SetOpt}
			}
			return "", &DecodeError{Kind: UnknownSetSystemInstruction, Value: c.Inst.SetOpt}
		}
		return m, nil
	default:
		return "", &DecodeError{Kind: UnknownMObjGroup, Value: uint8(c.Inst.Group)}
	}
}

// Mnemonic returns the command's instruction name. It panics if called on a
// Cmd that Decode would have rejected; callers that built a Cmd by hand
// should validate with DecodeBytes(cmd.Encode()) first.
func (c Cmd) Mnemonic() string {
	m, err := c.mnemonic()
	if err != nil {
		panic(err)
	}
	return m
}

// isSetSystemMnemonic reports whether c is a Set/SetSystem command with the given
// mnemonic, used to select the irregular set_stream/set_button_page
// rendering.
func (c Cmd) isSetSystemMnemonic(name string) bool {
	if c.Inst.Group != GroupSet || SetSubGroup(c.Inst.SubGroup) != SetSetSystem {
		return false
	}
	m, err := c.mnemonic()
	return err == nil && m == name
}
