package mobj

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugVanisher/mpegts/mpegts"
)

func TestDecodeEncodeRoundTripNop(t *testing.T) {
	raw := make([]byte, 12)
	cmd, err := DecodeBytes(raw)
	require.NoError(t, err)
	require.Equal(t, "nop", cmd.Mnemonic())
	require.Equal(t, raw, cmd.Encode())
}

func TestDecodeEncodeRoundTripGotoImmediate(t *testing.T) {
	cmd := Cmd{
		Inst: Instruction{OpCount: 1, Group: GroupBranch, SubGroup: uint8(BranchGoto), ImmOp1: true, BranchOpt: 1},
		Dst:  42,
	}
	raw := cmd.Encode()
	decoded, err := DecodeBytes(raw)
	require.NoError(t, err)
	require.Equal(t, "goto", decoded.Mnemonic())
	require.Equal(t, Operand{Kind: OperandImm, Value: 42}, decoded.DstOperand())
}

func TestDecodeEncodeRoundTripBcGprAndImm(t *testing.T) {
	cmd := Cmd{
		Inst: Instruction{OpCount: 2, Group: GroupCmp, SubGroup: 0, ImmOp2: true, CmpOpt: 1},
		Dst:  7, // GPR 7 (bit 31 unset)
		Src:  100,
	}
	raw := cmd.Encode()
	decoded, err := DecodeBytes(raw)
	require.NoError(t, err)
	require.Equal(t, "bc", decoded.Mnemonic())
	require.Equal(t, Operand{Kind: OperandGPR, Value: 7}, decoded.DstOperand())
	require.Equal(t, Operand{Kind: OperandImm, Value: 100}, decoded.SrcOperand())
}

func TestDecodeEncodeRoundTripMovePsrToGpr(t *testing.T) {
	cmd := Cmd{
		Inst: Instruction{OpCount: 2, Group: GroupSet, SubGroup: uint8(SetSet), SetOpt: 1},
		Dst:  3,
		Src:  0x80000000 | 10, // PSR 10
	}
	raw := cmd.Encode()
	decoded, err := DecodeBytes(raw)
	require.NoError(t, err)
	require.Equal(t, "move", decoded.Mnemonic())
	require.Equal(t, Operand{Kind: OperandGPR, Value: 3}, decoded.DstOperand())
	require.Equal(t, Operand{Kind: OperandPSR, Value: 10}, decoded.SrcOperand())
}

func TestDecodeFromReaderAdvancesOffset(t *testing.T) {
	raw := append(make([]byte, 12), make([]byte, 12)...)
	r := mpegts.NewReader(raw)
	first, err := Decode(r)
	require.NoError(t, err)
	require.Equal(t, "nop", first.Mnemonic())
	require.Equal(t, 12, r.Offset())
	second, err := Decode(r)
	require.NoError(t, err)
	require.Equal(t, "nop", second.Mnemonic())
}

func TestDecodeUnknownMObjGroup(t *testing.T) {
	cmd := Cmd{Inst: Instruction{Group: Group(3)}}
	_, err := DecodeBytes(cmd.Encode())
	require.Error(t, err)
	appErr, ok := err.(*mpegts.Error)
	require.True(t, ok)
	decErr, ok := appErr.App.(*DecodeError)
	require.True(t, ok)
	require.Equal(t, UnknownMObjGroup, decErr.Kind)
}

func TestDecodeUnknownBranchSubGroup(t *testing.T) {
	cmd := Cmd{Inst: Instruction{Group: GroupBranch, SubGroup: 3}}
	_, err := DecodeBytes(cmd.Encode())
	requireDecodeErrorKind(t, err, UnknownBranchSubGroup)
}

func TestDecodeUnknownGotoInstruction(t *testing.T) {
	cmd := Cmd{Inst: Instruction{Group: GroupBranch, SubGroup: uint8(BranchGoto), BranchOpt: 3}}
	_, err := DecodeBytes(cmd.Encode())
	requireDecodeErrorKind(t, err, UnknownGotoInstruction)
}

func TestDecodeUnknownJumpInstruction(t *testing.T) {
	cmd := Cmd{Inst: Instruction{Group: GroupBranch, SubGroup: uint8(BranchJump), BranchOpt: 5}}
	_, err := DecodeBytes(cmd.Encode())
	requireDecodeErrorKind(t, err, UnknownJumpInstruction)
}

func TestDecodeUnknownPlayInstruction(t *testing.T) {
	cmd := Cmd{Inst: Instruction{Group: GroupBranch, SubGroup: uint8(BranchPlay), BranchOpt: 6}}
	_, err := DecodeBytes(cmd.Encode())
	requireDecodeErrorKind(t, err, UnknownPlayInstruction)
}

func TestDecodeUnknownCmpInstruction(t *testing.T) {
	cmd := Cmd{Inst: Instruction{Group: GroupCmp, CmpOpt: 0}}
	_, err := DecodeBytes(cmd.Encode())
	requireDecodeErrorKind(t, err, UnknownCmpInstruction)
}

func TestDecodeUnknownSetSubGroup(t *testing.T) {
	cmd := Cmd{Inst: Instruction{Group: GroupSet, SubGroup: 2}}
	_, err := DecodeBytes(cmd.Encode())
	requireDecodeErrorKind(t, err, UnknownSetSubGroup)
}

func TestDecodeUnknownSetInstruction(t *testing.T) {
	cmd := Cmd{Inst: Instruction{Group: GroupSet, SubGroup: uint8(SetSet), SetOpt: 0}}
	_, err := DecodeBytes(cmd.Encode())
	requireDecodeErrorKind(t, err, UnknownSetInstruction)
}

func TestDecodeUnknownSetSystemInstruction(t *testing.T) {
	cmd := Cmd{Inst: Instruction{Group: GroupSet, SubGroup: uint8(SetSetSystem), SetOpt: 0}}
	_, err := DecodeBytes(cmd.Encode())
	requireDecodeErrorKind(t, err, UnknownSetSystemInstruction)
}

func requireDecodeErrorKind(t *testing.T, err error, kind DecodeErrorKind) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*mpegts.Error)
	require.True(t, ok)
	decErr, ok := appErr.App.(*DecodeError)
	require.True(t, ok)
	require.Equal(t, kind, decErr.Kind)
}

func TestFormatSimpleCommands(t *testing.T) {
	nop := Cmd{Inst: Instruction{Group: GroupBranch, SubGroup: uint8(BranchGoto), BranchOpt: 0}}
	require.Equal(t, "nop", nop.Format())

	gotoCmd := Cmd{Inst: Instruction{OpCount: 1, Group: GroupBranch, SubGroup: uint8(BranchGoto), BranchOpt: 1, ImmOp1: true}, Dst: 5}
	require.Equal(t, "goto 5", gotoCmd.Format())

	move := Cmd{Inst: Instruction{OpCount: 2, Group: GroupSet, SubGroup: uint8(SetSet), SetOpt: 1}, Dst: 1, Src: 2}
	require.Equal(t, "move r1, r2", move.Format())
}

func TestDebugFormatAnnotatesPsrComment(t *testing.T) {
	move := Cmd{
		Inst: Instruction{OpCount: 2, Group: GroupSet, SubGroup: uint8(SetSet), SetOpt: 1},
		Dst:  1,
		Src:  0x80000000 | 4, // PSR4: Title number
	}
	require.Equal(t, "move r1, PSR4 /* Title number */", move.DebugFormat())
	require.Equal(t, "move r1, PSR4", move.Format())
}

func TestAssembleSimpleRoundTrip(t *testing.T) {
	cmd, err := Assemble("move r1, r2")
	require.NoError(t, err)
	require.Equal(t, "move", cmd.Mnemonic())
	require.Equal(t, "move r1, r2", cmd.Format())

	nop, err := Assemble("nop")
	require.NoError(t, err)
	require.Equal(t, make([]byte, 12), nop.Encode())
}

func TestAssembleImmediateOperand(t *testing.T) {
	cmd, err := Assemble("goto 0x2a")
	require.NoError(t, err)
	require.Equal(t, Operand{Kind: OperandImm, Value: 0x2a}, cmd.DstOperand())
}

func TestAssembleSetStreamRoundTrip(t *testing.T) {
	cmd, err := Assemble("set_stream r1, none, enabled, 5, 3")
	require.NoError(t, err)
	require.Equal(t, "set_stream", cmd.Mnemonic())
	require.Equal(t, "set_stream r1, none, enabled, 5, 3", cmd.Format())
}

func TestAssembleSetButtonPageWithSkipOut(t *testing.T) {
	cmd, err := Assemble("set_button_page r1, 2, skip_out")
	require.NoError(t, err)
	require.Equal(t, "set_button_page r1, 2, skip_out", cmd.Format())
}

func TestAssembleUnknownMnemonic(t *testing.T) {
	_, err := Assemble("frobnicate r1")
	require.Error(t, err)
	asmErr, ok := err.(*AssembleError)
	require.True(t, ok)
	require.Equal(t, UnknownMnemonic, asmErr.Kind)
}

func TestAssembleUnexpectedTokenMissingComma(t *testing.T) {
	_, err := Assemble("move r1 r2")
	require.Error(t, err)
	asmErr, ok := err.(*AssembleError)
	require.True(t, ok)
	require.Equal(t, UnexpectedToken, asmErr.Kind)
}

func TestAssembleGprOutOfRange(t *testing.T) {
	_, err := Assemble("move r4096, r0")
	require.Error(t, err)
	asmErr, ok := err.(*AssembleError)
	require.True(t, ok)
	require.Equal(t, GprOutOfRange, asmErr.Kind)
}

func TestAssemblePsrOutOfRange(t *testing.T) {
	_, err := Assemble("move r0, PSR128")
	require.Error(t, err)
	asmErr, ok := err.(*AssembleError)
	require.True(t, ok)
	require.Equal(t, PsrOutOfRange, asmErr.Kind)
}

func TestAssembleSetStreamOperandTypeMismatch(t *testing.T) {
	src := "set_stream r1, 2, enabled, none, none"
	_, err := Assemble(src)
	require.Error(t, err)
	asmErr, ok := err.(*AssembleError)
	require.True(t, ok)
	require.Equal(t, SetStreamOperandTypeMismatch, asmErr.Kind)
	// The range must span the whole mismatched pair, "r1, 2", not just the
	// last-consumed operand.
	require.Equal(t, "r1, 2", src[asmErr.Start:asmErr.End])
}

func TestAssembleUnexpectedEOFUnterminatedComment(t *testing.T) {
	_, err := Assemble("move r0, r1 /* oops")
	require.Error(t, err)
	asmErr, ok := err.(*AssembleError)
	require.True(t, ok)
	require.Equal(t, UnexpectedEOF, asmErr.Kind)
}
