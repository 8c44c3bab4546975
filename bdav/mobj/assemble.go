package mobj

// Assemble parses one line of assembly source text into a command, per the
// grammar in §6: a mnemonic followed by a comma-separated operand list
// whose arity and shape depend on the mnemonic.
func Assemble(src string) (Cmd, error) {
	tokens, err := lex(src)
	if err != nil {
		return Cmd{}, err
	}

	if tokens[0].kind != tokIdent {
		return Cmd{}, &AssembleError{Kind: UnexpectedToken, Start: tokens[0].start, End: tokens[0].end, Text: tokens[0].text}
	}
	mnemonic := tokens[0].text
	key, ok := opcodeByMnemonic[mnemonic]
	if !ok {
		return Cmd{}, &AssembleError{Kind: UnknownMnemonic, Start: tokens[0].start, End: tokens[0].end, Text: mnemonic}
	}
	pos := 1

	var dst, src uint32
	var immOp1, immOp2 bool
	opCount := mnemonicOpCount[mnemonic]

	switch mnemonic {
	case "set_stream", "set_stream_ss":
		dst, src, immOp1, immOp2, err = parseSetStreamOperands(tokens, &pos)
	case "set_button_page":
		dst, src, immOp1, immOp2, err = parseSetButtonPageOperands(tokens, &pos)
	default:
		dst, src, immOp1, immOp2, err = parseGenericOperands(tokens, &pos, opCount)
	}
	if err != nil {
		return Cmd{}, err
	}

	if tokens[pos].kind != tokEOF {
		t := tokens[pos]
		return Cmd{}, &AssembleError{Kind: UnexpectedToken, Start: t.start, End: t.end, Text: t.text}
	}

	return Cmd{Inst: buildInstruction(key, opCount, immOp1, immOp2), Dst: dst, Src: src}, nil
}

func buildInstruction(key opcodeKey, opCount uint8, immOp1, immOp2 bool) Instruction {
	inst := Instruction{OpCount: opCount, Group: key.group, SubGroup: key.subGroup, ImmOp1: immOp1, ImmOp2: immOp2}
	switch key.group {
	case GroupBranch:
		inst.BranchOpt = key.option
	case GroupCmp:
		inst.CmpOpt = key.option
	case GroupSet:
		inst.SetOpt = key.option
	}
	return inst
}

func expectComma(tokens []token, pos *int) error {
	if tokens[*pos].kind != tokComma {
		t := tokens[*pos]
		return &AssembleError{Kind: UnexpectedToken, Start: t.start, End: t.end, Text: t.text}
	}
	*pos++
	return nil
}

// tokenToOperand converts a GPR/PSR/immediate token into its resolved
// Operand, range-checking GPR against 0..=4095 and PSR against 0..=127.
func tokenToOperand(t token) (Operand, error) {
	switch t.kind {
	case tokGPR:
		if t.value > 4095 {
			return Operand{}, &AssembleError{Kind: GprOutOfRange, Start: t.start, End: t.end, Text: t.text}
		}
		return Operand{Kind: OperandGPR, Value: uint32(t.value)}, nil
	case tokPSR:
		if t.value > 127 {
			return Operand{}, &AssembleError{Kind: PsrOutOfRange, Start: t.start, End: t.end, Text: t.text}
		}
		return Operand{Kind: OperandPSR, Value: uint32(t.value)}, nil
	case tokNumber:
		return Operand{Kind: OperandImm, Value: uint32(t.value)}, nil
	default:
		return Operand{}, &AssembleError{Kind: UnexpectedToken, Start: t.start, End: t.end, Text: t.text}
	}
}

// parseGenericOperands reads exactly opCount comma-separated operands and
// packs them into dst/src the ordinary way (no slot-level present flags).
func parseGenericOperands(tokens []token, pos *int, opCount uint8) (dst, src uint32, immOp1, immOp2 bool, err error) {
	if opCount == 0 {
		return 0, 0, false, false, nil
	}
	dstOp, err := tokenToOperand(tokens[*pos])
	if err != nil {
		return 0, 0, false, false, err
	}
	*pos++
	dst = dstOp.encode()
	immOp1 = dstOp.isImm()

	if opCount == 1 {
		return dst, 0, immOp1, false, nil
	}

	if err := expectComma(tokens, pos); err != nil {
		return 0, 0, false, false, err
	}
	srcOp, err := tokenToOperand(tokens[*pos])
	if err != nil {
		return 0, 0, false, false, err
	}
	*pos++
	src = srcOp.encode()
	immOp2 = srcOp.isImm()

	return dst, src, immOp1, immOp2, nil
}

// maybeSlot parses one "none | operand" slot.
func maybeSlot(tokens []token, pos *int) (present bool, op Operand, err error) {
	t := tokens[*pos]
	if t.kind == tokIdent && t.text == "none" {
		*pos++
		return false, Operand{}, nil
	}
	op, err = tokenToOperand(t)
	if err != nil {
		return false, Operand{}, err
	}
	*pos++
	return true, op, nil
}

func requireKeyword(tokens []token, pos *int, word string) error {
	t := tokens[*pos]
	if t.kind != tokIdent || t.text != word {
		return &AssembleError{Kind: UnexpectedToken, Start: t.start, End: t.end, Text: t.text}
	}
	*pos++
	return nil
}

// parseSetStreamOperands implements the irregular set_stream/set_stream_ss
// grammar: "<audio>, <pg>, enabled|disabled, <ig>, <angle>", any slot but
// the enabled/disabled keyword may be "none".
func parseSetStreamOperands(tokens []token, pos *int) (dst, src uint32, immOp1, immOp2 bool, err error) {
	audioStart := tokens[*pos].start
	audioPresent, audioOp, err := maybeSlot(tokens, pos)
	if err != nil {
		return 0, 0, false, false, err
	}
	if err := expectComma(tokens, pos); err != nil {
		return 0, 0, false, false, err
	}
	pgPresent, pgOp, err := maybeSlot(tokens, pos)
	if err != nil {
		return 0, 0, false, false, err
	}
	if audioPresent && pgPresent && audioOp.isImm() != pgOp.isImm() {
		end := tokens[*pos-1]
		return 0, 0, false, false, &AssembleError{Kind: SetStreamOperandTypeMismatch, Start: audioStart, End: end.end, Text: end.text}
	}
	immOp1 = (audioPresent && audioOp.isImm()) || (pgPresent && pgOp.isImm())

	if err := expectComma(tokens, pos); err != nil {
		return 0, 0, false, false, err
	}
	enabledTok := tokens[*pos]
	var enabled bool
	switch {
	case enabledTok.kind == tokIdent && enabledTok.text == "enabled":
		enabled = true
		*pos++
	case enabledTok.kind == tokIdent && enabledTok.text == "disabled":
		enabled = false
		*pos++
	default:
		return 0, 0, false, false, &AssembleError{Kind: UnexpectedToken, Start: enabledTok.start, End: enabledTok.end, Text: enabledTok.text}
	}

	if err := expectComma(tokens, pos); err != nil {
		return 0, 0, false, false, err
	}
	igStart := tokens[*pos].start
	igPresent, igOp, err := maybeSlot(tokens, pos)
	if err != nil {
		return 0, 0, false, false, err
	}
	if err := expectComma(tokens, pos); err != nil {
		return 0, 0, false, false, err
	}
	anglePresent, angleOp, err := maybeSlot(tokens, pos)
	if err != nil {
		return 0, 0, false, false, err
	}
	if igPresent && anglePresent && igOp.isImm() != angleOp.isImm() {
		end := tokens[*pos-1]
		return 0, 0, false, false, &AssembleError{Kind: SetStreamOperandTypeMismatch, Start: igStart, End: end.end, Text: end.text}
	}
	immOp2 = (igPresent && igOp.isImm()) || (anglePresent && angleOp.isImm())

	if audioPresent {
		dst |= 0x80000000 | ((audioOp.Value & 0xfff) << 16)
	}
	if pgPresent {
		dst |= 0x8000 | (pgOp.Value & 0xfff)
		if enabled {
			dst |= 0x4000
		}
	} else if enabled {
		dst |= 0x4000
	}
	if igPresent {
		src |= 0x80000000 | ((igOp.Value & 0xfff) << 16)
	}
	if anglePresent {
		src |= 0x8000 | (angleOp.Value & 0xfff)
	}

	return dst, src, immOp1, immOp2, nil
}

// parseSetButtonPageOperands implements the irregular set_button_page
// grammar: "<button>, <page>[, skip_out]".
func parseSetButtonPageOperands(tokens []token, pos *int) (dst, src uint32, immOp1, immOp2 bool, err error) {
	buttonPresent, buttonOp, err := maybeSlot(tokens, pos)
	if err != nil {
		return 0, 0, false, false, err
	}
	if err := expectComma(tokens, pos); err != nil {
		return 0, 0, false, false, err
	}
	pagePresent, pageOp, err := maybeSlot(tokens, pos)
	if err != nil {
		return 0, 0, false, false, err
	}

	skipOut := false
	if tokens[*pos].kind == tokComma {
		*pos++
		if err := requireKeyword(tokens, pos, "skip_out"); err != nil {
			return 0, 0, false, false, err
		}
		skipOut = true
	}

	if buttonPresent {
		dst = 0x80000000 | (buttonOp.Value & 0x3fffffff)
		immOp1 = buttonOp.isImm()
	}
	if pagePresent {
		src = 0x80000000 | (pageOp.Value & 0x3fffffff)
		immOp2 = pageOp.isImm()
	}
	if skipOut {
		src |= 0x40000000
	}

	return dst, src, immOp1, immOp2, nil
}
