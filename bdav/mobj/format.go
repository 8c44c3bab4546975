package mobj

import "strings"

// Format renders a command as assembler source text. Most commands use the
// base form driven by op_cnt; set_stream/set_stream_ss and set_button_page
// have irregular operand packing and are special-cased to match §4.8
// exactly.
func (c Cmd) Format() string {
	return c.format(false)
}

// DebugFormat is like Format, but appends the well-known-PSR-slot comment
// to any PSR operand, the way the debug rendering does.
func (c Cmd) DebugFormat() string {
	return c.format(true)
}

func (c Cmd) format(debug bool) string {
	if c.isSetSystemMnemonic("set_stream") || c.isSetSystemMnemonic("set_stream_ss") {
		return c.formatSetStream(debug)
	}
	if c.isSetSystemMnemonic("set_button_page") {
		return c.formatSetButtonPage(debug)
	}

	mnemonic := c.Mnemonic()
	switch c.Inst.OpCount {
	case 0:
		return mnemonic
	case 1:
		return mnemonic + " " + renderOperand(c.DstOperand(), debug)
	default:
		return mnemonic + " " + renderOperand(c.DstOperand(), debug) + ", " + renderOperand(c.SrcOperand(), debug)
	}
}

func renderOperand(o Operand, debug bool) string {
	if debug {
		return o.DebugString()
	}
	return o.String()
}

// formatSetStream implements the irregular set_stream/set_stream_ss
// rendering: dst packs primary-audio (hi 16 bits) and PG/TextST (lo 16
// bits); src packs IG (hi) and angle (lo). Each 16-bit slot has a
// bit-15 present flag and a 12-bit value; PG/TextST additionally carries a
// bit-14 enabled flag.
func (c Cmd) formatSetStream(debug bool) string {
	primaryAudioFlag := c.Dst&0x80000000 != 0
	primaryAudioID := resolveOperand((c.Dst&0x0fff0000)>>16, c.Inst.ImmOp1)

	pgTextStFlag := (c.Dst&0xf000)>>12&0x8 != 0
	pgTextStEnabled := (c.Dst&0xf000)>>12&0x4 != 0
	pgTextStID := resolveOperand(c.Dst&0xfff, c.Inst.ImmOp1)

	igFlag := c.Src&0x80000000 != 0
	igID := resolveOperand((c.Src&0x0fff0000)>>16, c.Inst.ImmOp2)

	angleFlag := (c.Src&0xf000)>>12&0x8 != 0
	angleID := resolveOperand(c.Src&0xfff, c.Inst.ImmOp2)

	var b strings.Builder
	b.WriteString(c.Mnemonic())
	b.WriteString(" ")
	writeSlotOrNone(&b, primaryAudioFlag, primaryAudioID, debug)
	b.WriteString(", ")
	writeSlotOrNone(&b, pgTextStFlag, pgTextStID, debug)
	b.WriteString(", ")
	if pgTextStEnabled {
		b.WriteString("enabled")
	} else {
		b.WriteString("disabled")
	}
	b.WriteString(", ")
	writeSlotOrNone(&b, igFlag, igID, debug)
	b.WriteString(", ")
	writeSlotOrNone(&b, angleFlag, angleID, debug)
	return b.String()
}

// formatSetButtonPage implements the irregular set_button_page rendering:
// dst bit 31 is the button-present flag with the low 30 bits the button id;
// src bit 31 is the page-present flag, bit 30 a skip_out effect flag, low
// 30 bits the page id.
func (c Cmd) formatSetButtonPage(debug bool) string {
	buttonFlag := c.Dst&0x80000000 != 0
	buttonID := resolveOperand(c.Dst&0x3fffffff, c.Inst.ImmOp1)

	pageFlag := c.Src&0x80000000 != 0
	effectFlag := c.Src&0x40000000 != 0
	pageID := resolveOperand(c.Src&0x3fffffff, c.Inst.ImmOp2)

	var b strings.Builder
	b.WriteString(c.Mnemonic())
	b.WriteString(" ")
	writeSlotOrNone(&b, buttonFlag, buttonID, debug)
	b.WriteString(", ")
	writeSlotOrNone(&b, pageFlag, pageID, debug)
	if effectFlag {
		b.WriteString(", skip_out")
	}
	return b.String()
}

func writeSlotOrNone(b *strings.Builder, present bool, o Operand, debug bool) {
	if present {
		b.WriteString(renderOperand(o, debug))
	} else {
		b.WriteString("none")
	}
}
