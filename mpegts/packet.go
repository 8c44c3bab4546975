package mpegts

import "fmt"

// ScramblingControl is the 2-bit transport_scrambling_control field of a
// transport packet header.
type ScramblingControl uint8

const (
	NotScrambled ScramblingControl = iota
	Reserved
	ScrambledEvenKey
	ScrambledOddKey
)

func (s ScramblingControl) String() string {
	switch s {
	case NotScrambled:
		return "NotScrambled"
	case Reserved:
		return "Reserved"
	case ScrambledEvenKey:
		return "ScrambledEvenKey"
	case ScrambledOddKey:
		return "ScrambledOddKey"
	default:
		return "Invalid"
	}
}

// NullPID is the reserved PID value identifying stuffing (null) packets.
const NullPID uint16 = 0x1fff

// PacketHeader is the 4-byte link-layer header common to every transport
// packet, MSB-first.
type PacketHeader struct {
	SyncByte           uint8
	TEI                bool
	PUSI               bool
	Priority           bool
	PID                uint16
	TSC                ScramblingControl
	HasAdaptationField bool
	HasPayload         bool
	ContinuityCounter  uint8
}

func parsePacketHeader(r *Reader) (PacketHeader, error) {
	b, err := r.Read(4)
	if err != nil {
		return PacketHeader{}, err
	}
	h := PacketHeader{
		SyncByte:          b[0],
		TEI:               b[1]&0x80 != 0,
		PUSI:              b[1]&0x40 != 0,
		Priority:          b[1]&0x20 != 0,
		PID:               uint16(b[1]&0x1f)<<8 | uint16(b[2]),
		TSC:               ScramblingControl(b[3] >> 6 & 0x3),
		HasAdaptationField: b[3]&0x20 != 0,
		HasPayload:        b[3]&0x10 != 0,
		ContinuityCounter: b[3] & 0x0f,
	}
	return h, nil
}

// AdaptationFieldHeader is the flag byte following the adaptation field's
// length byte.
type AdaptationFieldHeader struct {
	Length                       uint8
	Discontinuity                bool
	RandomAccess                 bool
	Priority                     bool
	HasPCR                       bool
	HasOPCR                      bool
	HasSpliceCountdown           bool
	HasTransportPrivateData      bool
	HasAdaptationFieldExtension  bool
}

func parseAdaptationFieldHeader(r *Reader) (AdaptationFieldHeader, error) {
	b, err := r.Read(2)
	if err != nil {
		return AdaptationFieldHeader{}, err
	}
	h := AdaptationFieldHeader{
		Length:                      b[0],
		Discontinuity:               b[1]&0x80 != 0,
		RandomAccess:                b[1]&0x40 != 0,
		Priority:                    b[1]&0x20 != 0,
		HasPCR:                      b[1]&0x10 != 0,
		HasOPCR:                     b[1]&0x08 != 0,
		HasSpliceCountdown:          b[1]&0x04 != 0,
		HasTransportPrivateData:     b[1]&0x02 != 0,
		HasAdaptationFieldExtension: b[1]&0x01 != 0,
	}
	return h, nil
}

// PCRTimestamp is a 42-bit Program Clock Reference: 33 bits of a 90kHz base
// clock plus 9 bits of a 27MHz extension.
type PCRTimestamp struct {
	Base      uint64
	Extension uint16
}

// String renders the base clock as the original crate's pts_format_args!
// macro does: "h:m:s:ticks" at 90kHz, with no zero padding (90000 renders
// as "0:0:1:0").
func (p PCRTimestamp) String() string {
	const clock = 90000
	return fmt.Sprintf("%d:%d:%d:%d",
		p.Base/(clock*60*60),
		p.Base/(clock*60)%60,
		p.Base/clock%60,
		p.Base%clock)
}

func parsePCR(b []byte) PCRTimestamp {
	_ = b[5]
	base := uint64(b[0])<<25 | uint64(b[1])<<17 | uint64(b[2])<<9 | uint64(b[3])<<1 | uint64(b[4])>>7
	extension := uint16(b[4]&0x1)<<8 | uint16(b[5])
	return PCRTimestamp{Base: base, Extension: extension}
}

// AdaptationField is the optional field following the packet header,
// carrying at minimum a length and a flag byte, and optionally a PCR and/or
// OPCR. Splice countdown, transport private data and the adaptation field
// extension are parsed only far enough to be skipped (see spec Open
// Questions); their bytes are simply consumed as part of the length.
type AdaptationField struct {
	Header AdaptationFieldHeader
	PCR    *PCRTimestamp
	OPCR   *PCRTimestamp
}

func (p *Parser) readAdaptationField(r *Reader) (AdaptationField, error) {
	header, err := parseAdaptationFieldHeader(r)
	if err != nil {
		return AdaptationField{}, err
	}
	out := AdaptationField{Header: header}
	length := int(header.Length)
	if length < 1 || length > 183 {
		return AdaptationField{}, newError(r.Offset(), KindBadAdaptationHeader)
	}
	sub, err := r.Sub(length - 1)
	if err != nil {
		return AdaptationField{}, err
	}
	if header.HasPCR {
		if sub.Remaining() < 6 {
			return AdaptationField{}, newError(r.Offset(), KindBadAdaptationHeader)
		}
		b, _ := sub.Read(6)
		pcr := parsePCR(b)
		out.PCR = &pcr
	}
	if header.HasOPCR {
		if sub.Remaining() < 6 {
			return AdaptationField{}, newError(r.Offset(), KindBadAdaptationHeader)
		}
		b, _ := sub.Read(6)
		opcr := parsePCR(b)
		out.OPCR = &opcr
	}
	// Splice countdown, transport private data and the adaptation field
	// extension are out of scope; the sub-view's remaining bytes (if any)
	// are simply discarded along with it.
	return out, nil
}

// PayloadKind discriminates the tagged union carried by Payload.
type PayloadKind int

const (
	PayloadRaw PayloadKind = iota
	PayloadPsiPending
	PayloadPsi
	PayloadPesPending
	PayloadPes
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadRaw:
		return "Raw"
	case PayloadPsiPending:
		return "PsiPending"
	case PayloadPsi:
		return "Psi"
	case PayloadPesPending:
		return "PesPending"
	case PayloadPes:
		return "Pes"
	default:
		return "Unknown"
	}
}

// Payload is the classified payload of one transport packet: exactly one
// of Raw, a pending marker, a completed PSI unit or a completed PES unit is
// meaningful, selected by Kind.
type Payload struct {
	Kind PayloadKind
	Raw  []byte
	Psi  *Psi
	Pes  *Pes
}

// Packet is one fully parsed transport packet. It borrows the caller's
// input buffer for any Raw payload bytes; the buffer must outlive the
// Packet.
type Packet struct {
	Header          PacketHeader
	AdaptationField *AdaptationField
	Payload         *Payload
}

func is3BytePesStartCode(b []byte) bool {
	return b[0] == 0 && b[1] == 0 && b[2] == 1
}

func (p *Parser) readPayload(pusi bool, pid uint16, r *Reader) (Payload, error) {
	if pusi {
		if _, ok := p.pending[pid]; ok {
			p.logDiscardPending(pid)
			delete(p.pending, pid)
		}
		if pid == 0 || p.knownPMTPids[pid] || (p.nitPID != 0 && p.nitPID == pid) {
			return p.startPsi(pid, r)
		}
		if r.Remaining() >= 6 {
			peek, err := r.Peek(3)
			if err == nil && is3BytePesStartCode(peek) {
				return p.startPes(pid, r)
			}
		}
		return Payload{Kind: PayloadRaw, Raw: r.ReadToEnd()}, nil
	}
	return p.continuePayloadUnit(pid, r)
}

func (p *Parser) parseInternal(r *Reader) (Packet, error) {
	header, err := parsePacketHeader(r)
	if err != nil {
		return Packet{}, err
	}
	if header.SyncByte != 0x47 {
		return Packet{}, newError(0, KindLostSync)
	}

	out := Packet{Header: header}

	if header.PID == NullPID {
		return out, nil
	}

	if header.HasAdaptationField {
		af, err := p.readAdaptationField(r)
		if err != nil {
			return Packet{}, err
		}
		out.AdaptationField = &af
	}

	if header.HasPayload {
		payload, err := p.readPayload(header.PUSI, header.PID, r)
		if err != nil {
			return Packet{}, err
		}
		out.Payload = &payload
	}

	return out, nil
}
