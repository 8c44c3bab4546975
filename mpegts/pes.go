package mpegts

// PesHeader is the 6-byte header common to every PES unit.
type PesHeader struct {
	StartCode    uint32 // always 0x000001
	StreamID     uint8
	PacketLength uint16
}

func parsePesHeader(b []byte) PesHeader {
	_ = b[5]
	return PesHeader{
		StartCode:    uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]),
		StreamID:     b[3],
		PacketLength: uint16(b[4])<<8 | uint16(b[5]),
	}
}

// PesOptionalHeader is the 3-byte optional header present whenever
// packet_length >= 3 and stream_id != 0xBF.
type PesOptionalHeader struct {
	MarkerBits               uint8
	ScramblingControl        uint8
	Priority                 bool
	DataAlignmentIndicator   bool
	Copyright                bool
	Original                 bool
	HasPTS                   bool
	HasDTS                   bool
	ESCR                     bool
	ESRate                   bool
	DSMTrickMode             bool
	HasAdditionalCopyInfo    bool
	HasCRC                   bool
	HasExtension             bool
	AdditionalHeaderLength   uint8
}

func parsePesOptionalHeader(b []byte) PesOptionalHeader {
	_ = b[2]
	return PesOptionalHeader{
		MarkerBits:             b[0] >> 6 & 0x3,
		ScramblingControl:      b[0] >> 4 & 0x3,
		Priority:               b[0]&0x08 != 0,
		DataAlignmentIndicator: b[0]&0x04 != 0,
		Copyright:              b[0]&0x02 != 0,
		Original:               b[0]&0x01 != 0,
		HasPTS:                 b[1]&0x80 != 0,
		HasDTS:                 b[1]&0x40 != 0,
		ESCR:                   b[1]&0x20 != 0,
		ESRate:                 b[1]&0x10 != 0,
		DSMTrickMode:           b[1]&0x08 != 0,
		HasAdditionalCopyInfo:  b[1]&0x04 != 0,
		HasCRC:                 b[1]&0x02 != 0,
		HasExtension:           b[1]&0x01 != 0,
		AdditionalHeaderLength: b[2],
	}
}

func parsePesTimestamp(b []byte) uint64 {
	_ = b[4]
	ts := uint64(b[0]&0x0E) << 29
	ts |= uint64(b[1]) << 22
	ts |= uint64(b[2]&0xFE) << 14
	ts |= uint64(b[3]) << 7
	ts |= uint64(b[4]&0xFE) >> 1
	return ts
}

// PesUnitObject is the documented extension point for application-supplied
// PES payload decoders: an incrementally-assembled object that receives
// every appended slice of payload, then is finished once the declared
// length has been read. PG/IG/Text graphics segments (see package pg) are
// the only in-tree implementation; anything else the application does not
// recognise falls back to a plain byte accumulator.
type PesUnitObject interface {
	ExtendFromSlice(slice []byte)
	Finish(pid uint16, parser *Parser) error
}

type rawPesData struct {
	data []byte
}

func newRawPesData(capacity int) *rawPesData {
	return &rawPesData{data: make([]byte, 0, capacity)}
}

func (r *rawPesData) ExtendFromSlice(slice []byte) {
	r.data = append(r.data, slice...)
}

func (r *rawPesData) Finish(pid uint16, parser *Parser) error {
	return nil
}

// Bytes returns the accumulated raw payload of a PES unit whose PID had no
// registered factory.
func (r *rawPesData) Bytes() []byte {
	return r.data
}

// Pes is a fully reassembled PES unit.
type Pes struct {
	Header         PesHeader
	OptionalHeader *PesOptionalHeader
	PTS            *uint64
	DTS            *uint64
	Data           PesUnitObject
}

func (p *Pes) extendFromSlice(slice []byte) {
	p.Data.ExtendFromSlice(slice)
}

func (p *Pes) pending() Payload {
	return Payload{Kind: PayloadPesPending}
}

func (p *Pes) finish(pid uint16, parser *Parser) (Payload, error) {
	if err := p.Data.Finish(pid, parser); err != nil {
		return Payload{}, err
	}
	return Payload{Kind: PayloadPes, Pes: p}, nil
}

// startPes begins PES reassembly for a PUSI packet whose payload starts
// with the 00 00 01 start code.
func (p *Parser) startPes(pid uint16, r *Reader) (Payload, error) {
	headerBytes, err := r.Read(6)
	if err != nil {
		return Payload{}, err
	}
	header := parsePesHeader(headerBytes)
	pesLength := int(header.PacketLength)

	if pesLength == 0 {
		// Unbounded PES (legal for video elementary streams). The source's
		// behaviour here is undocumented; this implementation surfaces the
		// remainder of the packet as Raw rather than guessing at a framing
		// convention (spec.md §9 Open Questions).
		return Payload{Kind: PayloadRaw, Raw: r.ReadToEnd()}, nil
	}

	var optionalHeader *PesOptionalHeader
	var pts, dts *uint64
	optionalLength := 0

	if pesLength >= 3 && header.StreamID != 0xBF {
		optHdrBytes, err := r.Read(3)
		if err != nil {
			return Payload{}, err
		}
		opt := parsePesOptionalHeader(optHdrBytes)
		additionalLength := int(opt.AdditionalHeaderLength)
		optionalLength = 3 + additionalLength

		oReader, err := r.Sub(additionalLength)
		if err != nil {
			return Payload{}, err
		}

		if opt.HasPTS {
			if oReader.Remaining() < 5 {
				return Payload{}, newError(oReader.Offset(), KindBadPesHeader)
			}
			b, _ := oReader.Read(5)
			v := parsePesTimestamp(b)
			pts = &v
		}
		if opt.HasDTS {
			if oReader.Remaining() < 5 {
				return Payload{}, newError(oReader.Offset(), KindBadPesHeader)
			}
			b, _ := oReader.Read(5)
			v := parsePesTimestamp(b)
			dts = &v
		}
		// ESCR, ES rate, trick mode, additional copy info, CRC and
		// extension are skipped; the sub-view's remaining bytes are
		// simply discarded along with it.
		optionalHeader = &opt
	}

	unitLength := pesLength - optionalLength
	if unitLength < 0 {
		return Payload{}, newError(r.Offset(), KindBadPesHeader)
	}

	var data PesUnitObject
	if factory := p.pesFactoryFor(pid); factory != nil {
		data = factory(pid, unitLength)
	}
	if data == nil {
		data = newRawPesData(unitLength)
	}

	pes := &Pes{
		Header:         header,
		OptionalHeader: optionalHeader,
		PTS:            pts,
		DTS:            dts,
		Data:           data,
	}

	return p.startPayloadUnit(pes, unitLength, pid, r)
}
