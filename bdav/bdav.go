// Package bdav wraps the core mpegts parser for the Blu-Ray BDAV (M2TS)
// transport stream variant: 192-byte packets carrying a 4-byte
// copy-protection/timestamp prefix ahead of a standard 188-byte MPEG-TS
// packet, and pre-registers the PG/IG/Text graphics segment decoder for the
// Blu-Ray graphics PID ranges.
package bdav

import (
	"github.com/bugVanisher/mpegts/bdav/pg"
	"github.com/bugVanisher/mpegts/mpegts"
)

// BdavPacketHeader is the 4-byte prefix unique to the BDAV variant.
type BdavPacketHeader struct {
	CopyProtection uint8
	Timestamp      uint32 // 30-bit, 27MHz clock
}

func parseBdavPacketHeader(b []byte) BdavPacketHeader {
	_ = b[3]
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return BdavPacketHeader{
		CopyProtection: uint8(v >> 30 & 0x3),
		Timestamp:      v & 0x3FFFFFFF,
	}
}

// BdavPacket is one fully parsed 192-byte BDAV packet.
type BdavPacket struct {
	Header BdavPacketHeader
	Packet mpegts.Packet
}

// Parser decodes BDAV packets by stripping the 4-byte prefix and delegating
// to an embedded mpegts.Parser, with the Blu-Ray graphics PID ranges
// pre-wired to the PG segment decoder.
type Parser struct {
	inner *mpegts.Parser
}

// NewParser returns a Parser ready to parse 192-byte BDAV packets from the
// start of a stream.
func NewParser() *Parser {
	inner := mpegts.NewParser()
	inner.RegisterPesFactory(0x1200, 0x121f, pg.NewSegmentDecoder)
	inner.RegisterPesFactory(0x1400, 0x141f, pg.NewSegmentDecoder)
	inner.RegisterPesFactory(0x1800, 0x1800, pg.NewSegmentDecoder)
	return &Parser{inner: inner}
}

// Inner returns the embedded mpegts.Parser, for callers that need to
// register additional PES factories (e.g. for elementary streams outside
// the graphics PID ranges).
func (p *Parser) Inner() *mpegts.Parser {
	return p.inner
}

// Parse decodes one 192-byte BDAV transport packet.
func (p *Parser) Parse(packet []byte) (BdavPacket, error) {
	if len(packet) != 192 {
		return BdavPacket{}, mpegts.NewAppError(0, errShortPacket{len(packet)})
	}
	header := parseBdavPacketHeader(packet[:4])
	inner, err := p.inner.Parse(packet[4:])
	if err != nil {
		return BdavPacket{}, err
	}
	return BdavPacket{Header: header, Packet: inner}, nil
}

type errShortPacket struct {
	n int
}

func (e errShortPacket) Error() string {
	return "bdav: packet is not 192 bytes"
}
