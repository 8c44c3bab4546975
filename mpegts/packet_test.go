package mpegts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildHeader(pid uint16, pusi, hasAdaptation, hasPayload bool, cc uint8) []byte {
	b := make([]byte, 4)
	b[0] = 0x47
	b[1] = byte(pid>>8) & 0x1f
	if pusi {
		b[1] |= 0x40
	}
	b[2] = byte(pid)
	b[3] = cc & 0x0f
	if hasAdaptation {
		b[3] |= 0x20
	}
	if hasPayload {
		b[3] |= 0x10
	}
	return b
}

func padTo188(b []byte) []byte {
	out := make([]byte, 188)
	copy(out, b)
	for i := len(b); i < 188; i++ {
		out[i] = 0xFF
	}
	return out
}

func TestParseLostSync(t *testing.T) {
	packet := padTo188([]byte{0x00, 0x00, 0x00, 0x10})
	p := NewParser()
	_, err := p.Parse(packet)
	require.Error(t, err)
	require.Equal(t, KindLostSync, err.(*Error).Kind)
}

func TestParseNullPacket(t *testing.T) {
	packet := padTo188(buildHeader(NullPID, false, false, true, 0))
	p := NewParser()
	pkt, err := p.Parse(packet)
	require.NoError(t, err)
	require.Equal(t, NullPID, pkt.Header.PID)
	require.Nil(t, pkt.AdaptationField)
	require.Nil(t, pkt.Payload)
}

func encodePCR(base uint64, ext uint16) []byte {
	b := make([]byte, 6)
	b[0] = byte(base >> 25)
	b[1] = byte(base >> 17)
	b[2] = byte(base >> 9)
	b[3] = byte(base >> 1)
	b[4] = byte((base&1)<<7) | 0x7e | byte(ext>>8&0x1)
	b[5] = byte(ext)
	return b
}

func TestParseAdaptationFieldWithPCR(t *testing.T) {
	header := buildHeader(0x100, false, true, true, 5)
	pcrBytes := encodePCR(90000, 0)
	af := append([]byte{7, 0x10}, pcrBytes...) // length=7, flags: has_pcr
	packet := padTo188(append(append([]byte{}, header...), af...))

	p := NewParser()
	pkt, err := p.Parse(packet)
	require.NoError(t, err)
	require.NotNil(t, pkt.AdaptationField)
	require.True(t, pkt.AdaptationField.Header.HasPCR)
	require.NotNil(t, pkt.AdaptationField.PCR)
	require.Equal(t, uint64(90000), pkt.AdaptationField.PCR.Base)
	require.Equal(t, "0:0:1:0", pkt.AdaptationField.PCR.String())
}

func TestParseBadAdaptationLength(t *testing.T) {
	header := buildHeader(0x100, false, true, true, 0)
	af := []byte{0} // length 0 is out of range (must be 1..183)
	packet := padTo188(append(append([]byte{}, header...), af...))

	p := NewParser()
	_, err := p.Parse(packet)
	require.Error(t, err)
	require.Equal(t, KindBadAdaptationHeader, err.(*Error).Kind)
}
