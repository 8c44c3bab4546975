package pg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugVanisher/mpegts/mpegts"
)

func TestParseTgEnumsOutOfRange(t *testing.T) {
	_, err := parseTgTextFlow(0x03)
	require.Error(t, err)
	require.Equal(t, UnknownTgTextFlow, err.(*Error).Kind)

	_, err = parseTgHAlign(0x03)
	require.Error(t, err)
	require.Equal(t, UnknownTgHAlign, err.(*Error).Kind)

	_, err = parseTgVAlign(0x03)
	require.Error(t, err)
	require.Equal(t, UnknownTgVAlign, err.(*Error).Kind)

	_, err = parseTgOutlineThickness(0x04)
	require.Error(t, err)
	require.Equal(t, UnknownTgOutlineThickness, err.(*Error).Kind)
}

func TestParseTgEnumsValid(t *testing.T) {
	flow, err := parseTgTextFlow(0x02)
	require.NoError(t, err)
	require.Equal(t, TextFlowVerticalRotate90CCW, flow)

	h, err := parseTgHAlign(0x01)
	require.NoError(t, err)
	require.Equal(t, HAlignCenter, h)

	v, err := parseTgVAlign(0x02)
	require.NoError(t, err)
	require.Equal(t, VAlignBottom, v)

	o, err := parseTgOutlineThickness(0x03)
	require.NoError(t, err)
	require.Equal(t, OutlineThicknessThick, o)
}

func buildRegionStyle() []byte {
	return []byte{
		0x01,       // id
		0x00, 0x0A, // region h pos
		0x00, 0x14, // region v pos
		0x01, 0x00, // region width
		0x00, 0xF0, // region height
		0x01,       // flow byte: VerticalRotate90CW
		0x10,       // align byte: h=Center(1) v=Top(0)
		0x02,       // line space
		0x01,       // font color ref
		0x20,       // font size
		0xC0,       // style byte: bold | italic
		0x02,       // outline color ref
		0x02,       // outline thickness nibble: Medium
		0x00, 0x05, // text h pos
		0x00, 0x06, // text v pos
	}
}

func TestParseTgRegionStyle(t *testing.T) {
	rs, err := parseTgRegionStyle(mpegts.NewReader(buildRegionStyle()))
	require.NoError(t, err)
	require.Equal(t, uint8(1), rs.ID)
	require.Equal(t, TextFlowVerticalRotate90CW, rs.TextFlow)
	require.Equal(t, HAlignCenter, rs.TextHAlign)
	require.Equal(t, VAlignTop, rs.TextVAlign)
	require.True(t, rs.FontStyleBold)
	require.True(t, rs.FontStyleItalic)
	require.False(t, rs.FontStyleOutlineBorder)
	require.Equal(t, OutlineThicknessMedium, rs.OutlineThickness)
}

func TestParseTgsDialogStyleWithPalette(t *testing.T) {
	raw := append([]byte{
		0x80, // player_style_flag
		0x01, // num region styles
	}, buildRegionStyle()...)
	raw = append(raw, 0x09, 0x00, 0x01) // palette id=9 version=0 numEntries=1
	raw = append(raw, 0x00, 0x10, 0x80, 0x80, 0xFF)
	raw = append(raw, 0x00, 0x02) // dialog count = 2

	style, err := parseTgsDialogStyle(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.True(t, style.PlayerStyleFlag)
	require.Len(t, style.RegionStyles, 1)
	require.Equal(t, uint8(9), style.Palette.ID)
	require.Equal(t, PgsPaletteEntry{Y: 0x10, Cr: 0x80, Cb: 0x80, T: 0xFF}, style.Palette.Entries[0])
	require.Equal(t, uint16(2), style.DialogCount)
}

func TestParseTgsDialogPresentationWithPaletteAndRegions(t *testing.T) {
	region := []byte{
		0xC0,       // continuous | forced
		0x01,       // region style ref
		0x00, 0x02, // data length
		0xAA, 0xBB,
	}
	startPTS := encodeBEU33(180000)
	endPTS := encodeBEU33(270000)
	body := append([]byte{}, startPTS...)
	body = append(body, endPTS...)
	body = append(body, 0x80) // palette update flag
	body = append(body, 0x03, 0x00, 0x01)
	body = append(body, 0x00, 0x11, 0x81, 0x81, 0xF0)
	body = append(body, 0x01) // num regions = 1
	body = append(body, region...)

	pres, err := parseTgsDialogPresentation(mpegts.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, uint64(180000), pres.StartPTS)
	require.Equal(t, uint64(270000), pres.EndPTS)
	require.True(t, pres.PaletteUpdateFlag)
	require.NotNil(t, pres.Palette)
	require.Equal(t, uint8(3), pres.Palette.ID)
	require.Len(t, pres.Regions, 1)
	require.True(t, pres.Regions[0].ContinuousFlag)
	require.True(t, pres.Regions[0].ForcedFlag)
	require.Equal(t, []byte{0xAA, 0xBB}, pres.Regions[0].Data)
}

func TestParseTgsDialogPresentationNoPaletteUpdate(t *testing.T) {
	body := append([]byte{}, encodeBEU33(1)...)
	body = append(body, encodeBEU33(2)...)
	body = append(body, 0x00) // no palette update
	body = append(body, 0x00) // num regions = 0

	pres, err := parseTgsDialogPresentation(mpegts.NewReader(body))
	require.NoError(t, err)
	require.False(t, pres.PaletteUpdateFlag)
	require.Nil(t, pres.Palette)
	require.Empty(t, pres.Regions)
}

// encodeBEU33 is the inverse of Reader.BEU33: 5 bytes, MSB-first, the top
// 7 bits of the first byte unused/zeroed.
func encodeBEU33(v uint64) []byte {
	return []byte{
		byte(v >> 32 & 0x01),
		byte(v >> 24),
		byte(v >> 16),
		byte(v >> 8),
		byte(v),
	}
}
