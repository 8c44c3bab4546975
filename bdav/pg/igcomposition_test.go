package pg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugVanisher/mpegts/mpegts"
)

func beu16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

func TestParseUoMask(t *testing.T) {
	// Set MenuCall (bit 0), MoveUp (bit 14) and PipPgChange (bit 33).
	raw := make([]byte, 8)
	raw[0] |= 0x80       // bit 0
	raw[1] |= 0x02       // bit 14: byte 1 bit 6 -> 1<<(7-6)=0x02
	raw[4] |= 0x40       // bit 33: byte 4 is bits 32-39, bit 33 is the 2nd -> 1<<(7-1)=0x40

	mask, err := parseUoMask(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.True(t, mask.MenuCall)
	require.True(t, mask.MoveUp)
	require.True(t, mask.PipPgChange)
	require.False(t, mask.TitleSearch)
	require.False(t, mask.Select)
}

func buildIgEffect(numObjects int) []byte {
	out := []byte{0x00, 0x01, 0x00, 0x01, byte(numObjects)}
	for i := 0; i < numObjects; i++ {
		out = append(out, []byte{
			0x00, 0x01, // object_id_ref
			0x02,       // window_id_ref
			0x00,       // flags: none
			0x00, 0x05, // x
			0x00, 0x06, // y
		}...)
	}
	return out
}

func TestParseIgEffect(t *testing.T) {
	effect, err := parseIgEffect(mpegts.NewReader(buildIgEffect(1)))
	require.NoError(t, err)
	require.Equal(t, uint32(0x000100), effect.Duration)
	require.Equal(t, uint8(1), effect.PaletteIDRef)
	require.Len(t, effect.CompositionObjects, 1)
	require.Nil(t, effect.CompositionObjects[0].Crop)
}

func TestParseIgEffectSequence(t *testing.T) {
	raw := []byte{0x00} // no windows
	raw = append(raw, 0x01) // 1 effect
	raw = append(raw, buildIgEffect(0)...)

	seq, err := parseIgEffectSequence(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.Empty(t, seq.Windows)
	require.Len(t, seq.Effects, 1)
}

func buildNopCmdBytes() []byte {
	return make([]byte, 12)
}

func buildIgButton(navCmdCount int) []byte {
	out := []byte{
		0x00, 0x01, // id
		0x00, 0x00, // numeric select value
		0x80,       // auto action
		0x00, 0x0A, // x
		0x00, 0x0B, // y
		0x00, 0x01, // upper
		0x00, 0x02, // lower
		0x00, 0x03, // left
		0x00, 0x04, // right
		0x00, 0x05, // normal start
		0x00, 0x06, // normal end
		0x80,       // normal repeat
		0x00,       // selected sound
		0x00, 0x07, // selected start
		0x00, 0x08, // selected end
		0x00,       // selected repeat
		0x00,       // activated sound
		0x00, 0x09, // activated start
		0x00, 0x0A, // activated end
	}
	out = append(out, beu16(uint16(navCmdCount))...)
	for i := 0; i < navCmdCount; i++ {
		out = append(out, buildNopCmdBytes()...)
	}
	return out
}

func TestParseIgButtonWithNavCmds(t *testing.T) {
	button, err := parseIgButton(mpegts.NewReader(buildIgButton(2)))
	require.NoError(t, err)
	require.Equal(t, uint16(1), button.ID)
	require.True(t, button.AutoActionFlag)
	require.True(t, button.NormalRepeatFlag)
	require.False(t, button.SelectedRepeatFlag)
	require.Len(t, button.NavCmds, 2)
	require.Equal(t, "nop", button.NavCmds[0].Mnemonic())
}

func TestParseIgBog(t *testing.T) {
	raw := []byte{0x00, 0x01, 0x01} // default valid id, 1 button
	raw = append(raw, buildIgButton(0)...)

	bog, err := parseIgBog(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, uint16(1), bog.DefaultValidButtonIDRef)
	require.Len(t, bog.Buttons, 1)
}

func buildIgPage(numBogs int) []byte {
	out := []byte{0x01, 0x00} // id, version
	out = append(out, make([]byte, 8)...) // empty UoMask
	out = append(out, 0x00)               // in effects: 0 windows
	out = append(out, 0x00)               // in effects: 0 effects
	out = append(out, 0x00)               // out effects: 0 windows
	out = append(out, 0x00)               // out effects: 0 effects
	out = append(out, 0x18)                // anim frame rate code
	out = append(out, 0x00, 0x01)          // default selected
	out = append(out, 0x00, 0x02)          // default activated
	out = append(out, 0x03)                // palette id ref
	out = append(out, byte(numBogs))
	for i := 0; i < numBogs; i++ {
		out = append(out, []byte{0x00, 0x00, 0x00}...) // default valid id, 0 buttons
	}
	return out
}

func TestParseIgPage(t *testing.T) {
	page, err := parseIgPage(mpegts.NewReader(buildIgPage(1)))
	require.NoError(t, err)
	require.Equal(t, uint8(1), page.ID)
	require.Equal(t, uint8(3), page.PaletteIDRef)
	require.Len(t, page.Bogs, 1)
}

func TestParseIgInteractiveCompositionStreamModel(t *testing.T) {
	body := []byte{0x80} // stream_model=true, ui_model=false
	body = append(body, 0x00, 0x00, 0x0A) // user timeout duration
	body = append(body, 0x00)              // 0 pages
	raw := append([]byte{0x00, 0x00, byte(len(body))}, body...)

	comp, err := parseIgInteractiveComposition(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.True(t, comp.StreamModel)
	require.Nil(t, comp.CompositionTimeoutPTS)
	require.Nil(t, comp.SelectionTimeoutPTS)
	require.Equal(t, uint32(10), comp.UserTimeoutDuration)
}

func TestParseIgInteractiveCompositionNonStreamModelHasTimeouts(t *testing.T) {
	body := []byte{0x00} // stream_model=false
	body = append(body, encodeBEU33(1000)...)
	body = append(body, encodeBEU33(2000)...)
	body = append(body, 0x00, 0x00, 0x05) // user timeout duration
	body = append(body, 0x01)             // 1 page
	body = append(body, buildIgPage(0)...)
	raw := append([]byte{0x00, 0x00, byte(len(body))}, body...)

	comp, err := parseIgInteractiveComposition(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.False(t, comp.StreamModel)
	require.NotNil(t, comp.CompositionTimeoutPTS)
	require.Equal(t, uint64(1000), *comp.CompositionTimeoutPTS)
	require.Equal(t, uint64(2000), *comp.SelectionTimeoutPTS)
	require.Len(t, comp.Pages, 1)
}

func TestParsePgsIgCompositionSingleShot(t *testing.T) {
	video := []byte{0x07, 0x80, 0x04, 0x38, 0x20}
	composition := []byte{0x00, 0x01, 0x80}
	sequence := []byte{0xC0}
	interactiveBody := []byte{0x80, 0x00, 0x00, 0x00, 0x00}
	interactive := append([]byte{0x00, 0x00, byte(len(interactiveBody))}, interactiveBody...)

	raw := append(append(append(append([]byte{}, video...), composition...), sequence...), interactive...)
	comp, err := parsePgsIgComposition(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, FrameRateNonDrop24, comp.VideoDescriptor.FrameRate)
	require.True(t, comp.InteractiveComposition.StreamModel)
}
