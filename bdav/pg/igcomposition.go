package pg

import (
	"github.com/rs/zerolog/log"

	"github.com/bugVanisher/mpegts/bdav/mobj"
	"github.com/bugVanisher/mpegts/mpegts"
)

// UoMask is the 64-bit user-operation permission mask carried by every IG
// page, one bool per operation in MSB-first bit order with a handful of
// reserved gaps.
type UoMask struct {
	MenuCall                    bool
	TitleSearch                 bool
	ChapterSearch                bool
	TimeSearch                  bool
	SkipToNextPoint              bool
	SkipToPrevPoint              bool
	PlayFirstplay                bool
	Stop                         bool
	PauseOn                      bool
	PauseOff                     bool
	StillOff                     bool
	Forward                      bool
	Backward                     bool
	Resume                       bool
	MoveUp                       bool
	MoveDown                     bool
	MoveLeft                     bool
	MoveRight                    bool
	Select                       bool
	Activate                     bool
	SelectAndActivate            bool
	PrimaryAudioChange           bool
	AngleChange                  bool
	PopupOn                      bool
	PopupOff                     bool
	PgEnableDisable              bool
	PgChange                     bool
	SecondaryVideoEnableDisable  bool
	SecondaryVideoChange         bool
	SecondaryAudioEnableDisable  bool
	SecondaryAudioChange         bool
	PipPgChange                  bool
}

func parseUoMask(r *mpegts.Reader) (UoMask, error) {
	b, err := r.Read(8)
	if err != nil {
		return UoMask{}, err
	}
	v := uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])

	bit := func(n int) bool {
		return v&(1<<uint(63-n)) != 0
	}

	return UoMask{
		MenuCall:                   bit(0),
		TitleSearch:                bit(1),
		ChapterSearch:              bit(2),
		TimeSearch:                 bit(3),
		SkipToNextPoint:            bit(4),
		SkipToPrevPoint:            bit(5),
		PlayFirstplay:              bit(6),
		Stop:                       bit(7),
		PauseOn:                    bit(8),
		PauseOff:                   bit(9),
		StillOff:                   bit(10),
		Forward:                    bit(11),
		Backward:                   bit(12),
		Resume:                     bit(13),
		MoveUp:                     bit(14),
		MoveDown:                   bit(15),
		MoveLeft:                   bit(16),
		MoveRight:                  bit(17),
		Select:                     bit(18),
		Activate:                   bit(19),
		SelectAndActivate:          bit(20),
		PrimaryAudioChange:         bit(21),
		// bit 22 reserved
		AngleChange:                bit(23),
		PopupOn:                    bit(24),
		PopupOff:                   bit(25),
		PgEnableDisable:            bit(26),
		PgChange:                   bit(27),
		SecondaryVideoEnableDisable: bit(28),
		SecondaryVideoChange:       bit(29),
		SecondaryAudioEnableDisable: bit(30),
		SecondaryAudioChange:       bit(31),
		// bit 32 reserved
		PipPgChange: bit(33),
		// bits 34-63 reserved
	}, nil
}

// IgEffect is one animation frame of an effect sequence.
type IgEffect struct {
	Duration           uint32 // 24-bit
	PaletteIDRef        uint8
	CompositionObjects  []PgCompositionObject
}

func parseIgEffect(r *mpegts.Reader) (IgEffect, error) {
	duration, err := r.BEU24()
	if err != nil {
		return IgEffect{}, err
	}
	paletteIDRef, err := r.U8()
	if err != nil {
		return IgEffect{}, err
	}
	numObjects, err := r.U8()
	if err != nil {
		return IgEffect{}, err
	}
	effect := IgEffect{Duration: duration, PaletteIDRef: paletteIDRef}
	for i := 0; i < int(numObjects); i++ {
		obj, err := parsePgCompositionObject(r)
		if err != nil {
			return IgEffect{}, err
		}
		effect.CompositionObjects = append(effect.CompositionObjects, obj)
	}
	return effect, nil
}

// IgEffectSequence is a count-prefixed list of windows followed by a
// count-prefixed list of animation effects.
type IgEffectSequence struct {
	Windows []IgWindow
	Effects []IgEffect
}

func parseIgEffectSequence(r *mpegts.Reader) (IgEffectSequence, error) {
	numWindows, err := r.U8()
	if err != nil {
		return IgEffectSequence{}, err
	}
	seq := IgEffectSequence{}
	for i := 0; i < int(numWindows); i++ {
		w, err := parseIgWindow(r)
		if err != nil {
			return IgEffectSequence{}, err
		}
		seq.Windows = append(seq.Windows, w)
	}
	numEffects, err := r.U8()
	if err != nil {
		return IgEffectSequence{}, err
	}
	for i := 0; i < int(numEffects); i++ {
		e, err := parseIgEffect(r)
		if err != nil {
			return IgEffectSequence{}, err
		}
		seq.Effects = append(seq.Effects, e)
	}
	return seq, nil
}

// IgButton is one interactive button within a button overlap group,
// carrying its navigation geometry, neighbour links, object references
// for each visual state, and the Movie Object commands it runs on select.
type IgButton struct {
	ID                        uint16
	NumericSelectValue        uint16
	AutoActionFlag            bool
	XPos                      uint16
	YPos                      uint16
	UpperButtonIDRef          uint16
	LowerButtonIDRef          uint16
	LeftButtonIDRef           uint16
	RightButtonIDRef          uint16
	NormalStartObjectIDRef    uint16
	NormalEndObjectIDRef      uint16
	NormalRepeatFlag          bool
	SelectedSoundIDRef        uint8
	SelectedStartObjectIDRef  uint16
	SelectedEndObjectIDRef    uint16
	SelectedRepeatFlag        bool
	ActivatedSoundIDRef       uint8
	ActivatedStartObjectIDRef uint16
	ActivatedEndObjectIDRef   uint16
	NavCmds                   []mobj.Cmd
}

func parseIgButton(r *mpegts.Reader) (IgButton, error) {
	id, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	numericSelectValue, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	autoActionByte, err := r.U8()
	if err != nil {
		return IgButton{}, err
	}
	xPos, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	yPos, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	upper, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	lower, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	left, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	right, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	normalStart, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	normalEnd, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	normalRepeatByte, err := r.U8()
	if err != nil {
		return IgButton{}, err
	}
	selectedSound, err := r.U8()
	if err != nil {
		return IgButton{}, err
	}
	selectedStart, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	selectedEnd, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	selectedRepeatByte, err := r.U8()
	if err != nil {
		return IgButton{}, err
	}
	activatedSound, err := r.U8()
	if err != nil {
		return IgButton{}, err
	}
	activatedStart, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	activatedEnd, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	numNavCmds, err := r.BEU16()
	if err != nil {
		return IgButton{}, err
	}
	button := IgButton{
		ID:                        id,
		NumericSelectValue:        numericSelectValue,
		AutoActionFlag:            autoActionByte&0x80 != 0,
		XPos:                      xPos,
		YPos:                      yPos,
		UpperButtonIDRef:          upper,
		LowerButtonIDRef:          lower,
		LeftButtonIDRef:           left,
		RightButtonIDRef:          right,
		NormalStartObjectIDRef:    normalStart,
		NormalEndObjectIDRef:      normalEnd,
		NormalRepeatFlag:          normalRepeatByte&0x80 != 0,
		SelectedSoundIDRef:        selectedSound,
		SelectedStartObjectIDRef:  selectedStart,
		SelectedEndObjectIDRef:    selectedEnd,
		SelectedRepeatFlag:        selectedRepeatByte&0x80 != 0,
		ActivatedSoundIDRef:       activatedSound,
		ActivatedStartObjectIDRef: activatedStart,
		ActivatedEndObjectIDRef:   activatedEnd,
	}
	for i := 0; i < int(numNavCmds); i++ {
		cmd, err := mobj.Decode(r)
		if err != nil {
			return IgButton{}, err
		}
		button.NavCmds = append(button.NavCmds, cmd)
	}
	return button, nil
}

// IgBog is a button overlap group: mutually exclusive buttons sharing the
// same screen region, at most one of which is shown/selectable at a time.
type IgBog struct {
	DefaultValidButtonIDRef uint16
	Buttons                 []IgButton
}

func parseIgBog(r *mpegts.Reader) (IgBog, error) {
	defaultValid, err := r.BEU16()
	if err != nil {
		return IgBog{}, err
	}
	numButtons, err := r.U8()
	if err != nil {
		return IgBog{}, err
	}
	bog := IgBog{DefaultValidButtonIDRef: defaultValid}
	for i := 0; i < int(numButtons); i++ {
		b, err := parseIgButton(r)
		if err != nil {
			return IgBog{}, err
		}
		bog.Buttons = append(bog.Buttons, b)
	}
	return bog, nil
}

// IgPage is one menu page: its permitted user operations, its in/out
// animation sequences, and the button overlap groups it presents.
type IgPage struct {
	ID                         uint8
	Version                    uint8
	UoMask                     UoMask
	InEffects                  IgEffectSequence
	OutEffects                 IgEffectSequence
	AnimationFrameRateCode     uint8
	DefaultSelectedButtonIDRef uint16
	DefaultActivatedButtonIDRef uint16
	PaletteIDRef               uint8
	Bogs                       []IgBog
}

func parseIgPage(r *mpegts.Reader) (IgPage, error) {
	id, err := r.U8()
	if err != nil {
		return IgPage{}, err
	}
	version, err := r.U8()
	if err != nil {
		return IgPage{}, err
	}
	uoMask, err := parseUoMask(r)
	if err != nil {
		return IgPage{}, err
	}
	inEffects, err := parseIgEffectSequence(r)
	if err != nil {
		return IgPage{}, err
	}
	outEffects, err := parseIgEffectSequence(r)
	if err != nil {
		return IgPage{}, err
	}
	animFrameRateCode, err := r.U8()
	if err != nil {
		return IgPage{}, err
	}
	defaultSelected, err := r.BEU16()
	if err != nil {
		return IgPage{}, err
	}
	defaultActivated, err := r.BEU16()
	if err != nil {
		return IgPage{}, err
	}
	paletteIDRef, err := r.U8()
	if err != nil {
		return IgPage{}, err
	}
	numBogs, err := r.U8()
	if err != nil {
		return IgPage{}, err
	}
	page := IgPage{
		ID:                          id,
		Version:                     version,
		UoMask:                      uoMask,
		InEffects:                   inEffects,
		OutEffects:                  outEffects,
		AnimationFrameRateCode:      animFrameRateCode,
		DefaultSelectedButtonIDRef:  defaultSelected,
		DefaultActivatedButtonIDRef: defaultActivated,
		PaletteIDRef:                paletteIDRef,
	}
	for i := 0; i < int(numBogs); i++ {
		bog, err := parseIgBog(r)
		if err != nil {
			return IgPage{}, err
		}
		page.Bogs = append(page.Bogs, bog)
	}
	return page, nil
}

// IgInteractiveComposition is the root of an IG Composition segment's
// menu model: its timing, the user-timeout countdown, and its pages.
type IgInteractiveComposition struct {
	StreamModel           bool
	UIModel                bool
	CompositionTimeoutPTS *uint64
	SelectionTimeoutPTS   *uint64
	UserTimeoutDuration   uint32 // 24-bit
	Pages                 []IgPage
}

func parseIgInteractiveComposition(r *mpegts.Reader) (IgInteractiveComposition, error) {
	dataLen, err := r.BEU24()
	if err != nil {
		return IgInteractiveComposition{}, err
	}
	sub, err := r.Sub(int(dataLen))
	if err != nil {
		return IgInteractiveComposition{}, err
	}
	modelBits, err := sub.U8()
	if err != nil {
		return IgInteractiveComposition{}, err
	}
	streamModel := modelBits&0x80 != 0
	out := IgInteractiveComposition{StreamModel: streamModel, UIModel: modelBits&0x40 != 0}
	if !streamModel {
		compositionTimeout, err := sub.BEU33()
		if err != nil {
			return IgInteractiveComposition{}, err
		}
		selectionTimeout, err := sub.BEU33()
		if err != nil {
			return IgInteractiveComposition{}, err
		}
		out.CompositionTimeoutPTS = &compositionTimeout
		out.SelectionTimeoutPTS = &selectionTimeout
	}
	userTimeout, err := sub.BEU24()
	if err != nil {
		return IgInteractiveComposition{}, err
	}
	out.UserTimeoutDuration = userTimeout
	numPages, err := sub.U8()
	if err != nil {
		return IgInteractiveComposition{}, err
	}
	for i := 0; i < int(numPages); i++ {
		page, err := parseIgPage(sub)
		if err != nil {
			return IgInteractiveComposition{}, err
		}
		out.Pages = append(out.Pages, page)
	}
	if sub.Remaining() != 0 {
		log.Warn().Int("remaining", sub.Remaining()).Msg("pg: entire ig interactive composition not read")
	}
	return out, nil
}

// PgsIgComposition (segment type 0x18): the complete interactive menu
// composition for one epoch.
type PgsIgComposition struct {
	VideoDescriptor       PgVideoDescriptor
	CompositionDescriptor PgCompositionDescriptor
	SequenceDescriptor    PgSequenceDescriptor
	InteractiveComposition IgInteractiveComposition
}

func parsePgsIgComposition(r *mpegts.Reader) (PgsIgComposition, error) {
	video, err := parsePgVideoDescriptor(r)
	if err != nil {
		return PgsIgComposition{}, err
	}
	composition, err := parsePgCompositionDescriptor(r)
	if err != nil {
		return PgsIgComposition{}, err
	}
	sequence, err := parsePgSequenceDescriptor(r)
	if err != nil {
		return PgsIgComposition{}, err
	}
	interactive, err := parseIgInteractiveComposition(r)
	if err != nil {
		return PgsIgComposition{}, err
	}
	return PgsIgComposition{
		VideoDescriptor:        video,
		CompositionDescriptor:  composition,
		SequenceDescriptor:     sequence,
		InteractiveComposition: interactive,
	}, nil
}

// parsePgsIgCompositionFragment reads the header every IG Composition
// fragment repeats (mirroring Object's ODS-style fragmentation), returning
// the composition descriptor used as the reassembly key plus this
// fragment's raw continuation bytes of the interactive_composition stream.
func parsePgsIgCompositionFragment(r *mpegts.Reader) (video PgVideoDescriptor, composition PgCompositionDescriptor, sequence PgSequenceDescriptor, data []byte, err error) {
	video, err = parsePgVideoDescriptor(r)
	if err != nil {
		return
	}
	composition, err = parsePgCompositionDescriptor(r)
	if err != nil {
		return
	}
	sequence, err = parsePgSequenceDescriptor(r)
	if err != nil {
		return
	}
	data = r.ReadToEnd()
	return
}
