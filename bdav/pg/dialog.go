package pg

import "github.com/bugVanisher/mpegts/mpegts"

// TgTextFlow is the 4-bit reading direction of a text subtitle region.
type TgTextFlow uint8

const (
	TextFlowLeftToRightTopBottom TgTextFlow = iota
	TextFlowVerticalRotate90CW
	TextFlowVerticalRotate90CCW
)

func parseTgTextFlow(v uint8) (TgTextFlow, error) {
	if v > uint8(TextFlowVerticalRotate90CCW) {
		return 0, newErr(UnknownTgTextFlow, uint32(v))
	}
	return TgTextFlow(v), nil
}

// TgHAlign is a region's horizontal text alignment.
type TgHAlign uint8

const (
	HAlignLeft TgHAlign = iota
	HAlignCenter
	HAlignRight
)

func parseTgHAlign(v uint8) (TgHAlign, error) {
	if v > uint8(HAlignRight) {
		return 0, newErr(UnknownTgHAlign, uint32(v))
	}
	return TgHAlign(v), nil
}

// TgVAlign is a region's vertical text alignment.
type TgVAlign uint8

const (
	VAlignTop TgVAlign = iota
	VAlignMiddle
	VAlignBottom
)

func parseTgVAlign(v uint8) (TgVAlign, error) {
	if v > uint8(VAlignBottom) {
		return 0, newErr(UnknownTgVAlign, uint32(v))
	}
	return TgVAlign(v), nil
}

// TgOutlineThickness is a character-style outline's thickness.
type TgOutlineThickness uint8

const (
	OutlineThicknessNone TgOutlineThickness = iota
	OutlineThicknessThin
	OutlineThicknessMedium
	OutlineThicknessThick
)

func parseTgOutlineThickness(v uint8) (TgOutlineThickness, error) {
	if v > uint8(OutlineThicknessThick) {
		return 0, newErr(UnknownTgOutlineThickness, uint32(v))
	}
	return TgOutlineThickness(v), nil
}

// TgRegionStyle is one named character/region style referenced by a dialog
// region.
type TgRegionStyle struct {
	ID                  uint8
	RegionHPos          uint16
	RegionVPos          uint16
	RegionWidth         uint16
	RegionHeight        uint16
	TextFlow            TgTextFlow
	TextHAlign          TgHAlign
	TextVAlign          TgVAlign
	LineSpace           uint8
	FontColorRef        uint8
	FontSize            uint8
	FontStyleBold       bool
	FontStyleItalic     bool
	FontStyleOutlineBorder bool
	OutlineColorRef     uint8
	OutlineThickness    TgOutlineThickness
	TextHPos            uint16
	TextVPos            uint16
}

func parseTgRegionStyle(r *mpegts.Reader) (TgRegionStyle, error) {
	id, err := r.U8()
	if err != nil {
		return TgRegionStyle{}, err
	}
	regionHPos, err := r.BEU16()
	if err != nil {
		return TgRegionStyle{}, err
	}
	regionVPos, err := r.BEU16()
	if err != nil {
		return TgRegionStyle{}, err
	}
	regionWidth, err := r.BEU16()
	if err != nil {
		return TgRegionStyle{}, err
	}
	regionHeight, err := r.BEU16()
	if err != nil {
		return TgRegionStyle{}, err
	}
	flowByte, err := r.U8()
	if err != nil {
		return TgRegionStyle{}, err
	}
	textFlow, err := parseTgTextFlow(flowByte & 0x0f)
	if err != nil {
		return TgRegionStyle{}, err
	}
	alignByte, err := r.U8()
	if err != nil {
		return TgRegionStyle{}, err
	}
	hAlign, err := parseTgHAlign(alignByte >> 4 & 0x0f)
	if err != nil {
		return TgRegionStyle{}, err
	}
	vAlign, err := parseTgVAlign(alignByte & 0x0f)
	if err != nil {
		return TgRegionStyle{}, err
	}
	lineSpace, err := r.U8()
	if err != nil {
		return TgRegionStyle{}, err
	}
	fontColorRef, err := r.U8()
	if err != nil {
		return TgRegionStyle{}, err
	}
	fontSize, err := r.U8()
	if err != nil {
		return TgRegionStyle{}, err
	}
	styleByte, err := r.U8()
	if err != nil {
		return TgRegionStyle{}, err
	}
	outlineColorRef, err := r.U8()
	if err != nil {
		return TgRegionStyle{}, err
	}
	outlineThicknessByte, err := r.U8()
	if err != nil {
		return TgRegionStyle{}, err
	}
	outlineThickness, err := parseTgOutlineThickness(outlineThicknessByte & 0x0f)
	if err != nil {
		return TgRegionStyle{}, err
	}
	textHPos, err := r.BEU16()
	if err != nil {
		return TgRegionStyle{}, err
	}
	textVPos, err := r.BEU16()
	if err != nil {
		return TgRegionStyle{}, err
	}
	return TgRegionStyle{
		ID:                     id,
		RegionHPos:             regionHPos,
		RegionVPos:             regionVPos,
		RegionWidth:            regionWidth,
		RegionHeight:           regionHeight,
		TextFlow:               textFlow,
		TextHAlign:             hAlign,
		TextVAlign:             vAlign,
		LineSpace:              lineSpace,
		FontColorRef:           fontColorRef,
		FontSize:               fontSize,
		FontStyleBold:          styleByte&0x80 != 0,
		FontStyleItalic:        styleByte&0x40 != 0,
		FontStyleOutlineBorder: styleByte&0x20 != 0,
		OutlineColorRef:        outlineColorRef,
		OutlineThickness:       outlineThickness,
		TextHPos:               textHPos,
		TextVPos:               textVPos,
	}, nil
}

// TgsDialogStyle (segment type 0x81): the palette and named region styles
// that subsequent DialogPresentation segments reference by ID.
type TgsDialogStyle struct {
	PlayerStyleFlag bool
	RegionStyles    []TgRegionStyle
	Palette         PgsPalette
	DialogCount     uint16
}

func parseTgsDialogStyle(r *mpegts.Reader) (TgsDialogStyle, error) {
	flags, err := r.U8()
	if err != nil {
		return TgsDialogStyle{}, err
	}
	numRegionStyles, err := r.U8()
	if err != nil {
		return TgsDialogStyle{}, err
	}
	style := TgsDialogStyle{PlayerStyleFlag: flags&0x80 != 0}
	for i := 0; i < int(numRegionStyles); i++ {
		rs, err := parseTgRegionStyle(r)
		if err != nil {
			return TgsDialogStyle{}, err
		}
		style.RegionStyles = append(style.RegionStyles, rs)
	}
	paletteID, err := r.U8()
	if err != nil {
		return TgsDialogStyle{}, err
	}
	paletteVersion, err := r.U8()
	if err != nil {
		return TgsDialogStyle{}, err
	}
	numPaletteEntries, err := r.U8()
	if err != nil {
		return TgsDialogStyle{}, err
	}
	palette := PgsPalette{ID: paletteID, Version: paletteVersion}
	for i := 0; i < int(numPaletteEntries); i++ {
		index, err := r.U8()
		if err != nil {
			return TgsDialogStyle{}, err
		}
		y, err := r.U8()
		if err != nil {
			return TgsDialogStyle{}, err
		}
		cr, err := r.U8()
		if err != nil {
			return TgsDialogStyle{}, err
		}
		cb, err := r.U8()
		if err != nil {
			return TgsDialogStyle{}, err
		}
		t, err := r.U8()
		if err != nil {
			return TgsDialogStyle{}, err
		}
		palette.Entries[index] = PgsPaletteEntry{Y: y, Cr: cr, Cb: cb, T: t}
	}
	style.Palette = palette
	dialogCount, err := r.BEU16()
	if err != nil {
		return TgsDialogStyle{}, err
	}
	style.DialogCount = dialogCount
	return style, nil
}

// TgDialogRegion places one run of styled text within a dialog's display
// window, optionally continuing or forcing its predecessor.
type TgDialogRegion struct {
	ContinuousFlag bool
	ForcedFlag     bool
	RegionStyleRef uint8
	Data           []byte
}

func parseTgDialogRegion(r *mpegts.Reader) (TgDialogRegion, error) {
	flags, err := r.U8()
	if err != nil {
		return TgDialogRegion{}, err
	}
	regionStyleRef, err := r.U8()
	if err != nil {
		return TgDialogRegion{}, err
	}
	length, err := r.BEU16()
	if err != nil {
		return TgDialogRegion{}, err
	}
	data, err := r.Read(int(length))
	if err != nil {
		return TgDialogRegion{}, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return TgDialogRegion{
		ContinuousFlag: flags&0x80 != 0,
		ForcedFlag:     flags&0x40 != 0,
		RegionStyleRef: regionStyleRef,
		Data:           out,
	}, nil
}

// TgsDialogPresentation (segment type 0x82): one dialog's display window
// and up to two styled text regions.
type TgsDialogPresentation struct {
	StartPTS          uint64
	EndPTS            uint64
	PaletteUpdateFlag bool
	Palette           *PgsPalette
	Regions           []TgDialogRegion
}

func parseTgsDialogPresentation(r *mpegts.Reader) (TgsDialogPresentation, error) {
	startPTS, err := r.BEU33()
	if err != nil {
		return TgsDialogPresentation{}, err
	}
	endPTS, err := r.BEU33()
	if err != nil {
		return TgsDialogPresentation{}, err
	}
	flags, err := r.U8()
	if err != nil {
		return TgsDialogPresentation{}, err
	}
	out := TgsDialogPresentation{StartPTS: startPTS, EndPTS: endPTS, PaletteUpdateFlag: flags&0x80 != 0}
	if out.PaletteUpdateFlag {
		paletteID, err := r.U8()
		if err != nil {
			return TgsDialogPresentation{}, err
		}
		paletteVersion, err := r.U8()
		if err != nil {
			return TgsDialogPresentation{}, err
		}
		numPaletteEntries, err := r.U8()
		if err != nil {
			return TgsDialogPresentation{}, err
		}
		palette := PgsPalette{ID: paletteID, Version: paletteVersion}
		for i := 0; i < int(numPaletteEntries); i++ {
			index, err := r.U8()
			if err != nil {
				return TgsDialogPresentation{}, err
			}
			y, err := r.U8()
			if err != nil {
				return TgsDialogPresentation{}, err
			}
			cr, err := r.U8()
			if err != nil {
				return TgsDialogPresentation{}, err
			}
			cb, err := r.U8()
			if err != nil {
				return TgsDialogPresentation{}, err
			}
			t, err := r.U8()
			if err != nil {
				return TgsDialogPresentation{}, err
			}
			palette.Entries[index] = PgsPaletteEntry{Y: y, Cr: cr, Cb: cb, T: t}
		}
		out.Palette = &palette
	}
	numRegions, err := r.U8()
	if err != nil {
		return TgsDialogPresentation{}, err
	}
	for i := 0; i < int(numRegions); i++ {
		region, err := parseTgDialogRegion(r)
		if err != nil {
			return TgsDialogPresentation{}, err
		}
		out.Regions = append(out.Regions, region)
	}
	return out, nil
}
