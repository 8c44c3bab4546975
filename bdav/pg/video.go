package pg

import "github.com/bugVanisher/mpegts/mpegts"

// FrameRate is the 4-bit frame-rate code of a PgVideoDescriptor.
type FrameRate uint8

const (
	FrameRateInvalid FrameRate = iota
	FrameRateDrop24
	FrameRateNonDrop24
	FrameRateNonDrop25
	FrameRateDrop30
	FrameRateNonDrop50
	FrameRateDrop60
)

func (f FrameRate) String() string {
	switch f {
	case FrameRateInvalid:
		return "Invalid"
	case FrameRateDrop24:
		return "24/1.001"
	case FrameRateNonDrop24:
		return "24"
	case FrameRateNonDrop25:
		return "25"
	case FrameRateDrop30:
		return "30/1.001"
	case FrameRateNonDrop50:
		return "50"
	case FrameRateDrop60:
		return "60/1.001"
	default:
		return "Invalid"
	}
}

func parseFrameRate(v uint8) (FrameRate, error) {
	if v > uint8(FrameRateDrop60) {
		return 0, newErr(UnknownFrameRate, uint32(v))
	}
	return FrameRate(v), nil
}

// PgVideoDescriptor carries the video geometry and frame rate a PG
// composition segment was authored against.
type PgVideoDescriptor struct {
	VideoWidth  uint16
	VideoHeight uint16
	FrameRate   FrameRate
}

func parsePgVideoDescriptor(r *mpegts.Reader) (PgVideoDescriptor, error) {
	width, err := r.BEU16()
	if err != nil {
		return PgVideoDescriptor{}, err
	}
	height, err := r.BEU16()
	if err != nil {
		return PgVideoDescriptor{}, err
	}
	b, err := r.U8()
	if err != nil {
		return PgVideoDescriptor{}, err
	}
	frameRate, err := parseFrameRate(b >> 4)
	if err != nil {
		return PgVideoDescriptor{}, err
	}
	return PgVideoDescriptor{VideoWidth: width, VideoHeight: height, FrameRate: frameRate}, nil
}
