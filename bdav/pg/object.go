package pg

import "github.com/bugVanisher/mpegts/mpegts"

// PgsObjectKey identifies an Object across its fragments: the id and
// version carried on its first segment. It is used as the second-level
// reassembly map key.
type PgsObjectKey struct {
	ID      uint16
	Version uint8
}

// PgsObject (segment type 0x15) carries one run-length-encoded bitmap.
// Decoding/rendering the RLE payload itself is out of scope; Data holds
// the raw object_data bytes.
type PgsObject struct {
	ID      uint16
	Version uint8
	Data    []byte
}

func (o PgsObject) key() PgsObjectKey {
	return PgsObjectKey{ID: o.ID, Version: o.Version}
}

// parsePgsObjectFragment reads the id/version/sequence-descriptor header
// shared by every fragment of an Object segment, followed by the
// fragment's data. On the first fragment (sequence.FirstInSeq) the data is
// prefixed by a 24-bit object_data_length, returned so the caller can size
// and cap the reassembly buffer; continuation fragments carry only raw
// data bytes and objectDataLength is left at zero.
func parsePgsObjectFragment(r *mpegts.Reader) (id uint16, version uint8, sequence PgSequenceDescriptor, objectDataLength uint32, data []byte, err error) {
	id, err = r.BEU16()
	if err != nil {
		return
	}
	version, err = r.U8()
	if err != nil {
		return
	}
	sequence, err = parsePgSequenceDescriptor(r)
	if err != nil {
		return
	}
	if sequence.FirstInSeq {
		objectDataLength, err = r.BEU24()
		if err != nil {
			return
		}
	}
	data = r.ReadToEnd()
	return
}
