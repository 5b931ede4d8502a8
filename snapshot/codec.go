package snapshot

import (
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"

	"github.com/tc-cache/tc-cache/internal/errs"
)

// IntoLEBytes encodes u as 4 little-endian bytes, matching the meta_len
// field of the wire format (§4.4).
func IntoLEBytes(u uint32) [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], u)

	return b
}

// FromLEBytes decodes 4 little-endian bytes back into a uint32.
func FromLEBytes(b [4]byte) uint32 {
	return binary.LittleEndian.Uint32(b[:])
}

var cborEncMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()

	mode, err := opts.EncMode()
	if err != nil {
		panic(err)
	}

	return mode
}()

// encodeEntry serializes e as a CBOR record, the meta_bytes of §4.4.
func encodeEntry(e Entry) ([]byte, error) {
	b, err := cborEncMode.Marshal(e)
	if err != nil {
		return nil, errs.Snapshot("failed to encode entry", err)
	}

	return b, nil
}

// decodeEntry deserializes a CBOR record back into an Entry.
func decodeEntry(b []byte) (Entry, error) {
	var e Entry

	if err := cbor.Unmarshal(b, &e); err != nil {
		return Entry{}, errs.Snapshot("failed to decode entry", err)
	}

	return e, nil
}
