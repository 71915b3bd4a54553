package blob

import (
	"encoding/binary"
	"hash/crc32"

	"dialectnet-go/internal/codec"
)

// Writer assembles a weight blob in memory, one tensor record at a time,
// in the order the inference cursor will consume them.
type Writer struct {
	payload []byte
	encoded bool
}

func NewWriter(encoded bool) *Writer {
	return &Writer{encoded: encoded}
}

// AppendTensor adds one tensor record and pads the payload to the next
// 4-byte boundary.
func (w *Writer) AppendTensor(values []int8) {
	if w.encoded {
		w.payload = codec.AppendEncodedTensor(w.payload, values)
	} else {
		for _, v := range values {
			w.payload = append(w.payload, byte(v))
		}
	}
	for len(w.payload)%4 != 0 {
		w.payload = append(w.payload, 0)
	}
}

// Finish prepends the 16-byte header and returns the complete blob.
func (w *Writer) Finish() []byte {
	h := Header{
		Size:     uint32(len(w.payload)),
		Checksum: crc32.ChecksumIEEE(w.payload),
	}
	if w.encoded {
		h.Magic = MagicEncoded
		h.Reserved = codec.BlockSize
	} else {
		h.Magic = MagicPlain
	}

	out := make([]byte, HeaderSize, HeaderSize+len(w.payload))
	binary.LittleEndian.PutUint32(out[0:], h.Magic)
	binary.LittleEndian.PutUint32(out[4:], h.Size)
	binary.LittleEndian.PutUint32(out[8:], h.Checksum)
	binary.LittleEndian.PutUint32(out[12:], h.Reserved)
	return append(out, w.payload...)
}
