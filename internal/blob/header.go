package blob

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// Weight blob magics. The low byte selects the tensor-record format.
const (
	MagicPlain   = 0x56574230 // "0BWV" little-endian: raw int8 records
	MagicEncoded = 0x56574231 // "1BWV": BlockDialect-encoded records
)

// HeaderSize is the fixed byte length of the blob header.
const HeaderSize = 16

var (
	ErrBadMagic = errors.New("invalid weight blob magic")
	ErrChecksum = errors.New("weight blob payload checksum mismatch")
)

// Header is the 16-byte blob prefix. All fields are little-endian.
// Checksum is CRC32 (IEEE) of the payload; zero means unverified, which
// is what the reference encoder emits. Reserved carries the codec block
// size for encoded blobs and is zero for plain ones.
type Header struct {
	Magic    uint32
	Size     uint32
	Checksum uint32
	Reserved uint32
}

// Encoded reports whether the blob's tensor records are block-encoded.
func (h Header) Encoded() bool {
	return h.Magic == MagicEncoded
}

func DecodeHeader(r io.Reader) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return Header{}, fmt.Errorf("read header: %w", err)
	}

	var h Header
	h.Magic = binary.LittleEndian.Uint32(raw[0:])
	h.Size = binary.LittleEndian.Uint32(raw[4:])
	h.Checksum = binary.LittleEndian.Uint32(raw[8:])
	h.Reserved = binary.LittleEndian.Uint32(raw[12:])

	if h.Magic != MagicPlain && h.Magic != MagicEncoded {
		return Header{}, fmt.Errorf("%w: %#08x", ErrBadMagic, h.Magic)
	}
	return h, nil
}

func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	return DecodeHeader(f)
}

// Parse validates a whole in-memory blob: header, payload bounds and,
// when the header carries one, the payload CRC32.
func Parse(data []byte) (Header, []byte, error) {
	if len(data) < HeaderSize {
		return Header{}, nil, fmt.Errorf("blob truncated: %d bytes", len(data))
	}
	h, err := DecodeHeader(bytes.NewReader(data))
	if err != nil {
		return Header{}, nil, err
	}
	payload := data[HeaderSize:]
	if int(h.Size) > len(payload) {
		return Header{}, nil, fmt.Errorf("blob truncated: header claims %d payload bytes, have %d",
			h.Size, len(payload))
	}
	payload = payload[:h.Size]
	if h.Checksum != 0 {
		if sum := crc32.ChecksumIEEE(payload); sum != h.Checksum {
			return Header{}, nil, fmt.Errorf("%w: stored %#08x, computed %#08x",
				ErrChecksum, h.Checksum, sum)
		}
	}
	return h, payload, nil
}
