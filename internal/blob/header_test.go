package blob

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestDecodeHeader(t *testing.T) {
	var raw [HeaderSize]byte
	binary.LittleEndian.PutUint32(raw[0:], MagicEncoded)
	binary.LittleEndian.PutUint32(raw[4:], 1234)
	binary.LittleEndian.PutUint32(raw[8:], 0xDEADBEEF)
	binary.LittleEndian.PutUint32(raw[12:], 32)

	h, err := DecodeHeader(bytes.NewReader(raw[:]))
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if !h.Encoded() {
		t.Fatal("Encoded() = false for MagicEncoded")
	}
	if h.Size != 1234 || h.Checksum != 0xDEADBEEF || h.Reserved != 32 {
		t.Fatalf("header = %+v", h)
	}
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	var raw [HeaderSize]byte
	binary.LittleEndian.PutUint32(raw[0:], 0x46554747)
	_, err := DecodeHeader(bytes.NewReader(raw[:]))
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestParseVerifiesChecksum(t *testing.T) {
	w := NewWriter(false)
	w.AppendTensor([]int8{1, 2, 3, 4})
	data := w.Finish()

	if _, _, err := Parse(data); err != nil {
		t.Fatalf("Parse clean blob: %v", err)
	}

	data[HeaderSize] ^= 0xFF
	if _, _, err := Parse(data); !errors.Is(err, ErrChecksum) {
		t.Fatalf("err = %v, want ErrChecksum", err)
	}
}

func TestParseZeroChecksumSkipsVerify(t *testing.T) {
	// The reference encoder leaves the checksum word zero; such blobs
	// must still load.
	w := NewWriter(false)
	w.AppendTensor([]int8{5, 6, 7, 8})
	data := w.Finish()
	binary.LittleEndian.PutUint32(data[8:], 0)
	data[HeaderSize] ^= 0xFF

	if _, _, err := Parse(data); err != nil {
		t.Fatalf("Parse with zero checksum: %v", err)
	}
}

func TestParseTruncatedPayload(t *testing.T) {
	w := NewWriter(false)
	w.AppendTensor([]int8{1, 2, 3, 4})
	data := w.Finish()
	if _, _, err := Parse(data[:len(data)-2]); err == nil {
		t.Fatal("Parse accepted truncated payload")
	}
}
