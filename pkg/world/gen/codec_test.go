package gen

import (
	"errors"
	"testing"
)

func TestChunkCodecRoundTrip(t *testing.T) {
	c := NewArcticGenerator(5).Generate(2, -1)
	got, err := DecodeChunk(EncodeChunk(c))
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if !got.Equal(c) {
		t.Fatal("decoded chunk differs from the original")
	}
}

func TestEncodeChunkSkipsEmptySections(t *testing.T) {
	a := &ChunkData{}
	a.SetBlock(0, 0, 0, Stone)
	b := &ChunkData{}
	b.SetBlock(0, 0, 0, Stone)
	b.SetBlock(0, 200, 0, Stone)
	b.SetBlock(0, 200, 0, Air) // section allocated, now empty

	if len(EncodeChunk(a)) != len(EncodeChunk(b)) {
		t.Error("an all-air section was encoded")
	}
}

func TestDecodeChunkCorrupt(t *testing.T) {
	good := EncodeChunk(NewFlatGenerator(0).Generate(0, 0))

	badVersion := append([]byte(nil), good...)
	badVersion[0] = 9

	badBitmap := append([]byte(nil), good...)
	badBitmap[4] = 0x80

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", good[:3]},
		{"version", badVersion},
		{"bitmap", badBitmap},
		{"truncated section", good[:headerBytes+100]},
		{"truncated trailer", good[:len(good)-1]},
		{"trailing bytes", append(append([]byte(nil), good...), 0)},
	}
	for _, tt := range tests {
		if _, err := DecodeChunk(tt.data); !errors.Is(err, ErrCorruptChunk) {
			t.Errorf("%s: err = %v, want ErrCorruptChunk", tt.name, err)
		}
	}
}
