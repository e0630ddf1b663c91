package sped

import (
	"errors"
	"testing"
)

func TestInfoRejectsBadSignature(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		{0x00},
		append([]byte{0x00}, pngSignature[1:]...),
		{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A}, // short
	} {
		if _, _, err := Info(data); err == nil {
			t.Fatalf("Info(%v) = nil error, want failure", data)
		}
		if err := Decode(data, 1, func(int, int, []uint16, any) error { return nil }, nil); err == nil {
			t.Fatalf("Decode(%v) = nil error, want failure", data)
		}
	}
}

func TestInfoDimensions(t *testing.T) {
	png := buildPNG(pngSpec{
		width: 7, height: 5, bitDepth: 8, colorType: uint8(ColorGray),
		raw: encodeScanlines(7, 1, solidRows(5, 7, 1, []byte{0x42}), []byte{0}),
	})
	w, h, err := Info(png)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if w != 7 || h != 5 {
		t.Fatalf("Info = (%d,%d), want (7,5)", w, h)
	}
}

func TestInfoSucceedsOnInterlacedButDecodeFails(t *testing.T) {
	png := buildPNG(pngSpec{
		width: 2, height: 2, bitDepth: 8, colorType: uint8(ColorGray),
		raw:       encodeScanlines(2, 1, solidRows(2, 2, 1, []byte{0x10}), []byte{0}),
		interlace: 1,
	})
	if _, _, err := Info(png); err != nil {
		t.Fatalf("Info on interlaced image: %v", err)
	}
	err := Decode(png, 1, func(int, int, []uint16, any) error { return nil }, nil)
	if !errors.Is(err, ErrUnsupportedHeader) {
		t.Fatalf("Decode on interlaced image = %v, want ErrUnsupportedHeader", err)
	}
}

func TestDecodeFailsWithZeroIDAT(t *testing.T) {
	var out []byte
	out = append(out, pngSignature[:]...)
	ihdr := make([]byte, 13)
	ihdr[0], ihdr[1], ihdr[2], ihdr[3] = 0, 0, 0, 1 // width = 1
	ihdr[4], ihdr[5], ihdr[6], ihdr[7] = 0, 0, 0, 1 // height = 1
	ihdr[8], ihdr[9] = 8, uint8(ColorGray)
	out = append(out, buildChunk("IHDR", ihdr)...)
	out = append(out, buildChunk("IEND", nil)...)

	err := Decode(out, 1, func(int, int, []uint16, any) error { return nil }, nil)
	if !errors.Is(err, ErrNoIDAT) {
		t.Fatalf("Decode with zero IDAT = %v, want ErrNoIDAT", err)
	}
}

// solidRows builds height rows of width*bpp bytes, each pixel equal to fill.
func solidRows(height, width, bpp int, fill []byte) [][]byte {
	rows := make([][]byte, height)
	for y := 0; y < height; y++ {
		row := make([]byte, width*bpp)
		for x := 0; x < width; x++ {
			copy(row[x*bpp:], fill)
		}
		rows[y] = row
	}
	return rows
}
