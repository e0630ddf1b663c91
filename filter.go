package sped

import (
	"io"

	"github.com/pkg/errors"
)

// scanlineReassembler reads the decompressed byte stream as a sequence of
// (filter-byte, stride-byte) scanlines and undoes the per-row filter using
// the previously reconstructed row (spec §4.3). Sub/Up/Average follow the
// loop shape fumin-png's DecodeRow uses over its cr/pr buffers; Paeth is
// built directly from spec §4.3's predictor definition.
type scanlineReassembler struct {
	src    io.Reader
	stride int
	bpp    int
	cur    []byte
	prev   []byte
	rowBuf []byte
}

func newScanlineReassembler(src io.Reader, header ImageHeader) *scanlineReassembler {
	stride := header.stride()
	bpp := header.bytesPerPixel()
	if bpp < 1 {
		bpp = 1
	}
	return &scanlineReassembler{
		src:    src,
		stride: stride,
		bpp:    bpp,
		cur:    make([]byte, stride),
		prev:   make([]byte, stride),
		rowBuf: make([]byte, 1+stride),
	}
}

// next reconstructs and returns the next scanline. The returned slice is
// reused across calls (spec §4.4's row-sink contract applies the same
// constraint one layer up) and is only valid until the next call to next.
func (s *scanlineReassembler) next() ([]byte, error) {
	if _, err := io.ReadFull(s.src, s.rowBuf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.WithStack(ErrTruncatedImage)
		}
		return nil, err
	}

	filterType := s.rowBuf[0]
	copy(s.cur, s.rowBuf[1:])

	switch filterType {
	case 0: // None
	case 1: // Sub
		for i := s.bpp; i < s.stride; i++ {
			s.cur[i] += s.cur[i-s.bpp]
		}
	case 2: // Up
		for i := 0; i < s.stride; i++ {
			s.cur[i] += s.prev[i]
		}
	case 3: // Average
		for i := 0; i < s.stride; i++ {
			var a int
			if i >= s.bpp {
				a = int(s.cur[i-s.bpp])
			}
			s.cur[i] += byte((a + int(s.prev[i])) / 2)
		}
	case 4: // Paeth
		for i := 0; i < s.stride; i++ {
			var a, c int
			if i >= s.bpp {
				a = int(s.cur[i-s.bpp])
				c = int(s.prev[i-s.bpp])
			}
			s.cur[i] += byte(paeth(a, int(s.prev[i]), c))
		}
	default:
		return nil, errors.WithStack(ErrUnknownFilter)
	}

	row := s.cur
	s.cur, s.prev = s.prev, s.cur
	for i := range s.cur {
		s.cur[i] = 0
	}
	return row, nil
}

// paeth is the PNG Paeth predictor (spec §4.3): of a, b, c (left, up,
// upper-left), return whichever is closest to p = a+b-c, ties favoring a,
// then b, then c.
func paeth(a, b, c int) int {
	p := a + b - c
	pa, pb, pc := abs(p-a), abs(p-b), abs(p-c)
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
