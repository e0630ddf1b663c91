package sped

import "github.com/pkg/errors"

// RowSink is the caller-owned row consumer of spec §6: invoked once per
// emitted row, in ascending order with no gaps, synchronously from within
// Decode. Returning a non-nil error aborts the decode — the idiomatic Go
// stand-in for the "sink may extend with a cancellation indicator" escape
// hatch spec §9's Design Notes leave optional. row is only valid for the
// duration of the call; the pipeline reuses its backing array.
type RowSink func(rowIndex, width int, row []uint16, ctx any) error

// RGB565 packs 8-bit channels into the 16-bit 5-6-5 format (spec §4.4). It
// is a pure function so it can double as a property-test subject on its
// own, per spec §9's Design Notes.
func RGB565(r, g, b uint8) uint16 {
	return (uint16(r)&0xF8)<<8 | (uint16(g)&0xFC)<<3 | uint16(b)>>3
}

// pixelPipeline unpacks reconstructed raw scanlines into RGB565, honoring
// PLTE, and either emits each row directly (scale=1) or accumulates a
// box-filter average over scale×scale input blocks (spec §4.4).
type pixelPipeline struct {
	header ImageHeader
	pal    *Palette
	scale  int
	outW   int
	outH   int

	outRow  []uint16
	acc     []uint16 // 3 sums (r,g,b) per output column; max 255*16 fits in 16 bits
	accRows int
	outY    int
}

func newPixelPipeline(header ImageHeader, pal *Palette, scale int) (*pixelPipeline, error) {
	if scale != 1 && scale != 2 && scale != 4 {
		return nil, errors.WithStack(ErrInvalidScale)
	}
	outW := int(header.Width) / scale
	outH := int(header.Height) / scale
	if outW == 0 || outH == 0 {
		return nil, errors.WithStack(ErrDegenerateOutput)
	}

	p := &pixelPipeline{header: header, pal: pal, scale: scale, outW: outW, outH: outH}
	p.outRow = make([]uint16, outW)
	if scale > 1 {
		p.acc = make([]uint16, outW*3)
	}
	return p, nil
}

// triple extracts the (r,g,b) sample at output column x of a raw
// reconstructed row, per spec §4.4's color-type/bit-depth table. 16-bit
// channels are truncated to their high byte (spec §1 non-goals).
func (p *pixelPipeline) triple(row []byte, x int) (r, g, b uint8) {
	d16 := p.header.BitDepth == 16
	switch p.header.Color {
	case ColorGray:
		v := row[x]
		if d16 {
			v = row[2*x]
		}
		return v, v, v
	case ColorTrueColor:
		if d16 {
			return row[6*x], row[6*x+2], row[6*x+4]
		}
		return row[3*x], row[3*x+1], row[3*x+2]
	case ColorIndexed:
		e := p.pal.at(row[x])
		return e.r, e.g, e.b
	case ColorGrayAlpha:
		v := row[2*x]
		if d16 {
			v = row[4*x]
		}
		return v, v, v
	case ColorTrueColorA:
		if d16 {
			return row[8*x], row[8*x+2], row[8*x+4]
		}
		return row[4*x], row[4*x+1], row[4*x+2]
	}
	return 0, 0, 0
}

// push feeds one fully-reconstructed raw scanline (source row index y)
// through color conversion and, for scale>1, the downscale accumulator,
// invoking sink whenever an output row becomes ready.
func (p *pixelPipeline) push(y int, row []byte, sink RowSink, ctx any) error {
	if p.scale == 1 {
		for x := 0; x < p.outW; x++ {
			r, g, b := p.triple(row, x)
			p.outRow[x] = RGB565(r, g, b)
		}
		return sink(y, p.outW, p.outRow, ctx)
	}

	if y >= p.outH*p.scale {
		// Trailing fractional block row; discarded per spec §4.4.
		return nil
	}

	limitX := p.outW * p.scale
	for x := 0; x < limitX; x++ {
		r, g, b := p.triple(row, x)
		slot := (x / p.scale) * 3
		p.acc[slot] += uint16(r)
		p.acc[slot+1] += uint16(g)
		p.acc[slot+2] += uint16(b)
	}

	p.accRows++
	if p.accRows != p.scale {
		return nil
	}
	p.accRows = 0

	divisor := uint16(p.scale * p.scale)
	for ox := 0; ox < p.outW; ox++ {
		slot := ox * 3
		p.outRow[ox] = RGB565(
			uint8(p.acc[slot]/divisor),
			uint8(p.acc[slot+1]/divisor),
			uint8(p.acc[slot+2]/divisor),
		)
		p.acc[slot], p.acc[slot+1], p.acc[slot+2] = 0, 0, 0
	}

	outRowIndex := p.outY
	p.outY++
	return sink(outRowIndex, p.outW, p.outRow, ctx)
}
