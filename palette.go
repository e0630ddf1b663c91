package sped

// rgb is one 8-bit RGB triple, the unit stored in a Palette entry.
type rgb struct {
	r, g, b uint8
}

// Palette holds up to 256 PLTE entries (spec §3). Indexed color images
// require one; truecolor images may carry one unused by this decoder.
type Palette struct {
	entries [256]rgb
	n       int
}

// load copies up to 256 RGB triples from a PLTE payload, silently
// truncating a longer chunk (spec §4.1).
func (p *Palette) load(payload []byte) {
	n := len(payload) / 3
	if n > 256 {
		n = 256
	}
	for i := 0; i < n; i++ {
		p.entries[i] = rgb{payload[i*3], payload[i*3+1], payload[i*3+2]}
	}
	p.n = n
}

// at returns the palette entry for index i, or black if i is out of range
// for the loaded palette.
func (p *Palette) at(i uint8) rgb {
	if int(i) >= p.n {
		return rgb{}
	}
	return p.entries[i]
}

// PaletteAlpha holds the per-index alpha bytes from tRNS (spec §3). It is
// tracked for completeness only: RGB565 output has no alpha channel, so
// transparency is never composited (resolved Open Question, SPEC_FULL.md §5).
type PaletteAlpha struct {
	alpha [256]uint8
}

// reset defaults every entry to opaque (255), the PNG-spec fallback for
// indices beyond a short tRNS chunk.
func (p *PaletteAlpha) reset() {
	for i := range p.alpha {
		p.alpha[i] = 255
	}
}

// load copies up to min(len(payload), 256) alpha bytes; remaining entries
// keep whatever reset left them at (spec §3, §4.1).
func (p *PaletteAlpha) load(payload []byte) {
	n := len(payload)
	if n > 256 {
		n = 256
	}
	copy(p.alpha[:n], payload[:n])
}
