// Package sped implements a minimal streaming PNG decoder for
// memory-constrained embedded targets: it consumes a whole PNG held in
// memory and emits reconstructed RGB565 rows one at a time through a
// caller-supplied sink, optionally box-filter downscaling by 2 or 4,
// without ever materializing the full decoded image.
package sped

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var pngSignature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

type chunkName [4]byte

var (
	chunkIHDR = chunkName{'I', 'H', 'D', 'R'}
	chunkPLTE = chunkName{'P', 'L', 'T', 'E'}
	chunkIDAT = chunkName{'I', 'D', 'A', 'T'}
	chunkIEND = chunkName{'I', 'E', 'N', 'D'}
	chunkTRNS = chunkName{'t', 'R', 'N', 'S'}
)

// defaultMaxIDATChunks is the spec §4.1 recommended cap on the number of
// IDAT chunks recorded by the scanner; overridable via Options.
const defaultMaxIDATChunks = 64

// rawChunk is one PNG chunk record: a 4-byte type tag and its payload
// slice, borrowed directly from the input (no copy).
type rawChunk struct {
	kind    chunkName
	payload []byte
}

// chunkCursor walks a chunk stream with bounds checks on every read,
// replacing the manual pointer arithmetic a C decoder would use (spec §9
// Design Notes) with a fallible iterator yielding (type, payload) pairs.
type chunkCursor struct {
	data []byte
	pos  int
}

// next returns the chunk starting at pos, advancing past it (including its
// trailing, unvalidated CRC — spec §4.1 deliberately skips CRC checking).
// ok is false when there is no complete chunk header+payload+crc left in
// data; that is not itself an error, since both Chunk Scanner operations
// treat running off the end as "stop here", not "fail here".
func (c *chunkCursor) next() (rawChunk, bool) {
	if c.pos+8 > len(c.data) {
		return rawChunk{}, false
	}
	length := binary.BigEndian.Uint32(c.data[c.pos : c.pos+4])
	var kind chunkName
	copy(kind[:], c.data[c.pos+4:c.pos+8])

	start := c.pos + 8
	end := start + int(length)
	if length > uint32(len(c.data)) || end < start || end+4 > len(c.data) {
		return rawChunk{}, false
	}
	c.pos = end + 4
	return rawChunk{kind: kind, payload: c.data[start:end]}, true
}

// checkSignature validates the 8-byte PNG signature (spec §4.1, §8
// property 1) and returns the remaining bytes.
func checkSignature(data []byte) ([]byte, error) {
	if len(data) < len(pngSignature) || [8]byte(data[:8]) != pngSignature {
		return nil, errors.WithStack(ErrBadSignature)
	}
	return data[len(pngSignature):], nil
}

// firstChunk confirms the chunk immediately following the signature is
// IHDR with the mandated 13-byte payload, per spec §4.1's info/index
// precondition. It does not otherwise validate IHDR's fields — that is
// parseIHDR's job, and Info deliberately stops short of it (spec §8 S5:
// info succeeds on an interlaced image that decode must reject).
func firstChunk(data []byte) (rawChunk, error) {
	cur := chunkCursor{data: data}
	c, ok := cur.next()
	if !ok {
		return rawChunk{}, errors.WithStack(ErrShortInput)
	}
	if c.kind != chunkIHDR || len(c.payload) != ihdrLength {
		return rawChunk{}, errors.WithStack(ErrMalformedIHDR)
	}
	return c, nil
}

// Info is the pure metadata probe of spec §6: it validates the signature
// and the IHDR prefix only, and returns the declared width/height without
// allocating beyond the return value.
func Info(data []byte) (width, height uint32, err error) {
	rest, err := checkSignature(data)
	if err != nil {
		return 0, 0, err
	}
	c, err := firstChunk(rest)
	if err != nil {
		return 0, 0, err
	}
	return be32(c.payload[0:4]), be32(c.payload[4:8]), nil
}

// chunkIndex is the small index the Chunk Scanner produces: a validated
// header plus whatever PLTE/tRNS/IDAT chunks the walk found (spec §4.1).
type chunkIndex struct {
	header       ImageHeader
	palette      Palette
	paletteAlpha PaletteAlpha
	idats        [][]byte
}

// indexChunks walks every chunk once, recording PLTE/tRNS/IDAT side effects
// and stopping at IEND or end-of-input (spec §4.1). maxIDAT bounds the
// number of IDAT payloads recorded; further IDATs are silently ignored, a
// cap spec.md leaves implementation-defined (resolved in SPEC_FULL.md via
// Options.MaxIDATChunks, default defaultMaxIDATChunks).
func indexChunks(data []byte, maxIDAT int) (chunkIndex, error) {
	rest, err := checkSignature(data)
	if err != nil {
		return chunkIndex{}, err
	}
	ihdrChunk, err := firstChunk(rest)
	if err != nil {
		return chunkIndex{}, err
	}
	header, err := parseIHDR(ihdrChunk.payload)
	if err != nil {
		return chunkIndex{}, err
	}

	idx := chunkIndex{header: header}
	idx.paletteAlpha.reset()

	cur := chunkCursor{data: rest, pos: 8 + len(ihdrChunk.payload) + 4}
walk:
	for {
		c, ok := cur.next()
		if !ok {
			break
		}
		switch c.kind {
		case chunkIEND:
			break walk
		case chunkPLTE:
			idx.palette.load(c.payload)
		case chunkTRNS:
			if header.Color == ColorIndexed {
				idx.paletteAlpha.load(c.payload)
			}
		case chunkIDAT:
			if len(idx.idats) < maxIDAT {
				idx.idats = append(idx.idats, c.payload)
			}
		}
	}

	if len(idx.idats) == 0 {
		return chunkIndex{}, errors.WithStack(ErrNoIDAT)
	}
	return idx, nil
}
