package sped

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
)

// The library never imports an encoder (spec.md's writer side is out of
// scope); these helpers synthesize minimal PNGs directly with
// encoding/binary, hash/crc32, and compress/zlib, the same stdlib trio
// fumin-png's writer_test.go and rmamba-image/png/writer.go build on.

func buildChunk(kind string, payload []byte) []byte {
	buf := make([]byte, 0, 12+len(payload))
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, kind...)
	buf = append(buf, payload...)

	crc := crc32.NewIEEE()
	crc.Write([]byte(kind))
	crc.Write(payload)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc.Sum32())
	buf = append(buf, crcBuf[:]...)
	return buf
}

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

// pngSpec describes a minimal synthetic PNG for test construction.
type pngSpec struct {
	width, height       uint32
	bitDepth, colorType uint8
	palette             []byte
	trns                []byte
	raw                 []byte // filter-byte-prefixed scanlines, pre-compression
	idatSplits          int    // number of IDAT chunks to split into; <=1 means one chunk
	interlace           uint8
}

func buildPNG(s pngSpec) []byte {
	var out bytes.Buffer
	out.Write(pngSignature[:])

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], s.width)
	binary.BigEndian.PutUint32(ihdr[4:8], s.height)
	ihdr[8] = s.bitDepth
	ihdr[9] = s.colorType
	ihdr[10] = 0 // compression
	ihdr[11] = 0 // filter method
	ihdr[12] = s.interlace
	out.Write(buildChunk("IHDR", ihdr))

	if s.palette != nil {
		out.Write(buildChunk("PLTE", s.palette))
	}
	if s.trns != nil {
		out.Write(buildChunk("tRNS", s.trns))
	}

	compressed := zlibCompress(s.raw)
	splits := s.idatSplits
	if splits <= 1 {
		out.Write(buildChunk("IDAT", compressed))
	} else {
		chunkLen := (len(compressed) + splits - 1) / splits
		if chunkLen == 0 {
			chunkLen = 1
		}
		for i := 0; i < len(compressed); i += chunkLen {
			end := i + chunkLen
			if end > len(compressed) {
				end = len(compressed)
			}
			out.Write(buildChunk("IDAT", compressed[i:end]))
		}
	}

	out.Write(buildChunk("IEND", nil))
	return out.Bytes()
}

// encodeScanlines applies the forward PNG filter (the inverse of filter.go's
// scanlineReassembler.next) to a sequence of raw rows, so tests can exercise
// every filter type and confirm the decoder recovers identical pixels
// (spec §8 property 5).
func encodeScanlines(stride, bpp int, rows [][]byte, filterTypes []byte) []byte {
	out := make([]byte, 0, len(rows)*(1+stride))
	prev := make([]byte, stride)
	for i, raw := range rows {
		ft := filterTypes[i%len(filterTypes)]
		cur := make([]byte, stride)
		copy(cur, raw)
		filtered := make([]byte, stride)

		switch ft {
		case 0:
			copy(filtered, cur)
		case 1:
			for x := 0; x < stride; x++ {
				var a byte
				if x >= bpp {
					a = cur[x-bpp]
				}
				filtered[x] = cur[x] - a
			}
		case 2:
			for x := 0; x < stride; x++ {
				filtered[x] = cur[x] - prev[x]
			}
		case 3:
			for x := 0; x < stride; x++ {
				var a int
				if x >= bpp {
					a = int(cur[x-bpp])
				}
				filtered[x] = cur[x] - byte((a+int(prev[x]))/2)
			}
		case 4:
			for x := 0; x < stride; x++ {
				var a, c int
				if x >= bpp {
					a = int(cur[x-bpp])
					c = int(prev[x-bpp])
				}
				filtered[x] = cur[x] - byte(paeth(a, int(prev[x]), c))
			}
		}

		out = append(out, ft)
		out = append(out, filtered...)
		prev = cur
	}
	return out
}
