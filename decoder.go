package sped

import "github.com/pkg/errors"

// Options configures Decode beyond the bare scale factor spec §6 defines.
// The zero value reproduces spec.md's defaults exactly.
type Options struct {
	// MaxIDATChunks bounds how many IDAT chunks the Chunk Scanner records;
	// beyond it, further IDATs are silently ignored (spec §4.1). Zero
	// selects the spec-recommended default of 64.
	MaxIDATChunks int
}

func (o Options) maxIDATChunks() int {
	if o.MaxIDATChunks <= 0 {
		return defaultMaxIDATChunks
	}
	return o.MaxIDATChunks
}

// Decode is the spec §6 decode entry point: it validates and indexes the
// PNG, then drives the Inflate Driver, Scanline Reassembler, and Pixel
// Pipeline in lockstep until every row has been emitted through sink or a
// fatal error occurs. A failure mid-image may still have delivered some
// rows to sink already — spec §7 treats that as the caller's problem, with
// no rollback.
func Decode(data []byte, scale int, sink RowSink, ctx any) error {
	return DecodeWithOptions(data, scale, sink, ctx, Options{})
}

// DecodeWithOptions is Decode with an explicit Options value; Decode is
// just DecodeWithOptions(Options{}).
func DecodeWithOptions(data []byte, scale int, sink RowSink, ctx any, opts Options) error {
	if scale != 1 && scale != 2 && scale != 4 {
		return errors.WithStack(ErrInvalidScale)
	}

	debugf("sped: decode start scale=%d", scale)

	idx, err := indexChunks(data, opts.maxIDATChunks())
	if err != nil {
		return err
	}

	pipeline, err := newPixelPipeline(idx.header, &idx.palette, scale)
	if err != nil {
		return err
	}

	driver, err := newInflateDriver(idx.idats)
	if err != nil {
		return err
	}
	defer driver.close()

	reasm := newScanlineReassembler(driver, idx.header)

	for y := 0; y < int(idx.header.Height); y++ {
		row, err := reasm.next()
		if err != nil {
			return err
		}
		if err := pipeline.push(y, row, sink, ctx); err != nil {
			debugf("sped: sink error at row %d: %v", y, err)
			return err
		}
	}

	debugf("sped: decode done rows=%d", idx.header.Height)
	return nil
}
