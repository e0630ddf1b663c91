package sped

import (
	"compress/zlib"
	"io"

	"github.com/pkg/errors"
)

// inflateStatus mirrors the NEED_MORE_INPUT/HAS_MORE_OUTPUT/DONE/ERROR
// vocabulary of spec §4.2's external inflate primitive contract.
type inflateStatus int

const (
	statusNeedMoreInput inflateStatus = iota
	statusHasMoreOutput
	statusDone
	statusError
)

// idatReader presents an ordered list of IDAT payloads as one continuous
// byte stream, the way fumin-png's decoder.Read feeds multiple IDAT chunks
// to a single zlib.Reader without the reader ever seeing a seam between
// them: when the current chunk is exhausted and another remains, Read
// transparently continues from it (spec §4.2 steps 1 and 4).
type idatReader struct {
	idats [][]byte
	ci    int
}

func (r *idatReader) Read(p []byte) (int, error) {
	for r.ci < len(r.idats) && len(r.idats[r.ci]) == 0 {
		r.ci++
	}
	if r.ci >= len(r.idats) {
		return 0, io.EOF
	}
	n := copy(p, r.idats[r.ci])
	r.idats[r.ci] = r.idats[r.ci][n:]
	return n, nil
}

// inflateDriver couples the circularWindow to a single zlib.Reader spanning
// every IDAT chunk. Spec §4.2 forbids splitting one DEFLATE stream across
// multiple decompressor instances; constructing exactly one zlib.Reader
// over the whole idatReader is how that invariant is kept here.
type inflateDriver struct {
	win      circularWindow
	zr       io.ReadCloser
	produced []byte
	status   inflateStatus
}

func newInflateDriver(idats [][]byte) (*inflateDriver, error) {
	zr, err := zlib.NewReader(&idatReader{idats: idats})
	if err != nil {
		return nil, errors.Wrap(ErrDecompress, err.Error())
	}
	return &inflateDriver{zr: zr}, nil
}

// step runs one round of spec §4.2's state machine: fill as much of the
// window's current contiguous span as the decompressor yields in one call,
// advance the write offset, and record status.
func (d *inflateDriver) step() error {
	out := d.win.span()
	n, err := d.zr.Read(out)
	if n > 0 {
		d.produced = out[:n]
		d.win.advance(n)
	} else {
		d.produced = nil
	}
	switch {
	case err == nil:
		d.status = statusHasMoreOutput
	case err == io.EOF:
		d.status = statusDone
	default:
		d.status = statusError
		return errors.Wrap(ErrDecompress, err.Error())
	}
	return nil
}

// Read implements io.Reader over the step/status machine so the Scanline
// Reassembler can pull fixed-size scanline records with io.ReadFull, the
// same way fumin-png's DecodeRow reads from its zlib.Reader directly.
// NEED_MORE_INPUT is not independently observable here: idatReader already
// blocks across IDAT boundaries the way the spec's has-more-input flag is
// meant to prevent a premature-end error, so step() only ever reports
// HAS_MORE_OUTPUT, DONE, or ERROR in this implementation.
func (d *inflateDriver) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	total := 0
	for total < len(p) {
		if len(d.produced) == 0 {
			if d.status == statusDone {
				break
			}
			if err := d.step(); err != nil {
				return total, err
			}
			continue
		}
		n := copy(p[total:], d.produced)
		d.produced = d.produced[n:]
		total += n
	}
	if total == 0 {
		return 0, io.EOF
	}
	return total, nil
}

// close releases the decompressor. Its error is not propagated as a decode
// failure: zlib's Close verifies no checksum, so a successful decode that
// stops reading before the zlib trailer (spec §9's Open Question on overlong
// inflated streams) is not an error there, and any error Close can return
// comes from a Read that has already failed the decode.
func (d *inflateDriver) close() {
	_ = d.zr.Close()
}
