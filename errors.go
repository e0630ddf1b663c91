package sped

import "github.com/pkg/errors"

// Sentinel errors. The public contract of Info and Decode is a plain
// error (nil means success, non-nil means fatal failure, per spec) — these
// exist so tests and callers that care can distinguish causes with
// errors.Is, without the package exposing a caller-facing error code.
var (
	ErrBadSignature      = errors.New("sped: not a PNG (bad signature)")
	ErrShortInput        = errors.New("sped: input truncated")
	ErrMalformedIHDR     = errors.New("sped: malformed IHDR")
	ErrUnsupportedHeader = errors.New("sped: unsupported IHDR field combination")
	ErrNoIDAT            = errors.New("sped: no IDAT chunks present")
	ErrInvalidScale      = errors.New("sped: scale must be 1, 2, or 4")
	ErrDegenerateOutput  = errors.New("sped: requested scale produces zero-sized output")
	ErrUnknownFilter     = errors.New("sped: unknown scanline filter type")
	ErrTruncatedImage    = errors.New("sped: inflated stream ended before all rows were produced")
	ErrDecompress        = errors.New("sped: DEFLATE stream error")
)

// debugf is the package's single diagnostic hook. It defaults to a no-op so
// production decode paths pay nothing for it, matching the
// debugPrint/SetDebugWriter pattern used by embedded zlib codecs in this
// domain. Swap it with SetDebugLogger for host-side tooling or tests.
var debugf = func(format string, args ...any) {}

// SetDebugLogger installs fn as the package's diagnostic sink. fn is called
// only at coarse lifecycle points (decode start/end, sink errors), never
// per-byte or per-pixel. Pass nil to restore the default no-op.
func SetDebugLogger(fn func(format string, args ...any)) {
	if fn == nil {
		fn = func(format string, args ...any) {}
	}
	debugf = fn
}
