package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Container framings Inflate recognises.
const (
	FramingRaw  = "deflate"
	FramingZlib = "zlib"
	FramingGzip = "gzip"
)

var errEmptyStream = errors.New("empty compressed stream")

// DetectFraming sniffs the framing of a DEFLATE-family stream: a gzip
// header, a zlib header (CM=8 and a valid FCHECK), or raw deflate.
func DetectFraming(data []byte) string {
	if len(data) >= 2 {
		if data[0] == 0x1f && data[1] == 0x8b {
			return FramingGzip
		}
		cmf, flg := data[0], data[1]
		if cmf&0x0f == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0 {
			return FramingZlib
		}
	}
	return FramingRaw
}

// Inflate decompresses a gzip, zlib or raw deflate stream. Truncated or
// corrupt streams fail.
func Inflate(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errEmptyStream
	}

	var (
		r   io.ReadCloser
		err error
	)
	framing := DetectFraming(data)
	switch framing {
	case FramingGzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
	case FramingZlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
	default:
		r = flate.NewReader(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("open %s stream: %w", framing, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s stream: %w", framing, err)
	}
	return out, nil
}
