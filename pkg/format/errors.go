package format

import "errors"

var (
	// ErrInvalidMagic indicates a module container does not start with MagicRisum.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrUnsupportedVersion indicates an unsupported module container version.
	ErrUnsupportedVersion = errors.New("unsupported container version")
	// ErrTruncatedBuffer indicates a read past the end of the buffer.
	ErrTruncatedBuffer = errors.New("truncated buffer")
	// ErrInvalidPayloadType indicates the main section is not a module document.
	ErrInvalidPayloadType = errors.New("invalid payload type")
	// ErrUnsupportedExtension indicates a file name with no recognised suffix.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
)
