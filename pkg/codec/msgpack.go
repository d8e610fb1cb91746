package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	errEmptyMsgpack    = errors.New("empty msgpack document")
	errTrailingMsgpack = errors.New("trailing data after msgpack document")
)

// DecodeMsgpack decodes one schema-less MessagePack value. Maps decode as
// map[any]any so non-string keys survive; use format.Normalize to get a
// JSON-compatible tree. Binary values decode as []byte. Bytes left over
// after the value are an error.
func DecodeMsgpack(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, errEmptyMsgpack
	}
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	dec.SetMapDecoder(func(d *msgpack.Decoder) (interface{}, error) {
		return d.DecodeUntypedMap()
	})
	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", errTrailingMsgpack, r.Len(), len(data)-r.Len())
	}
	return v, nil
}

// DecodeMsgpackStage is DecodeMsgpack wrapped with stage error reporting.
func DecodeMsgpackStage(data []byte) (any, error) {
	v, err := DecodeMsgpack(data)
	if err != nil {
		return nil, &StageError{Stage: StageMsgpack, Err: err}
	}
	return v, nil
}

// DecodeMsgpackContext is DecodeMsgpackStage with a cancellation check.
func DecodeMsgpackContext(ctx context.Context, data []byte) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeMsgpackStage(data)
}
