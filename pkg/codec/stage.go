package codec

import (
	"context"
	"errors"
	"fmt"

	"github.com/eunmann/risu-inspect/internal/logctx"
)

// ErrMalformedInput indicates a codec stage rejected its input.
var ErrMalformedInput = errors.New("malformed codec input")

// Stage names used in StageError.
const (
	StageCompaction = "compaction"
	StageInflate    = "inflate"
	StageMsgpack    = "msgpack"
	StageJSON       = "json"
)

// StageError reports which stage of a codec chain failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is makes every StageError match ErrMalformedInput.
func (e *StageError) Is(target error) bool {
	return target == ErrMalformedInput
}

// Stage is one step of a byte pipeline. Stages may block; the context is
// passed through so a slow collaborator can observe cancellation.
type Stage struct {
	Name string
	Fn   func(ctx context.Context, in []byte) ([]byte, error)
}

// Run feeds data through stages in order and returns the final bytes.
// A failing stage is wrapped in a *StageError. Cancellation is checked
// before each stage starts.
func Run(ctx context.Context, data []byte, stages ...Stage) ([]byte, error) {
	log := logctx.FromContext(ctx)
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in := len(data)
		out, err := s.Fn(ctx, data)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			var se *StageError
			if errors.As(err, &se) {
				return nil, err
			}
			return nil, &StageError{Stage: s.Name, Err: err}
		}
		log.Debug().Str("stage", s.Name).Int("in_bytes", in).Int("out_bytes", len(out)).Msg("codec stage done")
		data = out
	}
	return data, nil
}

// CompactionStage wraps a Compaction as a pipeline stage.
func CompactionStage(c Compaction) Stage {
	return Stage{Name: StageCompaction, Fn: c.Decode}
}

// InflateStage decompresses DEFLATE-family data.
func InflateStage() Stage {
	return Stage{Name: StageInflate, Fn: func(_ context.Context, in []byte) ([]byte, error) {
		return Inflate(in)
	}}
}
