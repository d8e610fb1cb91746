// Package inspect decodes batches of container files concurrently.
package inspect

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eunmann/risu-inspect/internal/logctx"
	"github.com/eunmann/risu-inspect/pkg/codec"
	"github.com/eunmann/risu-inspect/pkg/format"
	"github.com/eunmann/risu-inspect/pkg/logging"
	"github.com/eunmann/risu-inspect/pkg/source"
)

// Opener loads an input. *source.Opener implements it.
type Opener interface {
	Open(ctx context.Context, uri string) (*source.Buffer, error)
}

// Config configures a batch.
type Config struct {
	// Concurrency is the number of inputs decoded at once.
	// Default: NumCPU.
	Concurrency int
	// FailFast stops the batch at the first failing input.
	FailFast bool
	// Codecs are passed to every decode.
	Codecs codec.Codecs
}

// Result is the outcome for one input.
type Result struct {
	Input   string
	Kind    format.Kind
	Size    int
	Value   any
	Err     error
	Elapsed time.Duration
}

// Report is the JSON shape of a Result.
type Report struct {
	File   string      `json:"file"`
	Kind   format.Kind `json:"kind,omitempty"`
	Result any         `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Report converts r for output.
func (r Result) Report() Report {
	rep := Report{File: r.Input, Kind: r.Kind, Result: r.Value}
	if r.Err != nil {
		rep.Error = r.Err.Error()
	}
	return rep
}

// Run decodes inputs and returns one Result per input, in input order.
// Per-input failures are reported in Result.Err. The returned error is
// non-nil only when FailFast stopped the batch or ctx was cancelled.
func Run(ctx context.Context, cfg Config, opener Opener, inputs []string) ([]Result, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	cfg.Codecs = cfg.Codecs.WithDefaults()

	log := logctx.FromContext(ctx)
	tracker := logging.NewProgressTracker(int64(len(inputs)))
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			res := decodeOne(gctx, cfg.Codecs, opener, input)
			results[i] = res
			if res.Err != nil {
				tracker.RecordFailed()
				if cfg.FailFast {
					return fmt.Errorf("%s: %w", input, res.Err)
				}
				return nil
			}
			tracker.RecordDecoded(int64(res.Size))
			return nil
		})
	}
	err := g.Wait()

	elapsed := tracker.Elapsed()
	logging.BatchComplete(log, elapsed).
		ProgressFromTracker(tracker).
		Int("concurrency", cfg.Concurrency).
		Bytes("bytes", tracker.Bytes()).
		Throughput(tracker.Bytes()).
		Log("batch complete")

	if err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func decodeOne(ctx context.Context, codecs codec.Codecs, opener Opener, input string) (res Result) {
	start := time.Now()
	ctx = logctx.WithFile(ctx, input)
	res.Input = input

	defer func() {
		res.Elapsed = time.Since(start)
		ev := logging.FileDecoded(logctx.FromContext(ctx), res.Elapsed).
			Str("kind", string(res.Kind)).
			Bytes("size", int64(res.Size))
		if res.Err != nil {
			ev.Err(res.Err).Log("decode failed")
			return
		}
		ev.LogDebug("decoded")
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	// Route on the name before opening so unsupported inputs are never read.
	kind, err := format.DetectKind(source.NameOf(input))
	if err != nil {
		res.Err = err
		return res
	}
	res.Kind = kind

	buf, err := opener.Open(ctx, input)
	if err != nil {
		res.Err = err
		return res
	}
	defer buf.Close()
	res.Size = len(buf.Data)

	res.Value, res.Err = format.Parse(ctx, buf.Data, buf.Name, codecs)
	return res
}
