package logging

import (
	"sync/atomic"
	"time"

	"github.com/eunmann/risu-inspect/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// ProgressTracker counts decoded and failed inputs in a batch.
// It is safe for concurrent use.
type ProgressTracker struct {
	total     int64
	decoded   atomic.Int64
	failed    atomic.Int64
	bytes     atomic.Int64
	startTime time.Time
}

// NewProgressTracker creates a tracker for total inputs.
func NewProgressTracker(total int64) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// RecordDecoded records a successful decode of an input of size bytes.
func (pt *ProgressTracker) RecordDecoded(size int64) {
	pt.decoded.Add(1)
	pt.bytes.Add(size)
}

// RecordFailed records a failed input.
func (pt *ProgressTracker) RecordFailed() {
	pt.failed.Add(1)
}

// Progress returns current counts.
func (pt *ProgressTracker) Progress() (decoded, failed, total int64) {
	return pt.decoded.Load(), pt.failed.Load(), pt.total
}

// Bytes returns the total size of decoded inputs.
func (pt *ProgressTracker) Bytes() int64 {
	return pt.bytes.Load()
}

// ProgressPct returns the progress percentage (0-100).
func (pt *ProgressTracker) ProgressPct() float64 {
	if pt.total == 0 {
		return 100.0
	}
	done := pt.decoded.Load() + pt.failed.Load()
	return float64(done) * 100.0 / float64(pt.total)
}

// Elapsed returns time since tracking started.
func (pt *ProgressTracker) Elapsed() time.Duration {
	return time.Since(pt.startTime)
}

// CompletionEvent builds consistent completion log events.
type CompletionEvent struct {
	log     zerolog.Logger
	event   string
	elapsed time.Duration
	fields  map[string]interface{}
	err     error
}

// NewCompletionEvent creates a new completion event builder.
func NewCompletionEvent(log zerolog.Logger, event string, elapsed time.Duration) *CompletionEvent {
	return &CompletionEvent{
		log:     log,
		event:   event,
		elapsed: elapsed,
		fields:  make(map[string]interface{}),
	}
}

// FileDecoded starts a per-input completion event.
func FileDecoded(log zerolog.Logger, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "file_decoded", elapsed)
}

// BatchComplete starts a whole-batch completion event.
func BatchComplete(log zerolog.Logger, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "batch_completed", elapsed)
}

// Str adds a string field.
func (ce *CompletionEvent) Str(key, val string) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Int adds an int field.
func (ce *CompletionEvent) Int(key string, val int) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Err attaches an error; the event is then logged at warn level.
func (ce *CompletionEvent) Err(err error) *CompletionEvent {
	ce.err = err
	return ce
}

// Bytes adds a byte count with a human-readable companion in pretty mode.
func (ce *CompletionEvent) Bytes(key string, bytes int64) *CompletionEvent {
	ce.fields[key] = bytes
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Bytes(bytes)
	}
	return ce
}

// ProgressFromTracker adds counts from a ProgressTracker.
func (ce *CompletionEvent) ProgressFromTracker(pt *ProgressTracker) *CompletionEvent {
	decoded, failed, total := pt.Progress()
	ce.fields["decoded"] = decoded
	ce.fields["failed"] = failed
	ce.fields["total"] = total
	ce.fields["progress_pct"] = pt.ProgressPct()
	return ce
}

// Throughput adds throughput fields.
func (ce *CompletionEvent) Throughput(bytes int64) *CompletionEvent {
	if ce.elapsed > 0 {
		ce.fields["throughput_bps"] = float64(bytes) / ce.elapsed.Seconds()
		if IsPrettyMode() {
			ce.fields["throughput_h"] = humanfmt.Throughput(bytes, ce.elapsed)
		}
	}
	return ce
}

// Log emits the event at info level, or warn when an error is attached.
func (ce *CompletionEvent) Log(msg string) {
	e := ce.log.Info()
	if ce.err != nil {
		e = ce.log.Warn().Err(ce.err)
	}
	ce.emit(e, msg)
}

// LogDebug emits the event at debug level.
func (ce *CompletionEvent) LogDebug(msg string) {
	e := ce.log.Debug()
	if ce.err != nil {
		e = e.Err(ce.err)
	}
	ce.emit(e, msg)
}

func (ce *CompletionEvent) emit(e *zerolog.Event, msg string) {
	e = e.Str("event", ce.event).Int64("duration_ms", ce.elapsed.Milliseconds())
	if IsPrettyMode() {
		e = e.Str("duration_h", humanfmt.Duration(ce.elapsed))
	}
	for k, v := range ce.fields {
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}
