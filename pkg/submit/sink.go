// Package submit delivers validated form values to their destination.
package submit

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// ErrSink marks a failed delivery.
var ErrSink = goerr.New("submission sink failed")

// Sink receives the values of a completed form. Implementations own the
// map they are given.
type Sink interface {
	Submit(ctx context.Context, values model.FormValues) error
}

// Func adapts a function into a Sink.
type Func func(ctx context.Context, values model.FormValues) error

// Submit calls f.
func (f Func) Submit(ctx context.Context, values model.FormValues) error {
	return f(ctx, values)
}

// WriterSink encodes each submission as one JSON line.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	indent bool
}

// NewWriterSink writes submissions to w. Indented output spans several lines
// per submission.
func NewWriterSink(w io.Writer, indent bool) *WriterSink {
	return &WriterSink{w: w, indent: indent}
}

// Submit writes values to the underlying writer.
func (s *WriterSink) Submit(ctx context.Context, values model.FormValues) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(s.w)
	if s.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(values); err != nil {
		return goerr.Wrap(ErrSink, "failed to write submission", goerr.V("cause", err.Error()))
	}
	return nil
}

// Recorder keeps every submission in memory.
type Recorder struct {
	mu          sync.Mutex
	submissions []model.FormValues
}

// Submit records a copy of values.
func (r *Recorder) Submit(ctx context.Context, values model.FormValues) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, values.Clone())
	return nil
}

// Submissions returns the recorded submissions in arrival order.
func (r *Recorder) Submissions() []model.FormValues {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.FormValues, len(r.submissions))
	for i, values := range r.submissions {
		out[i] = values.Clone()
	}
	return out
}
