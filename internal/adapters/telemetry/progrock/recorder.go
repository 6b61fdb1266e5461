// Package progrock records crawl progress as progrock vertices.
package progrock

import (
	"context"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/mutuals/internal/core/ports"
)

// Summary counts the vertices recorded so far.
type Summary struct {
	Started   int
	Completed int
	Failed    int
	Cached    int
}

// Recorder implements ports.Progress on a progrock recorder.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu      sync.Mutex
	summary Summary
}

// New creates a new Recorder on an in-memory tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts a new vertex named name. Vertices are keyed by the digest of
// their name, so recording the same fetch twice refers to the same vertex.
func (r *Recorder) Record(_ context.Context, name string) ports.Vertex {
	v := r.rec.Vertex(digest.FromString(name), name)

	r.mu.Lock()
	r.summary.Started++
	r.mu.Unlock()

	return &Vertex{vertex: v, owner: r}
}

// Summary returns the current counts.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (r *Recorder) finish(err error, cached bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case cached:
		r.summary.Cached++
	case err != nil:
		r.summary.Failed++
	default:
		r.summary.Completed++
	}
}
