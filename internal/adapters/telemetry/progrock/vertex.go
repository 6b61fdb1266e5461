package progrock

import (
	"fmt"
	"sync"

	"github.com/vito/progrock"
)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
// Only the first of Complete and Cached takes effect.
type Vertex struct {
	vertex *progrock.VertexRecorder
	owner  *Recorder
	once   sync.Once
}

// Log writes msg to the vertex output.
func (v *Vertex) Log(msg string) {
	_, _ = fmt.Fprintln(v.vertex.Stdout(), msg)
}

// Complete marks the vertex as finished, failed if err is non-nil.
func (v *Vertex) Complete(err error) {
	v.once.Do(func() {
		v.vertex.Done(err)
		v.owner.finish(err, false)
	})
}

// Cached marks the vertex as served from the cache and finishes it.
func (v *Vertex) Cached() {
	v.once.Do(func() {
		v.vertex.Cached()
		v.vertex.Done(nil)
		v.owner.finish(nil, true)
	})
}
