package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mutuals/internal/adapters/metrics"
	"go.trai.ch/mutuals/internal/core/ports"
)

// TracerNodeID is the unique identifier for the tracer Graft node.
const TracerNodeID graft.ID = "adapter.tracer"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{metrics.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTracerWithProvider(NewProvider(m), "mutuals"), nil
		},
	})
}
