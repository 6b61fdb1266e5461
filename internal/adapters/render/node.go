package render

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports"
)

// NodeID is the unique identifier for the renderer factory Graft node.
const NodeID graft.ID = "adapter.render"

func init() {
	graft.Register(graft.Node[ports.RendererFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RendererFactory, error) {
			return func(cfg domain.RenderConfig) (ports.GraphRenderer, error) {
				return New(cfg)
			}, nil
		},
	})
}
