package atproto

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mutuals/internal/adapters/logger"
	"go.trai.ch/mutuals/internal/adapters/metrics"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports"
)

// NodeID is the unique identifier for the remote service factory Graft node.
const NodeID graft.ID = "adapter.atproto"

func init() {
	graft.Register(graft.Node[ports.RemoteServiceFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{metrics.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.RemoteServiceFactory, error) {
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func(cfg domain.ServiceConfig) ports.RemoteService {
				return NewClient(cfg, m, log)
			}, nil
		},
	})
}
