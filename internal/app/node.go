package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mutuals/internal/adapters/atproto"            //nolint:depguard // Wired in app layer
	"go.trai.ch/mutuals/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/mutuals/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/mutuals/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/mutuals/internal/adapters/render"             //nolint:depguard // Wired in app layer
	"go.trai.ch/mutuals/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/mutuals/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/mutuals/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			metrics.NodeID,
			telemetry.TracerNodeID,
			progrock.NodeID,
			atproto.NodeID,
			render.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			prog, err := graft.Dep[ports.Progress](ctx)
			if err != nil {
				return nil, err
			}
			services, err := graft.Dep[ports.RemoteServiceFactory](ctx)
			if err != nil {
				return nil, err
			}
			renderers, err := graft.Dep[ports.RendererFactory](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, log, m, tracer, prog, services, renderers), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}
