package ports

import (
	"io"

	"go.trai.ch/mutuals/internal/core/domain"
)

// GraphRenderer writes a finished social graph for a human or another tool.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type GraphRenderer interface {
	// Render writes g to w.
	Render(w io.Writer, g *domain.SocialGraph) error
}

// RendererFactory builds the renderer selected by the render configuration.
type RendererFactory func(cfg domain.RenderConfig) (GraphRenderer, error)
