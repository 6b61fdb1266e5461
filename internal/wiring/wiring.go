// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mutuals/internal/adapters/atproto"
	_ "go.trai.ch/mutuals/internal/adapters/config"
	_ "go.trai.ch/mutuals/internal/adapters/logger"
	_ "go.trai.ch/mutuals/internal/adapters/metrics"
	_ "go.trai.ch/mutuals/internal/adapters/render"
	_ "go.trai.ch/mutuals/internal/adapters/telemetry"
	_ "go.trai.ch/mutuals/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/mutuals/internal/app"
)
