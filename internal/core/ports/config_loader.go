package ports

import "go.trai.ch/mutuals/internal/core/domain"

// ConfigLoader defines the interface for loading the crawler configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration at path. An empty path loads defaults plus
	// environment overrides, and so does a missing default file.
	Load(path string) (*domain.Config, error)
}
