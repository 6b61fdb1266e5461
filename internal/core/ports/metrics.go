package ports

import (
	"time"

	"go.trai.ch/mutuals/internal/core/domain"
)

// Metrics records crawl counters.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// RemoteCall records one call to the remote service and its outcome.
	RemoteCall(method string, err error)
	// CacheLookup records a relationship cache lookup.
	CacheLookup(dir domain.Direction, hit bool)
	// EdgeAdded records a new graph edge of the given kind ("root" or "mutual").
	EdgeAdded(kind string)
	// PhaseDuration records how long one traced phase took.
	PhaseDuration(phase string, d time.Duration)
	// WriteTextfile writes the collected metrics in textfile-collector format.
	WriteTextfile(path string) error
}
