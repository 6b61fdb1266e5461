package domain

import "go.trai.ch/zerr"

var (
	// ErrNodeNotFound is returned when an edge references an account that is not a node of the graph.
	ErrNodeNotFound = zerr.New("node not found")

	// ErrSelfLoop is returned when attempting to connect an account to itself.
	ErrSelfLoop = zerr.New("self loop not allowed")

	// ErrEmptyAccountID is returned when an operation receives an empty account identifier.
	ErrEmptyAccountID = zerr.New("empty account identifier")

	// ErrInvalidDirection is returned when a relationship direction is neither followers nor following.
	ErrInvalidDirection = zerr.New("invalid relationship direction")

	// ErrNoHandleSpecified is returned when the crawl command is invoked without a target handle.
	ErrNoHandleSpecified = zerr.New("no handle specified")

	// ErrHandleResolutionFailed is returned when the target handle cannot be resolved to an identifier.
	ErrHandleResolutionFailed = zerr.New("failed to resolve handle")

	// ErrRelationshipFetchFailed is returned when a paginated relationship walk fails.
	ErrRelationshipFetchFailed = zerr.New("failed to fetch relationships")

	// ErrMalformedPage is returned when the remote service returns a page with invalid items.
	ErrMalformedPage = zerr.New("malformed relationship page")

	// ErrCursorLoop is returned when the remote service hands back a cursor it already returned.
	ErrCursorLoop = zerr.New("pagination cursor repeated")

	// ErrProfileFetchFailed is returned when an account profile cannot be fetched.
	ErrProfileFetchFailed = zerr.New("failed to fetch profile")

	// ErrEnrichmentIncomplete is returned when one or more mutual profiles could not be fetched.
	ErrEnrichmentIncomplete = zerr.New("node enrichment incomplete")

	// ErrEdgeDetectionIncomplete is returned when one or more following lists could not be fetched during detection.
	ErrEdgeDetectionIncomplete = zerr.New("mutual edge detection incomplete")

	// ErrServiceUnavailable is returned when the remote service is considered down.
	ErrServiceUnavailable = zerr.New("remote service unavailable")

	// ErrAuthenticationFailed is returned when the session login is rejected.
	ErrAuthenticationFailed = zerr.New("authentication failed")

	// ErrMissingCredentials is returned when no identifier or password could be obtained.
	ErrMissingCredentials = zerr.New("missing credentials")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnsupportedFormat is returned when an unknown render format is requested.
	ErrUnsupportedFormat = zerr.New("unsupported render format")

	// ErrRenderFailed is returned when writing the rendered graph fails.
	ErrRenderFailed = zerr.New("failed to render graph")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics file")

	// ErrCrawlFailed is returned when the crawl completes with surfaced failures.
	ErrCrawlFailed = zerr.New("crawl failed")
)
