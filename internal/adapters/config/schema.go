package config

// File is the structure of mutuals.yaml. Every field is optional; unset
// fields keep their default. Durations are Go duration strings.
type File struct {
	Version string      `yaml:"version"`
	Service *ServiceDTO `yaml:"service"`
	Auth    *AuthDTO    `yaml:"auth"`
	Crawl   *CrawlDTO   `yaml:"crawl"`
	Render  *RenderDTO  `yaml:"render"`
}

// ServiceDTO is the service section.
type ServiceDTO struct {
	Host              *string     `yaml:"host"`
	Timeout           *string     `yaml:"timeout"`
	PageSize          *int        `yaml:"page_size"`
	RequestsPerSecond *float64    `yaml:"requests_per_second"`
	Burst             *int        `yaml:"burst"`
	Breaker           *BreakerDTO `yaml:"breaker"`
}

// BreakerDTO is the service.breaker section.
type BreakerDTO struct {
	MaxFailures *uint32 `yaml:"max_failures"`
	Cooldown    *string `yaml:"cooldown"`
}

// AuthDTO is the auth section.
type AuthDTO struct {
	Identifier *string `yaml:"identifier"`
	Password   *string `yaml:"password"`
}

// CrawlDTO is the crawl section.
type CrawlDTO struct {
	Workers       *int  `yaml:"workers"`
	Prefetch      *bool `yaml:"prefetch"`
	DetectWorkers *int  `yaml:"detect_workers"`
}

// RenderDTO is the render section.
type RenderDTO struct {
	Format       *string  `yaml:"format"`
	MinIntensity *float64 `yaml:"min_intensity"`
}
