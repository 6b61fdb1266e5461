package render

import (
	"bytes"
	"errors"
	"io"

	"github.com/muesli/termenv"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports"
	"go.trai.ch/zerr"
)

// Option configures a renderer built by New.
type Option func(*options)

type options struct {
	profile *termenv.Profile
}

// WithProfile forces the color profile of the text renderer instead of
// detecting it from the destination writer.
func WithProfile(p termenv.Profile) Option {
	return func(o *options) {
		o.profile = &p
	}
}

// New returns the renderer for cfg.Format.
func New(cfg domain.RenderConfig, opts ...Option) (ports.GraphRenderer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch cfg.Format {
	case domain.FormatText:
		return &Text{minIntensity: cfg.MinIntensity, profile: o.profile}, nil
	case domain.FormatDOT:
		return &DOT{minIntensity: cfg.MinIntensity}, nil
	case domain.FormatJSON:
		return &JSON{minIntensity: cfg.MinIntensity}, nil
	default:
		return nil, zerr.With(domain.ErrUnsupportedFormat, "format", cfg.Format)
	}
}

// flush writes the buffered document to w in one call.
func flush(w io.Writer, buf *bytes.Buffer, format string) error {
	if _, err := buf.WriteTo(w); err != nil {
		return errors.Join(domain.ErrRenderFailed, zerr.With(zerr.Wrap(err, "write failed"), "format", format))
	}
	return nil
}
