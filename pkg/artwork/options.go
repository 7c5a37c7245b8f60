package artwork

import (
	"io/fs"

	"go.uber.org/zap"

	"github.com/tangem/tangem-artwork-go/pkg/signature"
)

type Option func(*Cache)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger.Named("artwork")
		}
	}
}

func WithVerifier(v signature.Verifier) Option {
	return func(c *Cache) {
		c.verifier = v
	}
}

func WithProfile(p Profile) Option {
	return func(c *Cache) {
		c.profile = p
	}
}

// WithResources replaces the embedded built-in artworks. Files are looked up
// as <artwork id>.png at the root of fsys.
func WithResources(fsys fs.FS) Option {
	return func(c *Cache) {
		c.resources = fsys
	}
}

func WithMetrics(m Metrics) Option {
	return func(c *Cache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// Metrics receives cache activity counters.
type Metrics interface {
	ImageResolved(step ResolutionStep)
	BatchChanged()
	ArtworkUpdated()
	SubstitutionRejected()
}

type nopMetrics struct{}

func (nopMetrics) ImageResolved(ResolutionStep) {}
func (nopMetrics) BatchChanged()                {}
func (nopMetrics) ArtworkUpdated()              {}
func (nopMetrics) SubstitutionRejected()        {}
