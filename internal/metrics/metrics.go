package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tangem/tangem-artwork-go/pkg/artwork"
)

const namespace = "tangem_artwork"

// Collector exports cache activity as Prometheus counters.
type Collector struct {
	resolved  *prometheus.CounterVec
	changed   prometheus.Counter
	updated   prometheus.Counter
	rejected  prometheus.Counter
	downloads *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_resolved_total",
			Help:      "Artwork images resolved, by resolution step.",
		}, []string{"step"}),
		changed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_changes_total",
			Help:      "Batch catalog entries written.",
		}),
		updated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artwork_updates_total",
			Help:      "Artworks stored from downloads.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "substitutions_rejected_total",
			Help:      "Substitutions dropped because their signature did not verify.",
		}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artwork_downloads_total",
			Help:      "Artwork downloads from the verify backend, by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(c.resolved, c.changed, c.updated, c.rejected, c.downloads)
	}
	return c
}

func (c *Collector) ImageResolved(step artwork.ResolutionStep) {
	c.resolved.WithLabelValues(string(step)).Inc()
}

func (c *Collector) BatchChanged() {
	c.changed.Inc()
}

func (c *Collector) ArtworkUpdated() {
	c.updated.Inc()
}

func (c *Collector) SubstitutionRejected() {
	c.rejected.Inc()
}

func (c *Collector) ArtworkDownloaded(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.downloads.WithLabelValues(result).Inc()
}
