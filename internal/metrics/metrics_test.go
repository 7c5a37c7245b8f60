package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/tangem/tangem-artwork-go/pkg/artwork"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ImageResolved(artwork.StepCIDRule)
	c.ImageResolved(artwork.StepDefault)
	c.ImageResolved(artwork.StepDefault)
	c.BatchChanged()
	c.ArtworkUpdated()
	c.SubstitutionRejected()
	c.ArtworkDownloaded(nil)
	c.ArtworkDownloaded(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolved.WithLabelValues("cid-rule")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.resolved.WithLabelValues("default")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.changed))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.updated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.downloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.downloads.WithLabelValues("error")))

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.Len(t, families, 5)
}
