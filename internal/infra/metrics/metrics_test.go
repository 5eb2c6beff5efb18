package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/leadsync/internal/usecase"
)

var _ usecase.Recorder = Recorder{}

func TestRecorderCounters(t *testing.T) {
	r := NewRecorder()

	before := testutil.ToFloat64(leadsIngested.WithLabelValues(string(usecase.OutcomeDuplicate)))
	r.RecordIngest(string(usecase.OutcomeDuplicate))
	r.RecordIngest(string(usecase.OutcomeDuplicate))
	assert.Equal(t, before+2, testutil.ToFloat64(leadsIngested.WithLabelValues(string(usecase.OutcomeDuplicate))))

	before = testutil.ToFloat64(enrichments.WithLabelValues(usecase.EnrichmentFailed))
	r.RecordEnrichment(usecase.EnrichmentFailed)
	assert.Equal(t, before+1, testutil.ToFloat64(enrichments.WithLabelValues(usecase.EnrichmentFailed)))

	before = testutil.ToFloat64(leadsPromoted)
	r.RecordPromotion()
	assert.Equal(t, before+1, testutil.ToFloat64(leadsPromoted))

	before = testutil.ToFloat64(dispatchDropped)
	r.RecordDispatchDropped()
	assert.Equal(t, before+1, testutil.ToFloat64(dispatchDropped))
}
