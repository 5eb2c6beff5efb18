package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leadsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadsync_leads_ingested_total",
			Help: "Leads processed by the sync gateway, by outcome",
		},
		[]string{"outcome"},
	)

	enrichments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadsync_enrichment_total",
			Help: "Leads processed by the enrichment worker, by result",
		},
		[]string{"result"},
	)

	leadsPromoted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadsync_leads_promoted_total",
			Help: "Leads promoted from New to Qualified",
		},
	)

	dispatchDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadsync_dispatch_dropped_total",
			Help: "Enrichment batches that could not be handed off",
		},
	)
)

// Recorder writes pipeline events to the default Prometheus registry.
type Recorder struct{}

func NewRecorder() Recorder { return Recorder{} }

func (Recorder) RecordIngest(outcome string) {
	leadsIngested.WithLabelValues(outcome).Inc()
}

func (Recorder) RecordEnrichment(result string) {
	enrichments.WithLabelValues(result).Inc()
}

func (Recorder) RecordPromotion() {
	leadsPromoted.Inc()
}

func (Recorder) RecordDispatchDropped() {
	dispatchDropped.Inc()
}
