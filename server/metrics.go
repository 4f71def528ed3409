package server

import (
	"net/http"

	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/search"
	"github.com/poiesic/booksearch/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics of the search server. It observes
// both search sessions and the search service.
type Metrics struct {
	registry *prometheus.Registry

	// Session metrics
	QueriesIssued      prometheus.Counter
	InputsDropped      prometheus.Counter
	ResponsesDiscarded prometheus.Counter
	ResponsesRendered  *prometheus.CounterVec
	ActiveSessions     prometheus.Gauge

	// Search service metrics
	SearchQueriesTotal prometheus.Counter
	SearchResultsTotal prometheus.Counter
	PagesScannedTotal  prometheus.Counter
	SearchHitsTotal    *prometheus.CounterVec
}

var (
	_ session.Monitor      = (*Metrics)(nil)
	_ search.SearchMonitor = (*Metrics)(nil)
)

// NewMetrics creates the metrics on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{registry: registry}

	m.QueriesIssued = factory.NewCounter(prometheus.CounterOpts{
		Name: "booksearch_session_queries_issued_total",
		Help: "Total number of queries sent by search sessions",
	})
	m.InputsDropped = factory.NewCounter(prometheus.CounterOpts{
		Name: "booksearch_session_inputs_dropped_total",
		Help: "Total number of input events swallowed by the query throttle",
	})
	m.ResponsesDiscarded = factory.NewCounter(prometheus.CounterOpts{
		Name: "booksearch_session_responses_discarded_total",
		Help: "Total number of responses discarded because their query was superseded",
	})
	m.ResponsesRendered = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "booksearch_session_responses_rendered_total",
		Help: "Total number of responses rendered, by resulting panel state",
	}, []string{"state"})
	m.ActiveSessions = factory.NewGauge(prometheus.GaugeOpts{
		Name: "booksearch_sessions_active",
		Help: "Number of open search sessions",
	})

	m.SearchQueriesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "booksearch_search_queries_total",
		Help: "Total number of queries answered by the search service",
	})
	m.SearchResultsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "booksearch_search_results_total",
		Help: "Total number of matches found by the search service",
	})
	m.PagesScannedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "booksearch_search_pages_scanned_total",
		Help: "Total number of pages scanned while answering queries",
	})
	m.SearchHitsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "booksearch_search_hits_total",
		Help: "Total number of matching pages, by the field that matched",
	}, []string{"field"})

	return m
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Issued(_ string)    { m.QueriesIssued.Inc() }
func (m *Metrics) Dropped(_ string)   { m.InputsDropped.Inc() }
func (m *Metrics) Discarded(_ string) { m.ResponsesDiscarded.Inc() }

func (m *Metrics) Rendered(_ string, state session.State, _ int) {
	m.ResponsesRendered.WithLabelValues(state.String()).Inc()
}

func (m *Metrics) Start(_ string, _, _ int) { m.SearchQueriesTotal.Inc() }

func (m *Metrics) AfterPageScan(scanned int) { m.PagesScannedTotal.Add(float64(scanned)) }

func (m *Metrics) TitleHit(_ *core.Page) { m.SearchHitsTotal.WithLabelValues("title").Inc() }

func (m *Metrics) BodyHit(_ *core.Page) { m.SearchHitsTotal.WithLabelValues("body").Inc() }

func (m *Metrics) Finish(set *core.ResultSet) { m.SearchResultsTotal.Add(float64(set.Count)) }
