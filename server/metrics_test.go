package server

import (
	"testing"

	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_SessionMonitor(t *testing.T) {
	m := NewMetrics()

	m.Issued("a")
	m.Dropped("a")
	m.Dropped("ab")
	m.Discarded("a")
	m.Rendered("ab", session.OpenWithResults, 3)
	m.Rendered("x", session.OpenNoResults, 0)
	m.Rendered("y", session.OpenNoResults, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesIssued))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InputsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResponsesDiscarded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResponsesRendered.WithLabelValues("open")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ResponsesRendered.WithLabelValues("no-results")))
}

func TestMetrics_SearchMonitor(t *testing.T) {
	m := NewMetrics()

	m.Start("install", 0, 15)
	m.AfterPageScan(40)
	m.TitleHit(&core.Page{})
	m.BodyHit(&core.Page{})
	m.BodyHit(&core.Page{})
	m.Finish(&core.ResultSet{Count: 3})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.PagesScannedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchHitsTotal.WithLabelValues("title")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchHitsTotal.WithLabelValues("body")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SearchResultsTotal))
}

func TestMetrics_Independent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.Issued("x")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.QueriesIssued))
}
