package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.QuotaDecision(true)
		m.VoteApplied("cast", 1)
		m.Pruned(1, 2)
		m.LedgerBusy()
		m.LedgerWrite(time.Millisecond)
	})
}

func TestCounters(t *testing.T) {
	m := New()

	m.QuotaDecision(true)
	m.QuotaDecision(true)
	m.QuotaDecision(false)
	m.VoteApplied("cast", -2)
	m.VoteApplied("withdraw", 0)
	m.Pruned(3, 7)
	m.LedgerBusy()

	assert.InDelta(t, 2, testutil.ToFloat64(m.quotaDecisions.WithLabelValues("allowed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.quotaDecisions.WithLabelValues("denied")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.votesApplied.WithLabelValues("cast")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.votesApplied.WithLabelValues("withdraw")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.scoreDelta), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.pruneDeleted.WithLabelValues("rep_messages")), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(m.pruneDeleted.WithLabelValues("rep_votes")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ledgerBusy), 0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.QuotaDecision(false)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `foxcom_quota_decisions_total{result="denied"} 1`)
}
