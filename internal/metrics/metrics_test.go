package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFlow(t *testing.T) {
	before := testutil.ToFloat64(FlowTotal.WithLabelValues("test_flow", OutcomeError))
	ObserveFlow("test_flow", errors.New("boom"))
	ObserveFlow("test_flow", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(FlowTotal.WithLabelValues("test_flow", OutcomeError)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(FlowTotal.WithLabelValues("test_flow", OutcomeOK)), 1.0)
}

func TestSetDivergence(t *testing.T) {
	SetDivergence(2, 3)
	assert.Equal(t, 2.0, testutil.ToFloat64(ReconcileDivergence.WithLabelValues("store")))
	assert.Equal(t, 3.0, testutil.ToFloat64(ReconcileDivergence.WithLabelValues("chain")))
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	assert.NotPanics(t, func() { Register(reg) })
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/api/test", "GET", "404"))
	ObserveHTTP("/api/test", "GET", 404, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/api/test", "GET", "404")))
}
