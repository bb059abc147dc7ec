package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("geocode", "200"))
	ObserveUpstream("geocode", 200, time.Now())
	after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("geocode", "200"))
	if after-before != 1 {
		t.Errorf("expected one more request, got %f", after-before)
	}

	ObserveUpstream("geocode", 0, time.Now())
	if v := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("geocode", "error")); v < 1 {
		t.Errorf("expected error label to be counted, got %f", v)
	}

	if testutil.CollectAndCount(UpstreamRequestDuration) == 0 {
		t.Error("expected upstream duration observations")
	}
}

func TestObserveDistance(t *testing.T) {
	before := testutil.ToFloat64(DistanceQueriesTotal.WithLabelValues("132kV"))
	ObserveDistance(132)
	ObserveDistance(132)
	after := testutil.ToFloat64(DistanceQueriesTotal.WithLabelValues("132kV"))
	if after-before != 2 {
		t.Errorf("expected two more queries, got %f", after-before)
	}
}

func TestRegisterMetrics_Idempotent(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()
	if !proximityMetricsRegistered {
		t.Error("expected metrics to be registered")
	}
}
