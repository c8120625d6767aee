package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Observe("create", OutcomeAdmitted, 0.01)
	m.Observe("create", OutcomeAdmitted, 0.02)
	m.Observe("create", OutcomeForbidden, 0.01)

	if got := testutil.ToFloat64(m.Admissions("create", OutcomeAdmitted)); got != 2 {
		t.Errorf("expected 2 admitted, got %v", got)
	}
	if got := testutil.ToFloat64(m.Admissions("create", OutcomeForbidden)); got != 1 {
		t.Errorf("expected 1 forbidden, got %v", got)
	}
	if got := testutil.ToFloat64(m.Admissions("update", OutcomeAdmitted)); got != 0 {
		t.Errorf("expected 0 update admissions, got %v", got)
	}
}
