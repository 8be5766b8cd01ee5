package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second Register: %v", err)
	}
}

func TestObserveMutation(t *testing.T) {
	before := testutil.ToFloat64(overlayMutationsTotal.WithLabelValues("remove", OutcomeNotFound))
	ObserveMutation("remove", OutcomeNotFound)
	after := testutil.ToFloat64(overlayMutationsTotal.WithLabelValues("remove", OutcomeNotFound))
	if after-before != 1 {
		t.Fatalf("counter delta = %v, want 1", after-before)
	}
}

func TestObserveStore_ClampsNegative(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ObserveStore("list", -time.Second)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != "tp_updater_store_seconds" {
			continue
		}
		for _, m := range fam.GetMetric() {
			if m.GetHistogram().GetSampleSum() < 0 {
				t.Fatalf("negative sample sum recorded: %v", m.GetHistogram().GetSampleSum())
			}
		}
		return
	}
	t.Fatal("tp_updater_store_seconds not gathered")
}
