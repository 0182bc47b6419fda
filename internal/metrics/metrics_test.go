package metrics

import "testing"

func TestRegisterDefaultIsIdempotent(t *testing.T) {
	RegisterDefault()
	RegisterDefault()

	CacheLookups.WithLabelValues("hit").Inc()

	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "route_cache_lookups_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			if m.GetCounter().GetValue() >= 1 {
				return
			}
		}
	}
	t.Fatal("route_cache_lookups_total not exported")
}
