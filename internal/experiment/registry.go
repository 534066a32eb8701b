package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/metrics"
)

// OverlapThreshold is the proposed-position energy above which a trial
// counts as a core overlap.
const OverlapThreshold = 100.0

type Registry struct {
	metrics map[string]func() mc.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() mc.Metric),
	}

	r.metrics["acceptance"] = func() mc.Metric { return metrics.NewAcceptance() }
	r.metrics["mean_delta"] = func() mc.Metric { return metrics.NewMeanDelta() }
	r.metrics["max_uphill"] = func() mc.Metric { return metrics.NewMaxUphill() }
	r.metrics["overlap"] = func() mc.Metric { return metrics.NewOverlap(OverlapThreshold) }

	return r
}

func (r *Registry) GetMetric(name string) (mc.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
