package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	pipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of filter/sort pipeline runs",
		},
		[]string{"collection", "mode"}, // mode: "browse" / "search"
	)

	pipelineVisibleItems = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_visible_items",
			Help:      "Number of visible items per pipeline run",
			Buckets:   []float64{0, 1, 3, 6, 12, 25, 50, 100, 250},
		},
		[]string{"collection"},
	)

	catalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Catalog collection reloads",
		},
		[]string{"collection", "status"},
	)

	catalogItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_items",
			Help:      "Items currently loaded per collection",
		},
		[]string{"collection"},
	)
)

// ObservePipelineRun records one pipeline invocation.
func ObservePipelineRun(collection string, search bool, visible int) {
	if collection == "" {
		collection = "adhoc"
	}
	mode := "browse"
	if search {
		mode = "search"
	}
	pipelineRunsTotal.WithLabelValues(collection, mode).Inc()
	pipelineVisibleItems.WithLabelValues(collection).Observe(float64(visible))
}

// ObserveReload records a catalog reload attempt and, on success, the new item count.
func ObserveReload(collection string, items int, err error) {
	if err != nil {
		catalogReloadsTotal.WithLabelValues(collection, "error").Inc()
		return
	}
	catalogReloadsTotal.WithLabelValues(collection, "ok").Inc()
	catalogItems.WithLabelValues(collection).Set(float64(items))
}
