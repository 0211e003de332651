package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GamesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bithunter_games_resolved_total",
		Help: "Game pages fetched, by outcome.",
	}, []string{"status"}) // status: ok, not_found, error

	TrophiesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bithunter_trophies_processed_total",
		Help: "Trophy images handled by the pipeline, by outcome.",
	}, []string{"status"}) // status: exported, stored, skipped, failed

	FilesExported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bithunter_files_exported_total",
		Help: "Export attempts per file type, by outcome.",
	}, []string{"type", "status"}) // status: written, unsupported, failed, alias_skipped

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bithunter_fetch_duration_seconds",
		Help:    "Duration of remote page and image fetches.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"}) // kind: game, detail, image
)

// ObserveFetch records the time since start for a fetch of the given kind.
func ObserveFetch(kind string, start time.Time) {
	FetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
