package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CapturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linejudge_captures_total",
		Help: "Total number of frame captures written, by label",
	}, []string{"label"})

	FailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linejudge_failures_total",
		Help: "Total number of user-visible failures, by kind",
	}, []string{"kind"})

	LabelCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linejudge_label_cache_hits_total",
		Help: "Label lookups answered from the in-memory cache",
	})

	LabelCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linejudge_label_cache_misses_total",
		Help: "Label lookups that had to read the label file",
	})

	FrameExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "linejudge_frame_extraction_duration_seconds",
		Help:    "Duration of single-frame ffmpeg extractions",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
)
