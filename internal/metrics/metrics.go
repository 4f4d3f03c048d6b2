// Package metrics holds the prometheus collectors of the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	FeedFetches      *prometheus.CounterVec
	FeedPayloadBytes *prometheus.HistogramVec
	FeedOversize     *prometheus.CounterVec
	EntriesSkipped   *prometheus.CounterVec
	ChannelPrograms  *prometheus.GaugeVec
	Cycles           *prometheus.CounterVec
	CycleDuration    prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sktv",
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by feed and result.",
		}, []string{"feed", "result"}),
		FeedPayloadBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sktv",
			Name:      "feed_payload_bytes",
			Help:      "Size of fetched feed payloads before decompression.",
			Buckets:   prometheus.ExponentialBuckets(64<<10, 4, 8),
		}, []string{"feed"}),
		FeedOversize: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sktv",
			Name:      "feed_oversize_total",
			Help:      "Fetched payloads above the soft size ceiling.",
		}, []string{"feed"}),
		EntriesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sktv",
			Name:      "entries_skipped_total",
			Help:      "Programme entries skipped during extraction by reason.",
		}, []string{"reason"}),
		ChannelPrograms: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sktv",
			Name:      "channel_programs",
			Help:      "Programs held for a channel after the last cycle.",
		}, []string{"channel"}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sktv",
			Name:      "cycles_total",
			Help:      "Update cycles by result.",
		}, []string{"result"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sktv",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of an update cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.FeedFetches,
			m.FeedPayloadBytes,
			m.FeedOversize,
			m.EntriesSkipped,
			m.ChannelPrograms,
			m.Cycles,
			m.CycleDuration,
		)
	}
	return m
}

// 登録先なし
// テストや metrics を公開しない実行で使う
func Discard() *Metrics {
	return New(nil)
}
