// Package metrics exposes the service's prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CrawlJobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkodo_crawl_jobs_started_total",
		Help: "Crawl jobs submitted to the crawling service.",
	})
	CrawlJobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkodo_crawl_jobs_completed_total",
		Help: "Crawl jobs that reached completed or completed_partial.",
	})
	CrawlJobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkodo_crawl_jobs_failed_total",
		Help: "Crawl jobs that reached failed.",
	})
	PagesIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkodo_pages_indexed_total",
		Help: "Pages upserted into the index.",
	})
	PagesExcluded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkodo_pages_excluded_total",
		Help: "Discovered pages rejected by the exclusion rules.",
	})
	EmbeddingsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkodo_embeddings_generated_total",
		Help: "Embedding vectors generated and stored.",
	})
	EmbeddingsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkodo_embeddings_failed_total",
		Help: "Embedding generations that failed.",
	})
	MatchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkodo_match_requests_total",
		Help: "Anchor match queries served.",
	})
	PagesIndexedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkodo_pages_indexed",
		Help: "Current number of pages in the index.",
	})
)

// Handler returns the prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
