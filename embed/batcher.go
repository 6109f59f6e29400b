package embed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/azudev4/linkodo-sub001/db"
	"github.com/azudev4/linkodo-sub001/metrics"
	"github.com/azudev4/linkodo-sub001/models"
)

// BatchConfig contains embedding batch tuning knobs
type BatchConfig struct {
	BatchSize   int           // pages fetched per cursor step
	Concurrency int           // concurrent embedding calls per batch
	BatchDelay  time.Duration // pause between batches
	Dimensions  int           // embedding model dimensionality
}

// DefaultBatchConfig returns the production batch discipline.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize:   50,
		Concurrency: 8,
		BatchDelay:  500 * time.Millisecond,
		Dimensions:  1536,
	}
}

// Batcher embeds every page that still lacks an embedding
type Batcher struct {
	config BatchConfig
	db     *db.DB
	client *Client
}

// NewBatcher creates an embedding batcher.
func NewBatcher(config BatchConfig, database *db.DB, client *Client) *Batcher {
	return &Batcher{config: config, db: database, client: client}
}

// Run scans pages needing embeddings with a cursor ordered by id and
// embeds them with bounded fan-out. Pages with no embeddable text get the
// sentinel vector so they are never re-selected. Per-page failures are
// logged and counted, never fatal. The run ends when a fetch returns no
// rows.
func (b *Batcher) Run(ctx context.Context) (models.EmbeddingStats, error) {
	var stats models.EmbeddingStats
	var mu sync.Mutex
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		pages, err := b.db.PagesNeedingEmbedding(cursor, b.config.BatchSize)
		if err != nil {
			return stats, err
		}
		if len(pages) == 0 {
			return stats, nil
		}
		cursor = pages[len(pages)-1].ID
		stats.Scanned += len(pages)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.config.Concurrency)

		for _, page := range pages {
			page := page
			g.Go(func() error {
				text := BuildEmbeddingText(page)

				if text == "" {
					if err := b.db.SetPageEmbedding(page.ID, SentinelEmbedding(b.config.Dimensions)); err != nil {
						slog.Default().Error("failed to stamp sentinel embedding", "page_id", page.ID, "error", err)
						mu.Lock()
						stats.Failed++
						mu.Unlock()
						return nil
					}
					mu.Lock()
					stats.Sentinels++
					mu.Unlock()
					return nil
				}

				vector, err := b.client.GenerateEmbedding(gctx, text)
				if err != nil {
					slog.Default().Error("failed to generate embedding", "page_id", page.ID, "url", page.URL, "error", err)
					metrics.EmbeddingsFailed.Inc()
					mu.Lock()
					stats.Failed++
					mu.Unlock()
					return nil
				}

				if err := b.db.SetPageEmbedding(page.ID, vector); err != nil {
					slog.Default().Error("failed to store embedding", "page_id", page.ID, "error", err)
					mu.Lock()
					stats.Failed++
					mu.Unlock()
					return nil
				}

				metrics.EmbeddingsGenerated.Inc()
				mu.Lock()
				stats.Embedded++
				mu.Unlock()
				return nil
			})
		}

		// Workers swallow their own errors; Wait only observes context
		// cancellation.
		if err := g.Wait(); err != nil {
			return stats, err
		}

		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-time.After(b.config.BatchDelay):
		}
	}
}
