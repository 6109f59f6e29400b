// Package match ranks indexed pages against an anchor candidate using
// vector similarity plus section-based scoring bonuses.
package match

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/azudev4/linkodo-sub001/db"
	"github.com/azudev4/linkodo-sub001/embed"
	"github.com/azudev4/linkodo-sub001/metrics"
	"github.com/azudev4/linkodo-sub001/models"
)

// Matched section labels, strongest first.
const (
	SectionTitle    = "title"
	SectionH1       = "h1"
	SectionMeta     = "meta"
	SectionSemantic = "semantic"
)

// Bonuses added to the raw similarity per match type. A textual title hit
// must always outrank an H1 hit at equal similarity, and so on down.
const (
	bonusTitle = 0.10
	bonusH1    = 0.07
	bonusMeta  = 0.04
)

// Config contains matcher tuning knobs
type Config struct {
	MinSimilarity  float64       // similarity floor for returned options
	MaxOptions     int           // options returned per anchor
	ThresholdRelax float64       // how far below the floor the vector query reaches
	BatchDelay     time.Duration // pause between anchors in a batch
}

// DefaultConfig returns the production matching thresholds.
func DefaultConfig() Config {
	return Config{
		MinSimilarity:  0.45,
		MaxOptions:     5,
		ThresholdRelax: 0.1,
		BatchDelay:     100 * time.Millisecond,
	}
}

// Matcher answers link-suggestion queries against the page index
type Matcher struct {
	config Config
	db     *db.DB
	client *embed.Client
}

// New creates a matcher.
func New(config Config, database *db.DB, client *embed.Client) *Matcher {
	return &Matcher{config: config, db: database, client: client}
}

// Options overrides per-request limits; zero values fall back to config.
type Options struct {
	MaxOptions    int
	MinSimilarity float64
}

// Match embeds the anchor text and returns ranked candidate pages above
// the similarity floor.
func (m *Matcher) Match(ctx context.Context, anchorText string, opts Options) ([]models.MatchOption, error) {
	metrics.MatchRequests.Inc()

	maxOptions := opts.MaxOptions
	if maxOptions <= 0 {
		maxOptions = m.config.MaxOptions
	}
	minSimilarity := opts.MinSimilarity
	if minSimilarity <= 0 {
		minSimilarity = m.config.MinSimilarity
	}

	vector, err := m.client.GenerateEmbedding(ctx, anchorText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed anchor text: %w", err)
	}

	// Query below the floor and over-fetch: section bonuses can promote
	// rows that sit just under it.
	relaxed := minSimilarity - m.config.ThresholdRelax
	if relaxed < 0 {
		relaxed = 0
	}
	rows, err := m.db.SearchSimilarPages(vector, relaxed, maxOptions*3)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	return rankOptions(anchorText, rows, minSimilarity, maxOptions), nil
}

// MatchBatch matches several anchors sequentially with a pause between
// them to respect the embedding API rate limits. Per-anchor failures
// yield an empty option list, not a batch failure.
func (m *Matcher) MatchBatch(ctx context.Context, anchors []string, opts Options) ([][]models.MatchOption, error) {
	results := make([][]models.MatchOption, len(anchors))
	for i, anchorText := range anchors {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(m.config.BatchDelay):
			}
		}

		options, err := m.Match(ctx, anchorText, opts)
		if err != nil {
			results[i] = []models.MatchOption{}
			continue
		}
		results[i] = options
	}
	return results, nil
}

// rankOptions applies the similarity floor, labels the matched section
// and adds the match-type bonus, then sorts and truncates.
func rankOptions(anchorText string, rows []models.SimilarPage, minSimilarity float64, maxOptions int) []models.MatchOption {
	options := make([]models.MatchOption, 0, len(rows))
	for _, row := range rows {
		if row.Similarity < minSimilarity {
			continue
		}

		section, content, bonus := classifySection(anchorText, row)
		score := row.Similarity + bonus
		if score > 1.0 {
			score = 1.0
		}

		options = append(options, models.MatchOption{
			PageID:         row.ID,
			Title:          row.Title,
			URL:            row.URL,
			MatchedSection: section,
			MatchedContent: content,
			Score:          score,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})
	if len(options) > maxOptions {
		options = options[:maxOptions]
	}
	return options
}

// classifySection finds which field textually contains the anchor,
// checked in bonus order. Pages matched on similarity alone are labelled
// semantic.
func classifySection(anchorText string, row models.SimilarPage) (string, string, float64) {
	switch {
	case foldContains(row.Title, anchorText):
		return SectionTitle, row.Title, bonusTitle
	case foldContains(row.H1, anchorText):
		return SectionH1, row.H1, bonusH1
	case foldContains(row.MetaDescription, anchorText):
		return SectionMeta, row.MetaDescription, bonusMeta
	default:
		return SectionSemantic, row.ContentSnippet, 0
	}
}
