package match

import (
	"testing"

	"github.com/azudev4/linkodo-sub001/models"
)

func TestClassifySection(t *testing.T) {
	row := models.SimilarPage{
		Title:           "Guide du maillage interne",
		H1:              "Le netlinking expliqué",
		MetaDescription: "Audit SEO complet pour votre site.",
		ContentSnippet:  "Un extrait de contenu.",
	}

	tests := []struct {
		name    string
		anchor  string
		section string
		bonus   float64
	}{
		{"title hit", "maillage interne", SectionTitle, bonusTitle},
		{"h1 hit", "netlinking", SectionH1, bonusH1},
		{"meta hit", "audit seo", SectionMeta, bonusMeta},
		{"semantic fallback", "strategie de contenu", SectionSemantic, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section, content, bonus := classifySection(tt.anchor, row)
			if section != tt.section {
				t.Errorf("section = %q, want %q", section, tt.section)
			}
			if bonus != tt.bonus {
				t.Errorf("bonus = %v, want %v", bonus, tt.bonus)
			}
			if content == "" {
				t.Error("matched content is empty")
			}
		})
	}
}

func TestRankOptionsBonusOrdering(t *testing.T) {
	// Four pages at identical raw similarity; the match-type bonus alone
	// must decide the order: title > h1 > meta > semantic.
	rows := []models.SimilarPage{
		{ID: "semantic", Title: "Autre sujet", Similarity: 0.6, ContentSnippet: "extrait"},
		{ID: "meta", MetaDescription: "le maillage interne en detail", Similarity: 0.6},
		{ID: "title", Title: "Le maillage interne", Similarity: 0.6},
		{ID: "h1", H1: "Maillage interne pour débutants", Similarity: 0.6},
	}

	options := rankOptions("maillage interne", rows, 0.5, 10)
	if len(options) != 4 {
		t.Fatalf("got %d options, want 4", len(options))
	}

	wantOrder := []string{"title", "h1", "meta", "semantic"}
	for i, want := range wantOrder {
		if options[i].PageID != want {
			t.Errorf("position %d = %q, want %q", i, options[i].PageID, want)
		}
	}
	for i := 1; i < len(options); i++ {
		if options[i].Score >= options[i-1].Score {
			t.Errorf("scores not strictly decreasing at %d: %v then %v",
				i, options[i-1].Score, options[i].Score)
		}
	}
}

func TestRankOptionsFloor(t *testing.T) {
	rows := []models.SimilarPage{
		{ID: "above", Title: "Page", Similarity: 0.5},
		{ID: "below", Title: "Page", Similarity: 0.4},
	}

	options := rankOptions("introuvable", rows, 0.45, 10)
	if len(options) != 1 {
		t.Fatalf("got %d options, want 1", len(options))
	}
	if options[0].PageID != "above" {
		t.Errorf("kept %q, want %q", options[0].PageID, "above")
	}
}

func TestRankOptionsScoreCap(t *testing.T) {
	rows := []models.SimilarPage{
		{ID: "p", Title: "maillage", Similarity: 0.97},
	}

	options := rankOptions("maillage", rows, 0.45, 10)
	if len(options) != 1 {
		t.Fatal("expected one option")
	}
	if options[0].Score != 1.0 {
		t.Errorf("score = %v, want capped at 1.0", options[0].Score)
	}
}

func TestRankOptionsTruncation(t *testing.T) {
	rows := make([]models.SimilarPage, 8)
	for i := range rows {
		rows[i] = models.SimilarPage{ID: string(rune('a' + i)), Similarity: 0.6}
	}

	options := rankOptions("texte", rows, 0.45, 3)
	if len(options) != 3 {
		t.Errorf("got %d options, want 3", len(options))
	}
}

func TestRankOptionsEmpty(t *testing.T) {
	options := rankOptions("texte", nil, 0.45, 5)
	if len(options) != 0 {
		t.Errorf("got %d options, want 0", len(options))
	}
}
