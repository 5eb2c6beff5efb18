// Package scoring computes the heuristic lead-quality score used by the
// enrichment pass.
package scoring

import (
	"strings"

	"github.com/xavierca1/leadsync/internal/entity"
)

const (
	contactPoints = 10
	intentPoints  = 30

	// MaxScore is reached with email, phone and a high-intent note.
	MaxScore = 2*contactPoints + intentPoints

	DefaultPromotionThreshold = 40
)

// DefaultHighIntentKeywords are matched as lowercase substrings of notes.
var DefaultHighIntentKeywords = []string{
	"hni",
	"high net worth",
	"investment",
	"portfolio",
	"jito",
	"immediate",
}

type Scorer struct {
	keywords  []string
	threshold int
}

// New builds a Scorer. An empty keyword list or a negative threshold
// falls back to the defaults.
func New(keywords []string, threshold int) *Scorer {
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultHighIntentKeywords...)
	}
	if threshold < 0 {
		threshold = DefaultPromotionThreshold
	}
	return &Scorer{keywords: cleaned, threshold: threshold}
}

func NewDefault() *Scorer {
	return New(nil, DefaultPromotionThreshold)
}

// Score is pure: the result depends only on email, phone and notes.
func (s *Scorer) Score(lead entity.Lead) int {
	score := 0
	if strings.TrimSpace(lead.Email) != "" {
		score += contactPoints
	}
	if strings.TrimSpace(lead.Phone) != "" {
		score += contactPoints
	}
	if s.HasHighIntent(lead.Notes) {
		score += intentPoints
	}
	return score
}

func (s *Scorer) HasHighIntent(notes string) bool {
	if notes == "" {
		return false
	}
	lower := strings.ToLower(notes)
	for _, k := range s.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Qualifies reports whether score is high enough for promotion to Qualified.
func (s *Scorer) Qualifies(score int) bool {
	return score >= s.threshold
}

func (s *Scorer) Threshold() int { return s.threshold }

func (s *Scorer) Keywords() []string {
	return append([]string(nil), s.keywords...)
}
