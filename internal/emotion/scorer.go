package emotion

import (
	"errors"
	"math"
	"strings"

	"emodetect/internal/domain"
)

var errNoCatalog = errors.New("scorer has no catalog")

// Scorer applies a Catalog to free-form text.
type Scorer struct {
	catalog *Catalog
}

func NewScorer(catalog *Catalog) *Scorer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Scorer{catalog: catalog}
}

func (s *Scorer) Catalog() *Catalog {
	return s.catalog
}

// Detect returns the strictly positive emotion scores of text. Blank text
// yields an empty mapping.
func (s *Scorer) Detect(text string) (domain.EmotionScores, error) {
	if s == nil || s.catalog == nil {
		return nil, errNoCatalog
	}
	scores := domain.EmotionScores{}
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return scores, nil
	}

	multiplier := s.catalog.intensity(t)
	for _, emo := range s.catalog.emotions {
		raw := 0.0
		for _, re := range s.catalog.patterns[emo] {
			if n := len(re.FindAllStringIndex(t, -1)); n > 0 {
				raw += float64(n) * baseMatchScore
			}
		}
		if raw <= 0 {
			continue
		}
		if v := round(math.Min(raw*multiplier, scoreCeiling), 3); v > 0 {
			scores[emo] = v
		}
	}
	return scores, nil
}

// DetectPtr treats a nil text as absent input.
func (s *Scorer) DetectPtr(text *string) (domain.EmotionScores, error) {
	if text == nil {
		if s == nil || s.catalog == nil {
			return nil, errNoCatalog
		}
		return domain.EmotionScores{}, nil
	}
	return s.Detect(*text)
}

func round(v float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}
