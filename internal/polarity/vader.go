package polarity

import (
	"math"

	"github.com/jonreiter/govader"
)

// Scorer wraps a VADER analyzer. The analyzer is read-only after
// construction and safe to share between requests.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the VADER compound score of text rounded to 4 places.
func (s *Scorer) Polarity(text string) float64 {
	score := s.analyzer.PolarityScores(text).Compound
	return math.Round(score*1e4) / 1e4
}
