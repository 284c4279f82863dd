package emotion

import "emodetect/internal/domain"

// Primary picks the dominant emotion of scores using the default catalog's
// declaration order to break ties.
func Primary(scores domain.EmotionScores) (string, float64) {
	return DefaultCatalog().Primary(scores)
}

func (c *Catalog) Primary(scores domain.EmotionScores) (string, float64) {
	if len(scores) == 0 {
		return Neutral, 0.0
	}
	top, topScore, found := "", 0.0, false
	for _, k := range c.rankOrder(scores) {
		v, ok := scores[k]
		if !ok {
			continue
		}
		if !found || v > topScore {
			top, topScore, found = k, v, true
		}
	}
	return top, topScore
}

func SentimentOf(primary string) domain.Sentiment {
	switch primary {
	case Joy:
		return domain.SentimentPositive
	case Sadness, Anger, Fear, Disgust:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
