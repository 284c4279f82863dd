package emotion

import (
	"log/slog"
	"time"

	"emodetect/internal/domain"
)

const (
	ServiceName = "Emotion Detection API"
	Version     = "1.0.0"
	Engine      = "go-regex-v1"
)

// Detector produces emotion scores for a text.
type Detector interface {
	Detect(text string) (domain.EmotionScores, error)
}

// PolarityScorer adds a secondary compound polarity in [-1,1] to a result.
type PolarityScorer interface {
	Polarity(text string) float64
}

type AnalyzerConfig struct {
	Detector Detector
	Polarity PolarityScorer
	Now      func() time.Time
	Logger   *slog.Logger
}

type Analyzer struct {
	detector Detector
	polarity PolarityScorer
	now      func() time.Time
	logger   *slog.Logger
}

func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	a := &Analyzer{
		detector: cfg.Detector,
		polarity: cfg.Polarity,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}
	if a.detector == nil {
		a.detector = NewScorer(nil)
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Analyze scores text, selects its primary emotion and derives a sentiment.
// A detector failure is reported in the result, never returned.
func (a *Analyzer) Analyze(text string) domain.AnalysisResult {
	emotions, err := a.detector.Detect(text)
	if err != nil {
		a.logger.Error("analyze feedback failed", "error", err)
		return domain.AnalysisResult{Success: false, Error: err.Error(), Text: text}
	}

	primary, confidence := Primary(emotions)
	result := domain.AnalysisResult{
		Success:        true,
		Text:           text,
		Emotions:       emotions,
		PrimaryEmotion: primary,
		Confidence:     confidence,
		Sentiment:      SentimentOf(primary),
		AnalyzedAt:     a.now().UTC(),
	}
	if a.polarity != nil {
		result.Polarity = a.polarity.Polarity(text)
	}
	a.logger.Debug("feedback analyzed",
		"primary_emotion", result.PrimaryEmotion,
		"confidence", result.Confidence,
		"sentiment", result.Sentiment,
		"emotion_count", len(emotions),
	)
	return result
}
