package emotion

import (
	"errors"
	"testing"
	"time"

	"emodetect/internal/domain"
)

type failingDetector struct{ err error }

func (d failingDetector) Detect(string) (domain.EmotionScores, error) {
	return nil, d.err
}

type fixedPolarity float64

func (p fixedPolarity) Polarity(string) float64 { return float64(p) }

func TestAnalyzeSuccess(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	a := NewAnalyzer(AnalyzerConfig{Now: func() time.Time { return at }, Polarity: fixedPolarity(0.5)})
	text := "I am very happy with this amazing product!"
	got := a.Analyze(text)
	if !got.Success {
		t.Fatalf("success=false, error=%s", got.Error)
	}
	if got.Text != text {
		t.Fatalf("text=%q, want %q", got.Text, text)
	}
	if got.PrimaryEmotion != Joy {
		t.Fatalf("primary=%s, want joy", got.PrimaryEmotion)
	}
	if got.Sentiment != domain.SentimentPositive {
		t.Fatalf("sentiment=%s, want positive", got.Sentiment)
	}
	// happy + amazing = 0.6, very = 1.5
	if got.Confidence != 0.9 {
		t.Fatalf("confidence=%.3f, want 0.9", got.Confidence)
	}
	if got.Polarity != 0.5 {
		t.Fatalf("polarity=%.2f, want 0.5", got.Polarity)
	}
	if !got.AnalyzedAt.Equal(at) {
		t.Fatalf("analyzed_at=%s, want %s", got.AnalyzedAt, at)
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{})
	tests := []struct {
		text          string
		wantPrimary   string
		wantSentiment domain.Sentiment
	}{
		{text: "I am glad this happened", wantPrimary: Joy, wantSentiment: domain.SentimentPositive},
		{text: "I am really mad about this", wantPrimary: Anger, wantSentiment: domain.SentimentNegative},
		{text: "I feel disgusted just hearing about this", wantPrimary: Disgust, wantSentiment: domain.SentimentNegative},
		{text: "I am so sad about this", wantPrimary: Sadness, wantSentiment: domain.SentimentNegative},
		{text: "I am really afraid that this will happen", wantPrimary: Fear, wantSentiment: domain.SentimentNegative},
		{text: "The product arrived on time", wantPrimary: Neutral, wantSentiment: domain.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := a.Analyze(tt.text)
			if got.PrimaryEmotion != tt.wantPrimary {
				t.Fatalf("primary=%s, want %s (emotions=%v)", got.PrimaryEmotion, tt.wantPrimary, got.Emotions)
			}
			if got.Sentiment != tt.wantSentiment {
				t.Fatalf("sentiment=%s, want %s", got.Sentiment, tt.wantSentiment)
			}
		})
	}
}

func TestAnalyzeNoEmotionWords(t *testing.T) {
	got := NewAnalyzer(AnalyzerConfig{}).Analyze("The product arrived on time")
	if len(got.Emotions) != 0 {
		t.Fatalf("emotions=%v, want empty", got.Emotions)
	}
	if got.Confidence != 0 {
		t.Fatalf("confidence=%.3f, want 0", got.Confidence)
	}
}

func TestAnalyzeDetectorFailure(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{Detector: failingDetector{err: errors.New("Test error")}})
	got := a.Analyze("test text")
	if got.Success {
		t.Fatalf("expected failure")
	}
	if got.Error != "Test error" {
		t.Fatalf("error=%q, want %q", got.Error, "Test error")
	}
	if got.Text != "test text" {
		t.Fatalf("text=%q, want %q", got.Text, "test text")
	}
	if got.Emotions != nil || got.Sentiment != "" {
		t.Fatalf("failure payload should not carry analysis fields: %+v", got)
	}
}

func TestSentimentOf(t *testing.T) {
	tests := map[string]domain.Sentiment{
		Joy:       domain.SentimentPositive,
		Sadness:   domain.SentimentNegative,
		Anger:     domain.SentimentNegative,
		Fear:      domain.SentimentNegative,
		Disgust:   domain.SentimentNegative,
		Neutral:   domain.SentimentNeutral,
		"unknown": domain.SentimentNeutral,
	}
	for primary, want := range tests {
		if got := SentimentOf(primary); got != want {
			t.Fatalf("SentimentOf(%q)=%s, want %s", primary, got, want)
		}
	}
}
