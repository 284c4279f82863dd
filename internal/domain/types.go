package domain

import (
	"encoding/json"
	"time"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// EmotionScores maps an emotion name to a score in [0,1].
type EmotionScores map[string]float64

type AnalyzeRequest struct {
	Text *string `json:"text"`
}

type AnalysisResult struct {
	ID             string        `json:"id,omitempty"`
	Success        bool          `json:"success"`
	Text           string        `json:"text"`
	Emotions       EmotionScores `json:"emotions"`
	PrimaryEmotion string        `json:"primary_emotion"`
	Confidence     float64       `json:"confidence"`
	Sentiment      Sentiment     `json:"sentiment"`
	Polarity       float64       `json:"polarity"`
	AnalyzedAt     time.Time     `json:"analysis_timestamp"`
	Error          string        `json:"error,omitempty"`
}

type analysisFailure struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Text    string `json:"text"`
}

// MarshalJSON keeps failed analyses down to success/error/text.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(analysisFailure{ID: r.ID, Success: false, Error: r.Error, Text: r.Text})
	}
	type plain AnalysisResult
	out := plain(r)
	if out.Emotions == nil {
		out.Emotions = EmotionScores{}
	}
	return json.Marshal(out)
}

// RemoteResult is the fixed five-key shape produced by the remote classifier.
// All fields are nil when no analysis was performed.
type RemoteResult struct {
	Anger           *float64 `json:"anger"`
	Disgust         *float64 `json:"disgust"`
	Fear            *float64 `json:"fear"`
	Joy             *float64 `json:"joy"`
	Sadness         *float64 `json:"sadness"`
	DominantEmotion *string  `json:"dominant_emotion"`
}

// MQTT payloads

type AnalysisRequestPayload struct {
	RequestID string `json:"request_id,omitempty"`
	Text      string `json:"text"`
}
