package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"emodetect/internal/domain"
)

const (
	DefaultRemoteURL     = "https://sn-watson-emotion.labs.skills.network/v1/watson.runtime.nlp.v1/NlpService/EmotionPredict"
	DefaultRemoteModelID = "emotion_aggregated-workflow_lang_en_stock"

	modelIDHeader = "grpc-metadata-mm-model-id"
)

// remoteEmotions is both the output shape and the dominant tie-break order.
var remoteEmotions = []string{Anger, Disgust, Fear, Joy, Sadness}

var errRejectedInput = errors.New("emotion service rejected input")

// Doer is the transport used by Client; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	URL     string
	ModelID string
	// Timeout of zero keeps the HTTP client default.
	Timeout time.Duration
	HTTP    Doer
	Logger  *slog.Logger
}

// Client calls the remote emotion prediction service.
type Client struct {
	url     string
	modelID string
	http    Doer
	logger  *slog.Logger
}

type predictRequest struct {
	RawDocument rawDocument `json:"raw_document"`
}

type rawDocument struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Emotions []struct {
		Emotion string   `json:"emotion"`
		Score   *float64 `json:"score"`
	} `json:"emotions"`
}

func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		url:     strings.TrimSpace(cfg.URL),
		modelID: strings.TrimSpace(cfg.ModelID),
		http:    cfg.HTTP,
		logger:  cfg.Logger,
	}
	if c.url == "" {
		c.url = DefaultRemoteURL
	}
	if c.modelID == "" {
		c.modelID = DefaultRemoteModelID
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Classify never fails: blank text, a rejected input and any upstream
// failure all produce the all-null result.
func (c *Client) Classify(ctx context.Context, text string) domain.RemoteResult {
	if strings.TrimSpace(text) == "" {
		return domain.RemoteResult{}
	}
	start := time.Now()
	out, err := c.predict(ctx, text)
	if errors.Is(err, errRejectedInput) {
		c.logger.Info("emotion service rejected input", "elapsed", time.Since(start))
		return domain.RemoteResult{}
	}
	if err != nil {
		c.logger.Warn("emotion service request failed", "error", err, "elapsed", time.Since(start))
		return domain.RemoteResult{}
	}
	c.logger.Debug("emotion service request ok", "dominant_emotion", *out.DominantEmotion, "elapsed", time.Since(start))
	return out
}

func (c *Client) predict(ctx context.Context, text string) (domain.RemoteResult, error) {
	body, err := json.Marshal(predictRequest{RawDocument: rawDocument{Text: text}})
	if err != nil {
		return domain.RemoteResult{}, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.RemoteResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(modelIDHeader, c.modelID)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.RemoteResult{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RemoteResult{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusBadRequest {
		return domain.RemoteResult{}, errRejectedInput
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.RemoteResult{}, fmt.Errorf("emotion service status=%d body=%s", resp.StatusCode, preview(respBody))
	}

	var out predictResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return domain.RemoteResult{}, fmt.Errorf("decode response: %w body=%s", err, preview(respBody))
	}

	scores := make(map[string]float64, len(remoteEmotions))
	for _, item := range out.Emotions {
		if item.Score == nil {
			continue
		}
		scores[strings.ToLower(strings.TrimSpace(item.Emotion))] = *item.Score
	}
	return remoteResultFrom(scores), nil
}

func remoteResultFrom(scores map[string]float64) domain.RemoteResult {
	vals := make([]float64, len(remoteEmotions))
	dominant := remoteEmotions[0]
	for i, name := range remoteEmotions {
		vals[i] = scores[name]
		if vals[i] > scores[dominant] {
			dominant = name
		}
	}
	return domain.RemoteResult{
		Anger:           &vals[0],
		Disgust:         &vals[1],
		Fear:            &vals[2],
		Joy:             &vals[3],
		Sadness:         &vals[4],
		DominantEmotion: &dominant,
	}
}

func preview(body []byte) string {
	raw := strings.TrimSpace(string(body))
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}
