package emotion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"emodetect/internal/domain"
)

// Verdict is the outcome of one classification. LocalVerdict and
// RemoteVerdict keep their own notion of "nothing detected".
type Verdict interface {
	Dominant() (string, bool)
	Score(emotion string) (float64, bool)
}

// EmotionClassifier is a strategy for classifying text.
type EmotionClassifier interface {
	Name() string
	Classify(ctx context.Context, text string) Verdict
}

// LocalVerdict holds sparse heuristic scores. An empty mapping has primary
// "neutral".
type LocalVerdict struct {
	Scores     domain.EmotionScores `json:"scores"`
	Primary    string               `json:"primary"`
	Confidence float64              `json:"confidence"`
}

func (v LocalVerdict) Dominant() (string, bool) {
	return v.Primary, v.Primary != ""
}

// Score reports absent emotions as zero.
func (v LocalVerdict) Score(emotion string) (float64, bool) {
	return v.Scores[emotion], true
}

// RemoteVerdict holds the five nullable scores of the remote service.
type RemoteVerdict struct {
	Result domain.RemoteResult
}

func (v RemoteVerdict) Dominant() (string, bool) {
	if v.Result.DominantEmotion == nil {
		return "", false
	}
	return *v.Result.DominantEmotion, true
}

func (v RemoteVerdict) Score(emotion string) (float64, bool) {
	var p *float64
	switch emotion {
	case Anger:
		p = v.Result.Anger
	case Disgust:
		p = v.Result.Disgust
	case Fear:
		p = v.Result.Fear
	case Joy:
		p = v.Result.Joy
	case Sadness:
		p = v.Result.Sadness
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

type LocalHeuristicClassifier struct {
	scorer *Scorer
	logger *slog.Logger
}

func NewLocalHeuristicClassifier(scorer *Scorer, logger *slog.Logger) *LocalHeuristicClassifier {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalHeuristicClassifier{scorer: scorer, logger: logger}
}

func (c *LocalHeuristicClassifier) Name() string { return "local" }

func (c *LocalHeuristicClassifier) Classify(_ context.Context, text string) Verdict {
	scores, err := c.scorer.Detect(text)
	if err != nil {
		c.logger.Error("local classification failed", "error", err)
		return LocalVerdict{Scores: domain.EmotionScores{}}
	}
	primary, confidence := c.scorer.Catalog().Primary(scores)
	return LocalVerdict{Scores: scores, Primary: primary, Confidence: confidence}
}

type RemoteServiceClassifier struct {
	client *Client
}

func NewRemoteServiceClassifier(client *Client) *RemoteServiceClassifier {
	return &RemoteServiceClassifier{client: client}
}

func (c *RemoteServiceClassifier) Name() string { return "remote" }

func (c *RemoteServiceClassifier) Classify(ctx context.Context, text string) Verdict {
	return RemoteVerdict{Result: c.client.Classify(ctx, text)}
}

// VerdictCache stores encoded verdicts.
type VerdictCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedClassifier serves repeated texts from a cache. Only verdicts that
// carry a dominant emotion are stored.
type CachedClassifier struct {
	inner  EmotionClassifier
	cache  VerdictCache
	ttl    time.Duration
	logger *slog.Logger
}

type cachedVerdict struct {
	Local  *LocalVerdict        `json:"local,omitempty"`
	Remote *domain.RemoteResult `json:"remote,omitempty"`
}

func NewCachedClassifier(inner EmotionClassifier, cache VerdictCache, ttl time.Duration, logger *slog.Logger) *CachedClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClassifier{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedClassifier) Name() string { return c.inner.Name() }

func (c *CachedClassifier) Classify(ctx context.Context, text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return c.inner.Classify(ctx, text)
	}
	key := cacheKey(c.inner.Name(), text)

	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("verdict cache get failed", "key", key, "error", err)
	}
	if ok {
		v, err := decodeVerdict(raw)
		if err == nil {
			return v
		}
		c.logger.Warn("verdict cache entry invalid", "key", key, "error", err)
	}

	v := c.inner.Classify(ctx, text)
	if _, ok := v.Dominant(); !ok {
		return v
	}
	encoded, err := encodeVerdict(v)
	if err != nil {
		c.logger.Warn("verdict encode failed", "error", err)
		return v
	}
	if err := c.cache.Set(ctx, key, encoded, c.ttl); err != nil {
		c.logger.Warn("verdict cache set failed", "key", key, "error", err)
	}
	return v
}

func cacheKey(classifier, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emotion:" + classifier + ":" + hex.EncodeToString(sum[:])
}

func encodeVerdict(v Verdict) ([]byte, error) {
	switch tv := v.(type) {
	case LocalVerdict:
		return json.Marshal(cachedVerdict{Local: &tv})
	case RemoteVerdict:
		return json.Marshal(cachedVerdict{Remote: &tv.Result})
	default:
		return nil, fmt.Errorf("unsupported verdict %T", v)
	}
}

func decodeVerdict(raw []byte) (Verdict, error) {
	var cv cachedVerdict
	if err := json.Unmarshal(raw, &cv); err != nil {
		return nil, err
	}
	switch {
	case cv.Local != nil:
		if cv.Local.Scores == nil {
			cv.Local.Scores = domain.EmotionScores{}
		}
		return *cv.Local, nil
	case cv.Remote != nil:
		return RemoteVerdict{Result: *cv.Remote}, nil
	default:
		return nil, fmt.Errorf("empty cache entry")
	}
}
