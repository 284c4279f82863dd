package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"emodetect/internal/domain"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

// Store keeps a history of successful feedback analyses.
type Store struct {
	pool *pgxpool.Pool
}

type SentimentCount struct {
	Sentiment domain.Sentiment `json:"sentiment"`
	Count     int64            `json:"count"`
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS feedback_analyses (
			analysis_id UUID PRIMARY KEY,
			text TEXT NOT NULL,
			emotions JSONB NOT NULL DEFAULT '{}'::jsonb,
			primary_emotion TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
			sentiment TEXT NOT NULL,
			polarity DOUBLE PRECISION NOT NULL DEFAULT 0,
			analyzed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_analyses_analyzed_at ON feedback_analyses(analyzed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_analyses_sentiment ON feedback_analyses(sentiment, analyzed_at);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// SaveAnalysis stores a successful result, assigning an ID when it has none.
func (s *Store) SaveAnalysis(ctx context.Context, result domain.AnalysisResult) (string, error) {
	if !result.Success {
		return "", fmt.Errorf("refusing to store failed analysis")
	}
	id := result.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("invalid analysis id %q: %w", id, err)
	}
	emotions := result.Emotions
	if emotions == nil {
		emotions = domain.EmotionScores{}
	}
	emotionsJSON, err := json.Marshal(emotions)
	if err != nil {
		return "", err
	}
	analyzedAt := result.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO feedback_analyses(analysis_id, text, emotions, primary_emotion, confidence, sentiment, polarity, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, result.Text, emotionsJSON, result.PrimaryEmotion, result.Confidence, string(result.Sentiment), result.Polarity, analyzedAt)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetAnalysis(ctx context.Context, id string) (domain.AnalysisResult, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT analysis_id::text, text, emotions, primary_emotion, confidence, sentiment, polarity, analyzed_at
		FROM feedback_analyses
		WHERE analysis_id=$1
	`, id)
	out, err := scanAnalysis(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AnalysisResult{}, ErrAnalysisNotFound
	}
	return out, err
}

func (s *Store) RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT analysis_id::text, text, emotions, primary_emotion, confidence, sentiment, polarity, analyzed_at
		FROM feedback_analyses
		ORDER BY analyzed_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.AnalysisResult, 0, limit)
	for rows.Next() {
		item, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SentimentBreakdown(ctx context.Context, since time.Time) ([]SentimentCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sentiment, COUNT(*)
		FROM feedback_analyses
		WHERE analyzed_at >= $1
		GROUP BY sentiment
		ORDER BY sentiment
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SentimentCount
	for rows.Next() {
		var c SentimentCount
		var sentiment string
		if err := rows.Scan(&sentiment, &c.Count); err != nil {
			return nil, err
		}
		c.Sentiment = domain.Sentiment(sentiment)
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanAnalysis(row pgx.Row) (domain.AnalysisResult, error) {
	var (
		out         domain.AnalysisResult
		emotionsRaw []byte
		sentiment   string
	)
	if err := row.Scan(&out.ID, &out.Text, &emotionsRaw, &out.PrimaryEmotion, &out.Confidence, &sentiment, &out.Polarity, &out.AnalyzedAt); err != nil {
		return domain.AnalysisResult{}, err
	}
	out.Emotions = domain.EmotionScores{}
	if len(emotionsRaw) > 0 {
		if err := json.Unmarshal(emotionsRaw, &out.Emotions); err != nil {
			return domain.AnalysisResult{}, err
		}
	}
	out.Sentiment = domain.Sentiment(sentiment)
	out.Success = true
	out.AnalyzedAt = out.AnalyzedAt.UTC()
	return out, nil
}
