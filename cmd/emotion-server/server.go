package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"emodetect/internal/db"
	"emodetect/internal/domain"
	"emodetect/internal/emotion"
)

const invalidTextMessage = "Invalid text! Please try again!"

var errHistoryDisabled = errors.New("analysis history is not enabled")

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// historyStore is the subset of db.Store used by the HTTP layer.
type historyStore interface {
	SaveAnalysis(ctx context.Context, result domain.AnalysisResult) (string, error)
	GetAnalysis(ctx context.Context, id string) (domain.AnalysisResult, error)
	RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisResult, error)
	SentimentBreakdown(ctx context.Context, since time.Time) ([]db.SentimentCount, error)
}

type serverConfig struct {
	ReadBodyMaxByte int64
	HistoryLimit    int
}

type server struct {
	cfg      serverConfig
	analyzer *emotion.Analyzer
	form     emotion.EmotionClassifier
	history  historyStore
	logger   *slog.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Post("/emotionDetector", s.handleEmotionDetector)
	r.With(s.recoverJSON).Post("/analyze", s.handleAnalyze)
	r.Get("/health", s.handleHealth)
	r.Get("/v1/emotion/catalog", s.handleCatalog)
	r.Route("/v1/analyses", func(r chi.Router) {
		r.Get("/", s.handleRecentAnalyses)
		r.Get("/sentiment", s.handleSentimentBreakdown)
		r.Get("/{analysisID}", s.handleGetAnalysis)
	})
	return r
}

func (s *server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, map[string]any{
		"AppName":        "AI Emotion Detection",
		"Version":        emotion.Version,
		"FormClassifier": s.form.Name(),
	})
	if err != nil {
		s.logger.Error("render index failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleEmotionDetector(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, s.cfg.ReadBodyMaxByte)
	text := ""
	if err := req.ParseForm(); err != nil {
		s.logger.Warn("parse form failed", "error", err)
	} else {
		text = req.PostFormValue("textToAnalyze")
	}
	if strings.TrimSpace(text) == "" {
		writeText(w, invalidTextMessage)
		return
	}

	verdict := s.form.Classify(req.Context(), text)
	if _, ok := verdict.Dominant(); !ok {
		writeText(w, invalidTextMessage)
		return
	}
	writeText(w, formatVerdict(verdict))
}

func (s *server) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	var in domain.AnalyzeRequest
	if err := decodeJSONBody(req, s.cfg.ReadBodyMaxByte, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}
	if in.Text == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "No text provided"})
		return
	}
	text := strings.TrimSpace(*in.Text)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Empty text provided"})
		return
	}

	start := time.Now()
	result := s.analyzer.Analyze(text)
	if !result.Success {
		writeJSON(w, http.StatusInternalServerError, result)
		return
	}
	result = s.Record(req.Context(), result)
	s.logger.Info("feedback analyzed",
		"analysis_id", result.ID,
		"primary_emotion", result.PrimaryEmotion,
		"sentiment", result.Sentiment,
		"elapsed", time.Since(start),
	)
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": emotion.ServiceName,
		"version": emotion.Version,
	})
}

func (s *server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	c := emotion.DefaultCatalog()
	patterns := make(map[string][]string)
	for _, emo := range c.Emotions() {
		patterns[emo] = c.Patterns(emo)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"engine":    emotion.Engine,
		"emotions":  c.Emotions(),
		"patterns":  patterns,
		"modifiers": c.Modifiers(),
	})
}

func (s *server) handleRecentAnalyses(w http.ResponseWriter, req *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": errHistoryDisabled.Error()})
		return
	}
	limit := s.cfg.HistoryLimit
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, s.cfg.HistoryLimit)
	}
	items, err := s.history.RecentAnalyses(req.Context(), limit)
	if err != nil {
		s.logger.Error("list analyses failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": items})
}

func (s *server) handleGetAnalysis(w http.ResponseWriter, req *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": errHistoryDisabled.Error()})
		return
	}
	id := chi.URLParam(req, "analysisID")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid analysis id"})
		return
	}
	item, err := s.history.GetAnalysis(req.Context(), id)
	if errors.Is(err, db.ErrAnalysisNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("get analysis failed", "analysis_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *server) handleSentimentBreakdown(w http.ResponseWriter, req *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": errHistoryDisabled.Error()})
		return
	}
	hours := 24
	if raw := req.URL.Query().Get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "hours must be a positive integer"})
			return
		}
		hours = n
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	counts, err := s.history.SentimentBreakdown(req.Context(), since)
	if err != nil {
		s.logger.Error("sentiment breakdown failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"since": since, "counts": counts})
}

// Record assigns an analysis ID and stores the result when history is enabled.
// Storage failures are logged and do not affect the returned result.
func (s *server) Record(ctx context.Context, result domain.AnalysisResult) domain.AnalysisResult {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if s.history == nil {
		return result
	}
	if _, err := s.history.SaveAnalysis(ctx, result); err != nil {
		s.logger.Warn("store analysis failed", "analysis_id", result.ID, "error", err)
	}
	return result
}

func (s *server) recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("analyze handler panic", "panic", rec)
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"error":   fmt.Sprintf("Internal server error: %v", rec),
				})
			}
		}()
		next.ServeHTTP(w, req)
	})
}

func formatVerdict(v emotion.Verdict) string {
	score := func(name string) string {
		s, _ := v.Score(name)
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	dominant, _ := v.Dominant()
	return fmt.Sprintf(
		"For the given statement, the system response is 'anger': %s, 'disgust': %s, 'fear': %s, 'joy': %s and 'sadness': %s. The dominant emotion is %s.",
		score(emotion.Anger), score(emotion.Disgust), score(emotion.Fear), score(emotion.Joy), score(emotion.Sadness), dominant,
	)
}

func decodeJSONBody(req *http.Request, maxBytes int64, out any) error {
	defer req.Body.Close()
	data, err := io.ReadAll(io.LimitReader(req.Body, maxBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return fmt.Errorf("request body too large")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return fmt.Errorf("invalid json: multiple JSON values")
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}
