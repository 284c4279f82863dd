package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"

	"emodetect/internal/domain"
)

type HubConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// FeedbackAnalyzer analyzes one piece of feedback text.
type FeedbackAnalyzer interface {
	Analyze(text string) domain.AnalysisResult
}

// ResultRecorder is notified of every successful analysis served by the hub.
type ResultRecorder interface {
	Record(ctx context.Context, result domain.AnalysisResult) domain.AnalysisResult
}

// Hub answers analysis requests published over MQTT.
type Hub struct {
	cfg      HubConfig
	client   paho.Client
	analyzer FeedbackAnalyzer
	recorder ResultRecorder
	logger   *slog.Logger
}

func NewHub(cfg HubConfig, analyzer FeedbackAnalyzer, recorder ResultRecorder, logger *slog.Logger) *Hub {
	return &Hub{
		cfg:      cfg,
		analyzer: analyzer,
		recorder: recorder,
		logger:   logger,
	}
}

func (h *Hub) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(h.cfg.BrokerURL).
		SetClientID(h.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if h.cfg.Username != "" {
		opts.SetUsername(h.cfg.Username)
		opts.SetPassword(h.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		h.logger.Error("mqtt connection lost", "error", err)
	})
	// Resubscribe after automatic reconnects.
	opts.SetOnConnectHandler(func(c paho.Client) {
		if token := c.Subscribe(TopicAnalysisRequests(h.cfg.TopicPrefix), 1, h.handleAnalysisRequest); token.Wait() && token.Error() != nil {
			h.logger.Error("mqtt subscribe failed", "error", token.Error())
		}
	})

	h.client = paho.NewClient(opts)
	if token := h.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	go func() {
		<-ctx.Done()
		h.client.Disconnect(100)
	}()

	h.logger.Info("mqtt hub started", "broker", h.cfg.BrokerURL, "topic", TopicAnalysisRequests(h.cfg.TopicPrefix))
	return nil
}

func (h *Hub) handleAnalysisRequest(_ paho.Client, msg paho.Message) {
	topic, body, err := h.respond(context.Background(), msg.Topic(), msg.Payload())
	if err != nil {
		h.logger.Warn("skip analysis request", "topic", msg.Topic(), "error", err)
		return
	}
	if token := h.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		h.logger.Error("publish analysis result failed", "topic", topic, "error", token.Error())
	}
}

// respond builds the result topic and payload for one request message.
func (h *Hub) respond(ctx context.Context, topic string, payload []byte) (string, []byte, error) {
	requestID, err := ParseRequestID(topic, h.cfg.TopicPrefix)
	if err != nil {
		return "", nil, err
	}

	var req domain.AnalysisRequestPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		// plain-text payloads are accepted as the text itself
		req = domain.AnalysisRequestPayload{Text: string(payload)}
	}
	if req.RequestID != "" && req.RequestID != requestID {
		return "", nil, fmt.Errorf("request id mismatch: topic=%s payload=%s", requestID, req.RequestID)
	}

	var result domain.AnalysisResult
	if strings.TrimSpace(req.Text) == "" {
		result = domain.AnalysisResult{Success: false, Error: "Empty text provided", Text: req.Text}
	} else {
		result = h.analyzer.Analyze(req.Text)
		if result.Success && h.recorder != nil {
			result = h.recorder.Record(ctx, result)
		}
	}

	body, err := json.Marshal(result)
	if err != nil {
		return "", nil, err
	}
	return TopicAnalysisResult(h.cfg.TopicPrefix, requestID), body, nil
}
