package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

const (
	FormClassifierRemote = "remote"
	FormClassifierLocal  = "local"
)

type EmotionServerConfig struct {
	Env             string
	HTTPAddr        string
	SecretKey       string
	LogLevel        string
	ReadBodyMaxByte int64
	FormClassifier  string
	RemoteURL       string
	RemoteModelID   string
	RemoteTimeout   time.Duration
	DBDSN           string
	HistoryLimit    int
	ValkeyAddr      string
	ValkeyPassword  string
	ValkeyTLS       bool
	CacheTTL        time.Duration
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
}

// LoadEnvFiles loads .env.<env> and .env into the process environment
// without overriding variables that are already set. Missing files are
// skipped.
func LoadEnvFiles(dir string) []string {
	env := getenvDefault("APP_ENV", EnvDevelopment)
	var loaded []string
	for _, name := range []string{".env." + env, ".env"} {
		path := name
		if dir != "" {
			path = strings.TrimRight(dir, "/") + "/" + name
		}
		if err := gotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}

func LoadEmotionServerConfig() (EmotionServerConfig, error) {
	env := strings.ToLower(getenvDefault("APP_ENV", EnvDevelopment))
	cfg := EmotionServerConfig{
		Env:             env,
		HTTPAddr:        getenvDefault("EMOTION_HTTP_ADDR", ":5000"),
		SecretKey:       os.Getenv("SECRET_KEY"),
		LogLevel:        getenvDefault("LOG_LEVEL", defaultLogLevel(env)),
		ReadBodyMaxByte: int64(getenvIntDefault("EMOTION_MAX_BODY_BYTES", 65536)),
		FormClassifier:  strings.ToLower(getenvDefault("EMOTION_FORM_CLASSIFIER", FormClassifierRemote)),
		RemoteURL:       os.Getenv("EMOTION_REMOTE_URL"),
		RemoteModelID:   os.Getenv("EMOTION_REMOTE_MODEL_ID"),
		RemoteTimeout:   time.Duration(getenvIntDefault("EMOTION_REMOTE_TIMEOUT_SECONDS", 0)) * time.Second,
		DBDSN:           os.Getenv("DB_DSN"),
		HistoryLimit:    getenvIntDefault("HISTORY_LIMIT", 50),
		ValkeyAddr:      os.Getenv("VALKEY_ADDR"),
		ValkeyPassword:  os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:       getenvBoolDefault("VALKEY_TLS", false),
		CacheTTL:        time.Duration(getenvIntDefault("CACHE_TTL_SECONDS", 3600)) * time.Second,
		MQTTBrokerURL:   os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:    getenvDefault("MQTT_CLIENT_ID", "emotion-server"),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix: getenvDefault("MQTT_TOPIC_PREFIX", "emodetect"),
	}

	switch cfg.Env {
	case EnvDevelopment, EnvProduction, EnvTesting:
	default:
		return EmotionServerConfig{}, fmt.Errorf("APP_ENV must be one of development, production, testing: %q", cfg.Env)
	}
	if cfg.Env == EnvProduction && cfg.SecretKey == "" {
		return EmotionServerConfig{}, fmt.Errorf("SECRET_KEY is required when APP_ENV=production")
	}
	if cfg.FormClassifier != FormClassifierRemote && cfg.FormClassifier != FormClassifierLocal {
		return EmotionServerConfig{}, fmt.Errorf("EMOTION_FORM_CLASSIFIER must be remote or local: %q", cfg.FormClassifier)
	}
	if cfg.ReadBodyMaxByte <= 0 {
		return EmotionServerConfig{}, fmt.Errorf("EMOTION_MAX_BODY_BYTES must be positive")
	}
	if cfg.RemoteTimeout < 0 {
		return EmotionServerConfig{}, fmt.Errorf("EMOTION_REMOTE_TIMEOUT_SECONDS must not be negative")
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}

	return cfg, nil
}

func defaultLogLevel(env string) string {
	switch env {
	case EnvProduction:
		return "warn"
	case EnvDevelopment, EnvTesting:
		return "debug"
	default:
		return "info"
	}
}

func getenvDefault(key, val string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}

func getenvBoolDefault(key string, val bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return val
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return val
	}
	return b
}
