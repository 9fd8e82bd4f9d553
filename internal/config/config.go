package config

import (
	"log/slog"
	"strings"
	"time"

	kitconfig "github.com/shouni/go-amazebook-kit/pkg/config"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultPort           = "8080"
	DefaultDBPath         = "data/amazebook.db"
	DefaultOutputDir      = "output"
	DefaultSessionSecret  = "amazebook-dev-secret"
	DefaultAllowedOrigins = "*"
)

// Config はアプリケーション全体の環境設定（APIキーやサーバー設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	FluxAPIKey       string
	FluxEndpoint     string

	Port           string
	DBPath         string
	OutputDir      string
	SessionSecret  string
	AllowedOrigins []string

	RateInterval      time.Duration
	GenerationTimeout time.Duration

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// GEMINI_API_KEY が未設定の場合は API_KEY を使うのだ。
func LoadConfig() *Config {
	geminiKey := envutil.GetEnv("GEMINI_API_KEY", "")
	if geminiKey == "" {
		geminiKey = envutil.GetEnv("API_KEY", "")
	}

	return &Config{
		GeminiAPIKey:      geminiKey,
		GeminiModel:       envutil.GetEnv("GEMINI_MODEL", kitconfig.DefaultGeminiModel),
		GeminiImageModel:  envutil.GetEnv("IMAGE_GEMINI_MODEL", kitconfig.DefaultImageModel),
		FluxAPIKey:        envutil.GetEnv("FLUX_API_KEY", ""),
		FluxEndpoint:      envutil.GetEnv("FLUX_ENDPOINT", kitconfig.DefaultFluxEndpoint),
		Port:              envutil.GetEnv("PORT", DefaultPort),
		DBPath:            envutil.GetEnv("DB_PATH", DefaultDBPath),
		OutputDir:         envutil.GetEnv("OUTPUT_DIR", DefaultOutputDir),
		SessionSecret:     envutil.GetEnv("SESSION_SECRET", DefaultSessionSecret),
		AllowedOrigins:    splitList(envutil.GetEnv("CORS_ORIGINS", DefaultAllowedOrigins)),
		RateInterval:      durationEnv("IMAGE_RATE_INTERVAL", 0),
		GenerationTimeout: durationEnv("GENERATION_TIMEOUT", 0),
	}
}

// Kit は各コンポーネント向けの設定に変換するのだ。
func (c *Config) Kit() kitconfig.Config {
	cfg := kitconfig.NewConfig(c.GeminiAPIKey, c.FluxAPIKey)
	cfg.GeminiModel = c.GeminiModel
	cfg.ImageModel = c.GeminiImageModel
	cfg.FluxEndpoint = c.FluxEndpoint
	cfg.RateInterval = c.RateInterval
	cfg.GenerationTimeout = c.GenerationTimeout
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	Names     []string // --name (複数指定可)
	Age       int      // --age
	Gender    string   // --gender
	HairColor string   // --hair
	EyeColor  string   // --eyes
	Theme     string   // --theme
	Style     string   // --style
	Prompt    string   // --prompt
	Consent   bool     // --consent
	OutputDir string   // --output-dir
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", raw)
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
