package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultImageModel       = "gemini-2.5-flash-image"
	DefaultFluxEndpoint     = "https://api.bfl.ai/v1/flux-kontext-pro"
	DefaultPlaceholderImage = "https://picsum.photos/1024/1024"
	DefaultAspectRatio      = "1:1"
	DefaultBatchSize        = 3
	DefaultPageCount        = 12
	DefaultHTTPTimeout      = 2 * time.Minute
	DefaultSessionTTL       = 24 * time.Hour
	DefaultVerifyLatency    = 1500 * time.Millisecond
	DefaultPaymentLatency   = 2000 * time.Millisecond
)

// Config は Amazebook Kit の各コンポーネントを動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiAPIKey string
	GeminiModel  string
	ImageModel   string

	// --- Flux (Black Forest Labs) Settings ---
	FluxAPIKey   string
	FluxEndpoint string

	// --- Generation Settings ---
	PlaceholderImageURL string
	AspectRatio         string
	BatchSize           int           // 同時に発行する画像生成リクエストの上限
	PageCount           int           // 台本に要求するページ数
	RateInterval        time.Duration // 0 の場合は画像生成の間隔制限なし

	// --- Timeout ---
	HTTPTimeout       time.Duration
	GenerationTimeout time.Duration // 0 の場合はタイムアウトなし

	// --- Mock Services ---
	SessionTTL     time.Duration
	VerifyLatency  time.Duration
	PaymentLatency time.Duration
}

// NewConfig はデフォルト値で初期化された Config を作成し、APIキーをセットして返します。
func NewConfig(geminiAPIKey, fluxAPIKey string) Config {
	cfg := DefaultConfig()
	cfg.GeminiAPIKey = geminiAPIKey
	cfg.FluxAPIKey = fluxAPIKey
	return cfg
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:         DefaultGeminiModel,
		ImageModel:          DefaultImageModel,
		FluxEndpoint:        DefaultFluxEndpoint,
		PlaceholderImageURL: DefaultPlaceholderImage,
		AspectRatio:         DefaultAspectRatio,
		BatchSize:           DefaultBatchSize,
		PageCount:           DefaultPageCount,
		HTTPTimeout:         DefaultHTTPTimeout,
		SessionTTL:          DefaultSessionTTL,
		VerifyLatency:       DefaultVerifyLatency,
		PaymentLatency:      DefaultPaymentLatency,
	}
}
