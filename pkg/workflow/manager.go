package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shouni/go-amazebook-kit/pkg/auth"
	"github.com/shouni/go-amazebook-kit/pkg/config"
	"github.com/shouni/go-amazebook-kit/pkg/generator"
	"github.com/shouni/go-amazebook-kit/pkg/imaging"
	"github.com/shouni/go-amazebook-kit/pkg/payment"
	"github.com/shouni/go-amazebook-kit/pkg/prompts"
	"github.com/shouni/go-amazebook-kit/pkg/publisher"
	"github.com/shouni/go-amazebook-kit/pkg/settings"
	"github.com/shouni/go-amazebook-kit/pkg/story"

	"google.golang.org/genai"
)

// ContentGenerator は Gemini の generateContent 呼び出しです。*genai.Models が満たします。
type ContentGenerator interface {
	story.ContentGenerator
}

// ManagerArgs は Manager の依存関係です。
type ManagerArgs struct {
	Config        config.Config
	SessionSecret string
	HTTPClient    *http.Client
	Settings      *settings.Service
	Projects      generator.ProjectRepository
	Writer        publisher.OutputWriter
	// AIClient が nil で GeminiAPIKey が設定されている場合は genai クライアントを作成します。
	AIClient ContentGenerator
}

// Manager は、絵本生成に関わるサービス群を構築・保持します。
type Manager struct {
	cfg       config.Config
	generator *generator.BookGenerator
	publisher *publisher.BookPublisher
	auth      *auth.Service
	payments  *payment.Processor
}

// New は、設定を基に生成器、書き出し、認証、決済の各サービスを初期化します。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	if args.Settings == nil {
		return nil, fmt.Errorf("Settings は必須です")
	}
	if args.Projects == nil {
		return nil, fmt.Errorf("Projects は必須です")
	}
	if args.Writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}
	httpClient := args.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: args.Config.HTTPTimeout}
	}

	aiClient, err := initializeAIClient(ctx, args.AIClient, args.Config.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	writer, err := initializeStoryWriter(aiClient, args.Config.GeminiModel)
	if err != nil {
		return nil, err
	}

	images, err := initializeImageGenerator(args.Config, httpClient, aiClient, args.Settings)
	if err != nil {
		return nil, fmt.Errorf("画像生成エンジンの初期化に失敗しました: %w", err)
	}

	gen, err := generator.New(generator.Args{
		Config:   args.Config,
		Writer:   writer,
		Images:   images,
		Settings: args.Settings,
		Projects: args.Projects,
	})
	if err != nil {
		return nil, fmt.Errorf("BookGenerator の初期化に失敗しました: %w", err)
	}

	pub, err := publisher.NewBookPublisher(args.Writer, httpClient)
	if err != nil {
		return nil, fmt.Errorf("BookPublisher の初期化に失敗しました: %w", err)
	}

	authSvc, err := auth.NewService(args.SessionSecret, args.Config.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("認証サービスの初期化に失敗しました: %w", err)
	}

	return &Manager{
		cfg:       args.Config,
		generator: gen,
		publisher: pub,
		auth:      authSvc,
		payments:  payment.NewProcessor(args.Config.VerifyLatency, args.Config.PaymentLatency),
	}, nil
}

// Generator は絵本生成のオーケストレーターを返します。
func (m *Manager) Generator() Generator { return m.generator }

// Publisher は絵本の書き出しを返します。
func (m *Manager) Publisher() Publisher { return m.publisher }

// Auth は認証サービスを返します。
func (m *Manager) Auth() *auth.Service { return m.auth }

// Payments はモック決済を返します。
func (m *Manager) Payments() *payment.Processor { return m.payments }

// initializeAIClient は gemini クライアントを初期化します。
// 既存のクライアントが渡された場合はそれを返し、APIキーがない場合は nil を返します。
func initializeAIClient(ctx context.Context, client ContentGenerator, apiKey string) (ContentGenerator, error) {
	if client != nil {
		return client, nil
	}
	if apiKey == "" {
		slog.WarnContext(ctx, "GEMINI_API_KEY is not set; using the mock story writer")
		return nil, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return c.Models, nil
}

// initializeStoryWriter は Gemini の文章生成器を作成します。クライアントがなければモックを返します。
func initializeStoryWriter(client ContentGenerator, model string) (story.Writer, error) {
	if client == nil {
		return story.NewMockWriter(), nil
	}
	w, err := story.NewGeminiWriter(client, model, prompts.NewTextPromptBuilder())
	if err != nil {
		return nil, fmt.Errorf("GeminiWriter の初期化に失敗しました: %w", err)
	}
	return w, nil
}

// initializeImageGenerator は Flux、Gemini、プレースホルダーの順に切り替わる画像生成器を組み立てます。
func initializeImageGenerator(cfg config.Config, httpClient *http.Client, client ContentGenerator, s *settings.Service) (imaging.Generator, error) {
	placeholder := imaging.NewPlaceholderGenerator(cfg.PlaceholderImageURL)

	var chain imaging.Generator = placeholder
	if client != nil {
		gemini, err := imaging.NewGeminiImageGenerator(client, cfg.ImageModel)
		if err != nil {
			return nil, err
		}
		chain = imaging.NewFallbackGenerator("gemini", gemini, placeholder)
	}

	if cfg.FluxAPIKey != "" {
		flux, err := imaging.NewFluxGenerator(httpClient, cfg.FluxEndpoint, cfg.FluxAPIKey,
			imaging.WithAspectRatio(cfg.AspectRatio),
			imaging.WithGuidance(guidanceFrom(s)),
		)
		if err != nil {
			return nil, err
		}
		chain = imaging.NewFallbackGenerator("flux", flux, chain)
	}

	return imaging.NewRateLimited(chain, cfg.RateInterval), nil
}

// guidanceFrom はリクエストのたびに管理画面のガイダンススケールを読み出します。
func guidanceFrom(s *settings.Service) imaging.GuidanceFunc {
	return func(ctx context.Context) float64 {
		v, err := s.Number(ctx, settings.KeyFluxGuidance)
		if err != nil {
			slog.WarnContext(ctx, "Failed to read flux guidance; omitting it from the request", "error", err)
			return 0
		}
		return v
	}
}
