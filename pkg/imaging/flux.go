package imaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

const (
	fluxOutputFormat    = "jpeg"
	fluxSafetyTolerance = 2
	fluxKeyHeader       = "x-key"
	maxErrorBodyBytes   = 512
)

// ErrFluxNotConfigured は Flux の API キーが設定されていない場合のエラーです。
var ErrFluxNotConfigured = errors.New("flux API key is not configured")

// HTTPDoer は http.Client のうち Flux 呼び出しに必要な部分です。
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GuidanceFunc は呼び出しごとにガイダンススケールを返します。
// 管理画面の変更を次のリクエストから反映させるために関数で受け取ります。
type GuidanceFunc func(ctx context.Context) float64

type fluxRequest struct {
	Prompt          string  `json:"prompt"`
	InputImage      string  `json:"input_image,omitempty"`
	AspectRatio     string  `json:"aspect_ratio"`
	OutputFormat    string  `json:"output_format"`
	SafetyTolerance int     `json:"safety_tolerance"`
	Guidance        float64 `json:"guidance,omitempty"`
}

type fluxResponse struct {
	URL       string `json:"url"`
	ImageData string `json:"image_data"`
}

// FluxGenerator は Black Forest Labs の Flux Kontext API で画像を生成します。
type FluxGenerator struct {
	client      HTTPDoer
	endpoint    string
	apiKey      string
	aspectRatio string
	guidance    GuidanceFunc
}

// FluxOption は FluxGenerator の任意設定です。
type FluxOption func(*FluxGenerator)

// WithGuidance はリクエストごとにガイダンススケールを付与します。
func WithGuidance(fn GuidanceFunc) FluxOption {
	return func(g *FluxGenerator) { g.guidance = fn }
}

// WithAspectRatio はリクエストに指定がない場合のアスペクト比を変更します。
func WithAspectRatio(ratio string) FluxOption {
	return func(g *FluxGenerator) { g.aspectRatio = ratio }
}

// NewFluxGenerator は FluxGenerator を初期化します。
// apiKey が空でも生成はでき、Generate が ErrFluxNotConfigured を返します。
func NewFluxGenerator(client HTTPDoer, endpoint, apiKey string, opts ...FluxOption) (*FluxGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("HTTPDoer は必須です")
	}
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint は必須です")
	}
	g := &FluxGenerator{
		client:      client,
		endpoint:    endpoint,
		apiKey:      apiKey,
		aspectRatio: "1:1",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate は Flux API を呼び出し、応答の url か image_data を返します。
func (g *FluxGenerator) Generate(ctx context.Context, req imagedom.ImageGenerationRequest) (string, error) {
	if g.apiKey == "" {
		return "", ErrFluxNotConfigured
	}

	body := fluxRequest{
		Prompt:          req.Prompt,
		InputImage:      req.ReferenceURL,
		AspectRatio:     req.AspectRatio,
		OutputFormat:    fluxOutputFormat,
		SafetyTolerance: fluxSafetyTolerance,
	}
	if body.AspectRatio == "" {
		body.AspectRatio = g.aspectRatio
	}
	if g.guidance != nil {
		body.Guidance = g.guidance(ctx)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("Flux リクエストのエンコードに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("Flux リクエストの作成に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(fluxKeyHeader, g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Flux API の呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", fmt.Errorf("Flux API Error: %s: %s", resp.Status, bytes.TrimSpace(excerpt))
	}

	var out fluxResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("Flux 応答のデコードに失敗しました: %w", err)
	}

	slog.DebugContext(ctx, "Flux image generated", "duration", time.Since(start).Round(time.Millisecond))

	if out.URL != "" {
		return out.URL, nil
	}
	if out.ImageData != "" {
		return out.ImageData, nil
	}
	return "", fmt.Errorf("Flux 応答に画像が含まれていません")
}
