package imaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"google.golang.org/genai"
)

// ErrNoImageData は応答にインライン画像が含まれていない場合のエラーです。
var ErrNoImageData = errors.New("no image data found in response")

// ContentGenerator は genai.Models のうち画像生成に利用する部分です。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiImageGenerator は Gemini の画像モデルで挿絵を生成し、data URL として返します。
type GeminiImageGenerator struct {
	generator ContentGenerator
	model     string
}

// NewGeminiImageGenerator は GeminiImageGenerator を初期化します。
func NewGeminiImageGenerator(gen ContentGenerator, model string) (*GeminiImageGenerator, error) {
	if gen == nil {
		return nil, fmt.Errorf("ContentGenerator は必須です")
	}
	if model == "" {
		return nil, fmt.Errorf("model は必須です")
	}
	return &GeminiImageGenerator{generator: gen, model: model}, nil
}

// Generate は最初のインライン画像パートを data URL に変換して返します。
func (g *GeminiImageGenerator) Generate(ctx context.Context, req imagedom.ImageGenerationRequest) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(composePrompt(req))}
	if IsDataURL(req.ReferenceURL) {
		if mimeType, data, err := DecodeDataURL(req.ReferenceURL); err == nil {
			parts = append(parts, genai.NewPartFromBytes(data, mimeType))
		}
	}

	cfg := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}
	if req.Seed != nil {
		cfg.Seed = genai.Ptr(int32(*req.Seed))
	}

	start := time.Now()
	resp, err := g.generator.GenerateContent(ctx, g.model, []*genai.Content{{Role: genai.RoleUser, Parts: parts}}, cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini 画像生成に失敗しました: %w", err)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				slog.DebugContext(ctx, "Gemini image generated",
					"model", g.model,
					"duration", time.Since(start).Round(time.Millisecond),
				)
				return EncodeDataURL(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}
	return "", ErrNoImageData
}

// composePrompt はネガティブプロンプトを本文の末尾に付与します。
func composePrompt(req imagedom.ImageGenerationRequest) string {
	prompt := strings.TrimSpace(req.Prompt)
	if neg := strings.TrimSpace(req.NegativePrompt); neg != "" {
		prompt += "\nAvoid: " + neg
	}
	return prompt
}
