package story

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/prompts"

	"google.golang.org/genai"
)

// ContentGenerator は genai.Models のうち本パッケージが利用する部分です。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var harmCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

var outlineSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":                 {Type: genai.TypeString, Description: "The book title."},
		"outline":               {Type: genai.TypeString, Description: "Numbered page-by-page plot beats."},
		"coverImageDescription": {Type: genai.TypeString, Description: "Visual description of the Front Cover including the characters' physical appearance."},
	},
	Required: []string{"title", "outline", "coverImageDescription"},
}

var storySchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"pageNumber":  {Type: genai.TypeInteger},
			"text":        {Type: genai.TypeString, Description: "The story text for this page. 3-4 sentences."},
			"imagePrompt": {Type: genai.TypeString, Description: "A detailed visual description for an AI image generator. MUST include physical descriptions of characters."},
		},
		Required: []string{"pageNumber", "text", "imagePrompt"},
	},
}

// GeminiWriter は Gemini の構造化出力を用いてアウトラインと台本を生成します。
type GeminiWriter struct {
	generator     ContentGenerator
	model         string
	promptBuilder prompts.StoryPrompt
}

// NewGeminiWriter は依存関係を注入して初期化します。
func NewGeminiWriter(gen ContentGenerator, model string, pb prompts.StoryPrompt) (*GeminiWriter, error) {
	if gen == nil {
		return nil, fmt.Errorf("ContentGenerator は必須です")
	}
	if pb == nil {
		pb = prompts.NewTextPromptBuilder()
	}
	return &GeminiWriter{generator: gen, model: model, promptBuilder: pb}, nil
}

// GenerateOutline はエディター工程としてタイトル、プロット、表紙案を生成します。
func (w *GeminiWriter) GenerateOutline(ctx context.Context, req OutlineRequest) (domain.Outline, error) {
	prompt := w.promptBuilder.BuildOutlinePrompt(req.EditorTemplate, req.Characters, req.Theme, req.CustomPrompt)

	cfg := w.baseConfig(req.Params.Temperature, req.Params.TopP, req.Params.SafetyLevel)
	cfg.ResponseSchema = outlineSchema

	text, err := w.generate(ctx, "outline", prompt, cfg)
	if err != nil {
		return domain.Outline{}, err
	}

	var outline domain.Outline
	if err := decodeJSON(text, "{", "}", &outline); err != nil {
		return domain.Outline{}, err
	}
	return outline, nil
}

// GenerateManuscript は作家とアートディレクターの工程として全ページの本文と画像プロンプトを生成します。
// 返却されるページ数は検証しません。
func (w *GeminiWriter) GenerateManuscript(ctx context.Context, req ManuscriptRequest) (domain.StoryPages, error) {
	tmpl := prompts.ManuscriptTemplates{Author: req.Author, ArtDirector: req.ArtDirector}
	user, system := w.promptBuilder.BuildManuscriptPrompt(tmpl, req.Outline, req.Characters, req.Style, req.PageCount)

	cfg := w.baseConfig(req.Params.Temperature, req.Params.TopP, req.Params.SafetyLevel)
	cfg.ResponseSchema = storySchema
	cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)

	text, err := w.generate(ctx, "manuscript", user, cfg)
	if err != nil {
		return nil, err
	}

	var pages domain.StoryPages
	if err := decodeJSON(text, "[", "]", &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (w *GeminiWriter) baseConfig(temperature, topP float32, safety string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(temperature),
		TopP:             genai.Ptr(topP),
	}
	if safety != "" {
		threshold := genai.HarmBlockThreshold(safety)
		for _, c := range harmCategories {
			cfg.SafetySettings = append(cfg.SafetySettings, &genai.SafetySetting{Category: c, Threshold: threshold})
		}
	}
	return cfg
}

func (w *GeminiWriter) generate(ctx context.Context, step, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	logger := slog.With("step", step, "model", w.model)
	logger.InfoContext(ctx, "Calling Gemini API")

	startTime := time.Now()
	resp, err := w.generator.GenerateContent(ctx, w.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%s の生成に失敗しました: %w", step, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%s: %w", step, ErrEmptyResponse)
	}

	logger.InfoContext(ctx, "Gemini API call completed", "duration", time.Since(startTime).Round(time.Millisecond))
	return text, nil
}
