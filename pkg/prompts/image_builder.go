package prompts

import (
	"strings"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
)

const (
	// CoverComposition は表紙画像に付与する構図指示です。
	CoverComposition = "front cover of a children's picture book, centered composition, space for the title at the top"
	// NegativeImagePrompt は子ども向けに不適切な要素や文字の混入を避けるための指示です。
	NegativeImagePrompt = "text, letters, watermark, signature, scary, violent, gore, deformed hands, extra limbs, blurry"
)

// ImagePromptBuilder は表紙とページの画像生成プロンプトを構築します。
type ImagePromptBuilder struct {
	suffix string // 管理画面の image_style_suffix
}

// NewImagePromptBuilder は新しい ImagePromptBuilder を生成します。
func NewImagePromptBuilder(suffix string) *ImagePromptBuilder {
	return &ImagePromptBuilder{suffix: suffix}
}

// BuildCoverPrompt は表紙案とスタイル修飾語から表紙プロンプトを構築します。
func (pb *ImagePromptBuilder) BuildCoverPrompt(coverDescription string, style domain.Style) string {
	return joinParts(coverDescription, CoverComposition, style.Qualifier(), pb.suffix)
}

// BuildPagePrompt はページの imagePrompt にスタイルとサフィックスを付与します。
func (pb *ImagePromptBuilder) BuildPagePrompt(page domain.StoryPage, style domain.Style) string {
	return joinParts(page.ImagePrompt, style.Qualifier(), pb.suffix)
}

// joinParts は空要素を除去してカンマ区切りで結合します。
func joinParts(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.Trim(strings.TrimSpace(p), ","); s != "" {
			clean = append(clean, strings.TrimSpace(s))
		}
	}
	return strings.Join(clean, ", ")
}
