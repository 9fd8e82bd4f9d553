package story

import (
	"context"
	"errors"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/settings"
)

// ErrEmptyResponse は Gemini が本文を返さなかった場合のエラーです。
var ErrEmptyResponse = errors.New("no text returned from Gemini")

// OutlineRequest はエディター工程への入力です。
type OutlineRequest struct {
	Characters     domain.Characters
	Theme          domain.Theme
	CustomPrompt   string
	EditorTemplate string
	Params         settings.GenerationParams
}

// ManuscriptRequest は作家/アートディレクター工程への入力です。
type ManuscriptRequest struct {
	Outline     domain.Outline
	Characters  domain.Characters
	Theme       domain.Theme
	Style       domain.Style
	PageCount   int
	Author      string
	ArtDirector string
	Params      settings.GenerationParams
}

// Writer は絵本のアウトラインと台本を生成する契約です。
type Writer interface {
	GenerateOutline(ctx context.Context, req OutlineRequest) (domain.Outline, error)
	GenerateManuscript(ctx context.Context, req ManuscriptRequest) (domain.StoryPages, error)
}
