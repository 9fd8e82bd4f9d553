package imaging

import (
	"context"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// PlaceholderGenerator は常に固定のプレースホルダー画像 URL を返します。
type PlaceholderGenerator struct {
	URL string
}

// NewPlaceholderGenerator は url を返す PlaceholderGenerator を作成します。
func NewPlaceholderGenerator(url string) PlaceholderGenerator {
	return PlaceholderGenerator{URL: url}
}

func (p PlaceholderGenerator) Generate(_ context.Context, _ imagedom.ImageGenerationRequest) (string, error) {
	return p.URL, nil
}
