package imaging

import (
	"context"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// Generator は画像生成リクエストから画像の URL を返すコンポーネントです。
// 戻り値はリモートの https URL か、インラインの data URL のいずれかです。
type Generator interface {
	Generate(ctx context.Context, req imagedom.ImageGenerationRequest) (string, error)
}

// GeneratorFunc は関数を Generator として扱うためのアダプタです。
type GeneratorFunc func(ctx context.Context, req imagedom.ImageGenerationRequest) (string, error)

// Generate は f(ctx, req) を呼び出します。
func (f GeneratorFunc) Generate(ctx context.Context, req imagedom.ImageGenerationRequest) (string, error) {
	return f(ctx, req)
}
