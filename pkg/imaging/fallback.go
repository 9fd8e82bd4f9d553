package imaging

import (
	"context"
	"log/slog"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// FallbackGenerator は Primary が失敗した場合に Secondary へ切り替えます。
// 切り替えの判断は呼び出しごとに行い、結果を記憶しません。
type FallbackGenerator struct {
	Name      string
	Primary   Generator
	Secondary Generator
}

// NewFallbackGenerator は FallbackGenerator を作成します。
func NewFallbackGenerator(name string, primary, secondary Generator) *FallbackGenerator {
	return &FallbackGenerator{Name: name, Primary: primary, Secondary: secondary}
}

func (f *FallbackGenerator) Generate(ctx context.Context, req imagedom.ImageGenerationRequest) (string, error) {
	url, err := f.Primary.Generate(ctx, req)
	if err == nil {
		return url, nil
	}
	if ctx.Err() != nil {
		return "", err
	}
	slog.WarnContext(ctx, "Primary image generator failed, switching to backup",
		"generator", f.Name,
		"error", err,
	)
	return f.Secondary.Generate(ctx, req)
}
