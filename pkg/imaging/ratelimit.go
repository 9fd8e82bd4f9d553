package imaging

import (
	"context"
	"fmt"
	"time"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"golang.org/x/time/rate"
)

// RateLimited は外向きの画像生成呼び出しの間隔を制限します。
type RateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// NewRateLimited は interval ごとに1回の呼び出しを許可します。interval が 0 以下なら無制限です。
func NewRateLimited(next Generator, interval time.Duration) *RateLimited {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, 1)}
}

func (r *RateLimited) Generate(ctx context.Context, req imagedom.ImageGenerationRequest) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("リミッター待機中にエラーが発生しました: %w", err)
	}
	return r.next.Generate(ctx, req)
}
