package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/prompts"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// illustrate は表紙を生成した後、ページをバッチ単位で並列に生成します。
// 各バッチの完了ごとに画像 URL をページ番号で反映し、途中経過を公開します。
func (g *BookGenerator) illustrate(ctx context.Context, p *domain.Project, suffix string) error {
	pb := prompts.NewImagePromptBuilder(suffix)
	reference := referenceImage(p.Characters)

	coverURL, err := g.images.Generate(ctx, g.imageRequest(pb.BuildCoverPrompt(p.CoverPrompt, p.Style), reference))
	if err != nil {
		return fmt.Errorf("表紙の生成に失敗しました: %w", err)
	}
	p.CoverURL = coverURL
	if err := g.projects.Publish(ctx, p); err != nil {
		return fmt.Errorf("表紙の公開に失敗しました: %w", err)
	}

	batches := p.StoryPages.Batches(g.cfg.BatchSize)
	for i, batch := range batches {
		logger := slog.With("batch", i+1, "total_batches", len(batches))
		start := time.Now()

		urls, err := g.illustrateBatch(ctx, batch, p.Style, pb, reference)
		if err != nil {
			return fmt.Errorf("バッチ %d/%d の挿絵生成に失敗しました: %w", i+1, len(batches), err)
		}

		p.StoryPages.MergeImageURLs(urls)
		if err := g.projects.Publish(ctx, p); err != nil {
			return fmt.Errorf("バッチ %d の公開に失敗しました: %w", i+1, err)
		}
		logger.InfoContext(ctx, "Batch illustrated",
			"pages", len(batch),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
	return nil
}

// illustrateBatch はバッチ内の画像を同時に要求し、全て揃うまで待ちます。
// 1枚でも失敗した場合はバッチ全体が失敗します。
func (g *BookGenerator) illustrateBatch(ctx context.Context, batch domain.StoryPages, style domain.Style, pb prompts.ImagePrompt, reference string) (map[int]string, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	results := make([]string, len(batch))

	for i, page := range batch {
		eg.Go(func() error {
			url, err := g.images.Generate(egCtx, g.imageRequest(pb.BuildPagePrompt(page, style), reference))
			if err != nil {
				return fmt.Errorf("ページ %d: %w", page.PageNumber, err)
			}
			results[i] = url
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	urls := make(map[int]string, len(batch))
	for i, page := range batch {
		urls[page.PageNumber] = results[i]
	}
	return urls, nil
}

func (g *BookGenerator) imageRequest(prompt, reference string) imagedom.ImageGenerationRequest {
	return imagedom.ImageGenerationRequest{
		Prompt:         prompt,
		NegativePrompt: prompts.NegativeImagePrompt,
		AspectRatio:    g.cfg.AspectRatio,
		ReferenceURL:   reference,
	}
}

// referenceImage は一貫性のための参照画像として、最初に写真が登録されたキャラクターの写真を返します。
func referenceImage(chars domain.Characters) string {
	for _, c := range chars {
		if c.PhotoURL != "" {
			return c.PhotoURL
		}
	}
	return ""
}
