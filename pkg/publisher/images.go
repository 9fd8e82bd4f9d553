package publisher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/imaging"

	"golang.org/x/sync/errgroup"
)

const (
	maxImageBytes   = 20 << 20
	fetchConcurrent = 4
	coverKey        = 0
)

// HTTPDoer は画像の取得に使う HTTP クライアントです。
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// resolvedImage は解決済みの画像データです。
type resolvedImage struct {
	MimeType string
	Data     []byte
}

// fetchImage は data URL をデコードするか、http(s) URL から画像を取得します。
func fetchImage(ctx context.Context, client HTTPDoer, url string) (*resolvedImage, error) {
	if imaging.IsDataURL(url) {
		mimeType, data, err := imaging.DecodeDataURL(url)
		if err != nil {
			return nil, err
		}
		return &resolvedImage{MimeType: mimeType, Data: data}, nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("未対応の画像 URL です: %.40s", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("画像の取得に失敗しました: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	mimeType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	return &resolvedImage{MimeType: mimeType, Data: data}, nil
}

// collectImages は表紙 (キー 0) と各ページ (キー: ページ番号) の画像を並列に取得します。
// 取得に失敗した画像は警告を出して欠落させ、処理は継続します。
func collectImages(ctx context.Context, client HTTPDoer, p *domain.Project) map[int]*resolvedImage {
	sources := make(map[int]string, len(p.StoryPages)+1)
	if p.CoverURL != "" {
		sources[coverKey] = p.CoverURL
	}
	for _, page := range p.StoryPages {
		if page.ImageURL != "" {
			sources[page.PageNumber] = page.ImageURL
		}
	}

	results := make([]*resolvedImage, 0, len(sources))
	keys := make([]int, 0, len(sources))
	for k := range sources {
		keys = append(keys, k)
		results = append(results, nil)
	}

	var eg errgroup.Group
	eg.SetLimit(fetchConcurrent)
	for i, key := range keys {
		eg.Go(func() error {
			img, err := fetchImage(ctx, client, sources[key])
			if err != nil {
				slog.WarnContext(ctx, "Image could not be resolved, leaving slot blank", "slot", key, "error", err)
				return nil
			}
			results[i] = img
			return nil
		})
	}
	_ = eg.Wait()

	images := make(map[int]*resolvedImage, len(keys))
	for i, key := range keys {
		if results[i] != nil {
			images[key] = results[i]
		}
	}
	return images
}
