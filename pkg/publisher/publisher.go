package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/shouni/go-amazebook-kit/pkg/asset"
	"github.com/shouni/go-amazebook-kit/pkg/domain"
)

// ErrNotCompleted は生成が完了していないプロジェクトを書き出そうとした場合のエラーです。
var ErrNotCompleted = errors.New("only completed books can be exported")

// Result は書き出した成果物のパスです。
type Result struct {
	PDFPath      string   `json:"pdfPath"`
	MarkdownPath string   `json:"markdownPath"`
	ImagePaths   []string `json:"imagePaths"`
}

// BookPublisher は完成した絵本を PDF、Markdown、画像ファイルとして書き出します。
type BookPublisher struct {
	writer OutputWriter
	client HTTPDoer
}

// NewBookPublisher は BookPublisher を作成します。client が nil の場合は既定のタイムアウト付きクライアントを使います。
func NewBookPublisher(writer OutputWriter, client HTTPDoer) (*BookPublisher, error) {
	if writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	return &BookPublisher{writer: writer, client: client}, nil
}

// Publish は画像の保存、Markdown と PDF の構築を一括して実行します。
func (p *BookPublisher) Publish(ctx context.Context, project *domain.Project, outputDir string) (Result, error) {
	var result Result
	if project.Status != domain.StatusCompleted {
		return result, ErrNotCompleted
	}

	start := time.Now()
	images := collectImages(ctx, p.client, project)

	// 1. 画像の保存
	relPaths, savedPaths, err := p.saveImages(ctx, images, outputDir)
	if err != nil {
		return result, err
	}
	result.ImagePaths = savedPaths

	// 2. Markdown
	mdPath, err := asset.ResolveOutputPath(outputDir, asset.DefaultBookMarkdown)
	if err != nil {
		return result, err
	}
	content := buildMarkdown(project, relPaths)
	if err := p.writer.Write(ctx, mdPath, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}
	result.MarkdownPath = mdPath

	// 3. PDF
	pdfPath, err := asset.ResolveOutputPath(outputDir, asset.DefaultBookPDF)
	if err != nil {
		return result, err
	}
	var buf bytes.Buffer
	if err := renderPDF(ctx, project, images, &buf); err != nil {
		return result, err
	}
	if err := p.writer.Write(ctx, pdfPath, &buf, "application/pdf"); err != nil {
		return result, fmt.Errorf("PDFファイルの書き込みに失敗しました: %w", err)
	}
	result.PDFPath = pdfPath

	slog.InfoContext(ctx, "Book exported",
		"project_id", project.ID,
		"pdf", pdfPath,
		"images", len(savedPaths),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// saveImages は画像を images/ 配下に保存し、Markdown 用の相対パスと保存先パスを返します。
func (p *BookPublisher) saveImages(ctx context.Context, images map[int]*resolvedImage, outputDir string) (map[int]string, []string, error) {
	imgDir, err := asset.ResolveOutputPath(outputDir, asset.DefaultImageDir)
	if err != nil {
		return nil, nil, err
	}

	keys := make([]int, 0, len(images))
	for k := range images {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	rel := make(map[int]string, len(keys))
	saved := make([]string, 0, len(keys))
	for _, key := range keys {
		img := images[key]
		name := asset.CoverFileName(img.MimeType)
		if key != coverKey {
			if name, err = asset.PageFileName(key, img.MimeType); err != nil {
				return nil, nil, err
			}
		}

		fullPath, err := asset.ResolveOutputPath(imgDir, name)
		if err != nil {
			return nil, nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
		}
		if err := p.writer.Write(ctx, fullPath, bytes.NewReader(img.Data), img.MimeType); err != nil {
			return nil, nil, fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
		}
		rel[key] = path.Join(asset.DefaultImageDir, name)
		saved = append(saved, fullPath)
	}
	return rel, saved, nil
}
