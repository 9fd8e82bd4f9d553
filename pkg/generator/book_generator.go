package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/go-amazebook-kit/pkg/config"
	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/imaging"
	"github.com/shouni/go-amazebook-kit/pkg/story"
)

var (
	// ErrGenerationInProgress は同じプロジェクトの生成が既に走っている場合のエラーです。
	ErrGenerationInProgress = domain.ErrGenerationInProgress
	// ErrEmptyManuscript は台本が1ページも返らなかった場合のエラーです。
	ErrEmptyManuscript = errors.New("the story came back without any pages")
)

// Args は BookGenerator の依存関係です。
type Args struct {
	Config   config.Config
	Writer   story.Writer
	Images   imaging.Generator
	Settings SettingsReader
	Projects ProjectRepository
}

// BookGenerator はアウトライン、台本、挿絵の順に絵本を生成するオーケストレーターです。
// 生成中のプロジェクトに書き込むのは BookGenerator だけです。
type BookGenerator struct {
	cfg      config.Config
	writer   story.Writer
	images   imaging.Generator
	settings SettingsReader
	projects ProjectRepository

	running sync.Map // projectID -> struct{}
}

// New は BookGenerator を初期化します。
func New(args Args) (*BookGenerator, error) {
	if args.Writer == nil {
		return nil, fmt.Errorf("Writer は必須です")
	}
	if args.Images == nil {
		return nil, fmt.Errorf("Images は必須です")
	}
	if args.Settings == nil {
		return nil, fmt.Errorf("Settings は必須です")
	}
	if args.Projects == nil {
		return nil, fmt.Errorf("Projects は必須です")
	}

	cfg := args.Config
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.DefaultBatchSize
	}
	if cfg.PageCount <= 0 {
		cfg.PageCount = config.DefaultPageCount
	}
	if cfg.AspectRatio == "" {
		cfg.AspectRatio = config.DefaultAspectRatio
	}

	return &BookGenerator{
		cfg:      cfg,
		writer:   args.Writer,
		images:   args.Images,
		settings: args.Settings,
		projects: args.Projects,
	}, nil
}

// IsRunning はプロジェクトの生成が実行中かどうかを返します。
func (g *BookGenerator) IsRunning(projectID string) bool {
	_, ok := g.running.Load(projectID)
	return ok
}

// Reserve はプロジェクトの生成枠を確保します。既に確保済みなら false を返します。
// 確保した枠は RunReserved の終了時に解放されます。
func (g *BookGenerator) Reserve(projectID string) bool {
	_, loaded := g.running.LoadOrStore(projectID, struct{}{})
	return !loaded
}

// Run はプロジェクトを DRAFT から COMPLETED または FAILED まで進め、最終状態を返します。
// 前提条件の検証に失敗した場合は外部呼び出しを一切行わず、ステータスも変更しません。
func (g *BookGenerator) Run(ctx context.Context, projectID string) (*domain.Project, error) {
	if !g.Reserve(projectID) {
		return nil, ErrGenerationInProgress
	}
	return g.RunReserved(ctx, projectID)
}

// RunReserved は Reserve で確保済みのプロジェクトを生成します。
func (g *BookGenerator) RunReserved(ctx context.Context, projectID string) (*domain.Project, error) {
	defer g.running.Delete(projectID)

	project, err := g.projects.BeginGeneration(ctx, projectID)
	if err != nil {
		return project, err
	}

	if g.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.GenerationTimeout)
		defer cancel()
	}

	logger := slog.With("project_id", projectID)
	logger.InfoContext(ctx, "Book generation started", "theme", project.Theme, "style", project.Style)
	start := time.Now()

	if err := g.generate(ctx, project); err != nil {
		project.Status = domain.StatusFailed
		project.Error = err.Error()
		// 生成済みのページや表紙は巻き戻さずにそのまま公開します。
		if pubErr := g.projects.Publish(context.WithoutCancel(ctx), project); pubErr != nil {
			logger.ErrorContext(ctx, "Failed to publish failure state", "error", pubErr)
		}
		logger.ErrorContext(ctx, "Book generation failed", "error", err, "duration", time.Since(start).Round(time.Millisecond))
		return project, err
	}

	project.Status = domain.StatusCompleted
	if err := g.projects.Publish(ctx, project); err != nil {
		return project, err
	}
	logger.InfoContext(ctx, "Book generation completed",
		"pages", len(project.StoryPages),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return project, nil
}

func (g *BookGenerator) generate(ctx context.Context, p *domain.Project) error {
	params, err := g.settings.GenerationParams(ctx)
	if err != nil {
		return fmt.Errorf("生成パラメータの読み込みに失敗しました: %w", err)
	}
	tmpl, err := g.settings.Prompts(ctx)
	if err != nil {
		return fmt.Errorf("プロンプトテンプレートの読み込みに失敗しました: %w", err)
	}

	// 1. アウトライン (PLANNING_STORY への遷移は BeginGeneration で済んでいます)
	outline, err := g.writer.GenerateOutline(ctx, story.OutlineRequest{
		Characters:     p.Characters,
		Theme:          p.Theme,
		CustomPrompt:   p.CustomPrompt,
		EditorTemplate: tmpl.Editor,
		Params:         params,
	})
	if err != nil {
		return fmt.Errorf("アウトラインの生成に失敗しました: %w", err)
	}
	p.Title = outline.Title
	p.CoverPrompt = outline.CoverImageDescription
	if p.Dedication == "" {
		p.Dedication = p.DefaultDedication()
	}

	// 2. 台本
	if err := g.advance(ctx, p, domain.StatusGeneratingStory); err != nil {
		return err
	}
	pages, err := g.writer.GenerateManuscript(ctx, story.ManuscriptRequest{
		Outline:     outline,
		Characters:  p.Characters,
		Theme:       p.Theme,
		Style:       p.Style,
		PageCount:   g.cfg.PageCount,
		Author:      tmpl.Author,
		ArtDirector: tmpl.ArtDirector,
		Params:      params,
	})
	if err != nil {
		return fmt.Errorf("台本の生成に失敗しました: %w", err)
	}
	if len(pages) == 0 {
		return ErrEmptyManuscript
	}
	if !pages.Contiguous() {
		slog.WarnContext(ctx, "Manuscript page numbers are not contiguous, renumbering", "pages", len(pages))
		pages.Renumber()
	}
	p.StoryPages = pages

	// 3. 挿絵
	if err := g.advance(ctx, p, domain.StatusGeneratingImages); err != nil {
		return err
	}
	return g.illustrate(ctx, p, params.ImageSuffix)
}

// advance はステータスを進めてスナップショットを公開します。
func (g *BookGenerator) advance(ctx context.Context, p *domain.Project, status domain.Status) error {
	p.Status = status
	if err := g.projects.Publish(ctx, p); err != nil {
		return fmt.Errorf("進捗の公開に失敗しました (%s): %w", status, err)
	}
	return nil
}
