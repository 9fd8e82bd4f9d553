package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-amazebook-kit/internal/builder"
	"github.com/shouni/go-amazebook-kit/internal/config"
	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/project"
	"github.com/shouni/go-amazebook-kit/pkg/publisher"
)

// Execute は、CLI オプションからプロジェクトを作り、生成から書き出しまでを一気に実行するのだ。
func Execute(ctx context.Context, cfg *config.Config) (publisher.Result, error) {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return publisher.Result{}, err
	}
	defer func() {
		if err := appCtx.Close(); err != nil {
			slog.WarnContext(ctx, "データベースのクローズに失敗したのだ", "error", err)
		}
	}()

	// --- Phase 1: Project Phase (プロジェクト作成) ---
	p, err := appCtx.Projects.Create(ctx)
	if err != nil {
		return publisher.Result{}, err
	}
	if err := applyOptions(ctx, appCtx.Projects, p.ID, appCtx.Options); err != nil {
		return publisher.Result{}, fmt.Errorf("オプションの反映に失敗したのだ: %w", err)
	}

	// --- Phase 2: Generation Phase (物語と挿絵の生成) ---
	slog.InfoContext(ctx, "Phase 2: 絵本の生成を開始するのだ...", "project_id", p.ID)
	done, err := appCtx.Manager.Generator().Run(ctx, p.ID)
	if err != nil {
		return publisher.Result{}, fmt.Errorf("絵本の生成に失敗したのだ: %w", err)
	}

	// --- Phase 3: Publish Phase (書き出し) ---
	outputDir := appCtx.Options.OutputDir
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	slog.InfoContext(ctx, "Phase 3: 書き出しを開始するのだ...", "output_dir", outputDir)
	res, err := appCtx.Manager.Publisher().Publish(ctx, done, outputDir)
	if err != nil {
		return publisher.Result{}, fmt.Errorf("書き出しに失敗したのだ: %w", err)
	}
	return res, nil
}

// applyOptions は --name ごとにキャラクターを用意し、詳細設定を反映するのだ。
func applyOptions(ctx context.Context, projects *project.Store, id string, opts config.GenerateOptions) error {
	for i := 1; i < len(opts.Names); i++ {
		if _, err := projects.AddCharacter(ctx, id); err != nil {
			return err
		}
	}

	for i, name := range opts.Names {
		patch := domain.CharacterPatch{Name: &name}
		if opts.Age > 0 {
			patch.Age = &opts.Age
		}
		if opts.Gender != "" {
			g := domain.Gender(opts.Gender)
			patch.Gender = &g
		}
		if opts.HairColor != "" {
			patch.HairColor = &opts.HairColor
		}
		if opts.EyeColor != "" {
			patch.EyeColor = &opts.EyeColor
		}
		if _, err := projects.UpdateCharacter(ctx, id, i, patch); err != nil {
			return err
		}
	}

	details := domain.ProjectPatch{ConsentGiven: &opts.Consent}
	if opts.Theme != "" {
		theme := domain.Theme(opts.Theme)
		details.Theme = &theme
	}
	if opts.Style != "" {
		style := domain.Style(opts.Style)
		details.Style = &style
	}
	if opts.Prompt != "" {
		details.CustomPrompt = &opts.Prompt
	}
	_, err := projects.UpdateDetails(ctx, id, details)
	return err
}
