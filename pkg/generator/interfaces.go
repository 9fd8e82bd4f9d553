package generator

import (
	"context"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/settings"
)

// ProgressReporter は生成途中のプロジェクトのスナップショットを公開します。
// 実装は受け取ったポインタを保持せず、コピーをスナップショットとして保存します。
type ProgressReporter interface {
	Publish(ctx context.Context, project *domain.Project) error
}

// ProjectRepository は生成対象のプロジェクトを確保し、進捗を書き戻します。
type ProjectRepository interface {
	ProgressReporter
	// BeginGeneration は前提条件を検証し、PLANNING_STORY に遷移させたスナップショットを返します。
	// 検証エラーの場合は Error を記録したスナップショットとそのエラーを返します。
	// 既に生成中なら domain.ErrGenerationInProgress を返します。
	BeginGeneration(ctx context.Context, id string) (*domain.Project, error)
}

// SettingsReader は生成のたびに最新の調整値とテンプレートを読み出します。
type SettingsReader interface {
	GenerationParams(ctx context.Context) (settings.GenerationParams, error)
	Prompts(ctx context.Context) (settings.Prompts, error)
}
