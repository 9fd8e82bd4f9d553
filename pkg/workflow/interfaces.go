package workflow

import (
	"context"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/publisher"
)

// Generator は、プロジェクトを DRAFT から COMPLETED または FAILED まで進める責務を持ちます。
// Reserve で確保した生成枠は RunReserved が終了時に解放します。
type Generator interface {
	Run(ctx context.Context, projectID string) (*domain.Project, error)
	Reserve(projectID string) bool
	RunReserved(ctx context.Context, projectID string) (*domain.Project, error)
}

// Publisher は、完成した絵本を PDF と Markdown に書き出す責務を持ちます。
type Publisher interface {
	Publish(ctx context.Context, project *domain.Project, outputDir string) (publisher.Result, error)
}
