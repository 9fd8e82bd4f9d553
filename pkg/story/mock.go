package story

import (
	"context"
	"fmt"

	"github.com/shouni/go-amazebook-kit/pkg/config"
	"github.com/shouni/go-amazebook-kit/pkg/domain"
)

// MockWriter は APIキー未設定時に決定論的なアウトラインと台本を返します。
type MockWriter struct{}

// NewMockWriter は MockWriter を返します。
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

func (MockWriter) GenerateOutline(_ context.Context, req OutlineRequest) (domain.Outline, error) {
	names := req.Characters.JoinedNames(" and ")
	return domain.Outline{
		Title:                 fmt.Sprintf("%s's %s", names, req.Theme),
		Outline:               "Mock Outline",
		CoverImageDescription: fmt.Sprintf("%s smiling together on the cover of a %s picture book.", names, req.Theme),
	}, nil
}

func (MockWriter) GenerateManuscript(_ context.Context, req ManuscriptRequest) (domain.StoryPages, error) {
	count := req.PageCount
	if count <= 0 {
		count = config.DefaultPageCount
	}
	names := req.Characters.JoinedNames(" and ")

	pages := make(domain.StoryPages, count)
	for i := range pages {
		n := i + 1
		pages[i] = domain.StoryPage{
			PageNumber:  n,
			Text:        fmt.Sprintf("Page %d: %s continued their %s adventure with great excitement.", n, names, req.Theme),
			ImagePrompt: fmt.Sprintf("Illustration of %s in a %s setting, page %d.", names, req.Theme, n),
		}
	}
	return pages, nil
}
