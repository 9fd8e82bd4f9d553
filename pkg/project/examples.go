package project

import (
	"context"
	"slices"
	"sync"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
)

// Example はギャラリーに表示する完成済み絵本のスナップショットです。
type Example struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Style    string `json:"style"`
	ImageURL string `json:"image"`
}

// ExampleRepository は作例スナップショットの保存先です。
type ExampleRepository interface {
	SaveExample(ctx context.Context, ex Example) error
	ListExamples(ctx context.Context) ([]Example, error)
}

// SeedExamples はギャラリーの初期作例を返します。
func SeedExamples() []Example {
	return []Example{
		{ID: "space", Title: "Leo in Space", Style: "Cartoon", ImageURL: "https://picsum.photos/seed/space/600/600"},
		{ID: "forest", Title: "Maya's Forest Friends", Style: "Watercolor", ImageURL: "https://picsum.photos/seed/forest/600/600"},
		{ID: "hero", Title: "Sam the Superhero", Style: "Comic", ImageURL: "https://picsum.photos/seed/hero/600/600"},
		{ID: "sea", Title: "Olivia Under the Sea", Style: "Storybook Classic", ImageURL: "https://picsum.photos/seed/sea/600/600"},
		{ID: "dino", Title: "Noah's Dino Dig", Style: "3D Render", ImageURL: "https://picsum.photos/seed/dino/600/600"},
		{ID: "castle", Title: "Zara's Magic Castle", Style: "Watercolor", ImageURL: "https://picsum.photos/seed/castle/600/600"},
	}
}

// ExampleFromProject は完成したプロジェクトから作例を作ります。
func ExampleFromProject(p *domain.Project) Example {
	return Example{
		ID:       p.ID,
		Title:    p.BookTitle(),
		Style:    p.Style.Label(),
		ImageURL: p.CoverURL,
	}
}

// MemoryExamples はプロセス内の ExampleRepository です。
type MemoryExamples struct {
	mu       sync.RWMutex
	examples []Example
}

// NewMemoryExamples は初期作例を投入済みの MemoryExamples を作成します。
func NewMemoryExamples() *MemoryExamples {
	return &MemoryExamples{examples: SeedExamples()}
}

func (m *MemoryExamples) SaveExample(_ context.Context, ex Example) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.IndexFunc(m.examples, func(e Example) bool { return e.ID == ex.ID }); i >= 0 {
		m.examples[i] = ex
		return nil
	}
	m.examples = append(m.examples, ex)
	return nil
}

func (m *MemoryExamples) ListExamples(_ context.Context) ([]Example, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.examples), nil
}
