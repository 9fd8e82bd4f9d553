package project

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shouni/go-amazebook-kit/pkg/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotFound は指定されたプロジェクトが存在しない場合のエラーです。
	ErrNotFound = errors.New("project not found")
	// ErrCharacterIndex はキャラクターの添字が範囲外の場合のエラーです。
	ErrCharacterIndex = errors.New("character index out of range")
	// ErrProjectLocked は生成中のプロジェクトを編集しようとした場合のエラーです。
	ErrProjectLocked = errors.New("project is being generated and cannot be edited")
)

// Store はプロジェクトをプロセス内に保持する状態コンテナです。
// 読み出しは常にディープコピーのスナップショットを返します。
type Store struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
	newID    func() string
}

// NewStore は空の Store を作成します。
func NewStore() *Store {
	return &Store{
		projects: make(map[string]*domain.Project),
		newID:    uuid.NewString,
	}
}

// Create は既定値のプロジェクトを新規作成します。
func (s *Store) Create(_ context.Context) (*domain.Project, error) {
	p := domain.NewProject(s.newID())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
	return p.Clone(), nil
}

// Get はプロジェクトのスナップショットを返します。
func (s *Store) Get(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p.Clone(), nil
}

// Delete はプロジェクトを削除します。
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.projects, id)
	return nil
}

// Update は利用者による編集を適用します。生成中のプロジェクトは ErrProjectLocked になります。
// fn がエラーを返した場合、変更は破棄されます。
func (s *Store) Update(_ context.Context, id string, fn func(*domain.Project) error) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if p.Status.IsGenerating() {
		return nil, ErrProjectLocked
	}

	draft := p.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	s.projects[id] = draft
	return draft.Clone(), nil
}

// AddCharacter は既定値のキャラクターを末尾に追加します。
func (s *Store) AddCharacter(ctx context.Context, id string) (*domain.Project, error) {
	return s.Update(ctx, id, func(p *domain.Project) error {
		p.Characters = append(p.Characters, domain.NewCharacter(s.newID()))
		return nil
	})
}

// UpdateCharacter は index 番目のキャラクターに部分更新を適用します。
func (s *Store) UpdateCharacter(ctx context.Context, id string, index int, patch domain.CharacterPatch) (*domain.Project, error) {
	return s.Update(ctx, id, func(p *domain.Project) error {
		if index < 0 || index >= len(p.Characters) {
			return fmt.Errorf("%w: %d", ErrCharacterIndex, index)
		}
		return patch.Apply(&p.Characters[index])
	})
}

// RemoveCharacter は index 番目のキャラクターを取り除きます。
func (s *Store) RemoveCharacter(ctx context.Context, id string, index int) (*domain.Project, error) {
	return s.Update(ctx, id, func(p *domain.Project) error {
		if index < 0 || index >= len(p.Characters) {
			return fmt.Errorf("%w: %d", ErrCharacterIndex, index)
		}
		p.Characters = append(p.Characters[:index], p.Characters[index+1:]...)
		return nil
	})
}

// UpdateDetails はテーマやスタイルなどの詳細を更新します。
func (s *Store) UpdateDetails(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	return s.Update(ctx, id, patch.Apply)
}

// MarkPurchased は購入済みフラグを立てます。生成中でも受け付けます。
func (s *Store) MarkPurchased(_ context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p.Purchased = true
	return p.Clone(), nil
}

// BeginGeneration は生成の前提条件を検証し、通過したプロジェクトを PLANNING_STORY に進めます。
// 検証と遷移は同じロックの中で行うため、以降の編集は ErrProjectLocked になります。
// 検証に失敗した場合はステータスを変えずに Error だけを記録し、そのスナップショットを返します。
func (s *Store) BeginGeneration(_ context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if p.Status.IsGenerating() {
		return p.Clone(), domain.ErrGenerationInProgress
	}

	draft := p.Clone()
	if err := domain.ValidateForGeneration(draft); err != nil {
		draft.Error = err.Error()
		s.projects[id] = draft
		return draft.Clone(), err
	}
	draft.Error = ""
	draft.StoryPages = domain.StoryPages{}
	draft.CoverURL = ""
	draft.Status = domain.StatusPlanningStory
	s.projects[id] = draft
	return draft.Clone(), nil
}

// Publish は生成オーケストレーターからの途中経過を保存します。
// 生成中に記録された購入済みフラグは上書きしません。
func (s *Store) Publish(_ context.Context, project *domain.Project) error {
	if project == nil {
		return fmt.Errorf("project は必須です")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.projects[project.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, project.ID)
	}
	snapshot := project.Clone()
	snapshot.Purchased = snapshot.Purchased || current.Purchased
	s.projects[project.ID] = snapshot
	return nil
}
