package project

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
)

func TestStore_Characters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p, err := s.Create(ctx)
	if err != nil {
		t.Fatalf("作成に失敗しました: %v", err)
	}

	t.Run("キャラクターの追加と更新", func(t *testing.T) {
		got, err := s.AddCharacter(ctx, p.ID)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if len(got.Characters) != 2 || got.Characters[1].ID == "" {
			t.Fatalf("キャラクターが追加されていません: %+v", got.Characters)
		}

		name := "Maya"
		girl := domain.GenderGirl
		got, err = s.UpdateCharacter(ctx, p.ID, 1, domain.CharacterPatch{Name: &name, Gender: &girl})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if got.Characters[1].Name != "Maya" || got.Characters[1].Gender != domain.GenderGirl {
			t.Errorf("更新が反映されていません: %+v", got.Characters[1])
		}
	})

	t.Run("範囲外の添字は ErrCharacterIndex", func(t *testing.T) {
		if _, err := s.RemoveCharacter(ctx, p.ID, 5); !errors.Is(err, ErrCharacterIndex) {
			t.Errorf("ErrCharacterIndex を期待しましたが %v", err)
		}
		if _, err := s.UpdateCharacter(ctx, p.ID, -1, domain.CharacterPatch{}); !errors.Is(err, ErrCharacterIndex) {
			t.Errorf("ErrCharacterIndex を期待しましたが %v", err)
		}
	})

	t.Run("削除", func(t *testing.T) {
		got, err := s.RemoveCharacter(ctx, p.ID, 0)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if len(got.Characters) != 1 || got.Characters[0].Name != "Maya" {
			t.Errorf("先頭のキャラクターが削除されていません: %+v", got.Characters)
		}
	})

	t.Run("不正なパッチは破棄される", func(t *testing.T) {
		age := -1
		if _, err := s.UpdateCharacter(ctx, p.ID, 0, domain.CharacterPatch{Age: &age}); !errors.Is(err, domain.ErrInvalidAge) {
			t.Fatalf("ErrInvalidAge を期待しましたが %v", err)
		}
		got, _ := s.Get(ctx, p.ID)
		if got.Characters[0].Age != domain.DefaultAge {
			t.Errorf("失敗した更新が保存されています: %d", got.Characters[0].Age)
		}
	})
}

func TestStore_Snapshots(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p, _ := s.Create(ctx)

	snap, _ := s.Get(ctx, p.ID)
	snap.Characters[0].Name = "mutated"

	again, _ := s.Get(ctx, p.ID)
	if again.Characters[0].Name != "" {
		t.Error("スナップショットの変更が保存値に影響しています")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ErrNotFound を期待しましたが %v", err)
	}
}

func TestStore_LockDuringGeneration(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p, _ := s.Create(ctx)

	p.Status = domain.StatusGeneratingImages
	if err := s.Publish(ctx, p); err != nil {
		t.Fatalf("公開に失敗しました: %v", err)
	}

	theme := domain.ThemeDinosaur
	if _, err := s.UpdateDetails(ctx, p.ID, domain.ProjectPatch{Theme: &theme}); !errors.Is(err, ErrProjectLocked) {
		t.Errorf("ErrProjectLocked を期待しましたが %v", err)
	}
	if _, err := s.AddCharacter(ctx, p.ID); !errors.Is(err, ErrProjectLocked) {
		t.Errorf("ErrProjectLocked を期待しましたが %v", err)
	}

	t.Run("生成中の購入は後続の公開で消えないこと", func(t *testing.T) {
		if _, err := s.MarkPurchased(ctx, p.ID); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		p.Status = domain.StatusCompleted
		if err := s.Publish(ctx, p); err != nil {
			t.Fatalf("公開に失敗しました: %v", err)
		}
		got, _ := s.Get(ctx, p.ID)
		if !got.Purchased {
			t.Error("購入済みフラグが上書きされています")
		}
	})
}

func TestStore_BeginGeneration(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p, _ := s.Create(ctx)

	t.Run("検証エラーでは Error だけを記録し DRAFT のままであること", func(t *testing.T) {
		got, err := s.BeginGeneration(ctx, p.ID)
		if !errors.Is(err, domain.ErrConsentRequired) {
			t.Fatalf("ErrConsentRequired を期待しましたが %v", err)
		}
		stored, _ := s.Get(ctx, p.ID)
		if got.Status != domain.StatusDraft || stored.Error != domain.ErrConsentRequired.Error() {
			t.Errorf("DRAFT のまま Error が記録されるはずです: %s / %q", stored.Status, stored.Error)
		}
	})

	t.Run("通過すると同じロックの中で PLANNING_STORY に進み、編集を拒否すること", func(t *testing.T) {
		name := "Leo"
		consent := true
		if _, err := s.UpdateCharacter(ctx, p.ID, 0, domain.CharacterPatch{Name: &name}); err != nil {
			t.Fatal(err)
		}
		if _, err := s.UpdateDetails(ctx, p.ID, domain.ProjectPatch{ConsentGiven: &consent}); err != nil {
			t.Fatal(err)
		}

		got, err := s.BeginGeneration(ctx, p.ID)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if got.Status != domain.StatusPlanningStory || got.Error != "" {
			t.Errorf("PLANNING_STORY でエラーなしのはずです: %s / %q", got.Status, got.Error)
		}

		theme := domain.ThemeDinosaur
		if _, err := s.UpdateDetails(ctx, p.ID, domain.ProjectPatch{Theme: &theme}); !errors.Is(err, ErrProjectLocked) {
			t.Errorf("遷移直後の編集は ErrProjectLocked のはずですが %v", err)
		}
		if _, err := s.BeginGeneration(ctx, p.ID); !errors.Is(err, domain.ErrGenerationInProgress) {
			t.Errorf("ErrGenerationInProgress を期待しましたが %v", err)
		}
	})

	t.Run("存在しないプロジェクトは ErrNotFound", func(t *testing.T) {
		if _, err := s.BeginGeneration(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("ErrNotFound を期待しましたが %v", err)
		}
	})
}

func TestMemoryExamples(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryExamples()

	list, _ := repo.ListExamples(ctx)
	if len(list) != 6 || list[0].Title != "Leo in Space" {
		t.Fatalf("初期作例が違います: %+v", list)
	}

	p := domain.NewProject("p1")
	p.Characters[0].Name = "Ava"
	p.Style = domain.Style3DRender
	p.CoverURL = "https://img.example.com/cover.jpg"
	if err := repo.SaveExample(ctx, ExampleFromProject(p)); err != nil {
		t.Fatalf("保存に失敗しました: %v", err)
	}

	list, _ = repo.ListExamples(ctx)
	last := list[len(list)-1]
	if len(list) != 7 || last.Title != "Ava's Adventure" || last.Style != "3D Render" {
		t.Errorf("保存した作例が違います: %+v", last)
	}
}
