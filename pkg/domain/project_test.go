package domain

import (
	"errors"
	"testing"
)

func TestNewProject(t *testing.T) {
	p := NewProject("p1")

	if p.Status != StatusDraft {
		t.Errorf("期待値 %s, 実際の値 %s", StatusDraft, p.Status)
	}
	if p.Theme != ThemeSpace || p.Style != StyleWatercolor {
		t.Errorf("テーマ/スタイルのデフォルトが違います: %s / %s", p.Theme, p.Style)
	}
	if len(p.Characters) != 1 {
		t.Fatalf("デフォルトキャラクターは1人のはずです: %d", len(p.Characters))
	}
	c := p.Characters[0]
	if c.Age != 5 || c.Gender != GenderNeutral || c.HairColor != "brown" || c.EyeColor != "brown" {
		t.Errorf("キャラクターのデフォルト値が違います: %+v", c)
	}
}

func TestValidateForGeneration(t *testing.T) {
	t.Run("同意がない場合はエラー", func(t *testing.T) {
		p := NewProject("p1")
		p.Characters[0].Name = "Leo"
		if err := ValidateForGeneration(p); !errors.Is(err, ErrConsentRequired) {
			t.Errorf("ErrConsentRequired を期待しましたが %v", err)
		}
	})

	t.Run("先頭キャラクターの名前が空ならエラー", func(t *testing.T) {
		p := NewProject("p1")
		p.ConsentGiven = true
		p.Characters[0].Name = "   "
		if err := ValidateForGeneration(p); !errors.Is(err, ErrCharacterRequired) {
			t.Errorf("ErrCharacterRequired を期待しましたが %v", err)
		}
	})

	t.Run("キャラクターがいない場合はエラー", func(t *testing.T) {
		p := NewProject("p1")
		p.ConsentGiven = true
		p.Characters = nil
		if err := ValidateForGeneration(p); !errors.Is(err, ErrCharacterRequired) {
			t.Errorf("ErrCharacterRequired を期待しましたが %v", err)
		}
	})

	t.Run("正常系", func(t *testing.T) {
		p := NewProject("p1")
		p.ConsentGiven = true
		p.Characters[0].Name = "Leo"
		if err := ValidateForGeneration(p); err != nil {
			t.Errorf("エラーは不要です: %v", err)
		}
	})
}

func TestProject_DefaultDedicationAndTitle(t *testing.T) {
	p := NewProject("p1")
	if got := p.DefaultDedication(); got != "" {
		t.Errorf("名前がない場合は空のはずです: %q", got)
	}

	p.Characters[0].Name = "Maya"
	if got, want := p.DefaultDedication(), "For Maya, the bravest adventurer I know."; got != want {
		t.Errorf("期待値 %q, 実際の値 %q", want, got)
	}

	second := NewCharacter("2")
	second.Name = "Noah"
	p.Characters = append(p.Characters, second)
	if got, want := p.DefaultDedication(), "For Maya and Noah, the bravest adventurers I know."; got != want {
		t.Errorf("期待値 %q, 実際の値 %q", want, got)
	}
	if got, want := p.BookTitle(), "Maya & Noah's Adventure"; got != want {
		t.Errorf("期待値 %q, 実際の値 %q", want, got)
	}

	p.Title = "The Starry Voyage"
	if got := p.BookTitle(); got != "The Starry Voyage" {
		t.Errorf("生成済みタイトルが優先されるはずです: %q", got)
	}
}

func TestProject_Clone(t *testing.T) {
	p := NewProject("p1")
	p.StoryPages = StoryPages{{PageNumber: 1, Text: "a"}}

	cp := p.Clone()
	cp.Characters[0].Name = "changed"
	cp.StoryPages[0].ImageURL = "https://example.com/1.png"

	if p.Characters[0].Name != "" {
		t.Error("クローンの変更が元のキャラクターに影響しています")
	}
	if p.StoryPages[0].ImageURL != "" {
		t.Error("クローンの変更が元のページに影響しています")
	}
}

func TestCharacters_Bible(t *testing.T) {
	cs := Characters{
		{ID: "1", Name: "Leo", Age: 6, Gender: GenderBoy, HairColor: "curly blonde", EyeColor: "blue"},
		{ID: "2", Name: "Zara", Age: 4, Gender: GenderGirl, HairColor: "black", EyeColor: "brown"},
	}
	want := "NAME: Leo\n APPEARANCE: 6-year-old boy, curly blonde hair, blue eyes.\n" +
		"NAME: Zara\n APPEARANCE: 4-year-old girl, black hair, brown eyes."
	if got := cs.Bible(); got != want {
		t.Errorf("期待値:\n%s\n実際の値:\n%s", want, got)
	}
}

func TestProjectPatch_Apply(t *testing.T) {
	p := NewProject("p1")
	bad := Style("oil")
	if err := (ProjectPatch{Style: &bad}).Apply(p); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("ErrInvalidStyle を期待しましたが %v", err)
	}

	style := StyleCartoon
	consent := true
	if err := (ProjectPatch{Style: &style, ConsentGiven: &consent}).Apply(p); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if p.Style != StyleCartoon || !p.ConsentGiven {
		t.Errorf("パッチが適用されていません: %+v", p)
	}
}
