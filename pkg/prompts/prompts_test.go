package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
)

func TestRender(t *testing.T) {
	t.Run("プレースホルダーが置換されること", func(t *testing.T) {
		got := Render("Characters: {{CHARACTERS}} / {{THEME}}", map[string]string{
			VarCharacters: "Leo and Maya",
			VarTheme:      "Magical Forest",
		})
		if got != "Characters: Leo and Maya / Magical Forest" {
			t.Errorf("置換結果が違います: %q", got)
		}
	})

	t.Run("未定義のプレースホルダーと任意の波括弧はそのまま残ること", func(t *testing.T) {
		got := Render("{{UNKNOWN}} {json} {{STYLE}}", map[string]string{VarStyle: "cartoon"})
		if got != "{{UNKNOWN}} {json} cartoon" {
			t.Errorf("置換結果が違います: %q", got)
		}
	})
}

func TestTextPromptBuilder_BuildOutlinePrompt(t *testing.T) {
	b := NewTextPromptBuilder()
	chars := domain.Characters{{Name: "Leo"}, {Name: "Maya"}}

	got := b.BuildOutlinePrompt("C={{CHARACTERS}} T={{THEME}} R={{REQUEST}}", chars, domain.ThemeSpace, "")
	if !strings.HasPrefix(got, "C=Leo and Maya T=Space Adventure R=Create an engaging adventure.") {
		t.Errorf("テンプレートの展開が違います: %q", got)
	}
	if !strings.Contains(got, `"coverImageDescription"`) {
		t.Error("構造化出力の指示が含まれていません")
	}

	custom := b.BuildOutlinePrompt("R={{REQUEST}}", chars, domain.ThemeSpace, "  Find the lost moon  ")
	if !strings.HasPrefix(custom, "R=Find the lost moon") {
		t.Errorf("カスタムリクエストが反映されていません: %q", custom)
	}
}

func TestTextPromptBuilder_BuildManuscriptPrompt(t *testing.T) {
	b := NewTextPromptBuilder()
	chars := domain.Characters{{Name: "Leo", Age: 6, Gender: domain.GenderBoy, HairColor: "red", EyeColor: "green"}}
	outline := domain.Outline{Title: "Leo's Rocket", Outline: "1. Leo builds a rocket."}

	user, system := b.BuildManuscriptPrompt(ManuscriptTemplates{
		Author:      "AUTHOR PERSONA",
		ArtDirector: "ART PERSONA STYLE: {{STYLE}}",
	}, outline, chars, domain.StyleCartoon, 12)

	for _, want := range []string{"1. Leo builds a rocket.", "NAME: Leo", "6-year-old boy, red hair, green eyes.", "12 pages"} {
		if !strings.Contains(user, want) {
			t.Errorf("ユーザープロンプトに %q が含まれていません", want)
		}
	}
	if !strings.Contains(system, "AUTHOR PERSONA") || !strings.Contains(system, "ART PERSONA STYLE: cartoon") {
		t.Errorf("システム指示にペルソナが含まれていません: %q", system)
	}
}

func TestImagePromptBuilder(t *testing.T) {
	pb := NewImagePromptBuilder("8k resolution")

	page := pb.BuildPagePrompt(domain.StoryPage{ImagePrompt: "Leo waves, "}, domain.StyleWatercolor)
	if !strings.HasPrefix(page, "Leo waves, soft watercolor") || !strings.HasSuffix(page, ", 8k resolution") {
		t.Errorf("ページプロンプトが違います: %q", page)
	}

	cover := pb.BuildCoverPrompt("Leo on the moon", domain.Style3DRender)
	if !strings.Contains(cover, CoverComposition) || !strings.Contains(cover, "3D rendered") {
		t.Errorf("表紙プロンプトが違います: %q", cover)
	}

	empty := NewImagePromptBuilder("").BuildPagePrompt(domain.StoryPage{ImagePrompt: "x"}, domain.Style("pastel"))
	if empty != "x, pastel" {
		t.Errorf("未定義スタイルはそのまま使われるはずです: %q", empty)
	}
}
