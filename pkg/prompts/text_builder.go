package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
)

const (
	defaultRequest   = "Create an engaging adventure."
	outlineNameJoint = " and "

	outlineOutputInstruction = `FORMAT:
Respond with a single JSON object with exactly these fields:
- "title": the book title.
- "outline": the numbered page-by-page plot beats as one string.
- "coverImageDescription": a detailed visual description of the Front Cover.`
)

// ManuscriptTemplates は台本生成に使う2つのペルソナテンプレートです。
type ManuscriptTemplates struct {
	Author      string
	ArtDirector string
}

// TextPromptBuilder は管理画面で調整可能なテンプレートから台本用プロンプトを構築します。
type TextPromptBuilder struct{}

// NewTextPromptBuilder は TextPromptBuilder を初期化します。
func NewTextPromptBuilder() *TextPromptBuilder {
	return &TextPromptBuilder{}
}

// BuildOutlinePrompt はエディター工程のプロンプトを構築します。
func (b *TextPromptBuilder) BuildOutlinePrompt(editorTemplate string, chars domain.Characters, theme domain.Theme, customPrompt string) string {
	request := strings.TrimSpace(customPrompt)
	if request == "" {
		request = defaultRequest
	}

	body := Render(editorTemplate, map[string]string{
		VarCharacters: chars.JoinedNames(outlineNameJoint),
		VarTheme:      string(theme),
		VarRequest:    request,
	})
	return body + "\n\n" + outlineOutputInstruction
}

// BuildManuscriptPrompt は作家とアートディレクターを兼ねた台本プロンプトを構築します。
// 戻り値はユーザープロンプトとシステム指示です。
func (b *TextPromptBuilder) BuildManuscriptPrompt(tmpl ManuscriptTemplates, outline domain.Outline, chars domain.Characters, style domain.Style, pageCount int) (string, string) {
	styleText := fmt.Sprintf("%s (%s)", style, style.Qualifier())

	var ss strings.Builder
	ss.WriteString("You are a dual-persona expert.\n\n")
	ss.WriteString("### 1. THE AUTHOR ###\n")
	ss.WriteString(strings.TrimSpace(tmpl.Author))
	ss.WriteString("\n\n### 2. THE ART DIRECTOR ###\n")
	ss.WriteString(strings.TrimSpace(Render(tmpl.ArtDirector, map[string]string{VarStyle: styleText})))
	system := ss.String()

	var us strings.Builder
	us.WriteString("INPUT CONTEXT:\n")
	fmt.Fprintf(&us, "[BOOK TITLE]: %s\n\n", outline.Title)
	fmt.Fprintf(&us, "[THE OUTLINE]:\n%s\n\n", strings.TrimSpace(outline.Outline))
	fmt.Fprintf(&us, "[CHARACTER BIBLE - FOLLOW STRICTLY]:\n%s\n\n", chars.Bible())
	fmt.Fprintf(&us, "[ART STYLE]: %s\n\n", styleText)
	fmt.Fprintf(&us, "TASK:\nGenerate the full content for the %d-page book based on the outline.\n\n", pageCount)
	fmt.Fprintf(&us, "OUTPUT:\nJSON Array of %d pages. Each item has \"pageNumber\" (1-based), \"text\" and \"imagePrompt\".", pageCount)

	return us.String(), system
}
