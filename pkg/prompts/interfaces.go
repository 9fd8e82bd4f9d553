package prompts

import "github.com/shouni/go-amazebook-kit/pkg/domain"

// StoryPrompt は、テキスト生成（エディター/作家/アートディレクター）向けプロンプトを構築する契約です。
type StoryPrompt interface {
	BuildOutlinePrompt(editorTemplate string, chars domain.Characters, theme domain.Theme, customPrompt string) string
	BuildManuscriptPrompt(tmpl ManuscriptTemplates, outline domain.Outline, chars domain.Characters, style domain.Style, pageCount int) (user string, system string)
}

// ImagePrompt は、表紙と各ページの画像生成プロンプトを構築する契約です。
type ImagePrompt interface {
	BuildCoverPrompt(coverDescription string, style domain.Style) string
	BuildPagePrompt(page domain.StoryPage, style domain.Style) string
}
