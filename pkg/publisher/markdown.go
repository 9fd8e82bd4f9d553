package publisher

import (
	"fmt"
	"strings"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
)

// buildMarkdown は PDF と同じ構成の Markdown を生成します。
// imagePaths はスロット (表紙は 0、ページはページ番号) から Markdown 内の相対パスへの対応です。
func buildMarkdown(p *domain.Project, imagePaths map[int]string) string {
	var sb strings.Builder
	title := p.BookTitle()
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if path, ok := imagePaths[coverKey]; ok {
		fmt.Fprintf(&sb, "![%s](%s)\n\n", title, path)
	}

	dedication := p.Dedication
	if dedication == "" {
		dedication = p.DefaultDedication()
	}
	if dedication != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", dedication)
	}

	for _, page := range p.StoryPages {
		fmt.Fprintf(&sb, "## Page %d\n\n", page.PageNumber)
		if path, ok := imagePaths[page.PageNumber]; ok {
			fmt.Fprintf(&sb, "![Page %d](%s)\n\n", page.PageNumber, path)
		}
		if text := strings.TrimSpace(page.Text); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
