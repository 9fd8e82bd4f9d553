package prompts

import (
	"sort"
	"strings"
)

// プレースホルダー名。テンプレート中では {{NAME}} の形で記述します。
const (
	VarCharacters = "CHARACTERS"
	VarTheme      = "THEME"
	VarRequest    = "REQUEST"
	VarStyle      = "STYLE"
)

// Render はテンプレート中の {{NAME}} を vars の値で置換します。
// 管理画面で編集された任意の文字列を扱うため、text/template ではなく単純置換を用います。
// vars にないプレースホルダーはそのまま残ります。
func Render(tmpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tmpl
	}

	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(vars)*2)
	for _, k := range names {
		pairs = append(pairs, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
