package story

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// extractJSON は AI の応答から JSON 部分を取り出します。
// コードブロック、最も外側の括弧 (openTok/closeTok)、応答全体の順に試します。
func extractJSON(raw string, openTok, closeTok string) string {
	raw = strings.TrimSpace(raw)

	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1]
	}

	first := strings.Index(raw, openTok)
	last := strings.LastIndex(raw, closeTok)
	if first != -1 && last != -1 && last > first {
		return raw[first : last+1]
	}
	return raw
}

// decodeJSON は応答から JSON を抽出して v にデコードします。
func decodeJSON(raw string, openTok, closeTok string, v any) error {
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyResponse
	}
	rawJSON := extractJSON(raw, openTok, closeTok)
	if err := json.Unmarshal([]byte(rawJSON), v); err != nil {
		return fmt.Errorf("AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, 200), err)
	}
	return nil
}

// truncateString は s を先頭から maxLen 文字 (rune 単位) に切り詰めます。
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
