package asset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultImageDir は書き出した挿絵を格納するディレクトリ名です。
	DefaultImageDir = "images"
	// DefaultBookPDF は書き出す絵本 PDF のファイル名です。
	DefaultBookPDF = "book.pdf"
	// DefaultBookMarkdown は書き出す絵本 Markdown のファイル名です。
	DefaultBookMarkdown = "book.md"
	// DefaultCoverBaseName は表紙画像の拡張子を除いたファイル名です。
	DefaultCoverBaseName = "cover"
	// DefaultPageBaseName はページ画像の拡張子を除いた共通ファイル名です。
	DefaultPageBaseName = "page"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// PageFileRegex はページ画像 (page_1.jpg, page_12.png 等) に一致します。
var PageFileRegex = regexp.MustCompile(`^` + DefaultPageBaseName + `_\d+\.(jpg|png|gif|webp)$`)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}

// ExtensionFor は MIME タイプに対応する拡張子を返します。不明な場合は ".jpg" です。
func ExtensionFor(mimeType string) string {
	mt, _, _ := strings.Cut(strings.ToLower(mimeType), ";")
	if ext, ok := extensions[strings.TrimSpace(mt)]; ok {
		return ext
	}
	return ".jpg"
}

// CoverFileName は表紙画像のファイル名を返します。
func CoverFileName(mimeType string) string {
	return DefaultCoverBaseName + ExtensionFor(mimeType)
}

// PageFileName は pageNumber ページ目の画像ファイル名を返します。
// 例: 3, "image/png" -> "page_3.png"
func PageFileName(pageNumber int, mimeType string) (string, error) {
	if pageNumber < 1 {
		return "", fmt.Errorf("ページ番号は1以上である必要があります: %d", pageNumber)
	}
	name, err := urlpath.GenerateIndexedPath(DefaultPageBaseName+ExtensionFor(mimeType), pageNumber)
	if err != nil {
		return "", fmt.Errorf("ページ画像名の生成に失敗しました: %w", err)
	}
	return filepath.Base(name), nil
}
