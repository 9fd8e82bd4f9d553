package asset

import "testing"

func TestPageFileName(t *testing.T) {
	got, err := PageFileName(3, "image/png")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if got != "page_3.png" {
		t.Errorf("期待値 page_3.png, 実際の値 %s", got)
	}
	if !PageFileRegex.MatchString(got) {
		t.Errorf("%s が PageFileRegex に一致しません", got)
	}
	if _, err := PageFileName(0, "image/png"); err == nil {
		t.Error("0ページ目はエラーのはずです")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":               ".jpg",
		"image/png; charset=utf-8": ".png",
		"application/octet-stream": ".jpg",
	}
	for in, want := range tests {
		if got := ExtensionFor(in); got != want {
			t.Errorf("%s: 期待値 %s, 実際の値 %s", in, want, got)
		}
	}
	if CoverFileName("image/webp") != "cover.webp" {
		t.Errorf("表紙のファイル名が違います: %s", CoverFileName("image/webp"))
	}
}
