package domain

// StoryPage は絵本の1ページ分の本文と挿絵の情報を保持します。
type StoryPage struct {
	PageNumber  int    `json:"pageNumber"`
	Text        string `json:"text"`
	ImagePrompt string `json:"imagePrompt"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// StoryPages はページ番号順に並んだページ列です。
type StoryPages []StoryPage

// Clone はページ列の防御的コピーを返します。
func (ps StoryPages) Clone() StoryPages {
	if ps == nil {
		return nil
	}
	copied := make(StoryPages, len(ps))
	copy(copied, ps)
	return copied
}

// Contiguous はページ番号が 1 から欠番なく昇順に並んでいるかどうかを返します。
func (ps StoryPages) Contiguous() bool {
	for i, p := range ps {
		if p.PageNumber != i+1 {
			return false
		}
	}
	return true
}

// Renumber はページ番号を並び順どおり 1..N に振り直します。
func (ps StoryPages) Renumber() {
	for i := range ps {
		ps[i].PageNumber = i + 1
	}
}

// MergeImageURLs はページ番号をキーに画像URLを書き込みます。
// 位置ではなくページ番号で対応付けるため、他ページへの誤割り当ては起きません。
// 書き込んだページ数を返します。
func (ps StoryPages) MergeImageURLs(urls map[int]string) int {
	merged := 0
	for i := range ps {
		if u, ok := urls[ps[i].PageNumber]; ok && u != "" {
			ps[i].ImageURL = u
			merged++
		}
	}
	return merged
}

// Batches はページ列を size 件ずつのバッチに分割します。各バッチは元のスライスを共有しません。
func (ps StoryPages) Batches(size int) []StoryPages {
	if size <= 0 {
		size = len(ps)
	}
	var batches []StoryPages
	for start := 0; start < len(ps); start += size {
		end := min(start+size, len(ps))
		batches = append(batches, ps[start:end].Clone())
	}
	return batches
}

// Illustrated は全ページに画像URLが入っているかどうかを返します。
func (ps StoryPages) Illustrated() bool {
	for _, p := range ps {
		if p.ImageURL == "" {
			return false
		}
	}
	return true
}

// IllustratedCount は画像URLが入っているページ数を返します。
func (ps StoryPages) IllustratedCount() int {
	n := 0
	for _, p := range ps {
		if p.ImageURL != "" {
			n++
		}
	}
	return n
}
