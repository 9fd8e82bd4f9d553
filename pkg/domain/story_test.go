package domain

import "testing"

func TestStoryPages_MergeImageURLs(t *testing.T) {
	t.Run("ページ番号で対応付けられ、位置に依存しないこと", func(t *testing.T) {
		pages := StoryPages{
			{PageNumber: 1}, {PageNumber: 2}, {PageNumber: 3},
		}
		n := pages.MergeImageURLs(map[int]string{3: "u3", 1: "u1"})
		if n != 2 {
			t.Errorf("書き込み件数 期待値 2, 実際の値 %d", n)
		}
		if pages[0].ImageURL != "u1" || pages[1].ImageURL != "" || pages[2].ImageURL != "u3" {
			t.Errorf("誤った割り当てです: %+v", pages)
		}
	})

	t.Run("存在しないページ番号は無視されること", func(t *testing.T) {
		pages := StoryPages{{PageNumber: 1}}
		if n := pages.MergeImageURLs(map[int]string{9: "u9"}); n != 0 {
			t.Errorf("書き込み件数 期待値 0, 実際の値 %d", n)
		}
	})
}

func TestStoryPages_ContiguousAndRenumber(t *testing.T) {
	pages := StoryPages{{PageNumber: 1}, {PageNumber: 3}, {PageNumber: 4}}
	if pages.Contiguous() {
		t.Fatal("欠番があるのに Contiguous が true です")
	}
	pages.Renumber()
	if !pages.Contiguous() {
		t.Errorf("振り直し後は連番のはずです: %+v", pages)
	}
}

func TestStoryPages_Batches(t *testing.T) {
	pages := make(StoryPages, 12)
	for i := range pages {
		pages[i].PageNumber = i + 1
	}

	batches := pages.Batches(3)
	if len(batches) != 4 {
		t.Fatalf("バッチ数 期待値 4, 実際の値 %d", len(batches))
	}
	if batches[3][0].PageNumber != 10 || batches[3][2].PageNumber != 12 {
		t.Errorf("最終バッチの内容が違います: %+v", batches[3])
	}

	batches[0][0].ImageURL = "changed"
	if pages[0].ImageURL != "" {
		t.Error("バッチの変更が元のページ列に影響しています")
	}

	odd := pages[:7].Batches(3)
	if len(odd) != 3 || len(odd[2]) != 1 {
		t.Errorf("端数のバッチ分割が違います: %d バッチ", len(odd))
	}
}
