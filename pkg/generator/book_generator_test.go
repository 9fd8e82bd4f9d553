package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shouni/go-amazebook-kit/pkg/config"
	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/imaging"
	"github.com/shouni/go-amazebook-kit/pkg/settings"
	"github.com/shouni/go-amazebook-kit/pkg/story"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRepo struct {
	mu        sync.Mutex
	current   *domain.Project
	snapshots []*domain.Project
}

func newFakeRepo(p *domain.Project) *fakeRepo {
	return &fakeRepo{current: p.Clone()}
}

func (r *fakeRepo) BeginGeneration(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.current.ID != id {
		return nil, errors.New("not found")
	}
	if r.current.Status.IsGenerating() {
		return r.current.Clone(), domain.ErrGenerationInProgress
	}
	if err := domain.ValidateForGeneration(r.current); err != nil {
		r.current.Error = err.Error()
		return r.current.Clone(), err
	}
	r.current.Error = ""
	r.current.StoryPages = domain.StoryPages{}
	r.current.CoverURL = ""
	r.current.Status = domain.StatusPlanningStory
	r.snapshots = append(r.snapshots, r.current.Clone())
	return r.current.Clone(), nil
}

func (r *fakeRepo) Publish(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = p.Clone()
	r.snapshots = append(r.snapshots, p.Clone())
	return nil
}

func (r *fakeRepo) statuses() []domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Status
	for _, s := range r.snapshots {
		if len(out) == 0 || out[len(out)-1] != s.Status {
			out = append(out, s.Status)
		}
	}
	return out
}

type fakeWriter struct {
	outlineCalls    int
	manuscriptCalls int
	pages           domain.StoryPages
	outlineErr      error
}

func (w *fakeWriter) GenerateOutline(context.Context, story.OutlineRequest) (domain.Outline, error) {
	w.outlineCalls++
	if w.outlineErr != nil {
		return domain.Outline{}, w.outlineErr
	}
	return domain.Outline{Title: "The Moon Trip", Outline: "1. go", CoverImageDescription: "Leo on the moon"}, nil
}

func (w *fakeWriter) GenerateManuscript(context.Context, story.ManuscriptRequest) (domain.StoryPages, error) {
	w.manuscriptCalls++
	return w.pages.Clone(), nil
}

func newPages(numbers ...int) domain.StoryPages {
	pages := make(domain.StoryPages, 0, len(numbers))
	for _, n := range numbers {
		pages = append(pages, domain.StoryPage{PageNumber: n, Text: fmt.Sprintf("text %d", n), ImagePrompt: fmt.Sprintf("scene-%d", n)})
	}
	return pages
}

// promptImages はプロンプトに含まれる scene 名から URL を作ります。
type promptImages struct {
	calls    atomic.Int32
	inflight atomic.Int32
	peak     atomic.Int32
	failOn   string
}

func (g *promptImages) Generate(ctx context.Context, req imagedom.ImageGenerationRequest) (string, error) {
	g.calls.Add(1)
	n := g.inflight.Add(1)
	defer g.inflight.Add(-1)
	for {
		peak := g.peak.Load()
		if n <= peak || g.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	if g.failOn != "" && strings.Contains(req.Prompt, g.failOn) {
		return "", errors.New("image service down")
	}
	scene, _, _ := strings.Cut(req.Prompt, ",")
	return "https://img.example.com/" + scene, nil
}

func readyProject() *domain.Project {
	p := domain.NewProject("p1")
	p.ConsentGiven = true
	p.Characters[0].Name = "Leo"
	return p
}

func newTestGenerator(t *testing.T, w story.Writer, img imaging.Generator, repo *fakeRepo) *BookGenerator {
	t.Helper()
	svc, err := settings.NewService(settings.NewMemoryStore())
	if err != nil {
		t.Fatalf("設定サービスの初期化に失敗しました: %v", err)
	}
	g, err := New(Args{Config: config.DefaultConfig(), Writer: w, Images: img, Settings: svc, Projects: repo})
	if err != nil {
		t.Fatalf("初期化に失敗しました: %v", err)
	}
	return g
}

func TestBookGenerator_Run(t *testing.T) {
	t.Run("検証エラーでは外部呼び出しを行わないこと", func(t *testing.T) {
		p := readyProject()
		p.ConsentGiven = false
		repo := newFakeRepo(p)
		w := &fakeWriter{pages: newPages(1, 2, 3)}
		img := &promptImages{}

		got, err := newTestGenerator(t, w, img, repo).Run(context.Background(), "p1")
		if !errors.Is(err, domain.ErrConsentRequired) {
			t.Fatalf("ErrConsentRequired を期待しましたが %v", err)
		}
		if w.outlineCalls+w.manuscriptCalls != 0 || img.calls.Load() != 0 {
			t.Error("検証エラーなのに外部呼び出しが発生しています")
		}
		if got.Status != domain.StatusDraft || got.Error != domain.ErrConsentRequired.Error() {
			t.Errorf("ステータスは DRAFT のまま、エラーが記録されるはずです: %s / %q", got.Status, got.Error)
		}
	})

	t.Run("先頭キャラクターの名前が空白だけなら外部呼び出しを行わないこと", func(t *testing.T) {
		p := readyProject()
		p.Characters[0].Name = "  "
		repo := newFakeRepo(p)
		w := &fakeWriter{pages: newPages(1, 2, 3)}
		img := &promptImages{}

		got, err := newTestGenerator(t, w, img, repo).Run(context.Background(), "p1")
		if !errors.Is(err, domain.ErrCharacterRequired) {
			t.Fatalf("ErrCharacterRequired を期待しましたが %v", err)
		}
		if w.outlineCalls+w.manuscriptCalls != 0 || img.calls.Load() != 0 {
			t.Errorf("検証エラーなのに外部呼び出しが発生しています: writer=%d, image=%d", w.outlineCalls+w.manuscriptCalls, img.calls.Load())
		}
		if got.Status != domain.StatusDraft || len(repo.snapshots) != 0 {
			t.Errorf("ステータスは DRAFT のまま進捗も公開されないはずです: %s / %d 件", got.Status, len(repo.snapshots))
		}
	})

	t.Run("正常系ではページ番号どおりに画像が割り当てられること", func(t *testing.T) {
		repo := newFakeRepo(readyProject())
		w := &fakeWriter{pages: newPages(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)}
		img := &promptImages{}

		got, err := newTestGenerator(t, w, img, repo).Run(context.Background(), "p1")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if got.Status != domain.StatusCompleted {
			t.Errorf("期待値 COMPLETED, 実際の値 %s", got.Status)
		}
		for _, page := range got.StoryPages {
			want := fmt.Sprintf("https://img.example.com/scene-%d", page.PageNumber)
			if page.ImageURL != want {
				t.Errorf("ページ %d の画像 期待値 %s, 実際の値 %s", page.PageNumber, want, page.ImageURL)
			}
		}
		if got.CoverURL == "" || got.Title != "The Moon Trip" {
			t.Errorf("表紙とタイトルが反映されていません: %+v", got)
		}
		if got.Dedication != "For Leo, the bravest adventurer I know." {
			t.Errorf("献辞の既定値が違います: %q", got.Dedication)
		}
		if calls := img.calls.Load(); calls != 13 {
			t.Errorf("画像呼び出し 期待値 13 (表紙+12), 実際の値 %d", calls)
		}
		if peak := img.peak.Load(); peak > 3 {
			t.Errorf("同時実行数がバッチサイズを超えています: %d", peak)
		}

		want := []domain.Status{domain.StatusPlanningStory, domain.StatusGeneratingStory, domain.StatusGeneratingImages, domain.StatusCompleted}
		if got := repo.statuses(); fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("ステータス遷移 期待値 %v, 実際の値 %v", want, got)
		}
	})

	t.Run("バッチごとに途中経過が公開されること", func(t *testing.T) {
		repo := newFakeRepo(readyProject())
		w := &fakeWriter{pages: newPages(1, 2, 3, 4, 5, 6)}

		if _, err := newTestGenerator(t, w, &promptImages{}, repo).Run(context.Background(), "p1"); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		var illustrated []int
		for _, s := range repo.snapshots {
			if s.Status == domain.StatusGeneratingImages {
				illustrated = append(illustrated, s.StoryPages.IllustratedCount())
			}
		}
		// ページ公開, 表紙, バッチ1, バッチ2
		if fmt.Sprint(illustrated) != "[0 0 3 6]" {
			t.Errorf("途中経過の挿絵枚数が違います: %v", illustrated)
		}
	})

	t.Run("画像の失敗で FAILED になり、途中の状態は残ること", func(t *testing.T) {
		repo := newFakeRepo(readyProject())
		w := &fakeWriter{pages: newPages(1, 2, 3, 4, 5, 6)}
		img := &promptImages{failOn: "scene-5"}

		got, err := newTestGenerator(t, w, img, repo).Run(context.Background(), "p1")
		if err == nil {
			t.Fatal("エラーを期待しました")
		}
		if got.Status != domain.StatusFailed || !strings.Contains(got.Error, "image service down") {
			t.Errorf("FAILED とエラーメッセージを期待しました: %s / %q", got.Status, got.Error)
		}
		if len(got.StoryPages) != 6 || got.CoverURL == "" {
			t.Errorf("生成済みのページと表紙は残るはずです: %+v", got)
		}
		if n := got.StoryPages.IllustratedCount(); n != 3 {
			t.Errorf("最初のバッチの画像だけが残るはずです: %d 枚", n)
		}
	})

	t.Run("アウトラインの失敗で FAILED になること", func(t *testing.T) {
		repo := newFakeRepo(readyProject())
		w := &fakeWriter{outlineErr: errors.New("quota")}

		got, err := newTestGenerator(t, w, &promptImages{}, repo).Run(context.Background(), "p1")
		if err == nil || got.Status != domain.StatusFailed {
			t.Fatalf("FAILED を期待しましたが %v / %v", got.Status, err)
		}
		if w.manuscriptCalls != 0 {
			t.Error("アウトライン失敗後に台本生成が呼ばれています")
		}
	})

	t.Run("ページ数はそのまま受け入れ、欠番は振り直すこと", func(t *testing.T) {
		repo := newFakeRepo(readyProject())
		w := &fakeWriter{pages: newPages(1, 2, 4, 5, 9)}

		got, err := newTestGenerator(t, w, &promptImages{}, repo).Run(context.Background(), "p1")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if len(got.StoryPages) != 5 || !got.StoryPages.Contiguous() {
			t.Errorf("5ページ連番を期待しました: %+v", got.StoryPages)
		}
		if got.StoryPages[4].ImageURL != "https://img.example.com/scene-9" {
			t.Errorf("振り直し後も本来のページの画像が割り当てられるはずです: %s", got.StoryPages[4].ImageURL)
		}
	})

	t.Run("ページが0枚ならエラー", func(t *testing.T) {
		repo := newFakeRepo(readyProject())
		got, err := newTestGenerator(t, &fakeWriter{}, &promptImages{}, repo).Run(context.Background(), "p1")
		if !errors.Is(err, ErrEmptyManuscript) || got.Status != domain.StatusFailed {
			t.Errorf("ErrEmptyManuscript と FAILED を期待しましたが %v / %s", err, got.Status)
		}
	})

	t.Run("Flux 未設定なら全ての画像がバックアップから返ること", func(t *testing.T) {
		repo := newFakeRepo(readyProject())
		w := &fakeWriter{pages: newPages(1, 2, 3, 4)}
		primary := imaging.GeneratorFunc(func(context.Context, imagedom.ImageGenerationRequest) (string, error) {
			return "", imaging.ErrFluxNotConfigured
		})
		chain := imaging.NewFallbackGenerator("flux", primary, imaging.NewPlaceholderGenerator(config.DefaultPlaceholderImage))

		got, err := newTestGenerator(t, w, chain, repo).Run(context.Background(), "p1")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if got.CoverURL != config.DefaultPlaceholderImage {
			t.Errorf("表紙がプレースホルダーではありません: %s", got.CoverURL)
		}
		for _, page := range got.StoryPages {
			if page.ImageURL != config.DefaultPlaceholderImage {
				t.Errorf("ページ %d がプレースホルダーではありません: %s", page.PageNumber, page.ImageURL)
			}
		}
	})

	t.Run("生成中のプロジェクトは再実行できないこと", func(t *testing.T) {
		p := readyProject()
		p.Status = domain.StatusGeneratingImages
		repo := newFakeRepo(p)
		w := &fakeWriter{}

		_, err := newTestGenerator(t, w, &promptImages{}, repo).Run(context.Background(), "p1")
		if !errors.Is(err, ErrGenerationInProgress) {
			t.Errorf("ErrGenerationInProgress を期待しましたが %v", err)
		}
		if w.outlineCalls != 0 {
			t.Error("生成中なのにアウトラインが呼ばれています")
		}
	})

	t.Run("確保済みのプロジェクトは Run できず、RunReserved で生成されること", func(t *testing.T) {
		repo := newFakeRepo(readyProject())
		w := &fakeWriter{pages: newPages(1, 2, 3)}
		g := newTestGenerator(t, w, &promptImages{}, repo)

		if !g.Reserve("p1") {
			t.Fatal("最初の確保は成功するはずです")
		}
		if g.Reserve("p1") {
			t.Error("二重に確保できてしまいました")
		}
		if _, err := g.Run(context.Background(), "p1"); !errors.Is(err, ErrGenerationInProgress) {
			t.Errorf("ErrGenerationInProgress を期待しましたが %v", err)
		}
		if w.outlineCalls != 0 {
			t.Error("確保済みなのにアウトラインが呼ばれています")
		}

		got, err := g.RunReserved(context.Background(), "p1")
		if err != nil || got.Status != domain.StatusCompleted {
			t.Fatalf("COMPLETED を期待しましたが %v / %v", got, err)
		}
		if g.IsRunning("p1") {
			t.Error("RunReserved の終了後は確保が解放されるはずです")
		}
		if !g.Reserve("p1") {
			t.Error("解放後は再び確保できるはずです")
		}
	})
}
