package builder

import (
	"github.com/shouni/go-amazebook-kit/internal/config"
	"github.com/shouni/go-amazebook-kit/internal/store"
	"github.com/shouni/go-amazebook-kit/pkg/project"
	"github.com/shouni/go-amazebook-kit/pkg/settings"
	"github.com/shouni/go-amazebook-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config   *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、ポートなど）。
	Options  config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です。
	Store    *store.SQLiteStore     // Storeは、設定値と作例を永続化する SQLite です。
	Settings *settings.Service      // Settingsは、管理画面で編集されるプロンプトと調整値です。
	Projects *project.Store         // Projectsは、制作中の絵本を保持するプロセス内ストアです。
	Manager  *workflow.Manager      // Managerは、生成、書き出し、認証、決済のサービス群です。
}

// Close は保持しているリソースを解放します。
func (a *AppContext) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
