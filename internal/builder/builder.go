package builder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shouni/go-amazebook-kit/internal/config"
	"github.com/shouni/go-amazebook-kit/internal/server"
	"github.com/shouni/go-amazebook-kit/internal/store"
	"github.com/shouni/go-amazebook-kit/pkg/project"
	"github.com/shouni/go-amazebook-kit/pkg/publisher"
	"github.com/shouni/go-amazebook-kit/pkg/settings"
	"github.com/shouni/go-amazebook-kit/pkg/workflow"
)

// NewAppContext は SQLite を開き、設定サービスとワークフローを初期化します。
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("データベースの初期化に失敗したのだ: %w", err)
	}

	appCtx, err := newAppContext(ctx, cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return appCtx, nil
}

func newAppContext(ctx context.Context, cfg *config.Config, db *store.SQLiteStore) (*AppContext, error) {
	svc, err := settings.NewService(db)
	if err != nil {
		return nil, fmt.Errorf("設定サービスの初期化に失敗したのだ: %w", err)
	}

	kit := cfg.Kit()
	projects := project.NewStore()
	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config:        kit,
		SessionSecret: cfg.SessionSecret,
		HTTPClient:    &http.Client{Timeout: kit.HTTPTimeout},
		Settings:      svc,
		Projects:      projects,
		Writer:        publisher.NewLocalWriter(),
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗したのだ: %w", err)
	}

	return &AppContext{
		Config:   cfg,
		Options:  cfg.Options,
		Store:    db,
		Settings: svc,
		Projects: projects,
		Manager:  manager,
	}, nil
}

// BuildServer は HTTP API サーバーを構築します。
func BuildServer(appCtx *AppContext) (*server.Server, error) {
	return server.New(server.Deps{
		Projects:       appCtx.Projects,
		Examples:       appCtx.Store,
		Settings:       appCtx.Settings,
		Auth:           appCtx.Manager.Auth(),
		Payments:       appCtx.Manager.Payments(),
		Generator:      appCtx.Manager.Generator(),
		Publisher:      appCtx.Manager.Publisher(),
		OutputDir:      appCtx.Config.OutputDir,
		AllowedOrigins: appCtx.Config.AllowedOrigins,
	})
}
