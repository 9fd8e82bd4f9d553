package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-amazebook-kit/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:               "amazebook",
	Short:             "子ども向けのパーソナライズ絵本を生成するのだ。",
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// preRunAppE は、コマンド実行前に .env とロガーを準備するのだ。
func preRunAppE(_ *cobra.Command, _ []string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// SIGINT と SIGTERM でコンテキストがキャンセルされるのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(serveCmd, generateCmd, settingsCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
