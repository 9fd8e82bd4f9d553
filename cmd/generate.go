package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-amazebook-kit/internal/config"
	"github.com/shouni/go-amazebook-kit/internal/pipeline"
	"github.com/shouni/go-amazebook-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// generateCmd は、フラグで指定したキャラクターで絵本を生成し、そのまま書き出すのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "絵本を生成して PDF と Markdown に書き出すのだ。",
	Long: `キャラクターとテーマから物語と挿絵を生成するのだ。
出力は book.pdf、book.md、images/ ディレクトリになるのだよ。`,
	RunE: generateCommand,
}

func init() {
	f := generateCmd.Flags()
	f.StringArrayVarP(&opts.Names, "name", "n", nil, "キャラクターの名前なのだ（複数指定可）。")
	f.IntVar(&opts.Age, "age", 0, "キャラクターの年齢なのだ。")
	f.StringVar(&opts.Gender, "gender", "", "boy, girl, neutral のいずれかなのだ。")
	f.StringVar(&opts.HairColor, "hair", "", "髪の色なのだ。")
	f.StringVar(&opts.EyeColor, "eyes", "", "目の色なのだ。")
	f.StringVarP(&opts.Theme, "theme", "t", string(domain.DefaultTheme), "冒険のテーマなのだ。")
	f.StringVarP(&opts.Style, "style", "s", string(domain.DefaultStyle), "watercolor, cartoon, storybook_classic, 3d_render のいずれかなのだ。")
	f.StringVarP(&opts.Prompt, "prompt", "p", "", "物語への追加の要望なのだ。")
	f.BoolVar(&opts.Consent, "consent", false, "保護者の同意を与えるのだ。")
	f.StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "書き出し先のディレクトリなのだ。")
}

func generateCommand(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if len(opts.Names) == 0 {
		return fmt.Errorf("--name を少なくとも1つ指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("絵本生成パイプラインを起動するのだ！",
		"names", opts.Names,
		"theme", opts.Theme,
		"style", opts.Style,
		"text_model", cfg.GeminiModel,
		"output", opts.OutputDir)

	res, err := pipeline.Execute(ctx, cfg)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！", "pdf", res.PDFPath, "markdown", res.MarkdownPath, "images", len(res.ImagePaths))
	return nil
}
