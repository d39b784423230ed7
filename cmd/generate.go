package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-ad-concept-kit/internal/config"
	"github.com/shouni/go-ad-concept-kit/internal/ui"
	"github.com/shouni/go-ad-concept-kit/pkg/decoder"
	"github.com/shouni/go-ad-concept-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// generateCmd は、1 回のコマンドでアップロードからコピー生成までを実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "商品写真から広告コンセプトとコピーを一括生成するのだ。",
	Long: `--image の写真から 4 つのコンセプト画像を生成するのだ。
--select でコンセプトを選び、--product で製品情報を渡すと広告コピーまで作るのだよ。`,
	Args: cobra.NoArgs,
	RunE: generateCommand,
}

func init() {
	generateCmd.Flags().StringVarP(&opts.ImagePath, "image", "i", "", "商品写真のパスなのだ（png/jpeg/webp）。")
	generateCmd.Flags().IntVar(&opts.SelectIndex, "select", 0, "コピーを作るコンセプトの番号（1〜4）なのだ。")
	generateCmd.Flags().StringVar(&opts.ProductInfo, "product", "", "製品名・特徴・ターゲットなどの製品情報なのだ。")
}

// validateGenerateOptions はフラグの組み合わせをチェックするのだ。
func validateGenerateOptions(o config.GenerateOptions) error {
	if o.ImagePath == "" {
		return fmt.Errorf("商品写真（--image）を指定してほしいのだ")
	}
	if o.SelectIndex < 0 || o.SelectIndex > domain.StyleDirectiveCount {
		return fmt.Errorf("--select は 1 から %d で指定してほしいのだ", domain.StyleDirectiveCount)
	}
	if o.ProductInfo != "" && o.SelectIndex == 0 {
		return fmt.Errorf("--product を使うときは --select でコンセプトを選んでほしいのだ")
	}
	return nil
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := validateGenerateOptions(opts); err != nil {
		return err
	}

	app, err := newAppContext(ctx)
	if err != nil {
		return err
	}
	o := app.Orchestrator
	out := cmd.OutOrStdout()

	// 1. アップロード
	file, closer, err := decoder.OpenFile(opts.ImagePath)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	defer closer.Close()
	if err := o.Upload(ctx, file); err != nil {
		return errors.New(domain.UserMessage(err))
	}

	// 2. コンセプト生成
	slog.Info("コンセプト画像を生成するのだ！", "styles", o.Styles().Titles())
	if err := o.StartConceptGeneration(ctx); err != nil {
		return errors.New(domain.UserMessage(err))
	}
	if app.Options.PreviewDir != "" {
		paths, err := ui.WritePreviews(app.Options.PreviewDir, o.State().Concepts)
		if err != nil {
			return err
		}
		slog.Info("プレビュー画像を保存したのだ", "paths", paths)
	}

	// 3. 選択とコピー生成
	if opts.SelectIndex > 0 {
		concept := o.State().Concepts[opts.SelectIndex-1]
		if err := o.SelectConcept(concept.ID); err != nil {
			return errors.New(domain.UserMessage(err))
		}
		if opts.ProductInfo != "" {
			if err := o.SetProductInfo(opts.ProductInfo); err != nil {
				return errors.New(domain.UserMessage(err))
			}
			slog.Info("広告コピーを生成するのだ！", "concept", concept.Label)
			if err := o.StartCopyGeneration(ctx); err != nil {
				return errors.New(domain.UserMessage(err))
			}
		}
	}

	(&ui.Renderer{}).Render(out, o.State())
	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
