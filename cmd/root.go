package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-ad-concept-kit/internal/builder"
	"github.com/shouni/go-ad-concept-kit/internal/config"

	"github.com/spf13/cobra"
)

// opts はコマンドラインフラグの値を受け取る実行時オプションなのだ。
var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:   "ad-concept-kit",
	Short: "商品写真から広告コンセプト画像と広告コピーを生成するのだ。",
	Long: `商品写真をアップロードすると、4 つのスタイルで広告コンセプト画像を生成するのだ。
気に入ったコンセプトを選んで製品情報を入力すれば、ヘッドコピーとボディコピーも作るのだよ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", "", "広告コピー生成に使う Gemini モデル名なのだ（既定: "+config.DefaultModel+"）。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", "", "コンセプト画像生成に使う Gemini モデル名なのだ（既定: "+config.DefaultImageModel+"）。")
	rootCmd.PersistentFlags().StringVarP(&opts.Language, "language", "l", "", "広告コピーの出力言語なのだ（既定: "+config.DefaultCopyLanguage+"）。")
	rootCmd.PersistentFlags().StringVarP(&opts.StyleConfig, "style-config", "s", "", "4 つのスタイル指示を定義した JSON のパスなのだ。空なら組み込みを使うのだ。")

	// --- 表示設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.PreviewDir, "preview-dir", "p", "", "生成したコンセプト画像を書き出すディレクトリなのだ。")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

// preRunAppE は、コマンド実行前にログレベルを設定するのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境変数を読み込み、フラグの値で上書きした設定を返すのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Apply(opts)
	return cfg
}

// newAppContext は認証情報をチェックしてからワークフロー一式を組み立てるのだ。
func newAppContext(ctx context.Context) (*builder.AppContext, error) {
	cfg := loadConfig()
	// Vertex AI を使う場合は ADC で認証するので API キーはいらないのだ
	if cfg.GeminiAPIKey == "" && !cfg.UseVertexAI() {
		return nil, fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません（Vertex AI を使う場合は PROJECT_ID と REGION を設定してほしいのだ）")
	}
	slog.Debug("設定を読み込んだのだ",
		"text_model", cfg.GeminiModel,
		"image_model", cfg.GeminiImageModel,
		"language", cfg.CopyLanguage,
		"vertex_ai", cfg.UseVertexAI())
	return builder.NewAppContext(ctx, cfg)
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(sessionCmd, generateCmd)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
