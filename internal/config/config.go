package config

import (
	"log/slog"

	"github.com/shouni/go-ad-concept-kit/pkg/generator"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel        = generator.DefaultTextModel
	DefaultImageModel   = generator.DefaultImageModel
	DefaultCopyLanguage = generator.DefaultCopyLanguage
)

// Config はアプリケーション全体の環境設定（APIキーやクラウド設定）を保持する構造体なのだ。
type Config struct {
	ProjectID        string
	LocationID       string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	CopyLanguage     string
	StyleConfig      string

	Options GenerateOptions
}

// LoadConfig は .env と環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env ファイルが見つからないので環境変数だけを使うのだ")
	}

	return &Config{
		ProjectID:        envutil.GetEnv("PROJECT_ID", ""),
		LocationID:       envutil.GetEnv("REGION", ""),
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		CopyLanguage:     envutil.GetEnv("COPY_LANGUAGE", DefaultCopyLanguage),
		StyleConfig:      envutil.GetEnv("STYLE_CONFIG", ""),
	}
}

// UseVertexAI は Vertex AI バックエンドを使うべきかを返すのだ。
func (c *Config) UseVertexAI() bool {
	return c.ProjectID != "" && c.LocationID != ""
}

// Apply は CLI フラグで明示された値を環境設定に上書きするのだ。
func (c *Config) Apply(opts GenerateOptions) {
	if opts.AIModel != "" {
		c.GeminiModel = opts.AIModel
	}
	if opts.ImageModel != "" {
		c.GeminiImageModel = opts.ImageModel
	}
	if opts.Language != "" {
		c.CopyLanguage = opts.Language
	}
	if opts.StyleConfig != "" {
		c.StyleConfig = opts.StyleConfig
	}
	c.Options = opts
}

// GeneratorConfig は生成クライアント向けの設定に変換するのだ。
func (c *Config) GeneratorConfig() generator.Config {
	return generator.Config{
		TextModel:    c.GeminiModel,
		ImageModel:   c.GeminiImageModel,
		CopyLanguage: c.CopyLanguage,
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// AI挙動設定
	AIModel     string // --model: テキスト生成用のGeminiモデル
	ImageModel  string // --image-model: 画像生成用のGeminiモデル
	Language    string // --language: 広告コピーの言語
	StyleConfig string // --style-config: スタイル指示 JSON のパス

	// 表示設定
	PreviewDir string // --preview-dir: コンセプト画像のプレビュー出力先（空なら出力しない）
	Verbose    bool   // --verbose

	// generate コマンド専用
	ImagePath   string // --image
	SelectIndex int    // --select (1 始まり)
	ProductInfo string // --product
}
