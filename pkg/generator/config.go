package generator

// デフォルト値の定義
const (
	DefaultTextModel    = "gemini-2.5-flash"
	DefaultImageModel   = "gemini-2.5-flash-image"
	DefaultCopyLanguage = "Korean"
)

// Config は生成クライアントの動作設定です。
// 上流サービスへの接続自体は ContentGenerator として別に注入します。
type Config struct {
	TextModel       string
	ImageModel      string
	CopyLanguage    string
	CopyTemperature *float32
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		TextModel:    DefaultTextModel,
		ImageModel:   DefaultImageModel,
		CopyLanguage: DefaultCopyLanguage,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TextModel == "" {
		c.TextModel = d.TextModel
	}
	if c.ImageModel == "" {
		c.ImageModel = d.ImageModel
	}
	if c.CopyLanguage == "" {
		c.CopyLanguage = d.CopyLanguage
	}
	return c
}
