package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-ad-concept-kit/pkg/domain"
)

var (
	//go:embed ad_copy.md
	AdCopyPrompt string
	//go:embed concept_safety.md
	ConceptSafetyInstruction string
)

// CopyPrompt は、広告コピー生成用のプロンプトを構築する契約です。
type CopyPrompt interface {
	Build(data TemplateData) (string, error)
}

// TemplateData は広告コピーのテンプレートに渡すデータ構造です。
type TemplateData struct {
	ProductInfo      string
	ConceptLabel     string
	Language         string
	Count            int
	MaxHeadlineChars int
	MaxBodyChars     int
}

// NewTemplateData は件数と文字数の上限を既定値で埋めた TemplateData を返します。
func NewTemplateData(conceptLabel, productInfo, language string) TemplateData {
	return TemplateData{
		ProductInfo:      productInfo,
		ConceptLabel:     conceptLabel,
		Language:         language,
		Count:            domain.MaxCopyEntries,
		MaxHeadlineChars: domain.MaxHeadlineChars,
		MaxBodyChars:     domain.MaxBodyChars,
	}
}

// TextPromptBuilder は埋め込みテンプレートから広告コピーのプロンプトを組み立てます。
type TextPromptBuilder struct {
	tmpl *template.Template
}

// NewTextPromptBuilder は TextPromptBuilder を初期化します。
func NewTextPromptBuilder() (*TextPromptBuilder, error) {
	if AdCopyPrompt == "" {
		return nil, fmt.Errorf("プロンプトテンプレート 'ad_copy' (go:embed) の読み込みに失敗しました: 内容が空です")
	}

	tmpl, err := template.New("ad_copy").Option("missingkey=error").Parse(AdCopyPrompt)
	if err != nil {
		return nil, fmt.Errorf("プロンプト 'ad_copy' の解析に失敗: %w", err)
	}
	return &TextPromptBuilder{tmpl: tmpl}, nil
}

// Build はテンプレートを実行します。製品情報とコンセプト名はそのまま埋め込まれます。
func (b *TextPromptBuilder) Build(data TemplateData) (string, error) {
	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return sb.String(), nil
}

// BuildConceptPrompt はスタイル指示の末尾に安全・品質上の固定指示を付け加えます。
// この指示はすべてのリクエストに必ず付与されます。
func BuildConceptPrompt(directive string) string {
	return strings.TrimSpace(directive) + "\n\n" + strings.TrimSpace(ConceptSafetyInstruction)
}
