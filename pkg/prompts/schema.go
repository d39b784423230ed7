package prompts

import (
	"fmt"

	"github.com/shouni/go-ad-concept-kit/pkg/domain"

	"google.golang.org/genai"
)

const (
	// FieldHeadlines と FieldBodies は構造化出力の必須フィールド名です。
	FieldHeadlines = "headlines"
	FieldBodies    = "bodies"
)

// AdCopySchema はコピー生成リクエストで宣言する構造化出力スキーマを返します。
func AdCopySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			FieldHeadlines: {
				Type:        genai.TypeArray,
				Description: fmt.Sprintf("%d 文字以内のヘッドコピー %d 個", domain.MaxHeadlineChars, domain.MaxCopyEntries),
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			FieldBodies: {
				Type:        genai.TypeArray,
				Description: fmt.Sprintf("%d 文字以内のボディコピー %d 個", domain.MaxBodyChars, domain.MaxCopyEntries),
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{FieldHeadlines, FieldBodies},
	}
}
