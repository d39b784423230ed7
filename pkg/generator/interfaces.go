package generator

import (
	"context"

	"google.golang.org/genai"
)

// ContentGenerator は生成サービスへの 1 回のリクエストを表す最小限の契約です。
// *genai.Models がこのインターフェースを満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
