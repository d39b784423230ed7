package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-ad-concept-kit/pkg/domain"
	"github.com/shouni/go-ad-concept-kit/pkg/prompts"

	"google.golang.org/genai"
)

const jsonMimeType = "application/json"

// CopyGenerator はコンセプト名と製品情報から構造化された広告コピーを生成します。
type CopyGenerator struct {
	client        ContentGenerator
	promptBuilder prompts.CopyPrompt
	cfg           Config
}

// NewCopyGenerator は依存関係を注入して CopyGenerator を初期化します。
// pb が nil の場合は埋め込みテンプレートのビルダーを作成します。
func NewCopyGenerator(client ContentGenerator, pb prompts.CopyPrompt, cfg Config) (*CopyGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("ContentGenerator は必須です")
	}
	if pb == nil {
		builder, err := prompts.NewTextPromptBuilder()
		if err != nil {
			return nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
		}
		pb = builder
	}
	return &CopyGenerator{
		client:        client,
		promptBuilder: pb,
		cfg:           cfg.withDefaults(),
	}, nil
}

// Generate は広告コピーを 1 回だけ要求し、検証・正規化した結果を返します。
// 失敗はすべて CopyGenerationError として報告します。
func (g *CopyGenerator) Generate(ctx context.Context, conceptLabel, productInfo string) (*domain.AdCopyResult, error) {
	if strings.TrimSpace(conceptLabel) == "" || strings.TrimSpace(productInfo) == "" {
		return nil, &domain.CopyGenerationError{
			Err: &domain.InvalidInputError{Reason: "コンセプト名と製品情報はどちらも必須です"},
		}
	}

	prompt, err := g.promptBuilder.Build(prompts.NewTemplateData(conceptLabel, productInfo, g.cfg.CopyLanguage))
	if err != nil {
		return nil, &domain.CopyGenerationError{Err: err}
	}

	config := &genai.GenerateContentConfig{
		Temperature:      g.cfg.CopyTemperature,
		ResponseMIMEType: jsonMimeType,
		ResponseSchema:   prompts.AdCopySchema(),
	}

	slog.InfoContext(ctx, "広告コピーの生成を開始します", "model", g.cfg.TextModel, "concept", conceptLabel)
	startTime := time.Now()

	resp, err := g.client.GenerateContent(ctx, g.cfg.TextModel, genai.Text(prompt), config)
	if err != nil {
		slog.ErrorContext(ctx, "テキスト生成 API の呼び出しに失敗しました", "error", err)
		return nil, &domain.CopyGenerationError{Err: err}
	}
	if isBlocked(resp) {
		return nil, &domain.CopyGenerationError{
			Err: fmt.Errorf("プロンプトがブロックされました: %s", resp.PromptFeedback.BlockReason),
		}
	}

	result, err := parseAdCopy(resp.Text())
	if err != nil {
		return nil, &domain.CopyGenerationError{Err: err}
	}

	slog.InfoContext(ctx, "広告コピーを生成しました",
		"headlines", len(result.Headlines),
		"bodies", len(result.Bodies),
		"duration", time.Since(startTime).Round(time.Millisecond))
	return result, nil
}

// rawAdCopy は未検証の応答です。フィールドの欠落を区別するためポインタで受けます。
type rawAdCopy struct {
	Headlines *[]string `json:"headlines"`
	Bodies    *[]string `json:"bodies"`
}

// parseAdCopy はフェンスを取り除いた応答をパースし、スキーマを検証します。
func parseAdCopy(raw string) (*domain.AdCopyResult, error) {
	payload := normalizeJSONPayload(raw)

	var parsed rawAdCopy
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, 200), err)
	}

	switch {
	case parsed.Headlines == nil || len(*parsed.Headlines) == 0:
		return nil, &domain.MalformedResponseError{Field: prompts.FieldHeadlines}
	case parsed.Bodies == nil || len(*parsed.Bodies) == 0:
		return nil, &domain.MalformedResponseError{Field: prompts.FieldBodies}
	}

	return domain.NewAdCopyResult(*parsed.Headlines, *parsed.Bodies), nil
}
