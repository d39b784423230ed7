package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-ad-concept-kit/pkg/domain"
	"github.com/shouni/go-ad-concept-kit/pkg/prompts"

	"google.golang.org/genai"
)

// ConceptGenerator は元画像とスタイル指示から変換済みのコンセプト画像を 1 枚生成します。
// リトライは行いません。並列化は呼び出し側の責務です。
type ConceptGenerator struct {
	client ContentGenerator
	model  string
}

// NewConceptGenerator は ConceptGenerator を初期化します。
func NewConceptGenerator(client ContentGenerator, cfg Config) (*ConceptGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("ContentGenerator は必須です")
	}
	return &ConceptGenerator{
		client: client,
		model:  cfg.withDefaults().ImageModel,
	}, nil
}

// Generate は画像のみのレスポンスを要求し、最初のインライン画像を正規化して返します。
func (g *ConceptGenerator) Generate(ctx context.Context, image domain.SourceImage, directive string) (domain.ConceptFragment, error) {
	if strings.TrimSpace(directive) == "" {
		return domain.ConceptFragment{}, &domain.InvalidInputError{Reason: "スタイル指示が空です"}
	}
	raw, err := base64.StdEncoding.DecodeString(image.Data)
	if err != nil || len(raw) == 0 {
		return domain.ConceptFragment{}, &domain.InvalidInputError{Reason: "元画像のデータが不正です", Err: err}
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(raw, image.MimeType),
			genai.NewPartFromText(prompts.BuildConceptPrompt(directive)),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage)},
	}

	logger := slog.With("model", g.model, "directive", truncateString(directive, 40))
	logger.DebugContext(ctx, "コンセプト画像の生成を開始します")
	startTime := time.Now()

	resp, err := g.client.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		logger.ErrorContext(ctx, "画像生成 API の呼び出しに失敗しました", "error", err)
		if isTimeout(err) {
			return domain.ConceptFragment{}, &domain.TimeoutError{Err: err}
		}
		return domain.ConceptFragment{}, &domain.GenerationError{Err: err}
	}
	if isBlocked(resp) {
		return domain.ConceptFragment{}, &domain.GenerationError{
			Err: fmt.Errorf("プロンプトがブロックされました: %s", resp.PromptFeedback.BlockReason),
		}
	}

	blob := firstInlineImage(resp)
	if blob == nil {
		logger.WarnContext(ctx, "レスポンスに画像パートがありません")
		return domain.ConceptFragment{}, &domain.NoImageReturnedError{Directive: directive}
	}

	mimeType := blob.MIMEType
	if mimeType == "" {
		mimeType = fallbackImageMimeType
	}
	payload := base64.StdEncoding.EncodeToString(blob.Data)

	logger.InfoContext(ctx, "コンセプト画像を生成しました",
		"mime_type", mimeType,
		"duration", time.Since(startTime).Round(time.Millisecond))

	return domain.ConceptFragment{
		Src:      domain.BuildDataURL(mimeType, payload),
		Data:     payload,
		MimeType: mimeType,
	}, nil
}
