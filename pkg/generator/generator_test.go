package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shouni/go-ad-concept-kit/pkg/domain"
	"github.com/shouni/go-ad-concept-kit/pkg/prompts"

	"google.golang.org/genai"
)

// fakeModel は ContentGenerator のテスト用実装です。
type fakeModel struct {
	resp *genai.GenerateContentResponse
	err  error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
	calls       int
}

func (f *fakeModel) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	return f.resp, f.err
}

func responseWithParts(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts, Role: genai.RoleModel}}},
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return responseWithParts(genai.NewPartFromText(text))
}

var sourceImage = domain.SourceImage{
	Data:     base64.StdEncoding.EncodeToString([]byte("source-png")),
	MimeType: "image/png",
}

func TestConceptGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("最初のインライン画像を正規化して返す", func(t *testing.T) {
		fake := &fakeModel{resp: responseWithParts(
			genai.NewPartFromText("here you go"),
			genai.NewPartFromBytes([]byte("first"), "image/jpeg"),
			genai.NewPartFromBytes([]byte("second"), "image/png"),
		)}
		g, err := NewConceptGenerator(fake, Config{ImageModel: "image-model"})
		if err != nil {
			t.Fatal(err)
		}

		frag, err := g.Generate(ctx, sourceImage, "Studio lighting on marble")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		wantPayload := base64.StdEncoding.EncodeToString([]byte("first"))
		if frag.Data != wantPayload || frag.MimeType != "image/jpeg" {
			t.Errorf("先頭の画像パートが選ばれていません: %+v", frag)
		}
		if frag.Src != "data:image/jpeg;base64,"+wantPayload {
			t.Errorf("Src の形式が違います: %s", frag.Src)
		}
		if fake.gotModel != "image-model" {
			t.Errorf("モデル名が違います: %s", fake.gotModel)
		}
		if got := fake.gotConfig.ResponseModalities; len(got) != 1 || got[0] != string(genai.ModalityImage) {
			t.Errorf("画像のみのレスポンスを要求していません: %v", got)
		}
	})

	t.Run("元画像と安全指示付きの指示文を送る", func(t *testing.T) {
		fake := &fakeModel{resp: responseWithParts(genai.NewPartFromBytes([]byte("x"), "image/png"))}
		g, _ := NewConceptGenerator(fake, Config{})
		if _, err := g.Generate(ctx, sourceImage, "Vivid pop background"); err != nil {
			t.Fatal(err)
		}

		parts := fake.gotContents[0].Parts
		if len(parts) != 2 {
			t.Fatalf("パート数が違います: %d", len(parts))
		}
		if string(parts[0].InlineData.Data) != "source-png" || parts[0].InlineData.MIMEType != "image/png" {
			t.Error("元画像がそのまま送られていません")
		}
		if parts[1].Text != prompts.BuildConceptPrompt("Vivid pop background") {
			t.Errorf("指示文が違います: %q", parts[1].Text)
		}
		if fake.gotModel != DefaultImageModel {
			t.Errorf("既定のモデルが使われていません: %s", fake.gotModel)
		}
	})

	t.Run("画像パートがなければ NoImageReturnedError", func(t *testing.T) {
		g, _ := NewConceptGenerator(&fakeModel{resp: textResponse("I can't help with that")}, Config{})
		_, err := g.Generate(ctx, sourceImage, "directive")
		var noImage *domain.NoImageReturnedError
		if !errors.As(err, &noImage) {
			t.Errorf("NoImageReturnedError を期待しましたが %v でした", err)
		}
	})

	t.Run("候補なしも NoImageReturnedError", func(t *testing.T) {
		g, _ := NewConceptGenerator(&fakeModel{resp: &genai.GenerateContentResponse{}}, Config{})
		_, err := g.Generate(ctx, sourceImage, "directive")
		var noImage *domain.NoImageReturnedError
		if !errors.As(err, &noImage) {
			t.Errorf("NoImageReturnedError を期待しましたが %v でした", err)
		}
	})

	t.Run("期限切れは TimeoutError", func(t *testing.T) {
		for _, cause := range []error{
			context.DeadlineExceeded,
			fmt.Errorf("rpc: %w", context.DeadlineExceeded),
			errors.New("Error 504, Message: Deadline expired before operation could complete."),
		} {
			g, _ := NewConceptGenerator(&fakeModel{err: cause}, Config{})
			_, err := g.Generate(ctx, sourceImage, "directive")
			var timeout *domain.TimeoutError
			if !errors.As(err, &timeout) {
				t.Errorf("%v: TimeoutError を期待しましたが %v でした", cause, err)
			}
		}
	})

	t.Run("その他の失敗は原因を包んだ GenerationError", func(t *testing.T) {
		cause := errors.New("Error 400, Message: API key not valid")
		g, _ := NewConceptGenerator(&fakeModel{err: cause}, Config{})
		_, err := g.Generate(ctx, sourceImage, "directive")
		var genErr *domain.GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("GenerationError を期待しましたが %v でした", err)
		}
		if !errors.Is(err, cause) {
			t.Error("元のエラーが保持されていません")
		}
	})

	t.Run("ブロックされたプロンプトは GenerationError", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
		}
		g, _ := NewConceptGenerator(&fakeModel{resp: resp}, Config{})
		_, err := g.Generate(ctx, sourceImage, "directive")
		var genErr *domain.GenerationError
		if !errors.As(err, &genErr) {
			t.Errorf("GenerationError を期待しましたが %v でした", err)
		}
	})

	t.Run("不正な入力では上流を呼ばない", func(t *testing.T) {
		fake := &fakeModel{}
		g, _ := NewConceptGenerator(fake, Config{})
		if _, err := g.Generate(ctx, sourceImage, "   "); err == nil {
			t.Error("空の指示でエラーになりませんでした")
		}
		if _, err := g.Generate(ctx, domain.SourceImage{Data: "%%%", MimeType: "image/png"}, "d"); err == nil {
			t.Error("不正な base64 でエラーになりませんでした")
		}
		if fake.calls != 0 {
			t.Errorf("上流が %d 回呼ばれました", fake.calls)
		}
	})
}

func TestCopyGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	const label = "Studio Minimal"
	const info = "Lightweight running shoe, breathable mesh, targets casual joggers"

	t.Run("スキーマ通りの応答から 3 件ずつ返す", func(t *testing.T) {
		fake := &fakeModel{resp: textResponse(`{
			"headlines": ["Run Light", "Breathe Free", "Jog Your Way"],
			"bodies": ["Featherweight comfort for every casual jog.", "Breathable mesh keeps you cool mile after mile.", "Easy style for everyday runners."]
		}`)}
		g, err := NewCopyGenerator(fake, nil, Config{TextModel: "text-model", CopyLanguage: "English"})
		if err != nil {
			t.Fatal(err)
		}

		res, err := g.Generate(ctx, label, info)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if len(res.Headlines) != 3 || len(res.Bodies) != 3 {
			t.Fatalf("件数が違います: %+v", res)
		}
		for _, h := range res.Headlines {
			if len([]rune(h)) > domain.MaxHeadlineChars {
				t.Errorf("見出しが長すぎます: %q", h)
			}
		}
		for _, b := range res.Bodies {
			if len([]rune(b)) > domain.MaxBodyChars {
				t.Errorf("本文が長すぎます: %q", b)
			}
		}

		if fake.gotModel != "text-model" {
			t.Errorf("モデル名が違います: %s", fake.gotModel)
		}
		if fake.gotConfig.ResponseMIMEType != "application/json" || fake.gotConfig.ResponseSchema == nil {
			t.Error("構造化出力が宣言されていません")
		}
		prompt := fake.gotContents[0].Parts[0].Text
		if !strings.Contains(prompt, info) || !strings.Contains(prompt, label) {
			t.Error("製品情報とコンセプト名がそのまま埋め込まれていません")
		}
	})

	t.Run("5 件ずつ返ってきたら先頭 3 件に切り詰める", func(t *testing.T) {
		fake := &fakeModel{resp: textResponse(`{"headlines":["h1","h2","h3","h4","h5"],"bodies":["b1","b2","b3","b4","b5"]}`)}
		g, _ := NewCopyGenerator(fake, nil, Config{})
		res, err := g.Generate(ctx, label, info)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if strings.Join(res.Headlines, ",") != "h1,h2,h3" || strings.Join(res.Bodies, ",") != "b1,b2,b3" {
			t.Errorf("切り詰め結果が違います: %+v", res)
		}
	})

	t.Run("コードフェンスを取り除いてからパースする", func(t *testing.T) {
		for _, raw := range []string{
			"```json\n{\"headlines\":[\"a\"],\"bodies\":[\"b\"]}\n```",
			"```\n{\"headlines\":[\"a\"],\"bodies\":[\"b\"]}\n```",
			"  {\"headlines\":[\"a\"],\"bodies\":[\"b\"]}  ",
		} {
			g, _ := NewCopyGenerator(&fakeModel{resp: textResponse(raw)}, nil, Config{})
			res, err := g.Generate(ctx, label, info)
			if err != nil {
				t.Errorf("%q: 予期しないエラー: %v", raw, err)
				continue
			}
			if res.Headlines[0] != "a" || res.Bodies[0] != "b" {
				t.Errorf("%q: パース結果が違います: %+v", raw, res)
			}
		}
	})

	t.Run("bodies がなければ MalformedResponseError", func(t *testing.T) {
		g, _ := NewCopyGenerator(&fakeModel{resp: textResponse(`{"headlines":["a","b","c"]}`)}, nil, Config{})
		res, err := g.Generate(ctx, label, info)
		if res != nil {
			t.Errorf("部分的な結果が返されました: %+v", res)
		}
		var malformed *domain.MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("MalformedResponseError を期待しましたが %v でした", err)
		}
		if malformed.Field != "bodies" {
			t.Errorf("欠落フィールドが違います: %s", malformed.Field)
		}
		var copyErr *domain.CopyGenerationError
		if !errors.As(err, &copyErr) {
			t.Error("CopyGenerationError で包まれていません")
		}
	})

	t.Run("JSON でない応答は CopyGenerationError", func(t *testing.T) {
		g, _ := NewCopyGenerator(&fakeModel{resp: textResponse("Sorry, I cannot do that.")}, nil, Config{})
		_, err := g.Generate(ctx, label, info)
		var copyErr *domain.CopyGenerationError
		if !errors.As(err, &copyErr) {
			t.Errorf("CopyGenerationError を期待しましたが %v でした", err)
		}
	})

	t.Run("上流の失敗は原因を包んだ CopyGenerationError", func(t *testing.T) {
		cause := errors.New("Error 503, Message: overloaded")
		g, _ := NewCopyGenerator(&fakeModel{err: cause}, nil, Config{})
		_, err := g.Generate(ctx, label, info)
		var copyErr *domain.CopyGenerationError
		if !errors.As(err, &copyErr) || !errors.Is(err, cause) {
			t.Errorf("原因を包んだ CopyGenerationError を期待しましたが %v でした", err)
		}
	})

	t.Run("空の入力では上流を呼ばない", func(t *testing.T) {
		fake := &fakeModel{}
		g, _ := NewCopyGenerator(fake, nil, Config{})
		if _, err := g.Generate(ctx, label, "  "); err == nil {
			t.Error("空の製品情報でエラーになりませんでした")
		}
		if fake.calls != 0 {
			t.Errorf("上流が %d 回呼ばれました", fake.calls)
		}
	})
}

func TestNormalizeJSONPayload(t *testing.T) {
	tests := map[string]string{
		"```json\n{}\n```": "{}",
		"```{}```":         "{}",
		"{}":               "{}",
		"\n  {\"a\":1} \n": "{\"a\":1}",
	}
	for in, want := range tests {
		if got := normalizeJSONPayload(in); got != want {
			t.Errorf("normalizeJSONPayload(%q) = %q, 期待値 %q", in, got, want)
		}
	}
}
