package generator

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

const fallbackImageMimeType = "image/png"

var jsonFenceRegex = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// normalizeJSONPayload はテキスト応答を囲むコードフェンスを取り除きます。
// 上流のテキストサービスは構造化出力を指定してもフェンスを付けることがあるため、
// スキーマ検証の前に必ずここを通します。
func normalizeJSONPayload(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := jsonFenceRegex.FindStringSubmatch(raw); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return raw
}

// firstInlineImage は先頭候補から最初のインライン画像パートを返します。
// 複数の画像パートがあっても 2 つ目以降は無視します。
func firstInlineImage(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return nil
	}
	for _, part := range cand.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData
		}
	}
	return nil
}

// isBlocked はプロンプト自体がブロックされたかを判定します。
func isBlocked(resp *genai.GenerateContentResponse) bool {
	return resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != ""
}

// isTimeout は上流の失敗が期限切れを示しているかを判定します。
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadline") || strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out")
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
