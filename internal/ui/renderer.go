package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/shouni/go-ad-concept-kit/pkg/workflow"
)

// Renderer はワークフローの状態をテキストで描画します。
type Renderer struct {
	// IsCopied はクリップボードにコピーされた直後の項目かどうかを返します。nil なら印を付けません。
	IsCopied func(key string) bool
}

// Render は 4 つのステップを順に描画します。
// エラーは失敗した操作のステップの直下に表示します。
func (r *Renderer) Render(w io.Writer, s workflow.State) {
	var sb strings.Builder

	sb.WriteString("== 1. 商品写真のアップロード ==\n")
	if s.Source != nil {
		fmt.Fprintf(&sb, "  アップロード済み: %s\n", s.Source)
	} else {
		sb.WriteString("  未アップロード (upload <path>)\n")
	}
	if s.ConceptsBusy {
		sb.WriteString("  AI コンセプト画像を生成中...\n")
	}
	if s.HasError() && !s.ConceptsBusy && (s.ErrorAction == workflow.ActionUpload || s.ErrorAction == workflow.ActionGenerateConcepts) {
		fmt.Fprintf(&sb, "  ! %s\n", s.Error)
	}

	if s.ConceptsBusy || len(s.Concepts) > 0 {
		sb.WriteString("\n== 2. 広告コンセプトの選択 ==\n")
		for i, c := range s.Concepts {
			marker := " "
			if s.Selected != nil && s.Selected.ID == c.ID {
				marker = "*"
			}
			fmt.Fprintf(&sb, "  %s[%d] %s (%s)\n", marker, i+1, c.Label, c.ID)
		}
	}

	if s.Selected != nil {
		sb.WriteString("\n== 3. 製品情報の入力と広告コピー生成 ==\n")
		fmt.Fprintf(&sb, "  選択中のコンセプト: %s\n", s.Selected.Label)
		if strings.TrimSpace(s.ProductInfo) == "" {
			sb.WriteString("  製品情報: (未入力: info <text>)\n")
		} else {
			fmt.Fprintf(&sb, "  製品情報: %s\n", s.ProductInfo)
		}
		if s.HasError() && !s.CopyBusy && s.ErrorAction == workflow.ActionGenerateCopy {
			fmt.Fprintf(&sb, "  ! %s\n", s.Error)
		}
	}

	if s.CopyBusy || s.AdCopy != nil {
		sb.WriteString("\n== 4. 広告素材の確認 ==\n")
		if s.CopyBusy {
			sb.WriteString("  AI が魅力的なコピーを作成中...\n")
		} else if s.AdCopy != nil && s.Selected != nil {
			fmt.Fprintf(&sb, "  コンセプト: %s\n", s.Selected.Label)
			sb.WriteString("  ヘッドコピー (Headline):\n")
			r.writeEntries(&sb, "h", s.AdCopy.Headlines)
			sb.WriteString("  ボディコピー (Body):\n")
			r.writeEntries(&sb, "b", s.AdCopy.Bodies)
		}
	}

	io.WriteString(w, sb.String())
}

func (r *Renderer) writeEntries(sb *strings.Builder, prefix string, entries []string) {
	for i, text := range entries {
		key := fmt.Sprintf("%s%d", prefix, i+1)
		suffix := ""
		if r.IsCopied != nil && r.IsCopied(key) {
			suffix = "  (コピーしました!)"
		}
		fmt.Fprintf(sb, "    [%s] %s%s\n", key, text, suffix)
	}
}
