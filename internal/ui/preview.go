package ui

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/shouni/go-ad-concept-kit/pkg/domain"
)

// WritePreviews はコンセプト画像を dir に書き出し、保存したパスを返します。
// ターミナルでは画像を表示できないため、確認用に外部ビューアで開ける形にします。
func WritePreviews(dir string, concepts domain.ConceptBatch) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("プレビューディレクトリの作成に失敗しました: %w", err)
	}

	paths := make([]string, 0, len(concepts))
	for i, c := range concepts {
		raw, err := base64.StdEncoding.DecodeString(c.Data)
		if err != nil {
			return paths, fmt.Errorf("コンセプト %s のデコードに失敗しました: %w", c.ID, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("concept_%d%s", i+1, extensionFor(c.MimeType)))
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return paths, fmt.Errorf("プレビューの書き込みに失敗しました (%s): %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}
