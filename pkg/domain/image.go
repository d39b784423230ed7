package domain

import (
	"fmt"
	"io"
	"strings"
)

const (
	dataURLScheme = "data:"
	base64Marker  = ";base64"
)

// UploadFile はユーザーがアップロードした 1 つのファイルを表します。
// ContentType はアップロード元が申告したメディアタイプで、実データの検査結果ではありません。
type UploadFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// SourceImage はアップロードされた商品写真です。
type SourceImage struct {
	// Data はフォーマット接頭辞を取り除いた base64 ペイロードです。
	Data string
	// MimeType はアップロードから抽出したメディアタイプです。
	MimeType string
	// PreviewURL は接頭辞とペイロードを含む data URL で、そのまま表示に使えます。
	PreviewURL string
}

// NewSourceImage は data URL を分解して SourceImage を構築します。
// ペイロードまたはメディアタイプのどちらかが取得できない場合は構築しません。
func NewSourceImage(dataURL string) (*SourceImage, error) {
	mimeType, payload, err := SplitDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return &SourceImage{
		Data:       payload,
		MimeType:   mimeType,
		PreviewURL: dataURL,
	}, nil
}

// BuildDataURL は "data:<mime>;base64,<payload>" 形式の文字列を組み立てます。
func BuildDataURL(mimeType, payload string) string {
	return dataURLScheme + mimeType + base64Marker + "," + payload
}

// SplitDataURL は data URL をメディアタイプとペイロードに分解します。
func SplitDataURL(dataURL string) (mimeType, payload string, err error) {
	meta, data, ok := strings.Cut(dataURL, ",")
	if !ok || meta == "" || data == "" {
		return "", "", &InvalidInputError{Reason: "画像ファイルを読み取れません。別のファイルを試してください"}
	}

	_, rest, found := strings.Cut(meta, ":")
	if !found {
		return "", "", &InvalidInputError{Reason: "画像タイプを判別できません。別のファイルを試してください"}
	}
	mimeType, _, _ = strings.Cut(rest, ";")
	if mimeType == "" {
		return "", "", &InvalidInputError{Reason: "画像タイプを判別できません。別のファイルを試してください"}
	}
	return mimeType, data, nil
}

// IsImageType は申告されたメディアタイプが画像かどうかを判定します。
func IsImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// String はログ出力用の短い表現を返します。ペイロード本体は含めません。
func (s SourceImage) String() string {
	return fmt.Sprintf("%s (%d bytes base64)", s.MimeType, len(s.Data))
}
