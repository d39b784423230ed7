package decoder

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/shouni/go-ad-concept-kit/pkg/domain"
)

// AcceptedTypes はアップロード画面で案内するメディアタイプです。
// 実際の判定は "image/" 接頭辞で行います。
var AcceptedTypes = []string{"image/png", "image/jpeg", "image/webp"}

// ImageDecoder はアップロードされたファイルを SourceImage に変換します。
type ImageDecoder struct{}

// New は ImageDecoder を返します。
func New() *ImageDecoder {
	return &ImageDecoder{}
}

// Decode はファイルを一度だけ全て読み込み、data URL を経由して SourceImage を構築します。
func (d *ImageDecoder) Decode(ctx context.Context, file domain.UploadFile) (*domain.SourceImage, error) {
	if !domain.IsImageType(file.ContentType) {
		return nil, &domain.InvalidInputError{Reason: "有効な画像ファイルをアップロードしてください"}
	}
	if file.Reader == nil {
		return nil, &domain.InvalidInputError{Reason: "選択したファイルの読み込みに失敗しました"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, &domain.InvalidInputError{Reason: "選択したファイルの読み込みに失敗しました", Err: err}
	}

	dataURL := domain.BuildDataURL(file.ContentType, base64.StdEncoding.EncodeToString(raw))
	img, err := domain.NewSourceImage(dataURL)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "画像をデコードしました", "name", file.Name, "mime_type", img.MimeType, "bytes", len(raw))
	return img, nil
}

// OpenFile はローカルファイルを UploadFile として開きます。
// メディアタイプは拡張子から申告値として決定します。呼び出し側で Close してください。
func OpenFile(path string) (domain.UploadFile, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.UploadFile{}, nil, &domain.InvalidInputError{Reason: fmt.Sprintf("ファイルを開けませんでした: %s", path), Err: err}
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}

	return domain.UploadFile{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Reader:      f,
	}, f, nil
}
