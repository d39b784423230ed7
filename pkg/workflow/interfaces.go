package workflow

import (
	"context"

	"github.com/shouni/go-ad-concept-kit/pkg/domain"
)

// ImageDecoder は、アップロードされたファイルを SourceImage に変換する責務を持ちます。
type ImageDecoder interface {
	Decode(ctx context.Context, file domain.UploadFile) (*domain.SourceImage, error)
}

// ConceptGenerator は、元画像とスタイル指示から 1 枚のコンセプト画像を生成する責務を持ちます。
type ConceptGenerator interface {
	Generate(ctx context.Context, image domain.SourceImage, directive string) (domain.ConceptFragment, error)
}

// CopyGenerator は、コンセプト名と製品情報から広告コピーを生成する責務を持ちます。
type CopyGenerator interface {
	Generate(ctx context.Context, conceptLabel, productInfo string) (*domain.AdCopyResult, error)
}
