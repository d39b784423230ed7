package domain

import (
	"errors"
	"fmt"
)

// InvalidInputError はアップロードされたファイルが画像として扱えないことを示します。
type InvalidInputError struct {
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// PreconditionError は現在のステージでは実行できない操作が要求されたことを示します。
type PreconditionError struct {
	Action string
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// NoImageReturnedError は画像生成レスポンスに画像パートが含まれなかったことを示します。
// モデルがリクエストを拒否、またはフィルタした場合に発生します。
type NoImageReturnedError struct {
	Directive string
}

func (e *NoImageReturnedError) Error() string {
	return "レスポンスに画像が含まれていませんでした。モデルがリクエストを拒否した可能性があります"
}

// TimeoutError は上流サービス側の期限切れを示します。
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return "リクエストがタイムアウトしました。もう一度お試しください"
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// GenerationError はその他の画像生成失敗（コンテンツブロック、API エラー等）です。
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "画像生成に失敗しました。コンテンツがブロックされたか API エラーが発生した可能性があります"
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedResponseError はコピー生成レスポンスが期待するスキーマを満たさないことを示します。
type MalformedResponseError struct {
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("広告コピーの応答形式が正しくありません (%s がありません)", e.Field)
}

// CopyGenerationError はコピー生成のあらゆる失敗を包みます。
type CopyGenerationError struct {
	Err error
}

func (e *CopyGenerationError) Error() string {
	return "広告コピーの生成に失敗しました。API エラーが発生したかコンテンツがブロックされた可能性があります"
}

func (e *CopyGenerationError) Unwrap() error { return e.Err }

// UserMessage はエラーチェーンから利用者向けのメッセージを 1 つ取り出します。
// 分類済みのエラーが見つからない場合は汎用メッセージを返します。
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		invalid   *InvalidInputError
		pre       *PreconditionError
		noImage   *NoImageReturnedError
		timeout   *TimeoutError
		gen       *GenerationError
		copyErr   *CopyGenerationError
		malformed *MalformedResponseError
	)
	switch {
	case errors.As(err, &pre):
		return pre.Error()
	case errors.As(err, &invalid):
		return invalid.Reason
	case errors.As(err, &noImage):
		return noImage.Error()
	case errors.As(err, &timeout):
		return timeout.Error()
	case errors.As(err, &gen):
		return gen.Error()
	case errors.As(err, &copyErr):
		return copyErr.Error()
	case errors.As(err, &malformed):
		return malformed.Error()
	default:
		return "処理中に不明なエラーが発生しました"
	}
}
