package ui

import (
	"github.com/atotto/clipboard"
)

// Clipboard はコピー文字列の書き込み先です。
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard は OS のクリップボードに書き込みます。
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available は OS のクリップボードが使えるかを返します。
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}
