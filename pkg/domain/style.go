package domain

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// StyleDirectiveCount はコンセプト生成 1 回あたりのスタイル指示の数です。
const StyleDirectiveCount = 4

//go:embed styles.json
var defaultStylesJSON []byte

// StyleDirective は元画像に適用するビジュアル表現の指示です。
type StyleDirective struct {
	// Title は利用者に見せる表示名です。
	Title string `json:"title"`
	// Prompt は生成サービスへ渡す指示文です。
	Prompt string `json:"prompt"`
}

// StyleDirectives は順序付きのスタイル指示リストです。
type StyleDirectives []StyleDirective

// DefaultStyleDirectives は組み込みのスタイル指示リストを返します。
func DefaultStyleDirectives() (StyleDirectives, error) {
	return GetStyleDirectives(defaultStylesJSON)
}

// LoadStyleDirectives は指定されたパスの JSON を読み込みます。
// パスが空の場合は組み込みのリストを返します。
func LoadStyleDirectives(path string) (StyleDirectives, error) {
	if path == "" {
		return DefaultStyleDirectives()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("スタイル設定ファイルの読み込みに失敗しました: %w", err)
	}
	return GetStyleDirectives(data)
}

// GetStyleDirectives は JSON バイト列をパースし、件数と各項目を検証します。
func GetStyleDirectives(data []byte) (StyleDirectives, error) {
	var directives StyleDirectives
	if err := json.Unmarshal(data, &directives); err != nil {
		return nil, fmt.Errorf("スタイル設定のデコードに失敗しました: %w", err)
	}
	if err := directives.Validate(); err != nil {
		return nil, err
	}
	return directives, nil
}

// Validate はリストがちょうど StyleDirectiveCount 件で、各項目が空でないことを確認します。
func (d StyleDirectives) Validate() error {
	if len(d) != StyleDirectiveCount {
		return fmt.Errorf("スタイル指示はちょうど %d 件必要です (実際: %d 件)", StyleDirectiveCount, len(d))
	}
	for i, s := range d {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("スタイル指示 %d の title が空です", i+1)
		}
		if strings.TrimSpace(s.Prompt) == "" {
			return fmt.Errorf("スタイル指示 %d (%s) の prompt が空です", i+1, s.Title)
		}
	}
	return nil
}

// Titles は表示名の一覧を返します。
func (d StyleDirectives) Titles() []string {
	titles := make([]string, len(d))
	for i, s := range d {
		titles[i] = s.Title
	}
	return titles
}
