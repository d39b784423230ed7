package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-ad-concept-kit/pkg/decoder"
	"github.com/shouni/go-ad-concept-kit/pkg/domain"
	"github.com/shouni/go-ad-concept-kit/pkg/workflow"

	"github.com/patrickmn/go-cache"
)

// DefaultCopiedTTL はコピー済み表示を残す時間です。
const DefaultCopiedTTL = 2 * time.Second

const helpText = `コマンド:
  upload <path>       商品写真をアップロードします (png/jpeg/webp)
  generate            4 つの広告コンセプト画像を生成します
  select <n>          n 番目のコンセプトを選択します
  info <text>         製品情報を入力します
  copy                広告コピーを生成します
  clip h<n>|b<n>      ヘッドコピー/ボディコピーをクリップボードにコピーします
  show                現在の状態を表示します
  reset               最初からやり直します
  help                このヘルプを表示します
  quit                終了します
`

// Workflow はセッションが操作するワークフローです。
type Workflow interface {
	Upload(ctx context.Context, file domain.UploadFile) error
	StartConceptGeneration(ctx context.Context) error
	SelectConcept(id string) error
	SetProductInfo(text string) error
	StartCopyGeneration(ctx context.Context) error
	Reset()
	State() workflow.State
}

// SessionOptions はセッションの入出力と表示まわりの設定です。
type SessionOptions struct {
	In         io.Reader
	Out        io.Writer
	Clipboard  Clipboard
	PreviewDir string
	CopiedTTL  time.Duration
}

// Session は 1 行 1 コマンドの対話ループでワークフローを操作します。
type Session struct {
	wf         Workflow
	in         io.Reader
	out        io.Writer
	clipboard  Clipboard
	previewDir string
	copied     *cache.Cache
	renderer   *Renderer
}

// NewSession は Session を生成します。
func NewSession(wf Workflow, opts SessionOptions) *Session {
	ttl := opts.CopiedTTL
	if ttl <= 0 {
		ttl = DefaultCopiedTTL
	}
	cb := opts.Clipboard
	if cb == nil {
		cb = SystemClipboard{}
	}

	s := &Session{
		wf:         wf,
		in:         opts.In,
		out:        opts.Out,
		clipboard:  cb,
		previewDir: opts.PreviewDir,
		copied:     cache.New(ttl, ttl*5),
	}
	s.renderer = &Renderer{IsCopied: s.isCopied}
	return s
}

// Run は入力が尽きるか quit が入力されるまでコマンドを処理します。
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprint(s.out, helpText)
	s.Render()

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "\n> ")
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := s.Execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "! %s\n", domain.UserMessage(err))
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute は 1 行分のコマンドを実行します。
// ワークフローの状態に記録されたエラーは描画時に表示されるため、ここでは返しません。
func (s *Session) Execute(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "upload":
		err = s.upload(ctx, arg)
	case "generate":
		fmt.Fprintln(s.out, "AI コンセプト画像を生成中...")
		err = s.wf.StartConceptGeneration(ctx)
		if err == nil {
			s.writePreviews()
		}
	case "select":
		err = s.selectConcept(arg)
	case "info":
		err = s.wf.SetProductInfo(arg)
	case "copy":
		fmt.Fprintln(s.out, "AI が魅力的なコピーを作成中...")
		err = s.wf.StartCopyGeneration(ctx)
	case "clip":
		err = s.clip(arg)
	case "show":
	case "reset":
		s.wf.Reset()
		s.copied.Flush()
	case "help":
		fmt.Fprint(s.out, helpText)
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, &domain.InvalidInputError{Reason: fmt.Sprintf("不明なコマンドです: %s (help で一覧を表示)", name)}
	}

	s.Render()
	if err != nil && s.shownInState(err) {
		slog.Debug("エラーは状態に記録済みです", "command", name, "error", err)
		return false, nil
	}
	return false, err
}

// shownInState は err が状態のエラー欄として描画済みかを返します。
func (s *Session) shownInState(err error) bool {
	var pre *domain.PreconditionError
	if errors.As(err, &pre) {
		return false
	}
	st := s.wf.State()
	return st.HasError() && st.Error == domain.UserMessage(err)
}

// Render は現在の状態を出力します。
func (s *Session) Render() {
	fmt.Fprintln(s.out)
	s.renderer.Render(s.out, s.wf.State())
}

func (s *Session) upload(ctx context.Context, path string) error {
	if path == "" {
		return &domain.InvalidInputError{Reason: "ファイルのパスを指定してください"}
	}
	file, closer, err := decoder.OpenFile(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	s.copied.Flush()
	return s.wf.Upload(ctx, file)
}

func (s *Session) selectConcept(arg string) error {
	concepts := s.wf.State().Concepts
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(concepts) {
		return &domain.InvalidInputError{Reason: fmt.Sprintf("コンセプト番号は 1 から %d で指定してください", len(concepts))}
	}
	s.copied.Flush()
	return s.wf.SelectConcept(concepts[n-1].ID)
}

func (s *Session) clip(key string) error {
	text, ok := s.lookupCopy(strings.ToLower(key))
	if !ok {
		return &domain.InvalidInputError{Reason: fmt.Sprintf("コピー対象が見つかりません: %s", key)}
	}
	if err := s.clipboard.WriteAll(text); err != nil {
		return &domain.InvalidInputError{Reason: "クリップボードへのコピーに失敗しました", Err: err}
	}
	s.copied.Set(strings.ToLower(key), true, cache.DefaultExpiration)
	return nil
}

func (s *Session) lookupCopy(key string) (string, bool) {
	adCopy := s.wf.State().AdCopy
	if adCopy == nil || len(key) < 2 {
		return "", false
	}
	n, err := strconv.Atoi(key[1:])
	if err != nil || n < 1 {
		return "", false
	}

	var entries []string
	switch key[0] {
	case 'h':
		entries = adCopy.Headlines
	case 'b':
		entries = adCopy.Bodies
	default:
		return "", false
	}
	if n > len(entries) {
		return "", false
	}
	return entries[n-1], true
}

func (s *Session) isCopied(key string) bool {
	_, found := s.copied.Get(key)
	return found
}

func (s *Session) writePreviews() {
	if s.previewDir == "" {
		return
	}
	paths, err := WritePreviews(s.previewDir, s.wf.State().Concepts)
	if err != nil {
		slog.Warn("プレビュー画像の保存に失敗しました", "dir", s.previewDir, "error", err)
		return
	}
	for _, p := range paths {
		fmt.Fprintf(s.out, "  プレビュー: %s\n", p)
	}
}
