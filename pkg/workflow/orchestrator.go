package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shouni/go-ad-concept-kit/pkg/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Args は Orchestrator の構築に必要な依存関係です。
type Args struct {
	Decoder          ImageDecoder
	ConceptGenerator ConceptGenerator
	CopyGenerator    CopyGenerator
	Styles           domain.StyleDirectives

	// Logger と Clock は省略可能です。
	Logger *slog.Logger
	Clock  func() time.Time
}

// Orchestrator は アップロード → コンセプト生成 → 選択 → コピー生成 の 4 段階を駆動し、
// ワークフローの状態を排他的に保持します。
type Orchestrator struct {
	decoder  ImageDecoder
	concepts ConceptGenerator
	copies   CopyGenerator
	styles   domain.StyleDirectives
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	state State
	// epoch はリセットとアップロードで、copyEpoch はさらに選択変更でも進みます。
	// 実行中リクエストの結果は、開始時の値と一致する場合にのみ反映します。
	epoch     uint64
	copyEpoch uint64
	observers []func(State)
}

// New は依存関係を検証して Orchestrator を初期化します。
func New(args Args) (*Orchestrator, error) {
	if args.Decoder == nil {
		return nil, fmt.Errorf("ImageDecoder は必須です")
	}
	if args.ConceptGenerator == nil {
		return nil, fmt.Errorf("ConceptGenerator は必須です")
	}
	if args.CopyGenerator == nil {
		return nil, fmt.Errorf("CopyGenerator は必須です")
	}
	if err := args.Styles.Validate(); err != nil {
		return nil, fmt.Errorf("スタイル指示が不正です: %w", err)
	}

	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := args.Clock
	if clock == nil {
		clock = time.Now
	}

	styles := make(domain.StyleDirectives, len(args.Styles))
	copy(styles, args.Styles)

	return &Orchestrator{
		decoder:  args.Decoder,
		concepts: args.ConceptGenerator,
		copies:   args.CopyGenerator,
		styles:   styles,
		logger:   logger.With("session_id", uuid.NewString()),
		now:      clock,
		state:    State{Stage: StageIdle},
	}, nil
}

// Subscribe は状態が変わるたびに呼ばれる関数を登録します。
// 関数はロックの外で、変更後のスナップショットを受け取ります。
func (o *Orchestrator) Subscribe(fn func(State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

// State は現在の状態のスナップショットを返します。
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Styles は設定されているスタイル指示を返します。
func (o *Orchestrator) Styles() domain.StyleDirectives {
	out := make(domain.StyleDirectives, len(o.styles))
	copy(out, o.styles)
	return out
}

// commit はロック中の変更を確定し、スナップショットを購読者に通知します。
// 呼び出し時点で o.mu を保持している必要があり、戻るときには解放されています。
func (o *Orchestrator) commit() {
	snapshot := o.state.clone()
	observers := append([]func(State){}, o.observers...)
	o.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

// Reset はすべての状態を初期化して Idle に戻します。どの段階からでも実行できます。
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.resetLocked()
	o.commit()
	o.logger.Info("ワークフローをリセットしました")
}

func (o *Orchestrator) resetLocked() {
	o.epoch++
	o.copyEpoch++
	o.state = State{Stage: StageIdle}
}

// Upload は下流の状態をすべてリセットしてからファイルをデコードします。
// 失敗した場合は Idle のままエラー欄にメッセージを設定します。
func (o *Orchestrator) Upload(ctx context.Context, file domain.UploadFile) error {
	o.mu.Lock()
	o.resetLocked()
	epoch := o.epoch
	o.commit()

	img, err := o.decoder.Decode(ctx, file)

	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		o.logger.InfoContext(ctx, "古いアップロード結果を破棄しました", "name", file.Name)
		return nil
	}
	if err != nil {
		o.setErrorLocked(ActionUpload, err)
		o.commit()
		o.logger.WarnContext(ctx, "画像のデコードに失敗しました", "name", file.Name, "error", err)
		return err
	}
	o.state.Source = img
	o.state.Stage = StageUploaded
	o.commit()

	o.logger.InfoContext(ctx, "画像をアップロードしました", "name", file.Name, "mime_type", img.MimeType)
	return nil
}

// StartConceptGeneration はスタイル指示ごとに 1 件ずつ、計 4 件のコンセプト生成を並行して実行します。
// すべて成功した場合のみ結果を反映し、1 件でも失敗すればバッチ全体を破棄します。
// 実行中の重複呼び出しは待たせずに PreconditionError で拒否します。
func (o *Orchestrator) StartConceptGeneration(ctx context.Context) error {
	o.mu.Lock()
	if o.state.Source == nil {
		o.mu.Unlock()
		return &domain.PreconditionError{Action: string(ActionGenerateConcepts), Reason: "先に画像をアップロードしてください"}
	}
	if o.state.ConceptsBusy {
		o.mu.Unlock()
		return &domain.PreconditionError{Action: string(ActionGenerateConcepts), Reason: "コンセプト画像は既に生成中です"}
	}

	o.copyEpoch++
	o.state.Concepts = nil
	o.state.Selected = nil
	o.state.AdCopy = nil
	o.state.ProductInfo = ""
	o.clearErrorLocked()
	o.state.CopyBusy = false
	o.state.ConceptsBusy = true
	o.state.Stage = StageConceptsPending
	epoch := o.epoch
	source := *o.state.Source
	o.commit()

	logger := o.logger.With("directives", len(o.styles))
	logger.InfoContext(ctx, "コンセプト画像の生成を開始します")
	startTime := time.Now()

	batch, err := o.generateConcepts(ctx, source)

	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		logger.InfoContext(ctx, "リセット後に完了したコンセプト生成の結果を破棄しました")
		return nil
	}
	o.state.ConceptsBusy = false
	if err != nil {
		o.state.Stage = StageUploaded
		o.setErrorLocked(ActionGenerateConcepts, err)
		o.commit()
		logger.ErrorContext(ctx, "コンセプト画像の生成に失敗しました", "error", err)
		return err
	}
	o.state.Concepts = batch
	o.state.Stage = StageConceptsReady
	o.commit()

	logger.InfoContext(ctx, "コンセプト画像の生成が完了しました", "duration", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// generateConcepts は errgroup で全件を待ち合わせ、最初の失敗で残りをキャンセルします。
// 各ゴルーチンは自分の添字のスロットにだけ書き込みます。
func (o *Orchestrator) generateConcepts(ctx context.Context, source domain.SourceImage) (domain.ConceptBatch, error) {
	batch := make(domain.ConceptBatch, len(o.styles))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, style := range o.styles {
		eg.Go(func() error {
			frag, err := o.concepts.Generate(egCtx, source, style.Prompt)
			if err != nil {
				return fmt.Errorf("concept %d (%s) generation failed: %w", i+1, style.Title, err)
			}
			batch[i] = domain.ConceptArtifact{
				ID:       fmt.Sprintf("concept-%d-%d", i, o.now().UnixNano()),
				Src:      frag.Src,
				Label:    style.Title,
				Data:     frag.Data,
				MimeType: frag.MimeType,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}

// SelectConcept は ID で指定されたコンセプトを選択し、以前のコピー結果を破棄します。
func (o *Orchestrator) SelectConcept(id string) error {
	o.mu.Lock()
	if len(o.state.Concepts) == 0 {
		o.mu.Unlock()
		return &domain.PreconditionError{Action: string(ActionSelectConcept), Reason: "先にコンセプト画像を生成してください"}
	}
	concept, ok := o.state.Concepts.FindByID(id)
	if !ok {
		o.mu.Unlock()
		return &domain.PreconditionError{Action: string(ActionSelectConcept), Reason: "選択されたコンセプトが見つかりません"}
	}

	o.copyEpoch++
	o.state.Selected = &concept
	o.state.AdCopy = nil
	o.state.CopyBusy = false
	o.state.Stage = StageSelected
	o.commit()

	o.logger.Info("コンセプトを選択しました", "concept_id", concept.ID, "label", concept.Label)
	return nil
}

// SetProductInfo は製品情報を更新します。段階は変わりません。
func (o *Orchestrator) SetProductInfo(text string) error {
	o.mu.Lock()
	if o.state.Selected == nil {
		o.mu.Unlock()
		return &domain.PreconditionError{Action: string(ActionSetProductInfo), Reason: "先にコンセプトを選択してください"}
	}
	o.state.ProductInfo = text
	o.commit()
	return nil
}

// StartCopyGeneration は選択中のコンセプト名と製品情報で広告コピーを 1 回生成します。
func (o *Orchestrator) StartCopyGeneration(ctx context.Context) error {
	o.mu.Lock()
	if o.state.Selected == nil {
		o.mu.Unlock()
		return &domain.PreconditionError{Action: string(ActionGenerateCopy), Reason: "広告コピーを生成するコンセプトを先に選択してください"}
	}
	if strings.TrimSpace(o.state.ProductInfo) == "" {
		o.mu.Unlock()
		return &domain.PreconditionError{Action: string(ActionGenerateCopy), Reason: "製品情報を入力してください"}
	}
	if o.state.CopyBusy {
		o.mu.Unlock()
		return &domain.PreconditionError{Action: string(ActionGenerateCopy), Reason: "広告コピーは既に生成中です"}
	}

	o.state.AdCopy = nil
	o.clearErrorLocked()
	o.state.CopyBusy = true
	o.state.Stage = StageCopyPending
	copyEpoch := o.copyEpoch
	label := o.state.Selected.Label
	info := o.state.ProductInfo
	o.commit()

	result, err := o.copies.Generate(ctx, label, info)

	o.mu.Lock()
	if o.copyEpoch != copyEpoch {
		o.mu.Unlock()
		o.logger.InfoContext(ctx, "選択変更後に完了したコピー生成の結果を破棄しました", "label", label)
		return nil
	}
	o.state.CopyBusy = false
	if err != nil {
		o.state.Stage = StageSelected
		o.setErrorLocked(ActionGenerateCopy, err)
		o.commit()
		o.logger.ErrorContext(ctx, "広告コピーの生成に失敗しました", "label", label, "error", err)
		return err
	}
	o.state.AdCopy = result
	o.state.Stage = StageCopyReady
	o.commit()

	o.logger.InfoContext(ctx, "広告コピーの生成が完了しました", "label", label)
	return nil
}

func (o *Orchestrator) setErrorLocked(action Action, err error) {
	o.state.Error = domain.UserMessage(err)
	o.state.ErrorAction = action
}

func (o *Orchestrator) clearErrorLocked() {
	o.state.Error = ""
	o.state.ErrorAction = ""
}
