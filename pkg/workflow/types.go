package workflow

import (
	"github.com/shouni/go-ad-concept-kit/pkg/domain"
)

// Stage はワークフローの進行段階です。
type Stage int

const (
	StageIdle Stage = iota
	StageUploaded
	StageConceptsPending
	StageConceptsReady
	StageSelected
	StageCopyPending
	StageCopyReady
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageUploaded:
		return "uploaded"
	case StageConceptsPending:
		return "concepts_pending"
	case StageConceptsReady:
		return "concepts_ready"
	case StageSelected:
		return "selected"
	case StageCopyPending:
		return "copy_pending"
	case StageCopyReady:
		return "copy_ready"
	default:
		return "unknown"
	}
}

// Action は利用者がオーケストレーターに要求する操作です。
// エラーをどの操作の近くに表示するかの判断にも使います。
type Action string

const (
	ActionUpload           Action = "upload"
	ActionGenerateConcepts Action = "generate_concepts"
	ActionSelectConcept    Action = "select_concept"
	ActionSetProductInfo   Action = "set_product_info"
	ActionGenerateCopy     Action = "generate_copy"
)

// State はワークフロー全体の状態のスナップショットです。
// 表示層はこれを読むだけで、変更はすべてオーケストレーター経由で行います。
type State struct {
	Stage       Stage
	Source      *domain.SourceImage
	Concepts    domain.ConceptBatch
	Selected    *domain.ConceptArtifact
	ProductInfo string
	AdCopy      *domain.AdCopyResult

	ConceptsBusy bool
	CopyBusy     bool

	// Error は直近の失敗メッセージで、ErrorAction はその失敗を起こした操作です。
	Error       string
	ErrorAction Action
}

// clone は呼び出し側と内部状態がスライスやポインタを共有しないようにコピーします。
func (s State) clone() State {
	out := s
	if s.Source != nil {
		src := *s.Source
		out.Source = &src
	}
	if s.Concepts != nil {
		out.Concepts = make(domain.ConceptBatch, len(s.Concepts))
		copy(out.Concepts, s.Concepts)
	}
	if s.Selected != nil {
		sel := *s.Selected
		out.Selected = &sel
	}
	out.AdCopy = s.AdCopy.Clone()
	return out
}

// HasError は表示すべきエラーがあるかを返します。
func (s State) HasError() bool {
	return s.Error != ""
}
