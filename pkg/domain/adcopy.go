package domain

// MaxCopyEntries は見出し・本文それぞれの最大件数です。
const MaxCopyEntries = 3

const (
	// MaxHeadlineChars は見出しコピーの目安文字数です。
	MaxHeadlineChars = 20
	// MaxBodyChars は本文コピーの目安文字数です。
	MaxBodyChars = 50
)

// AdCopyResult は生成された広告コピーです。
type AdCopyResult struct {
	Headlines []string `json:"headlines"`
	Bodies    []string `json:"bodies"`
}

// NewAdCopyResult は件数上限を適用した AdCopyResult を返します。
// 上限を超えた分は黙って捨てます。
func NewAdCopyResult(headlines, bodies []string) *AdCopyResult {
	return &AdCopyResult{
		Headlines: capEntries(headlines),
		Bodies:    capEntries(bodies),
	}
}

func capEntries(src []string) []string {
	n := min(len(src), MaxCopyEntries)
	out := make([]string, n)
	copy(out, src[:n])
	return out
}

// Clone はディープコピーを返します。
func (r *AdCopyResult) Clone() *AdCopyResult {
	if r == nil {
		return nil
	}
	return NewAdCopyResult(r.Headlines, r.Bodies)
}
