package domain

// ConceptFragment は画像生成サービス 1 回分の正規化済みレスポンスです。
type ConceptFragment struct {
	Src      string
	Data     string
	MimeType string
}

// ConceptArtifact はスタイル指示 1 つから生成されたコンセプト画像です。
type ConceptArtifact struct {
	// ID はセッション中一意な識別子です（生成順 + 生成時刻）。
	ID string
	// Src は表示用の data URL です。
	Src string
	// Label は生成に使ったスタイル指示の表示名です。
	Label string
	// Data と MimeType は生成画像の生ペイロードで、再利用のために保持します。
	Data     string
	MimeType string
}

// ConceptBatch は 1 回の生成で得られたコンセプト群です。
type ConceptBatch []ConceptArtifact

// FindByID は ID に一致するコンセプトを返します。
func (b ConceptBatch) FindByID(id string) (ConceptArtifact, bool) {
	for _, c := range b {
		if c.ID == id {
			return c, true
		}
	}
	return ConceptArtifact{}, false
}
