package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-ad-concept-kit/internal/config"
	"github.com/shouni/go-ad-concept-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各コマンドに渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config       *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、プロジェクトIDなど）。
	Options      config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です（モデル名、言語など）。
	Orchestrator *workflow.Orchestrator // Orchestratorは、4 段階のワークフローを駆動します。
}

// NewAppContext は設定から AppContext を構築します。
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	orchestrator, err := BuildOrchestrator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ワークフローの構築に失敗しました: %w", err)
	}
	return &AppContext{
		Config:       cfg,
		Options:      cfg.Options,
		Orchestrator: orchestrator,
	}, nil
}
