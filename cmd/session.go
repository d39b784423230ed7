package cmd

import (
	"log/slog"

	"github.com/shouni/go-ad-concept-kit/internal/ui"

	"github.com/spf13/cobra"
)

// sessionCmd は対話的に 4 つのステップを進めるのだ。
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "対話モードで広告コンセプトとコピーを作るのだ。",
	Long: `upload → generate → select → info → copy の順にコマンドを入力して進めるのだ。
clip h1 のようにすると、生成されたコピーをクリップボードに送れるのだよ。`,
	Args: cobra.NoArgs,
	RunE: sessionCommand,
}

func sessionCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := newAppContext(ctx)
	if err != nil {
		return err
	}

	cb := ui.SystemClipboard{}
	if !cb.Available() {
		slog.Warn("この環境ではクリップボードが使えないのだ。clip コマンドは失敗するのだ")
	}

	session := ui.NewSession(app.Orchestrator, ui.SessionOptions{
		In:         cmd.InOrStdin(),
		Out:        cmd.OutOrStdout(),
		Clipboard:  cb,
		PreviewDir: app.Options.PreviewDir,
	})
	return session.Run(ctx)
}
