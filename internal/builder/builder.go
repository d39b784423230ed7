package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-ad-concept-kit/internal/config"
	"github.com/shouni/go-ad-concept-kit/pkg/decoder"
	"github.com/shouni/go-ad-concept-kit/pkg/domain"
	"github.com/shouni/go-ad-concept-kit/pkg/generator"
	"github.com/shouni/go-ad-concept-kit/pkg/prompts"
	"github.com/shouni/go-ad-concept-kit/pkg/workflow"

	"google.golang.org/genai"
)

const defaultCopyTemperature = float32(0.7)

// InitializeAIClient は設定に応じて Gemini API または Vertex AI のクライアントを初期化します。
func InitializeAIClient(ctx context.Context, cfg *config.Config) (*genai.Client, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.UseVertexAI() {
		clientConfig = &genai.ClientConfig{
			Project:  cfg.ProjectID,
			Location: cfg.LocationID,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// BuildOrchestrator は上流クライアントと各コンポーネントを組み立てて Orchestrator を返します。
func BuildOrchestrator(ctx context.Context, cfg *config.Config) (*workflow.Orchestrator, error) {
	client, err := InitializeAIClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return BuildOrchestratorWith(client.Models, cfg)
}

// BuildOrchestratorWith は任意の ContentGenerator を使って Orchestrator を組み立てます。
func BuildOrchestratorWith(models generator.ContentGenerator, cfg *config.Config) (*workflow.Orchestrator, error) {
	styles, err := domain.LoadStyleDirectives(cfg.StyleConfig)
	if err != nil {
		return nil, fmt.Errorf("スタイル指示の読み込みに失敗しました: %w", err)
	}

	genCfg := cfg.GeneratorConfig()
	genCfg.CopyTemperature = genai.Ptr(defaultCopyTemperature)

	conceptGen, err := generator.NewConceptGenerator(models, genCfg)
	if err != nil {
		return nil, fmt.Errorf("ConceptGenerator の初期化に失敗しました: %w", err)
	}

	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("TextPromptBuilder の初期化に失敗しました: %w", err)
	}
	copyGen, err := generator.NewCopyGenerator(models, pb, genCfg)
	if err != nil {
		return nil, fmt.Errorf("CopyGenerator の初期化に失敗しました: %w", err)
	}

	orchestrator, err := workflow.New(workflow.Args{
		Decoder:          decoder.New(),
		ConceptGenerator: conceptGen,
		CopyGenerator:    copyGen,
		Styles:           styles,
		Logger:           slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("Orchestrator の初期化に失敗しました: %w", err)
	}

	slog.Debug("Orchestrator を構築しました",
		"text_model", genCfg.TextModel,
		"image_model", genCfg.ImageModel,
		"language", genCfg.CopyLanguage,
		"styles", styles.Titles())
	return orchestrator, nil
}
