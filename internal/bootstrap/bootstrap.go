// Package bootstrap assembles the answer pipeline from an AppConfig.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/embedding/hugot"
	"docqa/internal/embedding/openai"
	"docqa/internal/embedding/tfidf"
	"docqa/internal/llm"
	"docqa/internal/loader"
	"docqa/internal/logger"
	"docqa/internal/metrics"
	"docqa/internal/pdfextract"
	"docqa/internal/retriever"
	"docqa/internal/service"
	"docqa/internal/summarizer"
)

// App holds the wired components shared by the binaries.
type App struct {
	Config     *config.AppConfig
	Log        *zap.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Recorder
	Service    *service.AnswerService
	Loader     *loader.Loader
	Splitter   *chunker.Splitter
	Retrievers *retriever.Factory

	// Override is non-nil when the model is disabled and answers are simulated.
	Override domain.Completer
}

// New builds an App. It never contacts the model; a missing API key only
// shows up in the answers.
func New(cfg *config.AppConfig) (*App, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return NewWithLogger(cfg, log)
}

// NewWithLogger is New with a caller supplied logger.
func NewWithLogger(cfg *config.AppConfig, log *zap.Logger) (*App, error) {
	provider, err := EmbedderProvider(cfg.Embedder)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)

	factory := retriever.NewFactory(log,
		retriever.WithEmbedderProvider(provider),
		retriever.WithBuildHook(func(k retriever.Kind) { rec.RetrieverBuilt(k.String()) }),
	)
	docs := loader.New(pdfextract.DefaultChain(), log)
	splitter := chunker.NewSplitter(log)
	svc := service.NewAnswerService(
		docs,
		splitter,
		factory,
		newCompleter(cfg, log),
		log,
		service.WithCompletionTimeout(cfg.CompletionTimeout()),
		service.WithEmbeddingsModel(cfg.Embedder.Model),
		service.WithObserver(rec),
	)

	app := &App{
		Config:     cfg,
		Log:        log,
		Registry:   reg,
		Metrics:    rec,
		Service:    svc,
		Loader:     docs,
		Splitter:   splitter,
		Retrievers: factory,
	}
	if cfg.LLM.Disabled {
		log.Info("model disabled, answers are simulated")
		app.Override = llm.Disabled()
	}
	return app, nil
}

// Ask answers question against the configured document.
func (a *App) Ask(ctx context.Context, question string) domain.AnswerResult {
	return a.Service.AnswerQuestion(ctx, question, a.Config.RagConfig(), a.Override)
}

// Retrieve returns the chunks of the configured document that best match
// question, joined for display. No model is called.
func (a *App) Retrieve(ctx context.Context, question string) (string, error) {
	cfg := a.Config.RagConfig()
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	text, err := a.Loader.Load(cfg.TextPath, cfg.PDFPath)
	if err != nil {
		return "", err
	}
	chunks, err := a.Splitter.Split(text, chunker.Size(cfg.ChunkSize), chunker.Overlap(cfg.ChunkOverlap))
	if err != nil {
		return "", err
	}
	return a.Retrievers.AnswerQuery(ctx, chunks, question, domain.RetrievalConfig{
		UseEmbeddings:   cfg.UseEmbeddings,
		EmbeddingsModel: a.Config.Embedder.Model,
		TopK:            cfg.TopK,
	})
}

// Preview loads the configured document and returns its most representative
// sentences.
func (a *App) Preview(sentences int) (string, error) {
	cfg := a.Config.RagConfig()
	if !cfg.HasDocument() {
		return "", nil
	}
	text, err := a.Loader.Load(cfg.TextPath, cfg.PDFPath)
	if err != nil {
		return "", err
	}
	return summarizer.NewFrequency().Summarize(text, sentences), nil
}

// Close flushes the logger.
func (a *App) Close() error {
	_ = a.Log.Sync()
	return nil
}

// EmbedderProvider returns the embedder source for cfg.Type.
func EmbedderProvider(cfg config.EmbedderConfig) (embedding.Provider, error) {
	switch cfg.Type {
	case "hugot", "":
		return func(ctx context.Context, model string) (embedding.Embedder, error) {
			if model == "" {
				model = cfg.Model
			}
			e, err := hugot.New(ctx, hugot.Config{Model: model, ModelDir: cfg.Hugot.ModelDir})
			if err != nil {
				return nil, err
			}
			return e, nil
		}, nil
	case "openai":
		return func(_ context.Context, model string) (embedding.Embedder, error) {
			if model == "" {
				model = cfg.Model
			}
			c, err := openai.NewClient(openai.Config{
				BaseURL:   cfg.OpenAI.BaseURL,
				APIKeyEnv: cfg.OpenAI.APIKeyEnv,
				Model:     model,
				Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			})
			if err != nil {
				return nil, err
			}
			return c, nil
		}, nil
	case "tfidf":
		return func(context.Context, string) (embedding.Embedder, error) {
			return tfidf.NewEmbedder(), nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown embedder: %s", domain.ErrInvalidConfig, cfg.Type)
	}
}

func newCompleter(cfg *config.AppConfig, log *zap.Logger) domain.Completer {
	client, err := llm.NewClient(llm.Config{
		APIKey:      cfg.APIKey(),
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: float32(cfg.LLM.Temperature),
	})
	if err != nil {
		log.Warn("completion client unavailable", zap.Error(err))
		return llm.ErrorCompleter(err)
	}
	return &llm.FallbackCompleter{
		Client:        client,
		Model:         cfg.LLM.Model,
		FallbackModel: cfg.LLM.FallbackModel,
		Demo:          cfg.LLM.DemoFallback,
		Log:           log,
	}
}
