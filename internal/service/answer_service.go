package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"docqa/internal/chunker"
	"docqa/internal/domain"
	"docqa/internal/logger"
	"docqa/internal/prompt"
	"docqa/internal/retriever"
	"docqa/internal/signal"
)

// DefaultCompletionTimeout bounds a single completion call.
const DefaultCompletionTimeout = 60 * time.Second

// Fixed answers.
const (
	EmptyDocumentAnswer = "The document appears to be empty."
	NoContextAnswer     = "I could not find relevant information in the document."
)

// Outcome labels how a query ended.
type Outcome string

const (
	OutcomeAnswered        Outcome = "answered"
	OutcomeGeneral         Outcome = "general"
	OutcomeEmptyDocument   Outcome = "empty_document"
	OutcomeNoContext       Outcome = "no_context"
	OutcomeInvalidConfig   Outcome = "invalid_config"
	OutcomeLoadError       Outcome = "load_error"
	OutcomeCompletionError Outcome = "completion_error"
	OutcomeTimeout         Outcome = "timeout"
	OutcomeInternalError   Outcome = "internal_error"
)

// Splitter cuts document text into chunks.
type Splitter interface {
	Split(text string, params ...chunker.Param) ([]string, error)
}

// RetrieverBuilder builds a retriever over chunks; nil means none.
type RetrieverBuilder interface {
	Build(ctx context.Context, chunks []string, cfg domain.RetrievalConfig) retriever.Retriever
}

// Observer is told how every query ended.
type Observer interface {
	ObserveAnswer(outcome string, d time.Duration)
}

// AnswerService answers questions about one document per query. It holds
// no per-query state and is safe for concurrent use.
type AnswerService struct {
	loader          domain.DocumentLoader
	splitter        Splitter
	retrievers      RetrieverBuilder
	completer       domain.Completer
	embeddingsModel string
	timeout         time.Duration
	observer        Observer
	log             *zap.Logger
}

// Option configures an AnswerService.
type Option func(*AnswerService)

// WithCompletionTimeout bounds every completion call.
func WithCompletionTimeout(d time.Duration) Option {
	return func(s *AnswerService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithEmbeddingsModel names the model embedding retrieval asks for.
func WithEmbeddingsModel(model string) Option {
	return func(s *AnswerService) { s.embeddingsModel = model }
}

// WithObserver reports every outcome to o.
func WithObserver(o Observer) Option {
	return func(s *AnswerService) { s.observer = o }
}

// NewAnswerService wires the pipeline. completer is the default completion
// service; AnswerQuestion callers may override it per query.
func NewAnswerService(loader domain.DocumentLoader, splitter Splitter, retrievers RetrieverBuilder, completer domain.Completer, log *zap.Logger, opts ...Option) *AnswerService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &AnswerService{
		loader:     loader,
		splitter:   splitter,
		retrievers: retrievers,
		completer:  completer,
		timeout:    DefaultCompletionTimeout,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnswerQuestion runs the pipeline for question. It never fails: every error,
// including a panic, is turned into an answer. A non-nil override replaces the
// default completer for this query.
func (s *AnswerService) AnswerQuestion(ctx context.Context, question string, cfg domain.RagConfig, override domain.Completer) (res domain.AnswerResult) {
	if logger.TraceID(ctx) == "" {
		ctx = logger.WithTraceID(ctx, logger.NewTraceID())
	}
	log := logger.FromContext(ctx, s.log)
	start := time.Now()
	outcome := OutcomeInternalError

	defer func() {
		if r := recover(); r != nil {
			log.Error("query panicked", zap.Any("panic", r), zap.Stack("stack"))
			res = domain.NewAnswer(internalErrorAnswer(fmt.Errorf("%v", r)), nil)
			outcome = OutcomeInternalError
		}
		elapsed := time.Since(start)
		log.Info("query answered", zap.String("outcome", string(outcome)), zap.Duration("elapsed", elapsed))
		if s.observer != nil {
			s.observer.ObserveAnswer(string(outcome), elapsed)
		}
	}()

	res, outcome = s.answer(ctx, log, question, cfg, override)
	return res
}

func (s *AnswerService) answer(ctx context.Context, log *zap.Logger, question string, cfg domain.RagConfig, override domain.Completer) (domain.AnswerResult, Outcome) {
	if err := cfg.Validate(); err != nil {
		return domain.NewAnswer("Invalid configuration: "+strings.TrimPrefix(err.Error(), domain.ErrInvalidConfig.Error()+": "), nil), OutcomeInvalidConfig
	}

	completer := s.completer
	if override != nil {
		completer = override
	}

	text, err := s.loader.Load(cfg.TextPath, cfg.PDFPath)
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		log.Debug("no document loaded, answering as general conversation")
		answer, err := s.complete(ctx, completer, prompt.GeneralConversation(question))
		if err != nil {
			return domain.NewAnswer(s.completionErrorAnswer(err), nil), completionOutcome(err)
		}
		return domain.NewAnswer(answer, nil), OutcomeGeneral
	case err != nil:
		log.Warn("document load failed", zap.Error(err))
		return domain.NewAnswer("Could not read the document: "+err.Error(), nil), OutcomeLoadError
	}

	if strings.TrimSpace(text) == "" {
		return domain.NewAnswer(EmptyDocumentAnswer, nil), OutcomeEmptyDocument
	}

	contexts, err := s.retrieve(ctx, text, question, cfg)
	if err != nil {
		log.Error("retrieval failed", zap.Error(err))
		return domain.NewAnswer(internalErrorAnswer(err), nil), OutcomeInternalError
	}

	if len(contexts) == 0 {
		return domain.NewAnswer(NoContextAnswer, nil), OutcomeNoContext
	}
	if score, threshold := signal.Score(question, contexts), cfg.SignalThreshold(); score < threshold {
		log.Debug("weak lexical signal, answering anyway", zap.Int("score", score), zap.Int("threshold", threshold))
	}

	answer, err := s.complete(ctx, completer, prompt.Build(contexts, question))
	if err != nil {
		log.Warn("completion failed", zap.Error(err))
		return domain.NewAnswer(s.completionErrorAnswer(err), contexts), completionOutcome(err)
	}
	return domain.NewAnswer(answer, contexts), OutcomeAnswered
}

// retrieve chunks text and ranks the chunks against question. Without a
// retriever it falls back to the first TopK chunks.
func (s *AnswerService) retrieve(ctx context.Context, text, question string, cfg domain.RagConfig) ([]string, error) {
	chunks, err := s.splitter.Split(text, chunker.Size(cfg.ChunkSize), chunker.Overlap(cfg.ChunkOverlap))
	if err != nil {
		return nil, fmt.Errorf("split document: %w", err)
	}
	r := s.retrievers.Build(ctx, chunks, domain.RetrievalConfig{
		UseEmbeddings:   cfg.UseEmbeddings,
		EmbeddingsModel: s.embeddingsModel,
		TopK:            cfg.TopK,
	})
	if r == nil {
		return chunks[:min(cfg.TopK, len(chunks))], nil
	}
	defer func() {
		if err := r.Close(); err != nil {
			s.log.Warn("closing retriever", zap.Error(err))
		}
	}()
	return r.Retrieve(ctx, question)
}

type panicError struct{ value any }

func (p panicError) Error() string { return fmt.Sprint(p.value) }

// complete runs c under the completion timeout. A completer that ignores its
// context is abandoned when the timeout fires. Panics are re-raised on the
// calling goroutine.
func (s *AnswerService) complete(ctx context.Context, c domain.Completer, p string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: no completion service configured", domain.ErrCompletion)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: panicError{value: r}}
			}
		}()
		text, err := c.Complete(ctx, p)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		var pe panicError
		if errors.As(r.err, &pe) {
			panic(pe.value)
		}
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(r.err, domain.ErrCompletionTimeout) {
			return "", fmt.Errorf("%w: %w", domain.ErrCompletionTimeout, r.err)
		}
		return r.text, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", domain.ErrCompletionTimeout, s.timeout)
		}
		return "", ctx.Err()
	}
}

func (s *AnswerService) completionErrorAnswer(err error) string {
	if errors.Is(err, domain.ErrCompletionTimeout) {
		return fmt.Sprintf("The model did not answer within %s.", s.timeout)
	}
	return "Error calling the model: " + strings.TrimPrefix(err.Error(), domain.ErrCompletion.Error()+": ")
}

func completionOutcome(err error) Outcome {
	if errors.Is(err, domain.ErrCompletionTimeout) {
		return OutcomeTimeout
	}
	return OutcomeCompletionError
}

func internalErrorAnswer(err error) string {
	return "An error occurred while processing the query: " + err.Error()
}
