package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"docqa/internal/domain"
	"docqa/internal/logger"
)

// DemoAnswer is returned when both models fail and demo fallback is enabled.
const DemoAnswer = "Demo answer based on context"

// DisabledAnswer is the stand-in answer when the model is switched off.
const DisabledAnswer = "Simulated answer (LLM disabled)."

// ModelCompleter completes a prompt with a named model. *Client implements it.
type ModelCompleter interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
}

// FallbackCompleter tries the primary model, then the fallback model, then
// either the demo answer or an error.
type FallbackCompleter struct {
	Client        ModelCompleter
	Model         string
	FallbackModel string
	Demo          bool
	Log           *zap.Logger
}

// Complete implements domain.Completer. Errors wrap domain.ErrCompletion, or
// domain.ErrCompletionTimeout when ctx expired.
func (f *FallbackCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx, f.Log)

	out, err := f.Client.Complete(ctx, prompt, f.Model)
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", wrap(ctxErr, err)
	}
	log.Warn("primary model failed", zap.String("model", f.Model), zap.Error(err))

	if f.FallbackModel != "" && f.FallbackModel != f.Model {
		out, fbErr := f.Client.Complete(ctx, prompt, f.FallbackModel)
		if fbErr == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", wrap(ctxErr, fbErr)
		}
		log.Warn("fallback model failed", zap.String("model", f.FallbackModel), zap.Error(fbErr))
		err = fbErr
	}

	if f.Demo {
		return DemoAnswer, nil
	}
	return "", wrap(nil, err)
}

func wrap(ctxErr, err error) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrCompletionTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrCompletion, err)
}

// ErrorCompleter always fails with err wrapped in domain.ErrCompletion.
// It stands in for a client that could not be built.
func ErrorCompleter(err error) domain.Completer {
	return domain.CompleterFunc(func(context.Context, string) (string, error) {
		return "", fmt.Errorf("%w: %w", domain.ErrCompletion, err)
	})
}

// Disabled returns the stand-in completer used when the model is off.
func Disabled() domain.Completer { return domain.StaticCompleter(DisabledAnswer) }
