package domain

import "context"

// RetrievalConfig selects how chunks are ranked against a query.
type RetrievalConfig struct {
	UseEmbeddings   bool
	EmbeddingsModel string
	TopK            int
}

// AnswerResult is the only value the answer pipeline hands back to callers.
type AnswerResult struct {
	Answer      string   `json:"answer"`
	ContextUsed []string `json:"context_used"`
}

// NewAnswer builds an AnswerResult whose context is never nil.
func NewAnswer(answer string, contexts []string) AnswerResult {
	if contexts == nil {
		contexts = []string{}
	}
	return AnswerResult{Answer: answer, ContextUsed: contexts}
}

// Completer turns a prompt into model text.
// The network-backed client and offline stand-ins both satisfy it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f(ctx, prompt).
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// StaticCompleter returns a Completer that always answers with text.
func StaticCompleter(text string) Completer {
	return CompleterFunc(func(context.Context, string) (string, error) { return text, nil })
}

// DocumentLoader resolves the document text for a query.
type DocumentLoader interface {
	Load(textPath, pdfPath string) (string, error)
}
