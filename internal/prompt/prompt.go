// Package prompt assembles completion prompts for the answer pipeline.
package prompt

import "strings"

// ContextSeparator is placed between contexts in a grounding prompt.
const ContextSeparator = "\n\n---\n\n"

const groundingInstruction = "Answer using only the context and avoid making things up.\n\n"

const generalInstruction = "You are a helpful and friendly assistant. The user has NOT loaded any document. " +
	"If they ask general questions (greetings, jokes, general knowledge), answer them kindly. " +
	"If they ask about a specific document, politely ask them to upload it first so you can help.\n\n"

// Build returns the grounding prompt for question over contexts.
// Contexts are inserted verbatim; separator-like text inside them is not escaped.
func Build(contexts []string, question string) string {
	var b strings.Builder
	b.WriteString(groundingInstruction)
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(contexts, ContextSeparator))
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// GeneralConversation returns the prompt used when no document is loaded.
func GeneralConversation(question string) string {
	return generalInstruction + "User question: " + question
}
