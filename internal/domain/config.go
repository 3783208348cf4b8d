package domain

import "fmt"

const (
	DefaultChunkSize       = 400
	DefaultChunkOverlap    = 80
	DefaultTopK            = 4
	DefaultMinSignalTokens = 1
)

// RagConfig holds the per-query pipeline settings.
// An empty path means the path is not set; TextPath wins over PDFPath.
type RagConfig struct {
	ChunkSize       int
	ChunkOverlap    int
	UseEmbeddings   bool
	TopK            int
	MinSignalTokens int
	PDFPath         string
	TextPath        string
}

// DefaultRagConfig returns the pipeline defaults with no document attached.
func DefaultRagConfig() RagConfig {
	return RagConfig{
		ChunkSize:       DefaultChunkSize,
		ChunkOverlap:    DefaultChunkOverlap,
		UseEmbeddings:   true,
		TopK:            DefaultTopK,
		MinSignalTokens: DefaultMinSignalTokens,
	}
}

// Validate rejects settings the splitter and retrievers cannot honour.
func (c RagConfig) Validate() error {
	switch {
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.ChunkSize)
	case c.ChunkOverlap < 0:
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidConfig, c.ChunkOverlap)
	case c.ChunkOverlap >= c.ChunkSize:
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrInvalidConfig, c.ChunkOverlap, c.ChunkSize)
	case c.TopK < 0:
		return fmt.Errorf("%w: top k must not be negative, got %d", ErrInvalidConfig, c.TopK)
	}
	return nil
}

// HasDocument reports whether any document path is configured.
func (c RagConfig) HasDocument() bool {
	return c.TextPath != "" || c.PDFPath != ""
}

// SignalThreshold is the minimum signal score a retrieval should reach.
// It is 0 when embeddings are on.
func (c RagConfig) SignalThreshold() int {
	if c.UseEmbeddings {
		return 0
	}
	return c.MinSignalTokens
}
