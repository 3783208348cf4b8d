package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the GPT-2 byte pair encoding.
const DefaultEncoding = "r50k_base"

// Tokenizer converts between text and token ids.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// TiktokenTokenizer is a Tokenizer backed by a tiktoken encoding.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding. The BPE ranks are fetched
// on first use, so this can fail when offline.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %s: %w", encoding, err)
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

// Encode returns the token ids of text.
func (t *TiktokenTokenizer) Encode(text string) []int { return t.enc.Encode(text, nil, nil) }

// Decode returns the text of the given token ids.
func (t *TiktokenTokenizer) Decode(tokens []int) string { return t.enc.Decode(tokens) }

// splitOnTokens slides a window of size tokens over text with a stride of
// size-overlap tokens.
func splitOnTokens(text string, tok Tokenizer, size, overlap int) []string {
	ids := tok.Encode(text)
	var chunks []string
	for start := 0; start < len(ids); start += size - overlap {
		end := min(start+size, len(ids))
		chunks = append(chunks, tok.Decode(ids[start:end]))
		if end == len(ids) {
			break
		}
	}
	return chunks
}
