package chunker

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrInvalidParams is returned when the resolved size and overlap cannot
// produce chunks.
var ErrInvalidParams = errors.New("invalid chunk parameters")

// Strategy names the splitting method chosen for a text.
type Strategy string

const (
	StrategyRecursive Strategy = "recursive"
	StrategyToken     Strategy = "token"
)

// Splitter splits document text into ordered, overlapping chunks.
// It picks a token window when the text mentions "token" and a recursive
// character split otherwise.
type Splitter struct {
	detector   ParamDetector
	separators []string
	log        *zap.Logger

	newTokenizer  func() (Tokenizer, error)
	tokenizerOnce sync.Once
	tokenizer     Tokenizer
	tokenizerErr  error
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithDetector replaces the cue-scanning parameter detector.
func WithDetector(d ParamDetector) Option {
	return func(s *Splitter) { s.detector = d }
}

// WithTokenizer sets the tokenizer used by the token strategy.
func WithTokenizer(t Tokenizer) Option {
	return func(s *Splitter) {
		s.newTokenizer = func() (Tokenizer, error) { return t, nil }
	}
}

// WithSeparators replaces DefaultSeparators for the recursive strategy.
func WithSeparators(seps []string) Option {
	return func(s *Splitter) { s.separators = seps }
}

// NewSplitter creates a Splitter. Without options it detects parameters
// from document cues and lazily loads the GPT-2 tiktoken encoding.
func NewSplitter(log *zap.Logger, opts ...Option) *Splitter {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Splitter{
		detector:   NewRegexDetector(),
		separators: DefaultSeparators,
		log:        log,
		newTokenizer: func() (Tokenizer, error) {
			return NewTiktokenTokenizer(DefaultEncoding)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Param overrides one chunk parameter for a single Split call.
type Param func(*params)

type params struct {
	size, overlap       int
	sizeSet, overlapSet bool
}

// Size sets the chunk size for one call.
func Size(n int) Param {
	return func(p *params) { p.size, p.sizeSet = n, true }
}

// Overlap sets the chunk overlap for one call.
func Overlap(n int) Param {
	return func(p *params) { p.overlap, p.overlapSet = n, true }
}

// Split cuts text into chunks. Parameters left unset are detected from the
// text; size and overlap are resolved independently. Empty text yields nil.
func (s *Splitter) Split(text string, ps ...Param) ([]string, error) {
	var p params
	for _, fn := range ps {
		fn(&p)
	}
	if !p.sizeSet || !p.overlapSet {
		size, overlap := s.detector.Detect(text)
		if !p.sizeSet {
			p.size = size
		}
		if !p.overlapSet {
			p.overlap = overlap
		}
	}
	if p.size <= 0 || p.overlap < 0 || p.overlap >= p.size {
		return nil, fmt.Errorf("%w: size %d, overlap %d", ErrInvalidParams, p.size, p.overlap)
	}

	strategy := StrategyFor(text)
	if strategy == StrategyToken {
		tok, err := s.loadTokenizer()
		if err == nil {
			return splitOnTokens(text, tok, p.size, p.overlap), nil
		}
		s.log.Warn("tokenizer unavailable, using character splitter", zap.Error(err))
	}
	r := recursiveSplitter{size: p.size, overlap: p.overlap, separators: s.separators}
	return r.split(text), nil
}

// StrategyFor reports which strategy Split uses for text.
func StrategyFor(text string) Strategy {
	if strings.Contains(strings.ToLower(text), "token") {
		return StrategyToken
	}
	return StrategyRecursive
}

func (s *Splitter) loadTokenizer() (Tokenizer, error) {
	s.tokenizerOnce.Do(func() {
		s.tokenizer, s.tokenizerErr = s.newTokenizer()
	})
	return s.tokenizer, s.tokenizerErr
}
