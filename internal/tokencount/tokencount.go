// Package tokencount estimates language-model token counts for snapshot text.
// A counting strategy is selected once at startup; when the precise strategy
// cannot be initialized the approximate one takes over.
package tokencount

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"go.uber.org/zap"
)

// Counter is the token-counting strategy interface.
type Counter interface {
	Count(text string) int
	Name() string
	Close()
}

// Strategy names accepted by Select.
const (
	StrategyTiktoken    = "tiktoken"
	StrategyHuggingFace = "huggingface"
	StrategyApprox      = "approx"
)

const (
	defaultTiktokenModel = "gpt-4o"
	defaultHFModel       = "gpt2"

	// Rough characters-per-token ratio for English-ish source text.
	approxCharsPerToken = 4
)

// Options selects and parameterizes a counting strategy.
type Options struct {
	Strategy string // tiktoken, huggingface or approx
	Model    string // model name for the chosen strategy
	File     string // local tokenizer.json for the huggingface strategy
}

// Select performs the startup capability check: it tries to build the
// requested strategy and falls back to the approximate counter when that
// fails, logging the reason. The returned Counter is always usable.
func Select(opts Options, log *zap.Logger) Counter {
	counter, err := build(opts)
	if err != nil {
		log.Warn("precise tokenizer unavailable, using approximate counts", zap.Error(err))
		return ApproxCounter{}
	}
	return counter
}

func build(opts Options) (Counter, error) {
	switch strings.ToLower(opts.Strategy) {
	case StrategyTiktoken, "":
		return newTiktokenCounter(opts.Model)
	case StrategyHuggingFace:
		return newHFCounter(opts.Model, opts.File)
	case StrategyApprox:
		return ApproxCounter{}, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer strategy %q", opts.Strategy)
	}
}

// TiktokenCounter counts with an OpenAI BPE encoding.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func newTiktokenCounter(model string) (*TiktokenCounter, error) {
	if model == "" {
		model = defaultTiktokenModel
	}
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("loading tiktoken encoding for model %q: %w", model, err)
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.EncodeOrdinary(text))
}

func (c *TiktokenCounter) Name() string { return StrategyTiktoken }

func (c *TiktokenCounter) Close() {}

// HFCounter counts with a HuggingFace tokenizer, loaded from a local file or
// the hub cache.
type HFCounter struct {
	tokenizer *hf.Tokenizer
}

func newHFCounter(model, file string) (*HFCounter, error) {
	if file == "" {
		if model == "" {
			model = defaultHFModel
		}
		cached, err := hf.CachedPath(model, "tokenizer.json")
		if err != nil {
			return nil, fmt.Errorf("resolving tokenizer for model %q: %w", model, err)
		}
		file = cached
	}
	tk, err := pretrained.FromFile(file)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer from %s: %w", file, err)
	}
	return &HFCounter{tokenizer: tk}, nil
}

func (c *HFCounter) Count(text string) int {
	encoded, err := c.tokenizer.EncodeSingle(text)
	if err != nil {
		return 0
	}
	return len(encoded.Tokens)
}

func (c *HFCounter) Name() string { return StrategyHuggingFace }

func (c *HFCounter) Close() {}

// ApproxCounter divides the rune count by a fixed ratio. Deterministic and
// dependency-free, so it is also the fallback when precise counting is
// unavailable.
type ApproxCounter struct{}

func (ApproxCounter) Count(text string) int {
	runes := utf8.RuneCountInString(text)
	if runes == 0 {
		return 0
	}
	return (runes + approxCharsPerToken - 1) / approxCharsPerToken
}

func (ApproxCounter) Name() string { return StrategyApprox }

func (ApproxCounter) Close() {}
