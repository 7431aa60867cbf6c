package tokencount

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestApproxCounter(t *testing.T) {
	counter := ApproxCounter{}

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 8), 2},
		{strings.Repeat("x", 9), 3},
		{"héllo", 2}, // runes, not bytes
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, counter.Count(tt.text), "text %q", tt.text)
	}
	assert.Equal(t, StrategyApprox, counter.Name())
}

func TestSelectApprox(t *testing.T) {
	counter := Select(Options{Strategy: StrategyApprox}, zap.NewNop())
	assert.Equal(t, StrategyApprox, counter.Name())
}

func TestSelectFallsBackOnUnknownStrategy(t *testing.T) {
	counter := Select(Options{Strategy: "quantum"}, zap.NewNop())
	assert.Equal(t, StrategyApprox, counter.Name())
}

func TestSelectFallsBackWhenHuggingFaceFileMissing(t *testing.T) {
	counter := Select(Options{
		Strategy: StrategyHuggingFace,
		File:     filepath.Join(t.TempDir(), "missing-tokenizer.json"),
	}, zap.NewNop())
	assert.Equal(t, StrategyApprox, counter.Name())
}
