package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "short", tp.TruncateText("short", 10))
	assert.Equal(t, "anything", tp.TruncateText("anything", 0))
	assert.Equal(t, "abc"+TruncationNotice, tp.TruncateText("abcdef", 3))
}

func TestTruncateTextKeepsRunesWhole(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	// "é" is two bytes; cutting after one byte must drop it entirely
	got := tp.TruncateText("aé", 2)
	assert.Equal(t, "a"+TruncationNotice, got)
	assert.True(t, utf8.ValidString(got))
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "valid", tp.SanitizeUTF8("valid"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	got := tp.ProcessText("a\xff"+strings.Repeat("b", 10), 4)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, TruncationNotice))
}
