package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))

	assert.Equal(t, "hello", tp.TruncateText("hello", 0))
	assert.Equal(t, "hello", tp.TruncateText("hello", 10))
	assert.Equal(t, "hel", tp.TruncateText("hello", 3))
	// "é" is two bytes, cutting inside it drops the partial rune
	assert.Equal(t, "caf", tp.TruncateText("café", 4))
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(nil)

	assert.Equal(t, "ok", tp.SanitizeUTF8("ok"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "a", tp.ProcessText("a\xffb", 1))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 10))
	assert.Equal(t, "line one line two", Preview("line one\n\nline two", 0))
	assert.Equal(t, "ab...", Preview("abcdef", 2))
	assert.Equal(t, "日本...", Preview("日本語", 2))
}
