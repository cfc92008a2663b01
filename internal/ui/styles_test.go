package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatterPrefixes(t *testing.T) {
	cases := map[string]struct {
		fn     func(string) string
		prefix string
	}{
		"Success": {Success, "✓"},
		"Warn":    {Warn, "⚠"},
		"Err":     {Err, "✗"},
		"Info":    {Info, "ℹ"},
		"Hint":    {Hint, "💡"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			result := tc.fn("message")
			assert.Contains(t, result, tc.prefix)
			assert.Contains(t, result, "message")
		})
	}
}

func TestInfoDifferentFromHint(t *testing.T) {
	assert.NotEqual(t, Info("message"), Hint("message"))
}

func TestAllFormattersKeepInput(t *testing.T) {
	formatters := map[string]func(string) string{
		"Addr":   Addr,
		"Val":    Val,
		"Meta":   Meta,
		"Symbol": Symbol,
	}
	for name, fn := range formatters {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, fn("test"), "test")
		})
	}
}

func TestStatus(t *testing.T) {
	assert.Contains(t, Status(true), "yes")
	assert.Contains(t, Status(false), "no")
}

func TestAmount(t *testing.T) {
	got := Amount("1.5", "bwTKN")
	assert.Contains(t, got, "1.5")
	assert.Contains(t, got, "bwTKN")
	assert.Contains(t, Amount("7", ""), "7")
}

func TestTruncateAddr(t *testing.T) {
	assert.Equal(t, "0x1234", TruncateAddr("0x1234"))
	assert.Equal(t, "0x12345678", TruncateAddr("0x12345678"))
	assert.Equal(t, "", TruncateAddr(""))

	addr := "0x1234567890abcdef1234567890abcdef12345678"
	assert.Equal(t, "0x1234…5678", TruncateAddr(addr))
}

func TestBannerContainsBranding(t *testing.T) {
	result := Banner()
	assert.Contains(t, result, "bondwrap")
	assert.Contains(t, result, "collateralized")
}
