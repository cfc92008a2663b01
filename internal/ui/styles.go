package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: wrap, success
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: unwrap, warning
	ColorError     = lipgloss.Color("#FF4444") // red: error, danger
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold: token amounts
	ColorMeta      = lipgloss.Color("#555555") // dim gray: metadata
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue: UI chrome
	ColorAccent    = lipgloss.Color("#9B5DE5") // purple: titles, symbols
	ColorHighlight = lipgloss.Color("#F15BB5") // pink: table headers
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)
)

// Banner returns the bondwrap banner.
func Banner() string {
	art := StyleAccent.Render("  bondwrap")
	tagline := StyleMeta.Render("  1:1 collateralized wrapper tokens for bond markets")
	return art + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats a neutral informational line.
func Info(msg string) string { return StyleAddress.Render("ℹ " + msg) }

// Hint formats a suggestion for the next command to run.
func Hint(msg string) string { return StyleMeta.Render("💡 " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// Symbol formats a token symbol.
func Symbol(s string) string { return StyleAccent.Render(s) }

// Status renders a boolean as a coloured yes/no.
func Status(ok bool) string {
	if ok {
		return StyleSuccess.Render("yes")
	}
	return StyleError.Render("no")
}

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// Amount joins a formatted amount and its symbol.
func Amount(value, symbol string) string {
	if symbol == "" {
		return Val(value)
	}
	return Val(value) + " " + Symbol(strings.TrimSpace(symbol))
}
