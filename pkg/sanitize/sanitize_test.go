package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice", "Alice"},
		{"  Alice  ", "Alice"},
		{"<b>Alice</b>", "Alice"},
		{"Ali\x00ce", "Alice"},
		{"Alice\n\tCooper", "Alice Cooper"},
		{"José Núñez", "José Núñez"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.input), "input %q", tt.input)
	}
}

func TestURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png", URL("  https://cdn.example.com/a.png "))
	assert.Equal(t, "https://x/y.pngscript", URL(`https://x/y.png"<script>`))
	assert.Equal(t, "data:image/png;base64,AAAA", URL("data:image/png;base64,AAAA"))
}
