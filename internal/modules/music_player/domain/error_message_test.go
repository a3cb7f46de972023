package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestShortErrorMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "prefers ERROR line",
			input: "WARNING: something\nERROR: [youtube] abc: Video unavailable\nmore",
			want:  "ERROR: [youtube] abc: Video unavailable",
		},
		{
			name:  "falls back to first line",
			input: "exit status 1\nstack trace",
			want:  "exit status 1",
		},
		{
			name:  "single line",
			input: "boom",
			want:  "boom",
		},
		{
			name:  "skips leading blank lines",
			input: "\n\n  first real line\nsecond",
			want:  "first real line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortErrorMessage(tt.input); got != tt.want {
				t.Errorf("ShortErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortErrorMessage_Truncates(t *testing.T) {
	got := ShortErrorMessage("ERROR: " + strings.Repeat("x", 3000))

	if n := utf8.RuneCountInString(got); n != MaxErrorMessageLength+1 {
		t.Errorf("expected %d runes, got %d", MaxErrorMessageLength+1, n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}
}
