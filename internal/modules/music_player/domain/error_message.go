package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxErrorMessageLength is the longest error text sent to a chat channel.
const MaxErrorMessageLength = 1800

// ShortErrorMessage picks the most useful line of a multi-line error: the
// first line starting with "ERROR:", else the first non-empty line, and caps
// it at MaxErrorMessageLength runes.
func ShortErrorMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	lines := strings.Split(msg, "\n")

	chosen := ""
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			chosen = line
			break
		}
	}
	if chosen == "" {
		for _, line := range lines {
			if line = strings.TrimSpace(line); line != "" {
				chosen = line
				break
			}
		}
	}
	if chosen == "" {
		chosen = msg
	}

	if utf8.RuneCountInString(chosen) > MaxErrorMessageLength {
		runes := []rune(chosen)
		chosen = string(runes[:MaxErrorMessageLength]) + "…"
	}
	return chosen
}
