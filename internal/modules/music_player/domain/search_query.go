package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// IsURL checks if the input looks like a URL.
func IsURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}

// ParseSearchChoice reports whether input is a bare search choice "1".."5".
func ParseSearchChoice(input string) (int, bool) {
	input = strings.TrimSpace(input)
	if len(input) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > MaxSearchResults {
		return 0, false
	}
	return n, true
}

// CanonicalizeTarget normalizes a YouTube watch URL that carries extra
// parameters. A URL with a playlist id becomes the playlist URL; otherwise
// only the video id is kept. Anything else is returned unchanged.
func CanonicalizeTarget(target string) string {
	target = strings.TrimSpace(target)
	if !strings.Contains(target, "youtube.com/watch") || !strings.Contains(target, "&") {
		return target
	}

	u, err := url.Parse(target)
	if err != nil {
		return target
	}

	query := u.Query()
	if list := query.Get("list"); list != "" {
		return "https://www.youtube.com/playlist?list=" + url.QueryEscape(list)
	}
	if v := query.Get("v"); v != "" {
		return "https://www.youtube.com/watch?v=" + url.QueryEscape(v)
	}
	return target
}

// IsPlaylistTarget reports whether target refers to a playlist rather than a single video.
func IsPlaylistTarget(target string) bool {
	if !IsURL(target) {
		return false
	}
	return strings.Contains(target, "/playlist") || strings.Contains(target, "list=")
}
