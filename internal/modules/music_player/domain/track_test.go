package domain

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func TestTrack_FormattedDuration(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  string
	}{
		{name: "seconds only", track: Track{Duration: 45 * time.Second}, want: "00:45"},
		{name: "minutes", track: Track{Duration: 3*time.Minute + 20*time.Second}, want: "03:20"},
		{name: "hours", track: Track{Duration: time.Hour + 2*time.Minute + 3*time.Second}, want: "01:02:03"},
		{name: "stream", track: Track{Duration: time.Hour, IsStream: true}, want: "LIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.FormattedDuration(); got != tt.want {
				t.Errorf("FormattedDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrack_IsValid(t *testing.T) {
	if (Track{Title: "a"}).IsValid() {
		t.Error("expected track without URL to be invalid")
	}
	if (Track{URL: "https://example.com"}).IsValid() {
		t.Error("expected track without title to be invalid")
	}
	if !(Track{Title: "a", URL: "https://example.com"}).IsValid() {
		t.Error("expected track with title and URL to be valid")
	}
}

func TestTrack_Requested(t *testing.T) {
	base := Track{Title: "Song", URL: "https://example.com/song"}

	first := base.Requested(snowflake.ID(1), "alice")
	second := base.Requested(snowflake.ID(2), "bob")

	if first.EntryID == "" || second.EntryID == "" {
		t.Fatal("expected entry IDs to be assigned")
	}
	if first.EntryID == second.EntryID {
		t.Error("expected distinct entry IDs for separate requests")
	}
	if first.RequesterID != 1 || first.RequesterName != "alice" {
		t.Errorf("unexpected requester: %v %q", first.RequesterID, first.RequesterName)
	}
	if base.EntryID != "" {
		t.Error("expected original track to be unchanged")
	}
}
