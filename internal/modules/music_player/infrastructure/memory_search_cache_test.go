package infrastructure

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

func TestMemorySearchCache(t *testing.T) {
	cache := NewMemorySearchCache()
	alice := snowflake.ID(1)
	bob := snowflake.ID(2)

	if _, ok := cache.Lookup(alice); ok {
		t.Fatal("expected empty cache")
	}

	cache.Record(alice, domain.NewSearchResults("first", []domain.TrackReference{{ID: "a"}}))
	cache.Record(alice, domain.NewSearchResults("second", []domain.TrackReference{{ID: "b"}, {ID: "c"}}))
	cache.Record(bob, domain.NewSearchResults("other", []domain.TrackReference{{ID: "z"}}))

	got, ok := cache.Lookup(alice)
	if !ok {
		t.Fatal("expected results for alice")
	}
	if got.Query != "second" || got.Len() != 2 {
		t.Errorf("expected latest search to win, got %q with %d results", got.Query, got.Len())
	}

	got, _ = cache.Lookup(bob)
	if got.Query != "other" {
		t.Errorf("expected per-user results, got %q", got.Query)
	}
}
