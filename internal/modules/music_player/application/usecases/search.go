package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// SearchInput contains the input for the Search use case.
type SearchInput struct {
	UserID snowflake.ID
	Query  string
}

// SearchService runs searches and remembers each user's latest results so a
// later "play N" can refer to them.
type SearchService struct {
	searcher ports.TrackSearcher
	cache    domain.SearchCache
}

// NewSearchService creates a new SearchService.
func NewSearchService(searcher ports.TrackSearcher, cache domain.SearchCache) *SearchService {
	return &SearchService{
		searcher: searcher,
		cache:    cache,
	}
}

// Search looks up candidates and records them for the user, replacing any
// previous results. An empty result set leaves the previous entry in place.
func (s *SearchService) Search(ctx context.Context, input SearchInput) (domain.SearchResults, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return domain.SearchResults{}, fmt.Errorf("%w: empty search query", ErrInvalidArgument)
	}

	refs, err := s.searcher.Search(ctx, query, domain.MaxSearchResults)
	if err != nil {
		return domain.SearchResults{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	if len(refs) == 0 {
		return domain.SearchResults{}, ErrNoResults
	}

	results := domain.NewSearchResults(query, refs)
	s.cache.Record(input.UserID, results)
	return results, nil
}

// ResolveChoice returns the nth (1-based) reference from the user's latest search.
func (s *SearchService) ResolveChoice(userID snowflake.ID, n int) (domain.TrackReference, error) {
	results, ok := s.cache.Lookup(userID)
	if !ok {
		return domain.TrackReference{}, ErrNoRecentSearch
	}

	ref, ok := results.Choice(n)
	if !ok {
		return domain.TrackReference{}, fmt.Errorf(
			"%w: choose between 1 and %d", ErrIndexOutOfRange, results.Len(),
		)
	}
	return ref, nil
}
