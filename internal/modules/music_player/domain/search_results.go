package domain

// MaxSearchResults is the number of choices a search exposes.
const MaxSearchResults = 5

// SearchResults is the ordered list of references one search returned.
type SearchResults struct {
	Query      string
	References []TrackReference
}

// NewSearchResults keeps at most MaxSearchResults references.
func NewSearchResults(query string, refs []TrackReference) SearchResults {
	if len(refs) > MaxSearchResults {
		refs = refs[:MaxSearchResults]
	}
	return SearchResults{
		Query:      query,
		References: append([]TrackReference(nil), refs...),
	}
}

// Len returns the number of stored references.
func (r SearchResults) Len() int {
	return len(r.References)
}

// Choice returns the nth reference, 1-based.
func (r SearchResults) Choice(n int) (TrackReference, bool) {
	if n < 1 || n > len(r.References) {
		return TrackReference{}, false
	}
	return r.References[n-1], true
}
