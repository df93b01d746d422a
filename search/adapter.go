package search

// Adapter is the contract every engine implements: build an outbound
// request for a query and parse the raw response body back into the
// normalized shape. Both operations are pure; the body is already fully
// materialized by the HTTP executor.
type Adapter interface {
	// Name returns the engine this adapter speaks for.
	Name() Engine

	// SearchRequest builds the web-search request. A nil return means the
	// adapter declines the query (the engine would reject or mishandle it);
	// that is a cost-avoidance guard, not an error.
	SearchRequest(q *Query) *Request

	// ParseSearch parses a web-search response body. A defect in one
	// candidate result drops that candidate; only a document-level failure
	// returns an error.
	ParseSearch(body string) (*Response, error)
}

// ImageSearcher is implemented by adapters that also expose an image
// search surface.
type ImageSearcher interface {
	ImageRequest(q *Query) *Request
	ParseImages(body string) (*ImagesResponse, error)
}

// Autocompleter is implemented by adapters that expose a suggestion
// endpoint. Suggestions are ordered best-first.
type Autocompleter interface {
	AutocompleteRequest(q *Query) *Request
	ParseAutocomplete(body string) ([]string, error)
}
