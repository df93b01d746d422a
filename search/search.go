package search

import "net/http"

// Engine identifies one upstream search engine.
type Engine string

const (
	Bing          Engine = "bing"
	Brave         Engine = "brave"
	Google        Engine = "google"
	GoogleScholar Engine = "google_scholar"
	Marginalia    Engine = "marginalia"
	RightDao      Engine = "rightdao"
	Stract        Engine = "stract"
)

// Query is one search input. It is immutable for the duration of a call;
// adapters only read it.
type Query struct {
	Text   string
	Config Config
}

// Config carries the caller's locale and per-engine settings.
type Config struct {
	// Language is a locale tag in "ll" or "ll-CC" form. Empty means the
	// engine's default locale.
	Language string
	Engines  map[Engine]EngineConfig
}

// EngineConfig is the open key-value table of engine-specific settings.
type EngineConfig struct {
	Extra map[string]string
}

// Extra returns the extra settings table for an engine, which may be nil.
func (c Config) Extra(e Engine) map[string]string {
	return c.Engines[e].Extra
}

// Request is an outbound request descriptor handed to the HTTP executor.
// A nil *Request from a builder means the adapter declines to query the
// engine for this input.
type Request struct {
	Method string
	URL    string
	Header http.Header
}

// Get builds a GET request descriptor for the given URL.
func Get(url string) *Request {
	return &Request{Method: http.MethodGet, URL: url, Header: http.Header{}}
}

// Result is one normalized organic search result. Results are only emitted
// with a non-empty description; title-only cards are dropped as noise.
type Result struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FeaturedSnippet is the single answer box some engines render above the
// organic results.
type FeaturedSnippet struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Response is the canonical output of one parse call. Results keep the
// document order of the source page, which is the engine's relevance order.
type Response struct {
	Results         []Result         `json:"results"`
	FeaturedSnippet *FeaturedSnippet `json:"featured_snippet,omitempty"`
}

// ImageResult is one image search hit. Width and height come from the
// engine's own markup; 0 means unknown and must not drive layout decisions.
type ImageResult struct {
	PageURL  string `json:"page_url"`
	ImageURL string `json:"image_url"`
	Title    string `json:"title"`
	Width    uint64 `json:"width"`
	Height   uint64 `json:"height"`
}

// ImagesResponse is the ordered image results of one parse call.
type ImagesResponse struct {
	Results []ImageResult `json:"results"`
}
