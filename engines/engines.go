// Package engines implements the per-engine adapters: request construction
// shaped to each engine's quirks, and response parsing through the generic
// extraction engine plus engine-specific URL cleaning.
package engines

import (
	"go.uber.org/zap"

	"metasearch/search"
)

// New returns every supported adapter keyed by engine id. A nil logger
// disables diagnostics.
func New(logger *zap.Logger) map[search.Engine]search.Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return map[search.Engine]search.Adapter{
		search.Bing:          NewBing(logger),
		search.Brave:         NewBrave(logger),
		search.Google:        NewGoogle(logger),
		search.GoogleScholar: NewGoogleScholar(logger),
		search.Marginalia:    NewMarginalia(logger),
		search.RightDao:      NewRightDao(logger),
		search.Stract:        NewStract(logger),
	}
}
