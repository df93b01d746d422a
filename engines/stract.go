package engines

import (
	"net/url"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"

	"metasearch/extract"
	"metasearch/search"
)

// stract's default value for the search rankings parameter, not a
// tracking token
const stractDefaultRankings = "N4IgNglg1gpgJiAXAbQLoBoRwgZ0rBFDEAIzAHsBjApNAXyA"

var (
	stractResultSel = cascadia.MustCompile(
		"div.grid.w-full.grid-cols-1.space-y-10.place-self-start > div > div.flex.min-w-0.grow.flex-col")
	stractTitleSel = cascadia.MustCompile("a[title]")
	stractHrefSel  = cascadia.MustCompile("a[href]")
	stractDescSel  = cascadia.MustCompile("#snippet-text")
)

// Stract scrapes stract.com.
type Stract struct {
	logger    *zap.Logger
	extractor *extract.Extractor
}

// NewStract creates the Stract adapter.
func NewStract(logger *zap.Logger) *Stract {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stract{logger: logger, extractor: extract.New(logger)}
}

func (s *Stract) Name() search.Engine { return search.Stract }

func (s *Stract) SearchRequest(q *search.Query) *search.Request {
	v := url.Values{}
	v.Set("ss", "false")
	v.Set("sr", stractDefaultRankings)
	v.Set("q", q.Text)
	v.Set("optic", "")
	return search.Get("https://stract.com/search?" + v.Encode())
}

func (s *Stract) ParseSearch(body string) (*search.Response, error) {
	return s.extractor.Extract(body, extract.Spec{
		Result:      stractResultSel,
		Title:       extract.Selector(stractTitleSel),
		Href:        extract.Selector(stractHrefSel),
		Description: extract.Selector(stractDescSel),
	})
}
