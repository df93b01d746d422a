package engines

import (
	"net/url"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"

	"metasearch/extract"
	"metasearch/search"
)

var (
	scholarResultSel = cascadia.MustCompile("div.gs_r")
	scholarTitleSel  = cascadia.MustCompile("h3")
	scholarHrefSel   = cascadia.MustCompile("h3 > a[href]")
	scholarDescSel   = cascadia.MustCompile("div.gs_rs")
)

// GoogleScholar scrapes scholar.google.com.
type GoogleScholar struct {
	logger    *zap.Logger
	extractor *extract.Extractor
}

// NewGoogleScholar creates the Google Scholar adapter.
func NewGoogleScholar(logger *zap.Logger) *GoogleScholar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleScholar{logger: logger, extractor: extract.New(logger)}
}

func (s *GoogleScholar) Name() search.Engine { return search.GoogleScholar }

func (s *GoogleScholar) SearchRequest(q *search.Query) *search.Request {
	v := url.Values{}
	v.Set("hl", "en")
	v.Set("as_sdt", "0,5")
	v.Set("q", q.Text)
	v.Set("btnG", "")
	return search.Get("https://scholar.google.com/scholar?" + v.Encode())
}

func (s *GoogleScholar) ParseSearch(body string) (*search.Response, error) {
	return s.extractor.Extract(body, extract.Spec{
		Result:      scholarResultSel,
		Title:       extract.Selector(scholarTitleSel),
		Href:        extract.Selector(scholarHrefSel),
		Description: extract.Selector(scholarDescSel),
	})
}
