package engines

import (
	"net/url"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"

	"metasearch/extract"
	"metasearch/search"
)

var (
	rightdaoResultSel = cascadia.MustCompile("div.item")
	rightdaoTitleSel  = cascadia.MustCompile("div.title")
	rightdaoHrefSel   = cascadia.MustCompile("a[href]")
	rightdaoDescSel   = cascadia.MustCompile("div.description")
)

// RightDao scrapes rightdao.com.
type RightDao struct {
	logger    *zap.Logger
	extractor *extract.Extractor
}

// NewRightDao creates the RightDao adapter.
func NewRightDao(logger *zap.Logger) *RightDao {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RightDao{logger: logger, extractor: extract.New(logger)}
}

func (r *RightDao) Name() search.Engine { return search.RightDao }

func (r *RightDao) SearchRequest(q *search.Query) *search.Request {
	v := url.Values{}
	v.Set("q", q.Text)
	return search.Get("https://rightdao.com/search?" + v.Encode())
}

func (r *RightDao) ParseSearch(body string) (*search.Response, error) {
	return r.extractor.Extract(body, extract.Spec{
		Result:      rightdaoResultSel,
		Title:       extract.Selector(rightdaoTitleSel),
		Href:        extract.Selector(rightdaoHrefSel),
		Description: extract.Selector(rightdaoDescSel),
	})
}
