package engines

import (
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"

	"metasearch/extract"
	"metasearch/search"
)

var (
	braveResultSel = cascadia.MustCompile("#results > .snippet[data-pos]:not(.standalone)")
	braveTitleSel  = cascadia.MustCompile(".title")
	braveHrefSel   = cascadia.MustCompile("a")
	braveDescSel   = cascadia.MustCompile(".snippet-content, .video-snippet > .snippet-description")
)

// Brave scrapes search.brave.com.
type Brave struct {
	logger    *zap.Logger
	extractor *extract.Extractor
}

// NewBrave creates the Brave adapter.
func NewBrave(logger *zap.Logger) *Brave {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Brave{logger: logger, extractor: extract.New(logger)}
}

func (b *Brave) Name() search.Engine { return search.Brave }

func (b *Brave) SearchRequest(q *search.Query) *search.Request {
	// brave dropped exact matching, quoted queries just pollute the results
	if strings.ContainsRune(q.Text, '"') {
		return nil
	}
	v := url.Values{}
	v.Set("q", q.Text)
	return search.Get("https://search.brave.com/search?" + v.Encode())
}

func (b *Brave) ParseSearch(body string) (*search.Response, error) {
	return b.extractor.Extract(body, extract.Spec{
		Result:      braveResultSel,
		Title:       extract.Selector(braveTitleSel),
		Href:        extract.Selector(braveHrefSel),
		Description: extract.Selector(braveDescSel),
	})
}
