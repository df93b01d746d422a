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
	marginaliaResultSel = cascadia.MustCompile("section.search-result")
	marginaliaTitleSel  = cascadia.MustCompile("h2")
	marginaliaHrefSel   = cascadia.MustCompile("a[href]")
	marginaliaDescSel   = cascadia.MustCompile("p.description")
)

// Marginalia scrapes old-search.marginalia.nu. Its profile/js/adtech
// switches come from the query's per-engine extra settings.
type Marginalia struct {
	logger    *zap.Logger
	extractor *extract.Extractor
}

// NewMarginalia creates the Marginalia adapter.
func NewMarginalia(logger *zap.Logger) *Marginalia {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Marginalia{logger: logger, extractor: extract.New(logger)}
}

func (m *Marginalia) Name() search.Engine { return search.Marginalia }

func (m *Marginalia) SearchRequest(q *search.Query) *search.Request {
	// marginalia mishandles long or non-alphanumeric queries
	if len(strings.Fields(q.Text)) > 3 {
		return nil
	}
	for _, r := range q.Text {
		alnum := r == ' ' ||
			r >= '0' && r <= '9' ||
			r >= 'a' && r <= 'z' ||
			r >= 'A' && r <= 'Z'
		if !alnum {
			return nil
		}
	}

	extra := q.Config.Extra(search.Marginalia)
	profile, js, adtech := extra["profile"], extra["js"], extra["adtech"]
	if profile == "" || js == "" || adtech == "" {
		m.logger.Error("marginalia: incomplete engine configuration, declining query",
			zap.String("query", q.Text))
		return nil
	}

	v := url.Values{}
	v.Set("query", q.Text)
	v.Set("profile", profile)
	v.Set("js", js)
	v.Set("adtech", adtech)
	return search.Get("https://old-search.marginalia.nu/search?" + v.Encode())
}

func (m *Marginalia) ParseSearch(body string) (*search.Response, error) {
	return m.extractor.Extract(body, extract.Spec{
		Result:      marginaliaResultSel,
		Title:       extract.Selector(marginaliaTitleSel),
		Href:        extract.Selector(marginaliaHrefSel),
		Description: extract.Selector(marginaliaDescSel),
	})
}
