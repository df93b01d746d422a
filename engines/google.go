package engines

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"metasearch/extract"
	"metasearch/search"
)

const googleTrackingPrefix = "/url?q="

var (
	googleResultSel = cascadia.MustCompile("[jscontroller=SC7lYd]")
	googleTitleSel  = cascadia.MustCompile("h3")
	googleHrefSel   = cascadia.MustCompile("a[href]")
	googleDescSel   = cascadia.MustCompile(
		"div[data-sncf='2'], div[data-sncf='1,2'], div[style='-webkit-line-clamp:2']")

	googleSnippetSel     = cascadia.MustCompile("block-component")
	googleHeadingSel     = cascadia.MustCompile("div[role='heading']")
	googleSnippetDescSel = cascadia.MustCompile(
		"div[data-attrid='wa:/description'] > span:first-child")
	googleULSel = cascadia.MustCompile("ul")
	googleLISel = cascadia.MustCompile("li")

	googleSnippetTitleSel = cascadia.MustCompile(
		".g > div[lang] a h3, div[lang] > div[style='position:relative'] a h3")
	googleSnippetHrefSel = cascadia.MustCompile(
		".g > div[lang] a:has(h3), div[lang] > div[style='position:relative'] a:has(h3)")
)

// Google scrapes the mobile no-JS surface of www.google.com, plus its
// image vertical and the Firefox-compatible suggestion endpoint.
type Google struct {
	logger    *zap.Logger
	extractor *extract.Extractor
	tokens    *TokenProvider
}

// NewGoogle creates the Google adapter. All instances share the
// process-wide async token slot.
func NewGoogle(logger *zap.Logger) *Google {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Google{logger: logger, extractor: extract.New(logger), tokens: googleTokens}
}

func (g *Google) Name() search.Engine { return search.Google }

func (g *Google) SearchRequest(q *search.Query) *search.Request {
	v := url.Values{}
	v.Set("q", q.Text)
	// nfpr makes it not try to autocorrect
	v.Set("nfpr", "1")
	v.Set("filter", "0")
	v.Set("start", "0")
	// the mobile surface renders results without js, but only with a
	// plausible async token alongside
	v.Set("asearch", "arc")
	v.Set("async", g.tokens.AsyncValue())
	return search.Get("https://www.google.com/search?" + v.Encode())
}

func (g *Google) ParseSearch(body string) (*search.Response, error) {
	return g.extractor.Extract(body, extract.Spec{
		Result:      googleResultSel,
		Title:       extract.Selector(googleTitleSel),
		Href:        extract.Selector(googleHrefSel),
		Description: extract.Selector(googleDescSel),

		FeaturedSnippet:      googleSnippetSel,
		FeaturedSnippetTitle: extract.Selector(googleSnippetTitleSel),
		FeaturedSnippetHref: extract.Func(func(el *goquery.Selection) (string, error) {
			href, _ := el.FindMatcher(googleSnippetHrefSel).First().Attr("href")
			return CleanGoogleURL(href), nil
		}),
		FeaturedSnippetDescription: extract.Func(func(el *goquery.Selection) (string, error) {
			var sb strings.Builder

			if heading := el.FindMatcher(googleHeadingSel).First(); heading.Length() > 0 {
				sb.WriteString(heading.Text())
				sb.WriteString("\n\n")
			}

			if container := el.FindMatcher(googleSnippetDescSel).First(); container.Length() > 0 {
				writeSnippetText(&sb, container.Nodes[0])
			} else if list := el.FindMatcher(googleULSel).First(); list.Length() > 0 {
				// render list snippets as bullet points
				list.FindMatcher(googleLISel).Each(func(_ int, li *goquery.Selection) {
					sb.WriteString("• ")
					sb.WriteString(li.Text())
					sb.WriteString("\n")
				})
			}

			return sb.String(), nil
		}),
	})
}

// writeSnippetText concatenates the text of a snippet container, skipping
// UI chrome subtrees. Google marks chrome with data-ved; elements that also
// carry data-send-open-event are real snippet content.
func writeSnippetText(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
		case html.ElementNode:
			_, tracked := nodeAttr(c, "data-ved")
			_, openEvent := nodeAttr(c, "data-send-open-event")
			if !tracked || openEvent {
				writeSnippetText(sb, c)
			}
		}
	}
}

func (g *Google) AutocompleteRequest(q *search.Query) *search.Request {
	v := url.Values{}
	v.Set("output", "firefox")
	v.Set("client", "firefox")
	v.Set("hl", "US-en")
	v.Set("q", q.Text)
	return search.Get("https://suggestqueries.google.com/complete/search?" + v.Encode())
}

// ParseAutocomplete parses the firefox-style suggestion response, a json
// array whose second element lists the ranked suggestions. A body of the
// wrong shape yields no suggestions rather than an error.
func (g *Google) ParseAutocomplete(body string) ([]string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal([]byte(body), &outer); err != nil {
		return nil, fmt.Errorf("google: decode autocomplete response: %w", err)
	}
	if len(outer) < 2 {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(outer[1], &entries); err != nil {
		return nil, nil
	}
	suggestions := make([]string, 0, len(entries))
	for _, raw := range entries {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = ""
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

// CleanGoogleURL unwraps Google's relative tracking links. The destination
// is the q parameter once the link is resolved against Google's origin.
// Non-tracking links pass through unchanged.
func CleanGoogleURL(raw string) string {
	if !strings.HasPrefix(raw, googleTrackingPrefix) {
		return raw
	}
	u, err := url.Parse("https://www.google.com" + raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("q")
}
