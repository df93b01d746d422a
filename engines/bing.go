package engines

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"metasearch/extract"
	"metasearch/search"
)

const bingTrackingPrefix = "https://www.bing.com/ck/a?"

var (
	bingResultSel         = cascadia.MustCompile("#b_results > li.b_algo")
	bingTitleSel          = cascadia.MustCompile(".b_algo h2 > a")
	bingHrefSel           = cascadia.MustCompile("a[href]")
	bingDescSel           = cascadia.MustCompile(".b_caption > p, p.b_algoSlug, .b_caption .ipText")
	bingImageContainerSel = cascadia.MustCompile(".imgpt")
	bingImageElSel        = cascadia.MustCompile(".iusc")
)

// Caption text looks like "1200 x 1600 · jpegWikipedia" or "1500×1013fity.club".
var bingSizeRe = regexp.MustCompile(`(\d+)\s*[×x]\s*(\d+)`)

// bingCountry maps a bare language tag to the market country Bing expects
// when the caller's locale has no explicit region.
func bingCountry(lang string) string {
	switch lang {
	case "en":
		return "US"
	case "de":
		return "DE"
	case "fr":
		return "FR"
	case "es":
		return "ES"
	case "it":
		return "IT"
	case "pt":
		return "PT"
	case "ru":
		return "RU"
	case "ja":
		return "JP"
	case "ko":
		return "KR"
	case "zh":
		return "CN"
	case "pl":
		return "PL"
	case "nl":
		return "NL"
	case "sv":
		return "SE"
	case "da":
		return "DK"
	case "no":
		return "NO"
	case "fi":
		return "FI"
	case "cs":
		return "CZ"
	case "sk":
		return "SK"
	case "hu":
		return "HU"
	case "tr":
		return "TR"
	case "ar":
		return "SA"
	case "he":
		return "IL"
	case "hi":
		return "IN"
	case "th":
		return "TH"
	case "vi":
		return "VN"
	default:
		return "US"
	}
}

// Bing scrapes www.bing.com, including its image vertical.
type Bing struct {
	logger    *zap.Logger
	extractor *extract.Extractor
}

// NewBing creates the Bing adapter.
func NewBing(logger *zap.Logger) *Bing {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bing{logger: logger, extractor: extract.New(logger)}
}

func (b *Bing) Name() search.Engine { return search.Bing }

// bingLocale applies Bing's locale shaping: a "language:<lang> loc:<CC>"
// suffix on the query text, and _EDGE_CD/_EDGE_S cookies that force the
// result market without relying on IP geolocation.
func bingLocale(q *search.Query) (text, cookie string) {
	if q.Config.Language == "" {
		return q.Text, ""
	}
	parts := strings.Split(q.Config.Language, "-")
	lang := strings.ToLower(parts[0])

	country := bingCountry(lang)
	region := lang + "-" + country
	if len(parts) >= 2 {
		country = strings.ToUpper(parts[len(parts)-1])
		region = q.Config.Language
	}

	text = fmt.Sprintf("%s language:%s loc:%s", q.Text, lang, country)
	cookie = fmt.Sprintf("_EDGE_CD=m=%s&u=%s; _EDGE_S=mkt=%s&ui=%s", region, lang, region, lang)
	return text, cookie
}

func (b *Bing) SearchRequest(q *search.Query) *search.Request {
	text, cookie := bingLocale(q)
	v := url.Values{}
	v.Set("q", text)
	// filters=rcrse:"1" makes it not try to autocorrect
	v.Set("filters", `rcrse:"1"`)

	req := search.Get("https://www.bing.com/search?" + v.Encode())
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req
}

func (b *Bing) ParseSearch(body string) (*search.Response, error) {
	return b.extractor.Extract(body, extract.Spec{
		Result: bingResultSel,
		Title:  extract.Selector(bingTitleSel),
		Href: extract.Func(func(el *goquery.Selection) (string, error) {
			href, _ := el.FindMatcher(bingHrefSel).First().Attr("href")
			return CleanBingURL(href), nil
		}),
		Description: extract.Func(func(el *goquery.Selection) (string, error) {
			caption := el.FindMatcher(bingDescSel).First()
			if caption.Length() == 0 {
				return "", nil
			}
			var sb strings.Builder
			for n := caption.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
				switch n.Type {
				case html.TextNode:
					sb.WriteString(n.Data)
				case html.ElementNode:
					// algoSlug_icon marks label icons, not snippet text.
					if !nodeHasClass(n, "algoSlug_icon") {
						sb.WriteString(nodeText(n))
					}
				}
			}
			return sb.String(), nil
		}),
	})
}

func (b *Bing) ImageRequest(q *search.Query) *search.Request {
	text, cookie := bingLocale(q)
	v := url.Values{}
	v.Set("q", text)
	v.Set("async", "content")
	v.Set("first", "1")
	v.Set("count", "35")

	req := search.Get("https://www.bing.com/images/async?" + v.Encode())
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req
}

func (b *Bing) ParseImages(body string) (*search.ImagesResponse, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bing: parse images document: %w", err)
	}

	resp := &search.ImagesResponse{}
	var parseErr error

	doc.FindMatcher(bingImageContainerSel).EachWithBreak(func(_ int, container *goquery.Selection) bool {
		imageEl := container.FindMatcher(bingImageElSel).First()
		if imageEl.Length() == 0 {
			parseErr = errors.New("bing: image container without image element")
			return false
		}

		// The image metadata is json in the "m" attribute. Tiles without it
		// are normal; a present but unparsable attribute is not.
		meta, ok := imageEl.Attr("m")
		if !ok {
			return true
		}
		var data struct {
			PageURL  string `json:"purl"`
			MediaURL string `json:"murl"`
			Title    string `json:"t"`
		}
		if err := json.Unmarshal([]byte(meta), &data); err != nil {
			parseErr = fmt.Errorf("bing: decode image metadata: %w", err)
			return false
		}
		// bing wraps query matches in these private use characters
		title := strings.NewReplacer("", "", "", "").Replace(data.Title)

		text := container.Text()
		if strings.TrimSpace(text) == "" {
			return true
		}
		m := bingSizeRe.FindStringSubmatch(text)
		if m == nil {
			if strings.ContainsAny(text, ":>") {
				// video/duration tile
				return true
			}
			b.logger.Warn("bing: no dimensions in image caption", zap.String("text", text))
			return true
		}
		width, _ := strconv.ParseUint(m[1], 10, 64)
		height, _ := strconv.ParseUint(m[2], 10, 64)

		resp.Results = append(resp.Results, search.ImageResult{
			PageURL:  data.PageURL,
			ImageURL: data.MediaURL,
			Title:    title,
			Width:    width,
			Height:   height,
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return resp, nil
}

// CleanBingURL unwraps Bing's click-tracking links. The destination is
// base64url encoded in the "u" parameter behind a two-character prefix.
// Non-tracking links pass through unchanged; a decode failure yields an
// empty string.
func CleanBingURL(raw string) string {
	if !strings.HasPrefix(raw, bingTrackingPrefix) {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	enc := u.Query().Get("u")
	if len(enc) < 2 {
		return ""
	}
	dec, err := base64.RawURLEncoding.DecodeString(enc[2:])
	if err != nil {
		return ""
	}
	return string(dec)
}
