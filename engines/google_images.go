package engines

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"

	"metasearch/search"
)

// Google serializes its image data as arrays of arrays inside an inline
// script, so entries are addressed by position rather than by name. These
// offsets are the only thing to update when Google reshuffles the shape;
// an offset miss skips the entry, it is never worth guessing new offsets
// at runtime.
const (
	googleImageEntryOffset     = 1
	googleImageDataOffset      = 3
	googleImagePageOffset      = 9
	googleImagePageKey         = "2003"
	googleImagePageURLOffset   = 2
	googleImagePageTitleOffset = 3
)

var (
	googleScriptSel      = cascadia.MustCompile("script")
	googleInternalJSONRe = regexp.MustCompile(`var \w+=(\{".+?\});`)
)

func (g *Google) ImageRequest(q *search.Query) *search.Request {
	// google has a json api for images too, but it returns fewer results
	v := url.Values{}
	v.Set("q", q.Text)
	v.Set("udm", "2")
	v.Set("prmd", "ivsnmbtz")
	return search.Get("https://www.google.com/search?" + v.Encode())
}

// ParseImages scrapes Google's internal image json out of the page's
// inline scripts; the html itself never carries the image sources. A
// missing or undecodable json block means no results, not a failure.
func (g *Google) ParseImages(body string) (*search.ImagesResponse, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("google: parse images document: %w", err)
	}

	var internalJSON string
	doc.FindMatcher(googleScriptSel).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		if m := googleInternalJSONRe.FindStringSubmatch(script.Text()); m != nil {
			internalJSON = m[1]
			return false
		}
		return true
	})
	if internalJSON == "" {
		g.logger.Warn("google: no internal json in any image script")
		return &search.ImagesResponse{}, nil
	}

	records, err := googleImageRecords(internalJSON)
	if err != nil {
		g.logger.Warn("google: undecodable internal image json", zap.Error(err))
		return &search.ImagesResponse{}, nil
	}

	resp := &search.ImagesResponse{}
	for _, record := range records {
		var entry []json.RawMessage
		if err := json.Unmarshal(record, &entry); err != nil ||
			len(entry) <= googleImageEntryOffset {
			continue
		}
		var fields []json.RawMessage
		if err := json.Unmarshal(entry[googleImageEntryOffset], &fields); err != nil {
			continue
		}

		imageURL, width, height, ok := g.imageData(fields)
		if !ok {
			continue
		}
		pageURL, title, ok := g.pageData(fields)
		if !ok {
			continue
		}

		resp.Results = append(resp.Results, search.ImageResult{
			PageURL:  pageURL,
			ImageURL: imageURL,
			Title:    title,
			Width:    width,
			Height:   height,
		})
	}
	return resp, nil
}

// googleImageRecords decodes the internal json object into its values in
// source key order. Results must come out in the order the page lists
// them, so the object cannot be read through a map.
func googleImageRecords(internalJSON string) ([]json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(internalJSON))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var records []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var record json.RawMessage
		if err := dec.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// imageData reads the [url, width, height] triple at its fixed offset.
func (g *Google) imageData(fields []json.RawMessage) (imageURL string, width, height uint64, ok bool) {
	if len(fields) <= googleImageDataOffset {
		g.logger.Warn("google: image record too short for image data")
		return "", 0, 0, false
	}
	var data []json.RawMessage
	if err := json.Unmarshal(fields[googleImageDataOffset], &data); err != nil || len(data) < 3 {
		g.logger.Warn("google: missing image data in image record")
		return "", 0, 0, false
	}
	if json.Unmarshal(data[0], &imageURL) != nil ||
		json.Unmarshal(data[1], &width) != nil ||
		json.Unmarshal(data[2], &height) != nil {
		g.logger.Warn("google: malformed image data triple")
		return "", 0, 0, false
	}
	return imageURL, width, height, true
}

// pageData reads the page url and title nested under the "2003" key.
func (g *Google) pageData(fields []json.RawMessage) (pageURL, title string, ok bool) {
	if len(fields) <= googleImagePageOffset {
		g.logger.Warn("google: image record too short for page data")
		return "", "", false
	}
	var pageMap map[string]json.RawMessage
	if err := json.Unmarshal(fields[googleImagePageOffset], &pageMap); err != nil {
		g.logger.Warn("google: missing page data in image record")
		return "", "", false
	}
	var page []json.RawMessage
	if err := json.Unmarshal(pageMap[googleImagePageKey], &page); err != nil ||
		len(page) <= googleImagePageTitleOffset {
		g.logger.Warn("google: malformed page data in image record")
		return "", "", false
	}
	if json.Unmarshal(page[googleImagePageURLOffset], &pageURL) != nil {
		g.logger.Warn("google: missing page url in image record")
		return "", "", false
	}
	if json.Unmarshal(page[googleImagePageTitleOffset], &title) != nil {
		g.logger.Warn("google: missing page title in image record")
		return "", "", false
	}
	return pageURL, title, true
}
