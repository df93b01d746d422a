// Package extract turns a search engine's result page into normalized
// results by applying a declarative bundle of selectors and field rules.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"metasearch/search"
	"metasearch/urls"
)

// Spec describes how to map one engine's markup onto the normalized result
// shape. Result is mandatory; FeaturedSnippet and the per-field rules are
// optional and default to extracting nothing.
type Spec struct {
	// Result locates each organic result element on the page.
	Result      goquery.Matcher
	Title       Rule
	Href        Rule
	Description Rule

	// FeaturedSnippet locates the single answer box, when the engine has
	// one. Only the first match is used.
	FeaturedSnippet            goquery.Matcher
	FeaturedSnippetTitle       Rule
	FeaturedSnippetHref        Rule
	FeaturedSnippetDescription Rule
}

// Extractor runs extraction specs over raw HTML bodies. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	logger *zap.Logger
}

// New creates an extractor. A nil logger disables diagnostics.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract parses body and applies spec to it. Malformed HTML is recovered
// best-effort and never fails; the only errors are a spec without a result
// matcher and a custom field rule reporting a failure. Candidates with an
// empty description are dropped, so every emitted result has one.
func (e *Extractor) Extract(body string, spec Spec) (*search.Response, error) {
	if spec.Result == nil {
		return nil, errors.New("extract: spec has no result matcher")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("extract: parse document: %w", err)
	}

	resp := &search.Response{}
	var ruleErr error

	doc.FindMatcher(spec.Result).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		title, err := spec.Title.text(el)
		if err != nil {
			ruleErr = fmt.Errorf("extract: title rule: %w", err)
			return false
		}
		href, err := spec.Href.href(el)
		if err != nil {
			ruleErr = fmt.Errorf("extract: href rule: %w", err)
			return false
		}
		description, err := spec.Description.text(el)
		if err != nil {
			ruleErr = fmt.Errorf("extract: description rule: %w", err)
			return false
		}

		e.logger.Debug("extracted candidate",
			zap.String("url", href),
			zap.String("title", title),
			zap.String("description", description),
		)

		// Some engines render title-only cards (calculators, snippet
		// duplicates). Those are noise for the aggregator.
		if title == "" && description == "" {
			e.logger.Debug("dropping candidate",
				zap.String("url", href),
				zap.String("reason", "empty title and description"))
			return true
		}
		if description == "" {
			e.logger.Debug("dropping candidate",
				zap.String("url", href),
				zap.String("title", title),
				zap.String("reason", "empty description"))
			return true
		}

		resp.Results = append(resp.Results, search.Result{
			URL:         urls.Normalize(href),
			Title:       title,
			Description: description,
		})
		return true
	})
	if ruleErr != nil {
		return nil, ruleErr
	}

	if spec.FeaturedSnippet != nil {
		snippet := doc.FindMatcher(spec.FeaturedSnippet).First()
		if snippet.Length() > 0 {
			title, err := spec.FeaturedSnippetTitle.text(snippet)
			if err != nil {
				return nil, fmt.Errorf("extract: featured snippet title rule: %w", err)
			}
			// The snippet href rule is text-based by default; engines whose
			// snippet link lives in an attribute supply a func rule.
			href, err := spec.FeaturedSnippetHref.text(snippet)
			if err != nil {
				return nil, fmt.Errorf("extract: featured snippet href rule: %w", err)
			}
			description, err := spec.FeaturedSnippetDescription.text(snippet)
			if err != nil {
				return nil, fmt.Errorf("extract: featured snippet description rule: %w", err)
			}

			if title == "" && description == "" {
				e.logger.Debug("dropping featured snippet",
					zap.String("url", href),
					zap.String("reason", "empty title and description"))
			} else {
				resp.FeaturedSnippet = &search.FeaturedSnippet{
					URL:         urls.Normalize(href),
					Title:       title,
					Description: description,
				}
			}
		}
	}

	return resp, nil
}
