package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// Rule is one strategy for pulling a string field out of a matched result
// element. It is a tagged variant: the zero value extracts nothing, a
// selector rule takes the first match's text (or href attribute, for href
// fields), and a func rule runs an engine-supplied extraction function.
type Rule struct {
	kind ruleKind
	sel  goquery.Matcher
	fn   func(el *goquery.Selection) (string, error)
}

type ruleKind int

const (
	ruleNone ruleKind = iota
	ruleSelector
	ruleFunc
)

// Selector makes a rule that applies a compiled CSS selector inside the
// result element.
func Selector(m goquery.Matcher) Rule {
	return Rule{kind: ruleSelector, sel: m}
}

// Func makes a rule backed by a custom extraction function. A returned
// error is a document-level failure and aborts the whole parse.
func Func(fn func(el *goquery.Selection) (string, error)) Rule {
	return Rule{kind: ruleFunc, fn: fn}
}

// text evaluates the rule against one result element, taking the rendered
// text of the first selector match.
func (r Rule) text(el *goquery.Selection) (string, error) {
	switch r.kind {
	case ruleSelector:
		return el.FindMatcher(r.sel).First().Text(), nil
	case ruleFunc:
		return r.fn(el)
	default:
		return "", nil
	}
}

// href evaluates the rule as a link field: a selector match with an href
// attribute yields the attribute, anything else falls back to its text.
func (r Rule) href(el *goquery.Selection) (string, error) {
	if r.kind != ruleSelector {
		return r.text(el)
	}
	match := el.FindMatcher(r.sel).First()
	if match.Length() == 0 {
		return "", nil
	}
	if href, ok := match.Attr("href"); ok {
		return href, nil
	}
	return match.Text(), nil
}
