package engines

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"metasearch/search"
)

func TestTokenProviderReuseAndRotation(t *testing.T) {
	now := time.Unix(1700000000, 0)
	clock := func() time.Time { return now }
	provider := NewTokenProvider(time.Hour, clock)

	first := provider.Token()
	if len(first) != asyncTokenLen {
		t.Fatalf("expected %d-char token, got %d", asyncTokenLen, len(first))
	}
	for _, c := range first {
		if !strings.ContainsRune(asyncTokenChars, c) {
			t.Fatalf("token contains unexpected character %q", c)
		}
	}

	// anything under the rotation interval reuses the token verbatim
	now = now.Add(59 * time.Minute)
	if second := provider.Token(); second != first {
		t.Errorf("token changed within the rotation interval: %q != %q", second, first)
	}

	// past the boundary a new token is minted
	now = now.Add(2 * time.Minute)
	if third := provider.Token(); third == first {
		t.Errorf("token did not rotate past the interval boundary")
	}
}

func TestTokenProviderAsyncValue(t *testing.T) {
	provider := NewTokenProvider(time.Hour, nil)
	value := provider.AsyncValue()

	if !strings.HasPrefix(value, "arc_id:srp_") {
		t.Errorf("unexpected async value prefix: %q", value)
	}
	if !strings.HasSuffix(value, "_110,use_ac:true,_fmt:prog") {
		t.Errorf("unexpected async value suffix: %q", value)
	}
	if second := provider.AsyncValue(); second != value {
		t.Errorf("async value not stable across calls: %q != %q", second, value)
	}
}

func TestGoogleSearchRequest(t *testing.T) {
	google := NewGoogle(nil)
	req := google.SearchRequest(&search.Query{Text: "rust tutorial"})
	if req == nil {
		t.Fatal("expected a request")
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := u.Query()
	if q.Get("q") != "rust tutorial" {
		t.Errorf("unexpected q %q", q.Get("q"))
	}
	if q.Get("nfpr") != "1" || q.Get("filter") != "0" || q.Get("asearch") != "arc" {
		t.Errorf("missing fixed parameters in %q", req.URL)
	}
	if !strings.HasPrefix(q.Get("async"), "arc_id:srp_") {
		t.Errorf("unexpected async parameter %q", q.Get("async"))
	}
}

func TestGoogleParseSearch(t *testing.T) {
	body := `
		<div jscontroller="SC7lYd">
			<a href="https://example.com/rust"><h3>Rust Book</h3></a>
			<div data-sncf="2">Learn Rust step by step.</div>
		</div>
		<div jscontroller="SC7lYd">
			<a href="https://example.com/empty"><h3>Calculator Card</h3></a>
		</div>`

	resp, err := NewGoogle(nil).ParseSearch(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	r := resp.Results[0]
	if r.URL != "https://example.com/rust" || r.Title != "Rust Book" {
		t.Errorf("unexpected result %+v", r)
	}
	if r.Description != "Learn Rust step by step." {
		t.Errorf("unexpected description %q", r.Description)
	}
}

func TestGoogleFeaturedSnippetList(t *testing.T) {
	body := `
		<block-component>
			<ul><li>A</li><li>B</li></ul>
		</block-component>`

	resp, err := NewGoogle(nil).ParseSearch(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FeaturedSnippet == nil {
		t.Fatal("expected a featured snippet")
	}
	if resp.FeaturedSnippet.Description != "• A\n• B\n" {
		t.Errorf("unexpected list rendering %q", resp.FeaturedSnippet.Description)
	}
}

func TestGoogleFeaturedSnippetSkipsChrome(t *testing.T) {
	body := `
		<block-component>
			<div role="heading">Answer</div>
			<div data-attrid="wa:/description"><span>Visible text.<span data-ved="x">Open in Maps</span><span data-ved="y" data-send-open-event="1"> More visible.</span></span></div>
		</block-component>`

	resp, err := NewGoogle(nil).ParseSearch(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FeaturedSnippet == nil {
		t.Fatal("expected a featured snippet")
	}
	expected := "Answer\n\nVisible text. More visible."
	if resp.FeaturedSnippet.Description != expected {
		t.Errorf("expected %q, got %q", expected, resp.FeaturedSnippet.Description)
	}
}

func TestCleanGoogleURL(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"TrackingUnwrapped",
			"/url?q=https://example.com/page&sa=U&ved=abc",
			"https://example.com/page",
		},
		{"PlainPassthrough", "https://example.com/page", "https://example.com/page"},
		{"CleanTwiceUnchanged", "https://example.com/page", "https://example.com/page"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanGoogleURL(tc.input); got != tc.expected {
				t.Errorf("CleanGoogleURL(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestGoogleParseAutocomplete(t *testing.T) {
	google := NewGoogle(nil)

	testCases := []struct {
		name     string
		body     string
		expected []string
	}{
		{"Normal", `["rust",["rust lang","rust game","rustc"]]`, []string{"rust lang", "rust game", "rustc"}},
		{"MissingSecondElement", `["rust"]`, nil},
		{"SecondElementNotArray", `["rust","nope"]`, nil},
		{"NonStringEntries", `["rust",[1,"ok"]]`, []string{"", "ok"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := google.ParseAutocomplete(tc.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %d suggestions, got %d (%v)", len(tc.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("suggestion %d: expected %q, got %q", i, tc.expected[i], got[i])
				}
			}
		})
	}

	t.Run("InvalidJSON", func(t *testing.T) {
		if _, err := google.ParseAutocomplete("<html>blocked</html>"); err == nil {
			t.Fatal("expected an error for a non-json body")
		}
	})
}

func TestGoogleParseImages(t *testing.T) {
	payload := `{"abc":[0,[null,null,null,["https://images.example/full.jpg",1024,768],null,null,null,null,null,{"2003":[null,null,"https://pages.example/cat","Cat page"]}]]}`
	body := `<html><head><script>var m=` + payload + `;</script></head><body></body></html>`

	resp, err := NewGoogle(nil).ParseImages(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 image result, got %d", len(resp.Results))
	}
	img := resp.Results[0]
	if img.ImageURL != "https://images.example/full.jpg" {
		t.Errorf("unexpected image url %q", img.ImageURL)
	}
	if img.Width != 1024 || img.Height != 768 {
		t.Errorf("expected 1024x768, got %dx%d", img.Width, img.Height)
	}
	if img.PageURL != "https://pages.example/cat" || img.Title != "Cat page" {
		t.Errorf("unexpected page data %+v", img)
	}
}

func TestGoogleParseImagesSourceOrder(t *testing.T) {
	record := func(n int) string {
		return fmt.Sprintf(`[0,[null,null,null,["https://images.example/%02d.jpg",100,100],null,null,null,null,null,{"2003":[null,null,"https://pages.example/%02d","Page %02d"]}]]`, n, n, n)
	}
	// keys deliberately out of lexical order: results must follow the
	// page's own order, not a sorted or shuffled one
	payload := fmt.Sprintf(`{"zz":%s,"aa":%s,"mm":%s,"cc":%s}`,
		record(1), record(2), record(3), record(4))
	body := `<html><script>var m=` + payload + `;</script></html>`

	want := []string{
		"https://images.example/01.jpg",
		"https://images.example/02.jpg",
		"https://images.example/03.jpg",
		"https://images.example/04.jpg",
	}

	adapter := NewGoogle(nil)
	for run := 0; run < 20; run++ {
		resp, err := adapter.ParseImages(body)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if len(resp.Results) != len(want) {
			t.Fatalf("run %d: expected %d results, got %d", run, len(want), len(resp.Results))
		}
		for i, w := range want {
			if resp.Results[i].ImageURL != w {
				t.Fatalf("run %d: result %d: expected %q, got %q", run, i, w, resp.Results[i].ImageURL)
			}
		}
	}
}

func TestGoogleParseImagesDegradesToEmpty(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"NoScripts", "<html><body><p>nothing here</p></body></html>"},
		{"NoMatchingScript", "<html><script>console.log(1);</script></html>"},
		{"UndecodableJSON", `<html><script>var m={"abc":[};</script></html>`},
		{"ShortRecord", `<html><script>var m={"abc":[0,[null,null]]};</script></html>`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := NewGoogle(nil).ParseImages(tc.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(resp.Results) != 0 {
				t.Errorf("expected no results, got %d", len(resp.Results))
			}
		})
	}
}
