package urls

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"CleanUnchanged", "https://example.com/page", "https://example.com/page"},
		{"TrimsWhitespace", "  https://example.com/page \n", "https://example.com/page"},
		{"StripsFragment", "https://example.com/page#section", "https://example.com/page"},
		{"StripsUTM", "https://example.com/page?utm_source=x", "https://example.com/page"},
		{"KeepsOtherParams", "https://example.com/page?id=5", "https://example.com/page?id=5"},
		{"Empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			if got != tc.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"https://example.com/page",
		"https://example.com/page?a=1&utm_campaign=x&b=2#frag",
		"https://example.com/?utm_source=x&utm_medium=y",
		"not a url at all",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
