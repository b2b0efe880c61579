package linkmeta

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"1.2K", 1200},
		{"1.5M", 1500000},
		{"123", 123},
		{"12,345", 12345},
		{"5.6K views", 5600},
		{"100K", 100000},
		{"42k", 42000},
		{"3,4 mil", 3400},
		{"2 mil", 2000},
		{"0", 0},
		{"", 0},
		{"no number", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseCount(tt.input)
			if result != tt.expected {
				t.Errorf("ParseCount(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExtractViews(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected int64
	}{
		{
			"og video views meta",
			`<html><head><meta property="og:video:views" content="15400"></head><body></body></html>`,
			15400,
		},
		{
			"data-views attribute",
			`<html><body><span data-views="2,3 mil">2,3 mil</span></body></html>`,
			2300,
		},
		{
			"view-count class",
			`<html><body><div class="view-count">1.2K</div></body></html>`,
			1200,
		},
		{
			"no counter present",
			`<html><body><p>just text</p></body></html>`,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("parse html: %v", err)
			}
			if got := extractViews(doc); got != tt.expected {
				t.Errorf("extractViews = %d, want %d", got, tt.expected)
			}
		})
	}
}
