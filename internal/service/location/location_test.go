package location

import (
	"testing"

	"github.com/jgivc/sitemapgen/internal/entity"
	"github.com/stretchr/testify/require"
)

func TestLocationOf(t *testing.T) {
	testCases := []struct {
		name     string
		baseURL  string
		item     *entity.ContentItem
		expected string
	}{
		{
			name:     "Post verbatim",
			baseURL:  "https://example.org",
			item:     &entity.ContentItem{Kind: entity.KindPost, URLPath: "/2021/06/15/hello.html"},
			expected: "https://example.org/2021/06/15/hello.html",
		},
		{
			name:     "Post keeps index.html",
			baseURL:  "https://example.org",
			item:     &entity.ContentItem{Kind: entity.KindPost, URLPath: "/notes/index.html"},
			expected: "https://example.org/notes/index.html",
		},
		{
			name:     "Root index page",
			baseURL:  "https://example.org",
			item:     &entity.ContentItem{Kind: entity.KindPage, URLPath: "/index.html"},
			expected: "https://example.org/",
		},
		{
			name:     "Nested index page",
			baseURL:  "https://example.org",
			item:     &entity.ContentItem{Kind: entity.KindPage, URLPath: "/blog/index.html"},
			expected: "https://example.org/blog/",
		},
		{
			name:     "Interior index.html untouched",
			baseURL:  "https://example.org",
			item:     &entity.ContentItem{Kind: entity.KindPage, URLPath: "/index.html/about.html"},
			expected: "https://example.org/index.html/about.html",
		},
		{
			name:     "Aggregate page",
			baseURL:  "https://example.org",
			item:     &entity.ContentItem{Kind: entity.KindAggregate, URLPath: "/2021/index.html"},
			expected: "https://example.org/2021/",
		},
		{
			name:     "Base URL with trailing slash",
			baseURL:  "https://example.org/",
			item:     &entity.ContentItem{Kind: entity.KindPage, URLPath: "/about.html"},
			expected: "https://example.org/about.html",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, NewComposer(tc.baseURL).LocationOf(tc.item))
		})
	}
}
