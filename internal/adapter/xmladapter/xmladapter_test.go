package xmladapter

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/jgivc/sitemapgen/internal/entity"
	"github.com/stretchr/testify/require"
)

var records = []*entity.URLRecord{
	{
		Location:     "https://example.org/2021/06/15/hello.html",
		LastModified: time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		Location:        "https://example.org/",
		LastModified:    time.Date(2021, 6, 15, 2, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
		ChangeFrequency: "daily",
		Priority:        "1.0",
	},
	{
		Location:     "https://example.org/about.html?a=1&b=2",
		LastModified: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		Priority:     "0.3",
	},
}

const expected = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
    <url>
        <loc>https://example.org/2021/06/15/hello.html</loc>
        <lastmod>2021-06-15T00:00:00Z</lastmod>
    </url>
    <url>
        <loc>https://example.org/</loc>
        <lastmod>2021-06-15T00:00:00Z</lastmod>
        <changefreq>daily</changefreq>
        <priority>1.0</priority>
    </url>
    <url>
        <loc>https://example.org/about.html?a=1&amp;b=2</loc>
        <lastmod>2019-01-01T00:00:00Z</lastmod>
        <priority>0.3</priority>
    </url>
</urlset>
`

func TestRender(t *testing.T) {
	data, err := Marshal(records)
	require.NoError(t, err)
	require.Equal(t, expected, string(data))
}

func TestRenderIdempotent(t *testing.T) {
	first, err := Marshal(records)
	require.NoError(t, err)

	second, err := Marshal(records)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestRenderEmpty(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>
`, string(data))
}

func TestRenderRoundTrip(t *testing.T) {
	data, err := Marshal(records)
	require.NoError(t, err)

	var set urlSet
	require.NoError(t, xml.Unmarshal(data, &set))
	require.Equal(t, Namespace, set.XMLName.Space)
	require.Len(t, set.URLs, len(records))
	require.Equal(t, "https://example.org/about.html?a=1&b=2", set.URLs[2].Loc)
}
