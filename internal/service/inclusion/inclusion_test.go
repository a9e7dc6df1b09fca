package inclusion

import (
	"testing"

	"github.com/jgivc/sitemapgen/internal/config"
	"github.com/stretchr/testify/require"
)

func TestPolicy(t *testing.T) {
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Sitemap.Exclude = []string{"/atom.xml", "/drafts/index.html"}

	p := NewPolicy(&cfg.Sitemap)

	require.True(t, p.IsExcluded("/atom.xml"))
	require.True(t, p.IsExcluded("/drafts/index.html"))
	require.False(t, p.IsExcluded("atom.xml"))
	require.False(t, p.IsExcluded("/blog/atom.xml"))
	require.False(t, p.IsExcluded("/drafts/*"))

	require.True(t, p.IsPostsAware("/index.html"))
	require.False(t, p.IsPostsAware("/blog/index.html"))
}

func TestEmptyPolicy(t *testing.T) {
	p := NewPolicy(&config.SitemapConfig{})

	require.False(t, p.IsExcluded("/atom.xml"))
	require.False(t, p.IsPostsAware("/index.html"))
}
