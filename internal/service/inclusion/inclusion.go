package inclusion

import "github.com/jgivc/sitemapgen/internal/config"

// Policy decides which items take part in the sitemap. Paths are matched
// exactly, there is no pattern matching.
type Policy struct {
	excluded   map[string]struct{}
	postsAware map[string]struct{}
}

func NewPolicy(cfg *config.SitemapConfig) *Policy {
	return &Policy{
		excluded:   toSet(cfg.Exclude),
		postsAware: toSet(cfg.IncludePosts),
	}
}

func (p *Policy) IsExcluded(relativePath string) bool {
	_, ok := p.excluded[relativePath]

	return ok
}

// IsPostsAware reports whether the page freshness must also consider the
// newest post.
func (p *Policy) IsPostsAware(relativePath string) bool {
	_, ok := p.postsAware[relativePath]

	return ok
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}

	return set
}
