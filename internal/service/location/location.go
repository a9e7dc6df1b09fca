package location

import (
	"strings"

	"github.com/jgivc/sitemapgen/internal/entity"
)

const indexSuffix = "index.html"

type Composer struct {
	baseURL string
}

func NewComposer(baseURL string) *Composer {
	return &Composer{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// LocationOf returns the absolute URL of item. Pages lose a trailing
// index.html, so /blog/index.html becomes /blog/.
func (c *Composer) LocationOf(item *entity.ContentItem) string {
	loc := c.baseURL + item.URLPath
	if item.IsPost() {
		return loc
	}

	return strings.TrimSuffix(loc, indexSuffix)
}
