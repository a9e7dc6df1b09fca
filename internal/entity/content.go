package entity

import "time"

type Kind int

const (
	KindPost Kind = iota
	KindPage
	KindAggregate // a page whose freshness comes from the posts it lists
)

func (k Kind) String() string {
	return [...]string{"Post", "Page", "Aggregate"}[k]
}

// ContentItem is a generated post or page.
type ContentItem struct {
	Kind             Kind
	RelativePath     string // Unique location in the source tree, e.g. /index.html
	SourcePath       string // Backing file on disk, empty for virtual pages
	SourceExists     bool
	SourceModifiedAt time.Time
	LayoutName       string
	URLPath          string // Relative URL assigned by the pipeline
	Metadata         map[string]any

	// Posts referenced by an aggregate page, in listing order.
	Posts []*ContentItem

	// Post only.
	Date       time.Time
	Categories []string
}

func (c *ContentItem) IsPost() bool {
	return c.Kind == KindPost
}

// Meta returns the metadata value for key and whether it is set.
func (c *ContentItem) Meta(key string) (any, bool) {
	if c.Metadata == nil {
		return nil, false
	}

	v, ok := c.Metadata[key]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

// Layout is a template a content item or another layout is rendered through.
type Layout struct {
	Name             string
	SourcePath       string
	SourceExists     bool
	SourceModifiedAt time.Time
	ParentName       string
}
