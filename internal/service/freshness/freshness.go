// Package freshness resolves the last modified time of content items.
//
// A post or page is as fresh as the newest of its own source file and every
// layout in its layout chain. An aggregate page is as fresh as the newest
// post it lists.
package freshness

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jgivc/sitemapgen/internal/common"
	"github.com/jgivc/sitemapgen/internal/entity"
)

// Epoch is the freshness of an aggregate page that lists no posts.
var Epoch = time.Unix(0, 0).UTC()

type Resolver struct {
	layouts map[string]*entity.Layout
	now     func() time.Time
	log     *slog.Logger
}

func NewResolver(layouts map[string]*entity.Layout, now func() time.Time, log *slog.Logger) *Resolver {
	if now == nil {
		now = time.Now
	}

	return &Resolver{
		layouts: layouts,
		now:     now,
		log:     log.With(slog.String("item", "FreshnessResolver")),
	}
}

func (r *Resolver) Resolve(item *entity.ContentItem) (time.Time, []entity.Diagnostic) {
	if item.Kind == entity.KindAggregate {
		return r.resolveAggregate(item), nil
	}

	return r.resolveSource(item)
}

func (r *Resolver) resolveAggregate(item *entity.ContentItem) time.Time {
	latest := Epoch
	for _, post := range item.Posts {
		// Listed items are always resolved by their source, an aggregate
		// listing another aggregate does not recurse.
		date, _ := r.resolveSource(post)
		latest = Later(latest, date)
	}

	return latest
}

func (r *Resolver) resolveSource(item *entity.ContentItem) (time.Time, []entity.Diagnostic) {
	if !item.SourceExists {
		r.log.Debug("Source not found, use current time", slog.String("path", item.RelativePath))

		return r.now(), nil
	}

	latest := item.SourceModifiedAt
	visited := make(map[string]struct{})

	for name := item.LayoutName; name != ""; {
		if _, seen := visited[name]; seen {
			r.log.Warn("Layout chain cycle", slog.String("path", item.RelativePath), slog.String("layout", name))

			return latest, []entity.Diagnostic{{
				Path:  item.RelativePath,
				Field: "layout",
				Value: name,
				Err:   fmt.Errorf("%w at %q", common.ErrLayoutCycle, name),
			}}
		}
		visited[name] = struct{}{}

		layout, exists := r.layouts[name]
		if !exists {
			r.log.Debug("Stop layout chain", slog.String("path", item.RelativePath),
				slog.Any("error", fmt.Errorf("%w: %s", common.ErrLayoutNotFound, name)))

			break
		}

		if layout.SourceExists {
			latest = Later(latest, layout.SourceModifiedAt)
		}

		name = layout.ParentName
	}

	return latest, nil
}

// Later returns the later of a and b, b wins a tie.
func Later(a, b time.Time) time.Time {
	if b.Before(a) {
		return a
	}

	return b
}
