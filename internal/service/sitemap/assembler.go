package sitemap

import (
	"log/slog"
	"time"

	"github.com/jgivc/sitemapgen/internal/config"
	"github.com/jgivc/sitemapgen/internal/entity"
	"github.com/jgivc/sitemapgen/internal/service/freshness"
	"github.com/jgivc/sitemapgen/internal/service/location"
	"github.com/jgivc/sitemapgen/internal/service/validate"
)

type InclusionPolicy interface {
	IsExcluded(relativePath string) bool
	IsPostsAware(relativePath string) bool
}

type Assembler struct {
	cfg    *config.SitemapConfig
	policy InclusionPolicy
	now    func() time.Time
	log    *slog.Logger
}

// NewAssembler creates an assembler. The URL composer and the freshness
// resolver depend on the site and are created for each Assemble call.
func NewAssembler(cfg *config.SitemapConfig, policy InclusionPolicy, now func() time.Time, log *slog.Logger) *Assembler {
	if now == nil {
		now = time.Now
	}

	return &Assembler{
		cfg:    cfg,
		policy: policy,
		now:    now,
		log:    log,
	}
}

// run holds the per-site collaborators of one Assemble call.
type run struct {
	composer *location.Composer
	resolver *freshness.Resolver
	diags    []entity.Diagnostic
}

/*
Assemble builds one record per included item: all posts first, then all
pages, both in pipeline order. The newest included post date is known before
the first page is resolved, posts-aware pages are at least that fresh.
*/
func (a *Assembler) Assemble(site *entity.Site) ([]*entity.URLRecord, []entity.Diagnostic) {
	r := &run{
		composer: location.NewComposer(site.BaseURL),
		resolver: freshness.NewResolver(site.Layouts, a.now, a.log),
	}

	records := make([]*entity.URLRecord, 0, len(site.Posts)+len(site.Pages))

	var (
		newestPostDate time.Time
		hasPosts       bool
	)

	for _, post := range site.Posts {
		if a.policy.IsExcluded(post.RelativePath) {
			a.log.Debug("Skip excluded post", slog.String("path", post.RelativePath))

			continue
		}

		rec := a.record(r, post)
		records = append(records, rec)

		if !hasPosts {
			newestPostDate, hasPosts = rec.LastModified, true
		} else {
			newestPostDate = freshness.Later(newestPostDate, rec.LastModified)
		}
	}

	for _, page := range site.Pages {
		if a.policy.IsExcluded(page.RelativePath) {
			a.log.Debug("Skip excluded page", slog.String("path", page.RelativePath))

			continue
		}

		rec := a.record(r, page)
		if hasPosts && a.policy.IsPostsAware(page.RelativePath) {
			rec.LastModified = freshness.Later(rec.LastModified, newestPostDate)
		}

		records = append(records, rec)
	}

	return records, r.diags
}

func (a *Assembler) record(r *run, item *entity.ContentItem) *entity.URLRecord {
	lastModified, diags := r.resolver.Resolve(item)
	r.diags = append(r.diags, diags...)

	rec := &entity.URLRecord{
		Location:     r.composer.LocationOf(item),
		LastModified: lastModified,
	}

	if v, ok := item.Meta(a.cfg.ChangeFrequencyName); ok {
		cf, err := validate.ChangeFrequencyOf(v)
		if err != nil {
			a.report(r, item, a.cfg.ChangeFrequencyName, v, err)
		} else {
			rec.ChangeFrequency = string(cf)
		}
	}

	if v, ok := item.Meta(a.cfg.PriorityName); ok {
		p, err := validate.Priority(v)
		if err != nil {
			a.report(r, item, a.cfg.PriorityName, v, err)
		} else {
			rec.Priority = p
		}
	}

	return rec
}

func (a *Assembler) report(r *run, item *entity.ContentItem, field string, value any, err error) {
	d := entity.Diagnostic{
		Path:  item.RelativePath,
		Field: field,
		Value: value,
		Err:   err,
	}

	a.log.Warn("Invalid field omitted",
		slog.String("path", item.RelativePath),
		slog.String("field", field),
		slog.Any("value", value),
		slog.Any("error", err),
	)

	r.diags = append(r.diags, d)
}
