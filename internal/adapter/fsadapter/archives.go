package fsadapter

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jgivc/sitemapgen/internal/entity"
)

const indexFileName = "index.html"

/*
linkPosts turns a page listing posts into an aggregate. A page lists posts
by explicit references, by category or by archive period. An explicit posts
list always makes an aggregate, even an empty one. A category or archive page
without matching posts stays an ordinary page, its own file is its freshness.
*/
func (a *fsAdapter) linkPosts(page *entity.ContentItem, posts []*entity.ContentItem) {
	log := a.log.With(slog.String("path", page.RelativePath))

	var linked []*entity.ContentItem

	if refs, exists := page.Metadata[metaPosts]; exists {
		byRef := make(map[string]*entity.ContentItem, len(posts)*2)
		for _, post := range posts {
			byRef[post.RelativePath] = post
			byRef[path.Base(post.RelativePath)] = post
		}

		linked = []*entity.ContentItem{}
		for _, ref := range stringsOf(refs) {
			post, found := byRef[ref]
			if !found {
				log.Warn("Listed post not found", slog.String("post", ref))

				continue
			}

			linked = append(linked, post)
		}
	} else if category := strings.TrimSpace(stringOf(page.Metadata[metaCategory])); category != "" {
		linked = postsInCategory(posts, category)
	} else if archive := strings.TrimSpace(stringOf(page.Metadata[metaArchive])); archive != "" {
		year, month, err := parseArchive(archive)
		if err != nil {
			log.Warn("Invalid archive period", slog.String("archive", archive), slog.Any("error", err))

			return
		}

		linked = postsInPeriod(posts, year, month)
	} else {
		return
	}

	if _, explicit := page.Metadata[metaPosts]; !explicit && len(linked) < 1 {
		log.Debug("No posts match, keep as page")

		return
	}

	page.Kind = entity.KindAggregate
	page.Posts = linked
}

// archivePages generates the configured category and date archive pages.
// A page already present in the source tree wins over a generated one.
func (a *fsAdapter) archivePages(pages, posts []*entity.ContentItem) []*entity.ContentItem {
	cfg := a.cfg.Archives
	if !cfg.Categories && !cfg.Yearly && !cfg.Monthly {
		return nil
	}

	existing := make(map[string]struct{}, len(pages))
	for _, page := range pages {
		existing[page.RelativePath] = struct{}{}
	}

	var generated []*entity.ContentItem
	add := func(relativePath string, linked []*entity.ContentItem) {
		if _, exists := existing[relativePath]; exists {
			return
		}
		existing[relativePath] = struct{}{}

		generated = append(generated, &entity.ContentItem{
			Kind:         entity.KindAggregate,
			RelativePath: relativePath,
			URLPath:      relativePath,
			Posts:        linked,
		})
	}

	if cfg.Categories {
		for _, category := range categoriesOf(posts) {
			slug := slugify(category)
			if slug == "" {
				continue
			}

			add(path.Join("/", cfg.CategoryDir, slug, indexFileName), postsInCategory(posts, category))
		}
	}

	if cfg.Yearly {
		for _, year := range yearsOf(posts) {
			add(path.Join("/", strconv.Itoa(year), indexFileName), postsInPeriod(posts, year, 0))
		}
	}

	if cfg.Monthly {
		for _, ym := range monthsOf(posts) {
			add(path.Join("/", fmt.Sprintf("%04d/%02d", ym.year, ym.month), indexFileName), postsInPeriod(posts, ym.year, ym.month))
		}
	}

	a.log.Debug("Archive pages generated", slog.Int("count", len(generated)))

	return generated
}

func postsInCategory(posts []*entity.ContentItem, category string) []*entity.ContentItem {
	out := []*entity.ContentItem{}
	for _, post := range posts {
		for _, c := range post.Categories {
			if c == category {
				out = append(out, post)

				break
			}
		}
	}

	return out
}

// postsInPeriod selects posts of the year, or of the month when month is not zero.
func postsInPeriod(posts []*entity.ContentItem, year int, month time.Month) []*entity.ContentItem {
	out := []*entity.ContentItem{}
	for _, post := range posts {
		if post.Date.Year() != year {
			continue
		}

		if month != 0 && post.Date.Month() != month {
			continue
		}

		out = append(out, post)
	}

	return out
}

func parseArchive(s string) (int, time.Month, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("expected YYYY or YYYY/MM")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year: %w", err)
	}

	if len(parts) == 1 {
		return year, 0, nil
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %q", parts[1])
	}

	return year, time.Month(month), nil
}

func categoriesOf(posts []*entity.ContentItem) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, post := range posts {
		for _, c := range post.Categories {
			if _, exists := seen[c]; !exists {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}

	sort.Strings(out)

	return out
}

func yearsOf(posts []*entity.ContentItem) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, post := range posts {
		if _, exists := seen[post.Date.Year()]; !exists {
			seen[post.Date.Year()] = struct{}{}
			out = append(out, post.Date.Year())
		}
	}

	sort.Ints(out)

	return out
}

type yearMonth struct {
	year  int
	month time.Month
}

func monthsOf(posts []*entity.ContentItem) []yearMonth {
	seen := make(map[yearMonth]struct{})
	var out []yearMonth
	for _, post := range posts {
		ym := yearMonth{post.Date.Year(), post.Date.Month()}
		if _, exists := seen[ym]; !exists {
			seen[ym] = struct{}{}
			out = append(out, ym)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].year != out[j].year {
			return out[i].year < out[j].year
		}

		return out[i].month < out[j].month
	})

	return out
}
