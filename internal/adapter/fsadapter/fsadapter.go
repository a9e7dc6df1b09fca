package fsadapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jgivc/sitemapgen/internal/common"
	"github.com/jgivc/sitemapgen/internal/config"
	"github.com/jgivc/sitemapgen/internal/entity"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"go.abhg.dev/goldmark/frontmatter"
)

const (
	layoutsDir = "_layouts"
	postsDir   = "_posts"

	metaLayout     = "layout"
	metaPermalink  = "permalink"
	metaCategory   = "category"
	metaCategories = "categories"
	metaPosts      = "posts"
	metaArchive    = "archive"
)

type fsAdapter struct {
	fs  afero.Fs
	cfg *config.LoaderConfig
	md  goldmark.Markdown

	log *slog.Logger
}

func NewFSAdapter(cfg *config.LoaderConfig, log *slog.Logger) (*fsAdapter, error) {
	return NewFSAdapterWithFS(afero.NewOsFs(), cfg, log)
}

func NewFSAdapterWithFS(fs afero.Fs, cfg *config.LoaderConfig, log *slog.Logger) (*fsAdapter, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("%w: source directory is empty", common.ErrInvalidConfig)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			&frontmatter.Extender{},
		),
	)

	return &fsAdapter{
		fs:  fs,
		cfg: cfg,
		md:  md,
		log: log.With(slog.String("item", "FSAdapter")),
	}, nil
}

/*
Load builds the site snapshot from the source tree:
 1. _layouts/* are layouts, the layout front matter key names the parent.
 2. _posts/YYYY-MM-DD-slug.ext are posts, ordered by date.
 3. Any other file starting with front matter is a page.
 4. Pages listing posts (posts, category or archive keys) are aggregates.
 5. Configured archive pages are added as virtual aggregates.
*/
func (a *fsAdapter) Load() (*entity.Site, error) {
	if !a.fileExists(a.cfg.Source) {
		return nil, fmt.Errorf("cannot find source directory %s", a.cfg.Source)
	}

	site := entity.NewSite(a.cfg.BaseURL)

	layouts, err := a.loadLayouts()
	if err != nil {
		return nil, fmt.Errorf("cannot load layouts: %w", err)
	}
	site.Layouts = layouts

	posts, err := a.loadPosts()
	if err != nil {
		return nil, fmt.Errorf("cannot load posts: %w", err)
	}
	site.Posts = posts

	pages, err := a.loadPages()
	if err != nil {
		return nil, fmt.Errorf("cannot load pages: %w", err)
	}

	for _, page := range pages {
		a.linkPosts(page, posts)
	}

	site.Pages = append(pages, a.archivePages(pages, posts)...)

	a.log.Info("Site loaded",
		slog.Int("layouts", len(site.Layouts)),
		slog.Int("posts", len(site.Posts)),
		slog.Int("pages", len(site.Pages)),
	)

	return site, nil
}

// ModTime returns the modification time of path, common.ErrSourceNotFound
// when there is no such file.
func (a *fsAdapter) ModTime(path string) (time.Time, error) {
	if path == "" {
		return time.Time{}, common.ErrSourceNotFound
	}

	stat, err := a.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%w: %s", common.ErrSourceNotFound, path)
		}

		return time.Time{}, fmt.Errorf("cannot stat %s: %w", path, err)
	}

	return stat.ModTime(), nil
}

func (a *fsAdapter) loadLayouts() (map[string]*entity.Layout, error) {
	layouts := make(map[string]*entity.Layout)

	dir := filepath.Join(a.cfg.Source, layoutsDir)
	if !a.fileExists(dir) {
		return layouts, nil
	}

	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		layout := &entity.Layout{
			Name:       strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			SourcePath: path,
		}

		meta, _, err := a.readFrontmatter(path)
		if err != nil {
			a.log.Error("Cannot read layout front matter", slog.String("path", path), slog.Any("error", err))
		}
		layout.ParentName = stringOf(meta[metaLayout])

		a.stat(path, &layout.SourceExists, &layout.SourceModifiedAt)

		layouts[layout.Name] = layout
	}

	return layouts, nil
}

func (a *fsAdapter) loadPosts() ([]*entity.ContentItem, error) {
	dir := filepath.Join(a.cfg.Source, postsDir)
	if !a.fileExists(dir) {
		return nil, nil
	}

	var posts []*entity.ContentItem
	err := afero.Walk(a.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != dir && isHidden(info.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if isHidden(info.Name()) {
			return nil
		}

		post, err := a.toPost(dir, path)
		if err != nil {
			a.log.Warn("Skip post", slog.String("path", path), slog.Any("error", err))

			return nil
		}

		posts = append(posts, post)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.Before(posts[j].Date)
		}

		return posts[i].RelativePath < posts[j].RelativePath
	})

	return posts, nil
}

func (a *fsAdapter) toPost(dir, path string) (*entity.ContentItem, error) {
	date, slug, err := parsePostName(filepath.Base(path))
	if err != nil {
		return nil, err
	}

	meta, _, err := a.readFrontmatter(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read front matter: %w", err)
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return nil, err
	}

	post := &entity.ContentItem{
		Kind:         entity.KindPost,
		RelativePath: "/" + postsDir + "/" + filepath.ToSlash(rel),
		SourcePath:   path,
		LayoutName:   stringOf(meta[metaLayout]),
		Metadata:     meta,
		Date:         date,
		Categories:   postCategories(meta),
	}

	post.URLPath = permalinkOf(meta)
	if post.URLPath == "" {
		post.URLPath = postURLPath(post.Categories, date, slug)
	}

	a.stat(path, &post.SourceExists, &post.SourceModifiedAt)

	return post, nil
}

func (a *fsAdapter) loadPages() ([]*entity.ContentItem, error) {
	root := filepath.Clean(a.cfg.Source)
	dest := a.destinationDir()

	var pages []*entity.ContentItem
	err := afero.Walk(a.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path == root {
				return nil
			}

			if isHidden(info.Name()) || isSpecial(info.Name()) || filepath.Clean(path) == dest {
				return filepath.SkipDir
			}

			return nil
		}

		if isHidden(info.Name()) || isSpecial(info.Name()) {
			return nil
		}

		meta, ok, err := a.readFrontmatter(path)
		if err != nil {
			a.log.Warn("Skip page", slog.String("path", path), slog.Any("error", err))

			return nil
		}

		// Files without front matter are copied as is and are not pages.
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = "/" + filepath.ToSlash(rel)

		page := &entity.ContentItem{
			Kind:         entity.KindPage,
			RelativePath: rel,
			SourcePath:   path,
			LayoutName:   stringOf(meta[metaLayout]),
			Metadata:     meta,
		}

		page.URLPath = permalinkOf(meta)
		if page.URLPath == "" {
			page.URLPath = pageURLPath(rel)
		}

		a.stat(path, &page.SourceExists, &page.SourceModifiedAt)

		pages = append(pages, page)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return pages, nil
}

func (a *fsAdapter) stat(path string, exists *bool, modifiedAt *time.Time) {
	t, err := a.ModTime(path)
	if err != nil {
		if !errors.Is(err, common.ErrSourceNotFound) {
			a.log.Error("Cannot get modification time", slog.String("path", path), slog.Any("error", err))
		}

		return
	}

	*exists = true
	*modifiedAt = t
}

func (a *fsAdapter) destinationDir() string {
	cfg := config.Config{Source: a.cfg.Source, Destination: a.cfg.Destination}

	return cfg.DestinationDir()
}

func (a *fsAdapter) fileExists(path string) bool {
	if path == "" {
		return false
	}

	_, err := a.fs.Stat(path)

	return err == nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// isSpecial reports names Jekyll keeps out of the output (_layouts, _posts, _config.yml ...).
func isSpecial(name string) bool {
	return strings.HasPrefix(name, "_")
}
