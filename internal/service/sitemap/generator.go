package sitemap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jgivc/sitemapgen/internal/common"
	"github.com/jgivc/sitemapgen/internal/config"
	"github.com/jgivc/sitemapgen/internal/entity"
	"github.com/jgivc/sitemapgen/internal/service/inclusion"
	"github.com/jgivc/sitemapgen/internal/util"
)

const (
	serviceName = "sitemap"
)

type Renderer interface {
	Render(w io.Writer, records []*entity.URLRecord) error
}

type Writer interface {
	Write(fileName string, data []byte) error
}

type Publisher interface {
	Save(ctx context.Context, doc *entity.Document) error
}

type Generator struct {
	cfg       *config.Config
	assembler *Assembler
	renderer  Renderer
	writer    Writer
	publisher Publisher
	now       func() time.Time
	log       *slog.Logger
}

// NewGenerator creates a generator. publisher may be nil.
func NewGenerator(cfg *config.Config, renderer Renderer, writer Writer, publisher Publisher, log *slog.Logger) *Generator {
	return NewGeneratorWithClock(cfg, renderer, writer, publisher, time.Now, log)
}

func NewGeneratorWithClock(cfg *config.Config, renderer Renderer, writer Writer, publisher Publisher, now func() time.Time, log *slog.Logger) *Generator {
	log = log.With(slog.String("service", serviceName))

	return &Generator{
		cfg:       cfg,
		assembler: NewAssembler(&cfg.Sitemap, inclusion.NewPolicy(&cfg.Sitemap), now, log.With(slog.String("item", "Assembler"))),
		renderer:  renderer,
		writer:    writer,
		publisher: publisher,
		now:       now,
		log:       log,
	}
}

// OutputPath is where the sitemap is written: {destination}/{filename}.
func (g *Generator) OutputPath() string {
	return filepath.Join(g.cfg.DestinationDir(), filepath.FromSlash(g.cfg.Sitemap.Filename))
}

/*
Generate runs one generation: assemble, render, write the file and protect it
from cleanup, then publish when a publisher is set. Invalid item fields only
produce diagnostics, a failed write fails the run.
*/
func (g *Generator) Generate(ctx context.Context, site *entity.Site) (*entity.Document, error) {
	runID := uuid.NewString()
	log := g.log.With(slog.String("run_id", runID))
	log.Info("Generate sitemap", slog.Int("posts", len(site.Posts)), slog.Int("pages", len(site.Pages)))

	records, diags := g.assembler.Assemble(site)

	var buf bytes.Buffer
	if err := g.renderer.Render(&buf, records); err != nil {
		log.Error("Cannot render sitemap", slog.Any("error", err))

		return nil, fmt.Errorf("cannot render sitemap: %w", err)
	}

	doc := &entity.Document{
		RunID:       runID,
		Filename:    g.cfg.Sitemap.Filename,
		Content:     buf.Bytes(),
		ETag:        util.GetIDFromBytes(buf.Bytes()),
		URLCount:    len(records),
		GeneratedAt: g.now(),
		Diagnostics: diags,
	}

	outputPath := g.OutputPath()
	if err := g.writer.Write(outputPath, doc.Content); err != nil {
		log.Error("Cannot write sitemap", slog.String("path", outputPath), slog.Any("error", err))

		return nil, fmt.Errorf("%w %s: %w", common.ErrOutputWrite, outputPath, err)
	}

	site.Protect(g.cfg.Sitemap.Filename)

	if g.publisher != nil {
		if err := g.publisher.Save(ctx, doc); err != nil {
			log.Error("Cannot publish sitemap", slog.Any("error", err))

			return doc, fmt.Errorf("cannot publish sitemap: %w", err)
		}
	}

	log.Info("Sitemap generated",
		slog.String("path", outputPath),
		slog.Int("urls", doc.URLCount),
		slog.Int("diagnostics", len(diags)),
	)

	return doc, nil
}
