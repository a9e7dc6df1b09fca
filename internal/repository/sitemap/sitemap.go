package sitemap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jgivc/sitemapgen/internal/common"
	"github.com/jgivc/sitemapgen/internal/entity"
	"github.com/redis/go-redis/v9"
)

const (
	KeyVersion1      = "v1"
	KeyVersion2      = "v2"
	KeyActiveVersion = "av"  // STRING. Version of the document being served.
	KeyDocument      = "doc" // HASH. doc:ver -> content, etag, run_id, filename, url_count, generated_at

	FieldContent     = "content"
	FieldETag        = "etag"
	FieldRunID       = "run_id"
	FieldFilename    = "filename"
	FieldURLCount    = "url_count"
	FieldGeneratedAt = "generated_at"

	KeyEmpty     = ""
	KeySeparator = ":"
)

type sitemapRepository struct {
	prefix string
	cl     *redis.Client
	log    *slog.Logger
}

func NewSitemapRepository(cl *redis.Client, prefix string, log *slog.Logger) *sitemapRepository {
	return &sitemapRepository{
		prefix: prefix,
		cl:     cl,
		log:    log.With(slog.String("item", "SitemapRepository")),
	}
}

/*
Save writes the document into the standby version and makes it active in one
transaction, readers never see a half written document.
*/
func (r *sitemapRepository) Save(ctx context.Context, doc *entity.Document) error {
	verActive, verStandby, err := r.getVersions(ctx)
	if err != nil {
		r.log.Error("Cannot get standby version", slog.Any("error", err))

		return fmt.Errorf("cannot get active version: %w", err)
	}

	log := r.log.With(slog.String("run_id", doc.RunID))
	log.Info("Save sitemap", slog.String("active_version", verActive), slog.String("standby_version", verStandby))

	key := r.getKey(KeyDocument, verStandby)

	pipe := r.cl.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		FieldContent, doc.Content,
		FieldETag, doc.ETag,
		FieldRunID, doc.RunID,
		FieldFilename, doc.Filename,
		FieldURLCount, doc.URLCount,
		FieldGeneratedAt, doc.GeneratedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Set(ctx, r.getKey(KeyActiveVersion), verStandby, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Error("Cannot save sitemap", slog.String("version", verStandby), slog.Any("error", err))

		return fmt.Errorf("cannot save sitemap: %w", err)
	}

	return nil
}

// Active returns the document being served, common.ErrSitemapNotFound when
// nothing has been published yet.
func (r *sitemapRepository) Active(ctx context.Context) (*entity.Document, error) {
	ver, err := r.cl.Get(ctx, r.getKey(KeyActiveVersion)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrSitemapNotFound
		}

		return nil, fmt.Errorf("cannot get active version: %w", err)
	}

	fields, err := r.cl.HGetAll(ctx, r.getKey(KeyDocument, ver)).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot get sitemap: %w", err)
	}

	if len(fields) < 1 {
		return nil, common.ErrSitemapNotFound
	}

	doc := &entity.Document{
		RunID:    fields[FieldRunID],
		Filename: fields[FieldFilename],
		Content:  []byte(fields[FieldContent]),
		ETag:     fields[FieldETag],
	}

	if doc.URLCount, err = strconv.Atoi(fields[FieldURLCount]); err != nil {
		r.log.Error("Cannot convert url count", slog.String("version", ver), slog.Any("error", err))
	}

	if doc.GeneratedAt, err = time.Parse(time.RFC3339Nano, fields[FieldGeneratedAt]); err != nil {
		r.log.Error("Cannot parse generation time", slog.String("version", ver), slog.Any("error", err))
	}

	return doc, nil
}

/*
getVersions return active and standby versions
*/
func (r *sitemapRepository) getVersions(ctx context.Context) (string, string, error) {
	ver, err := r.cl.Get(ctx, r.getKey(KeyActiveVersion)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return KeyEmpty, KeyEmpty, fmt.Errorf("cannot get active version: %w", err)
	}

	switch ver {
	case KeyVersion1:
		return KeyVersion1, KeyVersion2, nil
	case KeyVersion2:
		return KeyVersion2, KeyVersion1, nil
	}

	// Nothing published yet, v1 is written first.
	return KeyEmpty, KeyVersion1, nil
}

func (r *sitemapRepository) getKey(keys ...string) string {
	if r.prefix == "" {
		return strings.Join(keys, KeySeparator)
	}

	return r.prefix + KeySeparator + strings.Join(keys, KeySeparator)
}
