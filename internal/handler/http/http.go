package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jgivc/sitemapgen/internal/common"
	"github.com/jgivc/sitemapgen/internal/entity"
)

const (
	contentType = "application/xml; charset=utf-8"
	readTimeout = 2 * time.Second
)

type SitemapSource interface {
	Active(ctx context.Context) (*entity.Document, error)
}

func NewSitemapHandler(srv SitemapSource, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "SitemapHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
		defer cancel()

		doc, err := srv.Active(ctx)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrSitemapNotFound):
				http.Error(w, "Sitemap not found", http.StatusNotFound)
			default:
				log.Error("Cannot get sitemap", slog.Any("error", err))
				http.Error(w, "Cannot get sitemap", http.StatusInternalServerError)
			}

			return
		}

		etag := strconv.Quote(doc.ETag)

		w.Header().Set("ETag", etag)
		if !doc.GeneratedAt.IsZero() {
			w.Header().Set("Last-Modified", doc.GeneratedAt.UTC().Format(http.TimeFormat))
		}

		if matchETag(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)

			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))

		if r.Method == http.MethodHead {
			return
		}

		if _, err := w.Write(doc.Content); err != nil {
			log.Debug("Cannot write response", slog.String("run_id", doc.RunID), slog.Any("error", err))
		}
	}
}

// matchETag reports whether the If-None-Match header names etag. Weak
// validators match too.
func matchETag(header, etag string) bool {
	if header == "" {
		return false
	}

	for _, v := range strings.Split(header, ",") {
		v = strings.TrimSpace(v)
		if v == "*" || strings.TrimPrefix(v, "W/") == etag {
			return true
		}
	}

	return false
}
