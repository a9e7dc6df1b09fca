package xmladapter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/jgivc/sitemapgen/internal/entity"
)

const (
	Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

	indent = "    "
)

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

// Field order is the element order of the protocol.
type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type renderer struct{}

func NewRenderer() *renderer {
	return &renderer{}
}

func (r *renderer) Render(w io.Writer, records []*entity.URLRecord) error {
	return Render(w, records)
}

// Render writes records as a pretty printed sitemap, in the given order.
func Render(w io.Writer, records []*entity.URLRecord) error {
	set := urlSet{
		Xmlns: Namespace,
		URLs:  make([]url, 0, len(records)),
	}

	for _, rec := range records {
		set.URLs = append(set.URLs, url{
			Loc:        rec.Location,
			LastMod:    FormatTime(rec.LastModified),
			ChangeFreq: rec.ChangeFrequency,
			Priority:   rec.Priority,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("cannot write xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := enc.Encode(&set); err != nil {
		return fmt.Errorf("cannot encode sitemap: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("cannot encode sitemap: %w", err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("cannot write sitemap: %w", err)
	}

	return nil
}

func Marshal(records []*entity.URLRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, records); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// FormatTime formats t as ISO 8601 in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
