package fsadapter

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	postDateLayout = "2006-01-02"
	outputExt      = ".html"
)

var (
	postNameRegexp = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.[^.]+$`)
	slugRegexp     = regexp.MustCompile(`[^\p{L}\p{N}]+`)

	yamlDelim = []byte("---")
	tomlDelim = []byte("+++")

	markdownExts = map[string]struct{}{
		".md":       {},
		".markdown": {},
		".mkd":      {},
		".mkdn":     {},
	}
)

// readFrontmatter returns the front matter of the file and whether the file has one.
func (a *fsAdapter) readFrontmatter(fileName string) (map[string]any, bool, error) {
	ok, err := a.hasFrontmatter(fileName)
	if err != nil || !ok {
		return nil, false, err
	}

	content, err := afero.ReadFile(a.fs, fileName)
	if err != nil {
		return nil, false, fmt.Errorf("cannot read file: %w", err)
	}

	pc := parser.NewContext()
	a.md.Parser().Parse(text.NewReader(content), parser.WithContext(pc))

	fm := frontmatter.Get(pc)
	if fm == nil {
		return nil, false, nil
	}

	meta := make(map[string]any)
	if err := fm.Decode(&meta); err != nil {
		return nil, false, fmt.Errorf("cannot decode front matter: %w", err)
	}

	return meta, true, nil
}

func (a *fsAdapter) hasFrontmatter(fileName string) (bool, error) {
	file, err := a.fs.Open(fileName)
	if err != nil {
		return false, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	head := make([]byte, len(yamlDelim))
	if _, err := io.ReadFull(file, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}

		return false, fmt.Errorf("cannot read file: %w", err)
	}

	return bytes.Equal(head, yamlDelim) || bytes.Equal(head, tomlDelim), nil
}

func parsePostName(name string) (time.Time, string, error) {
	m := postNameRegexp.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", fmt.Errorf("post file name %q has no YYYY-MM-DD- prefix", name)
	}

	date, err := time.Parse(postDateLayout, m[1])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid post date %q: %w", m[1], err)
	}

	return date, m[2], nil
}

// postURLPath is the default post permalink: /:categories/:year/:month/:day/:title.html
func postURLPath(categories []string, date time.Time, slug string) string {
	parts := make([]string, 0, len(categories)+4)
	for _, c := range categories {
		if s := slugify(c); s != "" {
			parts = append(parts, s)
		}
	}

	parts = append(parts, date.Format("2006"), date.Format("01"), date.Format("02"), slug+outputExt)

	return "/" + strings.Join(parts, "/")
}

// pageURLPath maps a source path to its output path, markdown is rendered to html.
func pageURLPath(rel string) string {
	ext := path.Ext(rel)
	if _, ok := markdownExts[strings.ToLower(ext)]; ok {
		return strings.TrimSuffix(rel, ext) + outputExt
	}

	return rel
}

func permalinkOf(meta map[string]any) string {
	p := strings.TrimSpace(stringOf(meta[metaPermalink]))
	if p == "" {
		return ""
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return p
}

func postCategories(meta map[string]any) []string {
	// A single category may contain spaces, a categories string is a list.
	list := stringsOf(meta[metaCategories])
	if c, ok := meta[metaCategory].(string); ok {
		list = append([]string{strings.TrimSpace(c)}, list...)
	} else {
		list = append(stringsOf(meta[metaCategory]), list...)
	}

	var out []string
	seen := make(map[string]struct{})
	for _, c := range list {
		if _, exists := seen[c]; exists || c == "" {
			continue
		}

		seen[c] = struct{}{}
		out = append(out, c)
	}

	return out
}

func slugify(s string) string {
	s = cases.Lower(language.Und).String(strings.TrimSpace(s))

	return strings.Trim(slugRegexp.ReplaceAllString(s, "-"), "-")
}

func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

// stringsOf accepts a YAML list or a space separated string.
func stringsOf(v any) []string {
	switch s := v.(type) {
	case string:
		return strings.Fields(s)
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str := strings.TrimSpace(stringOf(item)); str != "" {
				out = append(out, str)
			}
		}

		return out
	case []string:
		return s
	default:
		return nil
	}
}
