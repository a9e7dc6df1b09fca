package freshness

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jgivc/sitemapgen/internal/common"
	"github.com/jgivc/sitemapgen/internal/entity"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}

	return t
}

func layout(name, modified, parent string) *entity.Layout {
	return &entity.Layout{
		Name:             name,
		SourceExists:     true,
		SourceModifiedAt: date(modified),
		ParentName:       parent,
	}
}

func layouts(ll ...*entity.Layout) map[string]*entity.Layout {
	m := make(map[string]*entity.Layout, len(ll))
	for _, l := range ll {
		m[l.Name] = l
	}

	return m
}

func newResolver(ll map[string]*entity.Layout, now time.Time) *Resolver {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	return NewResolver(ll, func() time.Time { return now }, log)
}

func TestResolveSource(t *testing.T) {
	now := date("2025-01-01T00:00:00Z")

	ll := layouts(
		layout("default", "2020-03-01T00:00:00Z", ""),
		layout("post", "2019-01-01T00:00:00Z", "default"),
		layout("fresh", "2022-01-01T00:00:00Z", "post"),
		layout("orphan", "2018-01-01T00:00:00Z", "missing"),
		&entity.Layout{Name: "virtual", ParentName: "fresh"},
	)

	testCases := []struct {
		name     string
		item     *entity.ContentItem
		expected time.Time
	}{
		{
			name:     "Missing source uses now",
			item:     &entity.ContentItem{Kind: entity.KindPage, LayoutName: "fresh"},
			expected: now,
		},
		{
			name: "No layout",
			item: &entity.ContentItem{
				Kind: entity.KindPage, SourceExists: true, SourceModifiedAt: date("2021-01-01T00:00:00Z"),
			},
			expected: date("2021-01-01T00:00:00Z"),
		},
		{
			name: "Parent layout newer than item",
			item: &entity.ContentItem{
				Kind: entity.KindPost, SourceExists: true, SourceModifiedAt: date("2019-06-01T00:00:00Z"), LayoutName: "post",
			},
			expected: date("2020-03-01T00:00:00Z"),
		},
		{
			name: "Item newer than chain",
			item: &entity.ContentItem{
				Kind: entity.KindPost, SourceExists: true, SourceModifiedAt: date("2024-01-01T00:00:00Z"), LayoutName: "fresh",
			},
			expected: date("2024-01-01T00:00:00Z"),
		},
		{
			name: "Unresolved layout stops the walk",
			item: &entity.ContentItem{
				Kind: entity.KindPage, SourceExists: true, SourceModifiedAt: date("2017-01-01T00:00:00Z"), LayoutName: "orphan",
			},
			expected: date("2018-01-01T00:00:00Z"),
		},
		{
			name: "Unknown layout",
			item: &entity.ContentItem{
				Kind: entity.KindPage, SourceExists: true, SourceModifiedAt: date("2017-01-01T00:00:00Z"), LayoutName: "nope",
			},
			expected: date("2017-01-01T00:00:00Z"),
		},
		{
			name: "Layout without source is walked through",
			item: &entity.ContentItem{
				Kind: entity.KindPage, SourceExists: true, SourceModifiedAt: date("2017-01-01T00:00:00Z"), LayoutName: "virtual",
			},
			expected: date("2022-01-01T00:00:00Z"),
		},
	}

	r := newResolver(ll, now)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, diags := r.Resolve(tc.item)
			require.Empty(t, diags)
			require.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)

			if tc.item.SourceExists {
				require.False(t, got.Before(tc.item.SourceModifiedAt))
			}
		})
	}
}

func TestResolveMonotonic(t *testing.T) {
	ll := layouts(
		layout("a", "2021-01-01T00:00:00Z", "b"),
		layout("b", "2019-01-01T00:00:00Z", "c"),
		layout("c", "2020-01-01T00:00:00Z", ""),
	)
	item := &entity.ContentItem{
		Kind: entity.KindPage, SourceExists: true, SourceModifiedAt: date("2018-01-01T00:00:00Z"), LayoutName: "a",
	}

	got, _ := newResolver(ll, time.Now()).Resolve(item)
	for _, l := range ll {
		require.False(t, got.Before(l.SourceModifiedAt), "layout %s", l.Name)
	}
	require.True(t, date("2021-01-01T00:00:00Z").Equal(got))
}

func TestResolveLayoutCycle(t *testing.T) {
	ll := layouts(
		layout("a", "2019-01-01T00:00:00Z", "b"),
		layout("b", "2020-01-01T00:00:00Z", "a"),
		layout("self", "2021-01-01T00:00:00Z", "self"),
	)

	r := newResolver(ll, time.Now())

	got, diags := r.Resolve(&entity.ContentItem{
		Kind: entity.KindPage, RelativePath: "/loop.html", SourceExists: true,
		SourceModifiedAt: date("2018-01-01T00:00:00Z"), LayoutName: "a",
	})
	require.True(t, date("2020-01-01T00:00:00Z").Equal(got))
	require.Len(t, diags, 1)
	require.ErrorIs(t, diags[0].Err, common.ErrLayoutCycle)
	require.Equal(t, "/loop.html", diags[0].Path)
	require.Equal(t, "a", diags[0].Value)

	got, diags = r.Resolve(&entity.ContentItem{
		Kind: entity.KindPage, SourceExists: true, SourceModifiedAt: date("2018-01-01T00:00:00Z"), LayoutName: "self",
	})
	require.True(t, date("2021-01-01T00:00:00Z").Equal(got))
	require.Len(t, diags, 1)
}

func TestResolveAggregate(t *testing.T) {
	now := date("2025-01-01T00:00:00Z")
	ll := layouts(layout("post", "2020-01-01T00:00:00Z", ""))
	r := newResolver(ll, now)

	t.Run("Empty aggregate is epoch", func(t *testing.T) {
		got, diags := r.Resolve(&entity.ContentItem{Kind: entity.KindAggregate, SourceExists: true, SourceModifiedAt: now})
		require.Empty(t, diags)
		require.True(t, Epoch.Equal(got))
		require.Equal(t, int64(0), got.Unix())
	})

	t.Run("Newest post wins", func(t *testing.T) {
		got, _ := r.Resolve(&entity.ContentItem{
			Kind:         entity.KindAggregate,
			SourceExists: true,
			// Its own source does not matter.
			SourceModifiedAt: date("2030-01-01T00:00:00Z"),
			Posts: []*entity.ContentItem{
				{Kind: entity.KindPost, SourceExists: true, SourceModifiedAt: date("2021-06-15T00:00:00Z")},
				{Kind: entity.KindPost, SourceExists: true, SourceModifiedAt: date("2019-01-01T00:00:00Z"), LayoutName: "post"},
			},
		})
		require.True(t, date("2021-06-15T00:00:00Z").Equal(got))
	})

	t.Run("Post layouts count", func(t *testing.T) {
		got, _ := r.Resolve(&entity.ContentItem{
			Kind: entity.KindAggregate,
			Posts: []*entity.ContentItem{
				{Kind: entity.KindPost, SourceExists: true, SourceModifiedAt: date("2019-01-01T00:00:00Z"), LayoutName: "post"},
			},
		})
		require.True(t, date("2020-01-01T00:00:00Z").Equal(got))
	})

	t.Run("Post without source is now", func(t *testing.T) {
		got, _ := r.Resolve(&entity.ContentItem{
			Kind:  entity.KindAggregate,
			Posts: []*entity.ContentItem{{Kind: entity.KindPost}},
		})
		require.True(t, now.Equal(got))
	})

	t.Run("Nested aggregate is not expanded", func(t *testing.T) {
		inner := &entity.ContentItem{Kind: entity.KindAggregate, SourceExists: true, SourceModifiedAt: date("2022-01-01T00:00:00Z")}
		outer := &entity.ContentItem{Kind: entity.KindAggregate, Posts: []*entity.ContentItem{inner}}
		inner.Posts = []*entity.ContentItem{outer}

		got, _ := r.Resolve(outer)
		require.True(t, date("2022-01-01T00:00:00Z").Equal(got))
	})
}

func TestLater(t *testing.T) {
	a := date("2020-01-01T00:00:00Z")
	b := date("2021-01-01T00:00:00Z")

	require.Equal(t, b, Later(a, b))
	require.Equal(t, b, Later(b, a))

	tie := a.In(time.FixedZone("X", 3600))
	require.Equal(t, tie, Later(a, tie))
}
