package fsadapter

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	fs := afero.NewMemMapFs()
	w := NewWriterWithFS(fs, log)

	require.NoError(t, w.Write("/out/public/sitemap.xml", []byte("first")))
	require.NoError(t, w.Write("/out/public/sitemap.xml", []byte("second")))

	data, err := afero.ReadFile(fs, "/out/public/sitemap.xml")
	require.NoError(t, err)
	require.Equal(t, "second", string(data))

	entries, err := afero.ReadDir(fs, "/out/public")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriterReadOnly(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	w := NewWriterWithFS(afero.NewReadOnlyFs(afero.NewMemMapFs()), log)

	require.Error(t, w.Write("/out/sitemap.xml", []byte("data")))
}
