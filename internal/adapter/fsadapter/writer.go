package fsadapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

type writer struct {
	fs  afero.Fs
	log *slog.Logger
}

func NewWriter(log *slog.Logger) *writer {
	return NewWriterWithFS(afero.NewOsFs(), log)
}

func NewWriterWithFS(fs afero.Fs, log *slog.Logger) *writer {
	return &writer{
		fs:  fs,
		log: log.With(slog.String("item", "Writer")),
	}
}

// Write replaces fileName with data. The directory is created first, the
// content goes to a temporary file that is renamed over fileName, so readers
// see either the old or the new file.
func (w *writer) Write(fileName string, data []byte) error {
	dir := filepath.Dir(fileName)
	if err := w.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(fileName)+".*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		w.remove(tmpName)

		return fmt.Errorf("cannot write temporary file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		w.remove(tmpName)

		return fmt.Errorf("cannot close temporary file: %w", err)
	}

	if err := w.fs.Chmod(tmpName, filePerm); err != nil {
		w.log.Warn("Cannot set file mode", slog.String("path", tmpName), slog.Any("error", err))
	}

	if err := w.fs.Rename(tmpName, fileName); err != nil {
		w.remove(tmpName)

		return fmt.Errorf("cannot rename %s to %s: %w", tmpName, fileName, err)
	}

	w.log.Info("File written", slog.String("path", fileName), slog.Int("size", len(data)))

	return nil
}

func (w *writer) remove(fileName string) {
	if err := w.fs.Remove(fileName); err != nil {
		w.log.Error("Cannot remove temporary file", slog.String("path", fileName), slog.Any("error", err))
	}
}
