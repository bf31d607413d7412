package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerlabs/radar/internal/archive"
)

func TestNewFS(t *testing.T) {
	t.Run("CreatesBaseDir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "snapshots")
		_, err := archive.NewFS(archive.FSConfig{BaseDir: dir})
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})
	t.Run("EmptyBaseDir", func(t *testing.T) {
		_, err := archive.NewFS(archive.FSConfig{})
		require.Error(t, err)
	})
}

func TestFSStore(t *testing.T) {
	dir := t.TempDir()
	fs, err := archive.NewFS(archive.FSConfig{BaseDir: dir})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("NestedPath", func(t *testing.T) {
		uri, err := fs.Store(ctx, "feeds/ohio/anytown/run-gnews.xml", "application/rss+xml", []byte("<rss/>"))
		require.NoError(t, err)
		assert.Equal(t, "file://"+filepath.Join(dir, "feeds/ohio/anytown/run-gnews.xml"), uri)

		data, err := os.ReadFile(filepath.Join(dir, "feeds", "ohio", "anytown", "run-gnews.xml"))
		require.NoError(t, err)
		assert.Equal(t, "<rss/>", string(data))
	})

	t.Run("EmptyPath", func(t *testing.T) {
		_, err := fs.Store(ctx, "  ", "text/plain", []byte("x"))
		require.Error(t, err)
	})

	t.Run("PathEscape", func(t *testing.T) {
		_, err := fs.Store(ctx, "../outside.xml", "text/plain", []byte("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "escapes")
	})
}
