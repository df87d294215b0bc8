package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return l
}

func TestNewLocal_CreatesDir(t *testing.T) {
	l := newLocal(t)
	info, err := os.Stat(l.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocal_CreateOpenRemove(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	n, err := l.Create(ctx, "20240301_120000_scan.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)

	rc, err := l.Open(ctx, "20240301_120000_scan.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, l.Remove(ctx, "20240301_120000_scan.pdf"))
	assert.NoFileExists(t, filepath.Join(l.Dir(), "20240301_120000_scan.pdf"))

	require.ErrorIs(t, l.Remove(ctx, "20240301_120000_scan.pdf"), common.ErrorNotFound)
	_, err = l.Open(ctx, "20240301_120000_scan.pdf")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLocal_CreateNeverOverwrites(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	_, err := l.Create(ctx, "a.txt", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = l.Create(ctx, "a.txt", strings.NewReader("second"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	data, err := os.ReadFile(filepath.Join(l.Dir(), "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestLocal_RejectsPathNames(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../escape.txt", "dir/file.txt"} {
		_, err := l.Create(ctx, name, strings.NewReader("x"))
		assert.ErrorIs(t, err, common.ErrorValidation, name)
		assert.ErrorIs(t, l.Remove(ctx, name), common.ErrorValidation, name)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocal_CreateCleansUpPartialWrite(t *testing.T) {
	l := newLocal(t)

	_, err := l.Create(context.Background(), "partial.bin", io.MultiReader(strings.NewReader("abc"), failingReader{}))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(l.Dir(), "partial.bin"))
}

func TestLocal_CreateCancelled(t *testing.T) {
	l := newLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Create(ctx, "a.txt", strings.NewReader("x"))
	require.ErrorIs(t, err, context.Canceled)
}
