package fileasset

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSource_Fetch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rucheng_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"汝":[]}`), 0o644))

	got, err := NewSource(path, newTestLogger()).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, `{"汝":[]}`, string(got))
}

func TestSource_Fetch_Missing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := NewSource(path, newTestLogger()).Fetch(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, path, te.Source)
}

func TestSource_Fetch_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSource("unused.json", newTestLogger()).Fetch(ctx)

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}
