package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/rucheng-dialect/internal/adapter/postgres"
	"github.com/heartmarshall/rucheng-dialect/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/rucheng-dialect/internal/config"
	"github.com/heartmarshall/rucheng-dialect/internal/dictionary"
	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Tests share one container and one table, so they run sequentially.

func TestDictionaryRepo_ReplaceAllThenFetch(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateDictionary(t, pool)
	repo := postgres.NewDictionaryRepo(pool, newTestLogger())
	ctx := context.Background()

	entries := []domain.Entry{
		{Key: "汝", Records: domain.Records{json.RawMessage(`{"phonetic":"ru35","meaning":"你"}`)}},
		{Key: "汝城", Records: domain.Records{json.RawMessage(`{"phonetic":"ru35 cheŋ21"}`)}},
		{Key: "城", Records: nil},
	}
	require.NoError(t, repo.ReplaceAll(ctx, "test", entries))

	payload, err := repo.Fetch(ctx)
	require.NoError(t, err)

	store := dictionary.NewStore()
	require.NoError(t, store.Load(payload))

	var keys []string
	for k := range store.Entries() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"汝", "汝城", "城"}, keys, "position order is preserved")

	recs, ok := store.Get("汝")
	require.True(t, ok)
	require.Len(t, recs, 1)
	assert.JSONEq(t, `{"phonetic":"ru35","meaning":"你"}`, string(recs[0]))

	recs, ok = store.Get("城")
	require.True(t, ok)
	assert.Empty(t, recs)
}

func TestDictionaryRepo_ReplaceAllIsWholesale(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateDictionary(t, pool)
	repo := postgres.NewDictionaryRepo(pool, newTestLogger())
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, "first", []domain.Entry{{Key: "汝"}, {Key: "城"}}))
	require.NoError(t, repo.ReplaceAll(ctx, "second", []domain.Entry{{Key: "门"}}))

	payload, err := repo.Fetch(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"门":[]}`, string(payload))

	var imports int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM dialect_imports`).Scan(&imports))
	assert.Equal(t, 2, imports)
}

func TestDictionaryRepo_ReplaceAllRollsBackOnDuplicate(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateDictionary(t, pool)
	repo := postgres.NewDictionaryRepo(pool, newTestLogger())
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, "seed", []domain.Entry{{Key: "汝"}}))

	err := repo.ReplaceAll(ctx, "dup", []domain.Entry{{Key: "城"}, {Key: "城"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedDictionary))

	payload, err := repo.Fetch(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"汝":[]}`, string(payload), "failed replace keeps previous contents")
}

func TestDictionaryRepo_FetchEmpty(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateDictionary(t, pool)
	repo := postgres.NewDictionaryRepo(pool, newTestLogger())

	payload, err := repo.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(payload))
}

func TestDictionaryRepo_FetchCancelled(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := postgres.NewDictionaryRepo(pool, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPool_Ping(t *testing.T) {
	testhelper.SetupTestDB(t)

	pool, err := postgres.NewPool(context.Background(), config.DatabaseConfig{
		DSN:      testhelper.DSN(),
		MaxConns: 2,
		MinConns: 1,
	})
	require.NoError(t, err)
	defer pool.Close()

	repo := postgres.NewDictionaryRepo(pool, newTestLogger())
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestMigratePool_Idempotent(t *testing.T) {
	pool := testhelper.SetupTestDB(t)

	assert.NoError(t, postgres.MigratePool(context.Background(), pool, newTestLogger()))
}
