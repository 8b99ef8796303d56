package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/rucheng-dialect/internal/adapter/postgres"
	"github.com/heartmarshall/rucheng-dialect/internal/adapter/postgres/testhelper"
)

func entryExists(t *testing.T, pool *pgxpool.Pool, key string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM dialect_entries WHERE key = $1)`,
		key,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("entryExists query: %v", err)
	}
	return exists
}

func insertEntry(ctx context.Context, pool *pgxpool.Pool, position int, key string) error {
	q := postgres.QuerierFromCtx(ctx, pool)
	_, err := q.Exec(ctx, `INSERT INTO dialect_entries (position, key) VALUES ($1, $2)`, position, key)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateDictionary(t, pool)
	tm := postgres.NewTxManager(pool)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertEntry(ctx, pool, 0, "汝")
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}

	if !entryExists(t, pool, "汝") {
		t.Fatal("expected committed entry")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateDictionary(t, pool)
	tm := postgres.NewTxManager(pool)

	sentinel := errors.New("abort")
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertEntry(ctx, pool, 0, "城"); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	if entryExists(t, pool, "城") {
		t.Fatal("expected entry to be rolled back")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateDictionary(t, pool)
	tm := postgres.NewTxManager(pool)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
			_ = insertEntry(ctx, pool, 0, "门")
			panic("boom")
		})
	}()

	if entryExists(t, pool, "门") {
		t.Fatal("expected entry to be rolled back after panic")
	}
}
