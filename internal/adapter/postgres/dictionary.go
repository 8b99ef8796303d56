package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

const (
	entriesTable = "dialect_entries"
	importsTable = "dialect_imports"

	// insertChunk bounds rows per INSERT to stay under the 65535 bind
	// parameter limit.
	insertChunk = 1000
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DictionaryRepo stores the dialect dictionary in PostgreSQL and serves it
// back as the same JSON object payload the file and HTTP sources return.
type DictionaryRepo struct {
	pool *pgxpool.Pool
	txm  *TxManager
	log  *slog.Logger
}

// NewDictionaryRepo creates a DictionaryRepo.
func NewDictionaryRepo(pool *pgxpool.Pool, logger *slog.Logger) *DictionaryRepo {
	return &DictionaryRepo{
		pool: pool,
		txm:  NewTxManager(pool),
		log:  logger.With("adapter", "postgres"),
	}
}

// Fetch reads every entry ordered by position and assembles a JSON object
// payload. Any database failure is a *domain.TransportError.
func (r *DictionaryRepo) Fetch(ctx context.Context) ([]byte, error) {
	query, args, err := builder.
		Select("key", "records").
		From(entriesTable).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, domain.NewTransportError(entriesTable, fmt.Errorf("build query: %w", err))
	}

	rows, err := QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewTransportError(entriesTable, mapError(err, "fetch"))
	}
	defer rows.Close()

	var (
		buf bytes.Buffer
		n   int
	)
	buf.WriteByte('{')
	for rows.Next() {
		var (
			key     string
			records []byte
		)
		if err := rows.Scan(&key, &records); err != nil {
			return nil, domain.NewTransportError(entriesTable, mapError(err, "scan"))
		}

		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, domain.NewTransportError(entriesTable, fmt.Errorf("encode key %q: %w", key, err))
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(records)
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewTransportError(entriesTable, mapError(err, "fetch"))
	}
	buf.WriteByte('}')

	r.log.DebugContext(ctx, "dictionary fetched",
		slog.Int("entries", n),
		slog.Int("bytes", buf.Len()),
		slog.Bool("in_tx", InTx(ctx)),
	)
	return buf.Bytes(), nil
}

// ReplaceAll swaps the stored dictionary for entries in a single
// transaction and records the import. Entry order becomes position order.
func (r *DictionaryRepo) ReplaceAll(ctx context.Context, source string, entries []domain.Entry) error {
	return r.txm.RunInTx(ctx, func(ctx context.Context) error {
		q := QuerierFromCtx(ctx, r.pool)

		del, args, err := builder.Delete(entriesTable).ToSql()
		if err != nil {
			return fmt.Errorf("postgres: build delete: %w", err)
		}
		if _, err := q.Exec(ctx, del, args...); err != nil {
			return mapError(err, "delete entries")
		}

		for start := 0; start < len(entries); start += insertChunk {
			end := min(start+insertChunk, len(entries))

			ins := builder.Insert(entriesTable).Columns("position", "key", "records")
			for i, e := range entries[start:end] {
				records, err := encodeRecords(e.Records)
				if err != nil {
					return fmt.Errorf("postgres: encode records of %q: %w", e.Key, err)
				}
				ins = ins.Values(start+i, e.Key, records)
			}

			sql, args, err := ins.ToSql()
			if err != nil {
				return fmt.Errorf("postgres: build insert: %w", err)
			}
			if _, err := q.Exec(ctx, sql, args...); err != nil {
				return mapError(err, "insert entries")
			}
		}

		logSQL, logArgs, err := builder.
			Insert(importsTable).
			Columns("id", "source", "entry_count").
			Values(uuid.New(), source, len(entries)).
			ToSql()
		if err != nil {
			return fmt.Errorf("postgres: build import log: %w", err)
		}
		if _, err := q.Exec(ctx, logSQL, logArgs...); err != nil {
			return mapError(err, "record import")
		}

		r.log.InfoContext(ctx, "dictionary replaced",
			slog.String("source", source),
			slog.Int("entries", len(entries)),
		)
		return nil
	})
}

// Ping checks database connectivity.
func (r *DictionaryRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func encodeRecords(recs domain.Records) ([]byte, error) {
	if recs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(recs)
}
