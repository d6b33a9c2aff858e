package cache

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgVectorStore keeps embedding vectors in PostgreSQL with the pgvector
// extension, so a cache hit survives process restarts and is shared by
// every worker pointed at the same database.
type PgVectorStore struct {
	pool *pgxpool.Pool
	dim  int
}

func NewPgVectorStore(ctx context.Context, connString string, dim int) (*PgVectorStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive, got %d", ErrInvalidArgument, dim)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	s := &PgVectorStore{pool: pool, dim: dim}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PgVectorStore) Close() {
	s.pool.Close()
}

// ensureSchema is idempotent; running it against an initialized database
// is a no-op.
func (s *PgVectorStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS embedding_cache (
			cache_key TEXT PRIMARY KEY,
			embedding vector(%d) NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dim)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create embedding_cache table: %w", err)
	}
	return nil
}

func (s *PgVectorStore) GetVector(ctx context.Context, key string) ([]float32, bool, error) {
	var vec pgvector.Vector
	err := s.pool.QueryRow(ctx,
		"SELECT embedding FROM embedding_cache WHERE cache_key = $1",
		key).Scan(&vec)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return vec.Slice(), true, nil
}

// SetVector upserts; on a racing duplicate the last writer wins.
func (s *PgVectorStore) SetVector(ctx context.Context, key string, vec []float32) error {
	if len(vec) != s.dim {
		return fmt.Errorf("%w: embedding has %d dimensions, store expects %d", ErrInvalidArgument, len(vec), s.dim)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO embedding_cache (cache_key, embedding, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (cache_key)
		 DO UPDATE SET embedding = EXCLUDED.embedding, updated_at = now()`,
		key, pgvector.NewVector(vec))
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}
