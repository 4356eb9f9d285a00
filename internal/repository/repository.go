package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// memoryDB は DATABASE_URL 未設定時のヘルスチェック用。常に生存扱い。
type memoryDB struct{}

func (memoryDB) Ping(context.Context) error { return nil }

// NoopDB returns a DB whose Ping always succeeds, for the in-memory store.
func NoopDB() DB { return memoryDB{} }
