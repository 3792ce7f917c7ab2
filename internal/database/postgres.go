package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var pgxpoolNew = pgxpool.New

// NewPgxPool 建立 pgxpool 連線池並包成 DB 介面。
// 每個 goroutine 透過 checkout/checkin 取得專屬連線，不會共用 handle。
func NewPgxPool(ctx context.Context, url string) (DB, error) {
	pool, err := pgxpoolNew(ctx, url)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: pool}, nil
}

// Pool 包裝 *pgxpool.Pool，讓 Begin 回傳 Tx 介面
type Pool struct {
	pool *pgxpool.Pool
}

func (p *Pool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

func (p *Pool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// pgx.Tx 的方法集合已涵蓋 Tx 介面，直接轉型即可
func (p *Pool) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Pool) Close() {
	p.pool.Close()
}
