// File: internal/database/tx.go
package database

import "context"

// WithTx 開啟交易並執行 fn：成功 commit、錯誤 rollback、panic 先 rollback 再重拋。
// fn 只拿到 Querier，不能自行結束交易。
func WithTx(ctx context.Context, db DB, fn func(tx Querier) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(tx)
	return err
}
