package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithTxBeginError(t *testing.T) {
	db := &FakeDB{BeginFn: func(context.Context) (Tx, error) { return nil, errors.New("begin") }}
	err := WithTx(context.Background(), db, func(Querier) error { return nil })
	require.Error(t, err)
}

func TestWithTxCommit(t *testing.T) {
	committed := false
	tx := &FakeTx{CommitFn: func(context.Context) error { committed = true; return nil }}
	db := &FakeDB{BeginFn: func(context.Context) (Tx, error) { return tx, nil }}

	ran := false
	err := WithTx(context.Background(), db, func(q Querier) error {
		require.Same(t, tx, q)
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)
	require.True(t, committed)
}

func TestWithTxCommitError(t *testing.T) {
	tx := &FakeTx{CommitFn: func(context.Context) error { return errors.New("commit") }}
	db := &FakeDB{BeginFn: func(context.Context) (Tx, error) { return tx, nil }}
	err := WithTx(context.Background(), db, func(Querier) error { return nil })
	require.Error(t, err)
}

func TestWithTxRollbackOnError(t *testing.T) {
	rolledBack := false
	tx := &FakeTx{RollbackFn: func(context.Context) error { rolledBack = true; return nil }}
	db := &FakeDB{BeginFn: func(context.Context) (Tx, error) { return tx, nil }}

	boom := errors.New("boom")
	err := WithTx(context.Background(), db, func(Querier) error { return boom })
	require.ErrorIs(t, err, boom)
	require.True(t, rolledBack)
}

func TestWithTxRollbackOnPanic(t *testing.T) {
	rolledBack := false
	tx := &FakeTx{RollbackFn: func(context.Context) error { rolledBack = true; return nil }}
	db := &FakeDB{BeginFn: func(context.Context) (Tx, error) { return tx, nil }}

	require.PanicsWithValue(t, "kaboom", func() {
		_ = WithTx(context.Background(), db, func(Querier) error { panic("kaboom") })
	})
	require.True(t, rolledBack)
}
