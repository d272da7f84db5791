package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactorRunInTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE tournaments").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := NewTransactor(db).RunInTx(context.Background(), func(exec SQLExecutor) error {
			_, err := exec.ExecContext(context.Background(), "UPDATE tournaments SET status = 'ongoing'")
			return err
		})
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		fnErr := errors.New("link failed")
		err := NewTransactor(db).RunInTx(context.Background(), func(exec SQLExecutor) error {
			return fnErr
		})
		assert.ErrorIs(t, err, fnErr)
	})

	t.Run("rollback failure is reported", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("conn gone"))

		fnErr := errors.New("link failed")
		err := NewTransactor(db).RunInTx(context.Background(), func(exec SQLExecutor) error {
			return fnErr
		})
		assert.ErrorIs(t, err, fnErr)
		assert.Contains(t, err.Error(), "conn gone")
	})

	t.Run("commit failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := NewTransactor(db).RunInTx(context.Background(), func(exec SQLExecutor) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "boom", func() {
			_ = NewTransactor(db).RunInTx(context.Background(), func(exec SQLExecutor) error {
				panic("boom")
			})
		})
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		called := false
		err := NewTransactor(db).RunInTx(context.Background(), func(exec SQLExecutor) error {
			called = true
			return nil
		})
		require.Error(t, err)
		assert.False(t, called)
	})
}
