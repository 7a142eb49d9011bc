package usersvc

import (
	"context"
	"database/sql"
	"testing"

	"bookmarket/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	byIDFn        func(ctx context.Context, id int64) (*model.User, error)
	lockByIDFn    func(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error)
	updateFundsFn func(ctx context.Context, tx *sql.Tx, id int64, funds float64) error
	deleteFn      func(ctx context.Context, id int64) error
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byIDFn(ctx, id)
}
func (m *repoMock) ByKeyword(ctx context.Context, keyword string) (*model.User, error) {
	return nil, sql.ErrNoRows
}
func (m *repoMock) List(ctx context.Context) ([]model.User, error) { return nil, nil }
func (m *repoMock) Update(ctx context.Context, u *model.User) error {
	return nil
}
func (m *repoMock) Delete(ctx context.Context, id int64) error {
	if m.deleteFn == nil {
		return sql.ErrNoRows
	}
	return m.deleteFn(ctx, id)
}
func (m *repoMock) LockByID(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error) {
	return m.lockByIDFn(ctx, tx, id)
}
func (m *repoMock) UpdateFunds(ctx context.Context, tx *sql.Tx, id int64, funds float64) error {
	if m.updateFundsFn == nil {
		return nil
	}
	return m.updateFundsFn(ctx, tx, id, funds)
}

type ledgerStub struct {
	booksFn func(ctx context.Context, userID int64, typ model.TransactionType) ([]model.Book, error)
}

var _ Ledger = (*ledgerStub)(nil)

func (l *ledgerStub) ListByUser(ctx context.Context, userID int64) ([]model.Transaction, error) {
	return nil, nil
}
func (l *ledgerStub) BooksByUserAndType(ctx context.Context, userID int64, typ model.TransactionType) ([]model.Book, error) {
	if l.booksFn == nil {
		return nil, nil
	}
	return l.booksFn(ctx, userID, typ)
}

func TestAddFunds_RejectsNonPositive(t *testing.T) {
	s := New(nil, &repoMock{}, &ledgerStub{})

	_, err := s.AddFunds(context.Background(), 1, 0)
	require.Equal(t, ErrInvalidAmount, Code(err))

	_, err = s.AddFunds(context.Background(), 1, -5)
	require.Equal(t, ErrInvalidAmount, Code(err))
}

func TestAddFunds_Credits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	var written float64
	m := &repoMock{
		lockByIDFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error) {
			return &model.User{ID: 1, Funds: 12.5}, nil
		},
		updateFundsFn: func(ctx context.Context, tx *sql.Tx, id int64, funds float64) error {
			written = funds
			return nil
		},
	}
	s := New(db, m, &ledgerStub{})

	u, err := s.AddFunds(context.Background(), 1, 25)
	require.NoError(t, err)
	require.Equal(t, 37.5, u.Funds)
	require.Equal(t, 37.5, written)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFunds_UserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &repoMock{
		lockByIDFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := New(db, m, &ledgerStub{})

	_, err = s.AddFunds(context.Background(), 99, 10)
	require.Equal(t, ErrUserNotFound, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchases_RequiresUser(t *testing.T) {
	s := New(nil, &repoMock{}, &ledgerStub{})
	_, err := s.Purchases(context.Background(), 404)
	require.Equal(t, ErrUserNotFound, Code(err))
}

func TestPurchases_ProjectsLedger(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}
	var gotType model.TransactionType
	l := &ledgerStub{
		booksFn: func(ctx context.Context, userID int64, typ model.TransactionType) ([]model.Book, error) {
			gotType = typ
			return []model.Book{{ID: 10}}, nil
		},
	}
	s := New(nil, m, l)

	books, err := s.Purchases(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, model.TxBuy, gotType)

	_, err = s.Sales(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, model.TxSell, gotType)
}

func TestDelete_NotFound(t *testing.T) {
	s := New(nil, &repoMock{}, &ledgerStub{})
	err := s.Delete(context.Background(), 404)
	require.Equal(t, ErrUserNotFound, Code(err))
}
