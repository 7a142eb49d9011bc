package usersvc

import (
	"context"
	"database/sql"
	"errors"

	"bookmarket/model"
	txrepo "bookmarket/repository/transaction"
	userrepo "bookmarket/repository/user"
	"bookmarket/service/pricing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrUserNotFound  ErrCode = "USER_NOT_FOUND"
	ErrUserExists    ErrCode = "USER_ALREADY_EXISTS"
	ErrInvalidAmount ErrCode = "INVALID_AMOUNT"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByKeyword(ctx context.Context, keyword string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error

	LockByID(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error)
	UpdateFunds(ctx context.Context, tx *sql.Tx, id int64, funds float64) error
}

type Ledger interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Transaction, error)
	BooksByUserAndType(ctx context.Context, userID int64, typ model.TransactionType) ([]model.Book, error)
}

type Service interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
	Search(ctx context.Context, keyword string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id int64, u *model.User) (*model.User, error)
	Delete(ctx context.Context, id int64) error

	// AddFunds credits a user's balance with a positive top-up amount.
	AddFunds(ctx context.Context, userID int64, amount float64) (*model.User, error)

	// Purchases and Sales project a user's history out of the ledger.
	Purchases(ctx context.Context, userID int64) ([]model.Book, error)
	Sales(ctx context.Context, userID int64) ([]model.Book, error)
	Transactions(ctx context.Context, userID int64) ([]model.Transaction, error)
}

type service struct {
	db     *sql.DB
	r      Repo
	ledger Ledger
}

func New(db *sql.DB, r Repo, ledger Ledger) Service {
	return &service{db: db, r: r, ledger: ledger}
}

func (s *service) ByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound, "user not found for the given id")
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Search(ctx context.Context, keyword string) (*model.User, error) {
	u, err := s.r.ByKeyword(ctx, keyword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound, "user not found for the given email or username")
		}
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context) ([]model.User, error) { return s.r.List(ctx) }

func (s *service) Update(ctx context.Context, id int64, u *model.User) (*model.User, error) {
	existing, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound, "user not found for the given id")
		}
		return nil, err
	}

	u.ID = existing.ID
	if err := s.r.Update(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrUserExists, "a user with the same email or username already exists")
		}
		return nil, err
	}
	u.Funds = existing.Funds
	u.CreatedAt = existing.CreatedAt
	return u, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrUserNotFound, "user not found for the given id")
		}
		return err
	}
	return nil
}

func (s *service) AddFunds(ctx context.Context, userID int64, amount float64) (u *model.User, err error) {
	if amount <= 0 {
		return nil, makeErr(ErrInvalidAmount, "top-up amount must be positive")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	u, err = s.r.LockByID(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound, "user not found for the given id")
		}
		return nil, err
	}

	u.Funds = pricing.Round(u.Funds + amount)
	if err = s.r.UpdateFunds(ctx, tx, userID, u.Funds); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Purchases(ctx context.Context, userID int64) ([]model.Book, error) {
	if _, err := s.ByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.ledger.BooksByUserAndType(ctx, userID, model.TxBuy)
}

func (s *service) Sales(ctx context.Context, userID int64) ([]model.Book, error) {
	if _, err := s.ByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.ledger.BooksByUserAndType(ctx, userID, model.TxSell)
}

func (s *service) Transactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	if _, err := s.ByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.ledger.ListByUser(ctx, userID)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

var (
	_ Repo   = (userrepo.Repo)(nil)
	_ Ledger = (txrepo.Repo)(nil)
)
