// Package market orchestrates buy and sell transactions: funds movement,
// inventory transitions, price depreciation and the ledger row, all inside a
// single database transaction per call.
package market

import (
	"context"
	"database/sql"
	"errors"

	"bookmarket/model"
	bookrepo "bookmarket/repository/book"
	"bookmarket/service/pricing"
)

// maxInventorySize mirrors the inventory cap for the sell-by-ISBN path that
// can create a new book record.
const maxInventorySize = 100

// errors used by controllers

type ErrCode string

const (
	ErrUserNotFound      ErrCode = "USER_NOT_FOUND"
	ErrBookNotFound      ErrCode = "BOOK_NOT_FOUND"
	ErrBookUnavailable   ErrCode = "BOOK_UNAVAILABLE"
	ErrInsufficientFunds ErrCode = "INSUFFICIENT_FUNDS"
	ErrNotOwner          ErrCode = "NOT_OWNER"
	ErrNewBookRequired   ErrCode = "NEW_BOOK_REQUIRED"
	ErrInventoryFull     ErrCode = "INVENTORY_FULL"
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

// Result is the post-transaction snapshot returned to the caller.
type Result struct {
	User        *model.User        `json:"user"`
	Book        *model.Book        `json:"book"`
	Transaction *model.Transaction `json:"transaction"`
}

type BookRepo interface {
	LockByID(ctx context.Context, tx *sql.Tx, id int64) (*model.Book, error)
	LockByISBN(ctx context.Context, tx *sql.Tx, isbn string) (*model.Book, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Book) error
	InsertTx(ctx context.Context, tx *sql.Tx, b *model.Book) error
	CountTx(ctx context.Context, tx *sql.Tx) (int64, error)
}

type UserRepo interface {
	LockByID(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error)
	UpdateFunds(ctx context.Context, tx *sql.Tx, id int64, funds float64) error
}

type LedgerRepo interface {
	Insert(ctx context.Context, tx *sql.Tx, t *model.Transaction) error
	HasPurchased(ctx context.Context, tx *sql.Tx, userID, bookID int64) (bool, error)
}

type Service interface {
	// Buy purchases one copy at the current price and depreciates the book.
	Buy(ctx context.Context, userID, bookID int64) (*Result, error)

	// Sell returns a previously bought copy at the current price.
	Sell(ctx context.Context, userID, bookID int64) (*Result, error)

	// SellByISBN sells into an existing record by ISBN, or creates a new
	// record from newBook when the ISBN is unknown.
	SellByISBN(ctx context.Context, userID int64, isbn string, newBook *model.Book) (*Result, error)
}

type service struct {
	db     *sql.DB
	books  BookRepo
	users  UserRepo
	ledger LedgerRepo
}

func New(db *sql.DB, books BookRepo, users UserRepo, ledger LedgerRepo) Service {
	return &service{db: db, books: books, users: users, ledger: ledger}
}

func (s *service) Buy(ctx context.Context, userID, bookID int64) (res *Result, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	user, err := s.users.LockByID(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound, "user not found for the given id")
		}
		return nil, err
	}
	book, err := s.books.LockByID(ctx, tx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound, "book not found for the given id")
		}
		return nil, err
	}

	if !book.Purchasable() {
		return nil, makeErr(ErrBookUnavailable, "book is not available for purchase")
	}
	paid := book.CurrentPrice
	if user.Funds < paid {
		return nil, makeErr(ErrInsufficientFunds, "insufficient funds to purchase the book")
	}

	user.Funds = pricing.Round(user.Funds - paid)
	if err = s.users.UpdateFunds(ctx, tx, userID, user.Funds); err != nil {
		return nil, err
	}

	book.Quantity--
	book.CurrentPrice = pricing.Depreciate(paid)
	book.Status = pricing.StatusAfter(book.CurrentPrice, book.Quantity)
	if err = s.books.UpdateTx(ctx, tx, book); err != nil {
		return nil, err
	}

	// the ledger records the price actually paid, not the depreciated one
	rec := &model.Transaction{
		UserID: userID,
		BookID: bookID,
		Type:   model.TxBuy,
		Amount: paid,
		Status: model.TxCompleted,
	}
	if err = s.ledger.Insert(ctx, tx, rec); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &Result{User: user, Book: book, Transaction: rec}, nil
}

func (s *service) Sell(ctx context.Context, userID, bookID int64) (res *Result, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	user, err := s.users.LockByID(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound, "user not found for the given id")
		}
		return nil, err
	}
	book, err := s.books.LockByID(ctx, tx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound, "book not found for the given id")
		}
		return nil, err
	}
	if book.Status == model.BookDiscontinued {
		return nil, makeErr(ErrBookUnavailable, "book is discontinued")
	}

	owned, err := s.ledger.HasPurchased(ctx, tx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, makeErr(ErrNotOwner, "seller does not own the book with the given id")
	}

	res, err = s.sellLocked(ctx, tx, user, book)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) SellByISBN(ctx context.Context, userID int64, isbn string, newBook *model.Book) (res *Result, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	user, err := s.users.LockByID(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound, "user not found for the given id")
		}
		return nil, err
	}

	book, err := s.books.LockByISBN(ctx, tx, isbn)
	switch {
	case err == nil:
		if book.Status != model.BookAvailable {
			return nil, makeErr(ErrBookUnavailable, "book is not available")
		}
		res, err = s.sellLocked(ctx, tx, user, book)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, sql.ErrNoRows):
		res, err = s.sellNew(ctx, tx, user, isbn, newBook)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// sellLocked runs the common sell-back path against an already locked user
// and book: credit at the current price, return the copy to inventory, then
// depreciate for the next sale.
func (s *service) sellLocked(ctx context.Context, tx *sql.Tx, user *model.User, book *model.Book) (*Result, error) {
	price := book.CurrentPrice

	user.Funds = pricing.Round(user.Funds + price)
	if err := s.users.UpdateFunds(ctx, tx, user.ID, user.Funds); err != nil {
		return nil, err
	}

	book.Quantity++
	book.CurrentPrice = pricing.Depreciate(price)
	book.Status = pricing.StatusAfter(book.CurrentPrice, book.Quantity)
	if err := s.books.UpdateTx(ctx, tx, book); err != nil {
		return nil, err
	}

	rec := &model.Transaction{
		UserID: user.ID,
		BookID: book.ID,
		Type:   model.TxSell,
		Amount: price,
		Status: model.TxCompleted,
	}
	if err := s.ledger.Insert(ctx, tx, rec); err != nil {
		return nil, err
	}
	return &Result{User: user, Book: book, Transaction: rec}, nil
}

// sellNew handles an ISBN the marketplace has never seen: the seller supplies
// the book details and is credited its original price.
func (s *service) sellNew(ctx context.Context, tx *sql.Tx, user *model.User, isbn string, newBook *model.Book) (*Result, error) {
	if newBook == nil {
		return nil, makeErr(ErrNewBookRequired, "new book details required to sell a book not in inventory")
	}

	count, err := s.books.CountTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if count > maxInventorySize {
		return nil, makeErr(ErrInventoryFull, "the inventory is full, no more new books can be added")
	}

	book := *newBook
	book.ISBN = isbn
	book.Quantity = 1
	book.Status = model.BookAvailable
	book.CurrentPrice = book.OriginalPrice
	if err := s.books.InsertTx(ctx, tx, &book); err != nil {
		return nil, err
	}

	price := book.OriginalPrice
	user.Funds = pricing.Round(user.Funds + price)
	if err := s.users.UpdateFunds(ctx, tx, user.ID, user.Funds); err != nil {
		return nil, err
	}

	rec := &model.Transaction{
		UserID: user.ID,
		BookID: book.ID,
		Type:   model.TxSell,
		Amount: price,
		Status: model.TxCompleted,
	}
	if err := s.ledger.Insert(ctx, tx, rec); err != nil {
		return nil, err
	}
	return &Result{User: user, Book: &book, Transaction: rec}, nil
}

var _ BookRepo = (bookrepo.Repo)(nil)
