package booksvc

import (
	"context"
	"errors"
	"strings"

	"bookmarket/model"
	bookrepo "bookmarket/repository/book"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// maxInventorySize caps the number of distinct book records the marketplace
// will hold at once.
const maxInventorySize = 100

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound  ErrCode = "BOOK_NOT_FOUND"
	ErrBookExists    ErrCode = "BOOK_ALREADY_EXISTS"
	ErrInventoryFull ErrCode = "INVENTORY_FULL"
	ErrInvalidInput  ErrCode = "INVALID_INPUT"
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

type SearchParams = bookrepo.SearchParams

type Repo interface {
	Count(ctx context.Context) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)
	ByISBN(ctx context.Context, isbn string) (*model.Book, error)
	Insert(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Restock(ctx context.Context, id int64) (*model.Book, error)
	DecrementQuantity(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Book, error)
	ListByStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error)
	ListByCategory(ctx context.Context, category model.Category) ([]model.Book, error)
	Search(ctx context.Context, p SearchParams) ([]model.Book, error)
}

type Service interface {
	// Add inserts a new book, or merges into an existing record when the
	// ISBN is already present with the same title and author.
	Add(ctx context.Context, b *model.Book) (*model.Book, error)

	// Remove drops one copy; the record itself is deleted once the last
	// copy goes.
	Remove(ctx context.Context, id int64) error

	Update(ctx context.Context, id int64, b *model.Book) (*model.Book, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)
	ByISBN(ctx context.Context, isbn string) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Available(ctx context.Context) ([]model.Book, error)
	ByCategory(ctx context.Context, category model.Category) ([]model.Book, error)
	Search(ctx context.Context, p SearchParams) ([]model.Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Add(ctx context.Context, b *model.Book) (*model.Book, error) {
	if b.ISBN == "" || b.Title == "" || b.Author == "" || b.OriginalPrice <= 0 {
		return nil, makeErr(ErrInvalidInput, "isbn, title, author and a positive price are required")
	}

	count, err := s.r.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > maxInventorySize {
		return nil, makeErr(ErrInventoryFull, "the inventory is full, no more new books can be added")
	}

	existing, err := s.r.ByISBN(ctx, b.ISBN)
	switch {
	case err == nil:
		if !strings.EqualFold(existing.Title, b.Title) || !strings.EqualFold(existing.Author, b.Author) {
			return nil, makeErr(ErrBookExists, "a book with the same ISBN already exists")
		}
		// same edition of the same work: add a copy instead of a row
		return s.r.Restock(ctx, existing.ID)
	case bookrepo.NotFound(err):
		// fall through to insert
	default:
		return nil, err
	}

	b.Quantity = 1
	b.Status = model.BookAvailable
	b.CurrentPrice = b.OriginalPrice
	if err := s.r.Insert(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrBookExists, "a book with the same ISBN already exists")
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Remove(ctx context.Context, id int64) error {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if bookrepo.NotFound(err) {
			return makeErr(ErrBookNotFound, "book not found for the given id")
		}
		return err
	}
	if b.Quantity > 1 {
		return s.r.DecrementQuantity(ctx, id)
	}
	return s.r.Delete(ctx, id)
}

func (s *service) Update(ctx context.Context, id int64, b *model.Book) (*model.Book, error) {
	existing, err := s.r.ByID(ctx, id)
	if err != nil {
		if bookrepo.NotFound(err) {
			return nil, makeErr(ErrBookNotFound, "book not found for the given id")
		}
		return nil, err
	}

	b.ID = existing.ID
	if err := s.r.Update(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrBookExists, "a book with the same ISBN already exists")
		}
		return nil, err
	}
	return b, nil
}

func (s *service) ByID(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if bookrepo.NotFound(err) {
			return nil, makeErr(ErrBookNotFound, "book not found for the given id")
		}
		return nil, err
	}
	return b, nil
}

func (s *service) ByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	b, err := s.r.ByISBN(ctx, isbn)
	if err != nil {
		if bookrepo.NotFound(err) {
			return nil, makeErr(ErrBookNotFound, "book not found for the given ISBN")
		}
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context) ([]model.Book, error) { return s.r.List(ctx) }

func (s *service) Available(ctx context.Context) ([]model.Book, error) {
	return s.r.ListByStatus(ctx, model.BookAvailable)
}

func (s *service) ByCategory(ctx context.Context, category model.Category) ([]model.Book, error) {
	return s.r.ListByCategory(ctx, category)
}

func (s *service) Search(ctx context.Context, p SearchParams) ([]model.Book, error) {
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return nil, makeErr(ErrInvalidInput, "min price must not exceed max price")
	}
	return s.r.Search(ctx, p)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
