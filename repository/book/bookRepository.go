package bookrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookmarket/model"
)

// SearchParams is the filter/sort shape for keyword search. Sort columns are
// whitelisted in the query builder, never interpolated from user input.
type SearchParams struct {
	Keyword  string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string // title | author | category
	SortDesc bool
}

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

	// Transactional variants used by the marketplace orchestrator.
	LockByID(ctx context.Context, tx *sql.Tx, id int64) (*model.Book, error)
	LockByISBN(ctx context.Context, tx *sql.Tx, isbn string) (*model.Book, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Book) error
	InsertTx(ctx context.Context, tx *sql.Tx, b *model.Book) error
	CountTx(ctx context.Context, tx *sql.Tx) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const bookCols = `id, isbn, title, author, edition, language, publisher, description,
       category, condition, original_price, current_price, quantity, status`

func scanBook(row interface{ Scan(...any) error }) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Edition, &b.Language,
		&b.Publisher, &b.Description, &b.Category, &b.Condition,
		&b.OriginalPrice, &b.CurrentPrice, &b.Quantity, &b.Status)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

func (r *repo) CountTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	q := fmt.Sprintf(`SELECT %s FROM books WHERE id=$1`, bookCols)
	return scanBook(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) ByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	q := fmt.Sprintf(`SELECT %s FROM books WHERE isbn=$1`, bookCols)
	return scanBook(r.db.QueryRowContext(ctx, q, isbn))
}

func (r *repo) LockByID(ctx context.Context, tx *sql.Tx, id int64) (*model.Book, error) {
	q := fmt.Sprintf(`SELECT %s FROM books WHERE id=$1 FOR UPDATE`, bookCols)
	return scanBook(tx.QueryRowContext(ctx, q, id))
}

func (r *repo) LockByISBN(ctx context.Context, tx *sql.Tx, isbn string) (*model.Book, error) {
	q := fmt.Sprintf(`SELECT %s FROM books WHERE isbn=$1 FOR UPDATE`, bookCols)
	return scanBook(tx.QueryRowContext(ctx, q, isbn))
}

const insertBook = `
INSERT INTO books (isbn, title, author, edition, language, publisher, description,
                   category, condition, original_price, current_price, quantity, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
RETURNING id`

func (r *repo) Insert(ctx context.Context, b *model.Book) error {
	return r.db.QueryRowContext(ctx, insertBook,
		b.ISBN, b.Title, b.Author, b.Edition, b.Language, b.Publisher, b.Description,
		b.Category, b.Condition, b.OriginalPrice, b.CurrentPrice, b.Quantity, b.Status,
	).Scan(&b.ID)
}

func (r *repo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Book) error {
	return tx.QueryRowContext(ctx, insertBook,
		b.ISBN, b.Title, b.Author, b.Edition, b.Language, b.Publisher, b.Description,
		b.Category, b.Condition, b.OriginalPrice, b.CurrentPrice, b.Quantity, b.Status,
	).Scan(&b.ID)
}

const updateBook = `
UPDATE books
SET isbn=$2, title=$3, author=$4, edition=$5, language=$6, publisher=$7,
    description=$8, category=$9, condition=$10, original_price=$11,
    current_price=$12, quantity=$13, status=$14
WHERE id=$1`

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	res, err := r.db.ExecContext(ctx, updateBook,
		b.ID, b.ISBN, b.Title, b.Author, b.Edition, b.Language, b.Publisher,
		b.Description, b.Category, b.Condition, b.OriginalPrice,
		b.CurrentPrice, b.Quantity, b.Status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Book) error {
	res, err := tx.ExecContext(ctx, updateBook,
		b.ID, b.ISBN, b.Title, b.Author, b.Edition, b.Language, b.Publisher,
		b.Description, b.Category, b.Condition, b.OriginalPrice,
		b.CurrentPrice, b.Quantity, b.Status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Restock adds one copy of an existing record and reopens availability.
func (r *repo) Restock(ctx context.Context, id int64) (*model.Book, error) {
	q := fmt.Sprintf(`
UPDATE books SET quantity = quantity + 1, status = 'AVAILABLE'
WHERE id=$1
RETURNING %s`, bookCols)
	return scanBook(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) DecrementQuantity(ctx context.Context, id int64) error {
	const q = `UPDATE books SET quantity = quantity - 1 WHERE id=$1 AND quantity > 1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	q := fmt.Sprintf(`SELECT %s FROM books ORDER BY id`, bookCols)
	return r.queryBooks(ctx, q)
}

func (r *repo) ListByStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error) {
	q := fmt.Sprintf(`SELECT %s FROM books WHERE status=$1 ORDER BY id`, bookCols)
	return r.queryBooks(ctx, q, status)
}

func (r *repo) ListByCategory(ctx context.Context, category model.Category) ([]model.Book, error) {
	q := fmt.Sprintf(`SELECT %s FROM books WHERE category=$1 ORDER BY id`, bookCols)
	return r.queryBooks(ctx, q, category)
}

var sortColumns = map[string]string{
	"title":    "title",
	"author":   "author",
	"category": "category",
}

func (r *repo) Search(ctx context.Context, p SearchParams) ([]model.Book, error) {
	var (
		where []string
		args  []any
	)
	if p.Keyword != "" {
		args = append(args, "%"+strings.ToLower(p.Keyword)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(LOWER(title) LIKE $%d OR LOWER(author) LIKE $%d OR LOWER(category) LIKE $%d)", n, n, n))
	}
	if p.MinPrice != nil {
		args = append(args, *p.MinPrice)
		where = append(where, fmt.Sprintf("current_price >= $%d", len(args)))
	}
	if p.MaxPrice != nil {
		args = append(args, *p.MaxPrice)
		where = append(where, fmt.Sprintf("current_price <= $%d", len(args)))
	}

	col, ok := sortColumns[p.SortBy]
	if !ok {
		col = "title"
	}
	dir := "ASC"
	if p.SortDesc {
		dir = "DESC"
	}

	q := fmt.Sprintf(`SELECT %s FROM books`, bookCols)
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY %s %s", col, dir)

	return r.queryBooks(ctx, q, args...)
}

func (r *repo) queryBooks(ctx context.Context, q string, args ...any) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// NotFound reports whether err is the driver's no-rows sentinel.
func NotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
