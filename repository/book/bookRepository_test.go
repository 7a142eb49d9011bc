package bookrepo

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"bookmarket/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func bookRows(books ...model.Book) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "isbn", "title", "author", "edition", "language", "publisher",
		"description", "category", "condition", "original_price",
		"current_price", "quantity", "status",
	})
	for _, b := range books {
		rows.AddRow(b.ID, b.ISBN, b.Title, b.Author, b.Edition, b.Language,
			b.Publisher, b.Description, b.Category, b.Condition,
			b.OriginalPrice, b.CurrentPrice, b.Quantity, b.Status)
	}
	return rows
}

func TestSearch_DefaultSortAndFilters(t *testing.T) {
	db, mock := newMock(t)
	r := New(db)

	lo, hi := 10.0, 50.0
	mock.ExpectQuery(`LOWER\(title\) LIKE \$1 OR LOWER\(author\) LIKE \$1 OR LOWER\(category\) LIKE \$1.*current_price >= \$2 AND current_price <= \$3.*ORDER BY title ASC`).
		WithArgs("%gopher%", lo, hi).
		WillReturnRows(bookRows(model.Book{ID: 1, Title: "The Go Gopher"}))

	out, err := r.Search(context.Background(), SearchParams{
		Keyword:  "Gopher",
		MinPrice: &lo,
		MaxPrice: &hi,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_SortWhitelist(t *testing.T) {
	db, mock := newMock(t)
	r := New(db)

	// an unknown sort column falls back to title
	mock.ExpectQuery(`ORDER BY title ASC`).WillReturnRows(bookRows())
	_, err := r.Search(context.Background(), SearchParams{SortBy: "quantity; DROP TABLE books"})
	require.NoError(t, err)

	mock.ExpectQuery(`ORDER BY author DESC`).WillReturnRows(bookRows())
	_, err = r.Search(context.Background(), SearchParams{SortBy: "author", SortDesc: true})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRestock_ReopensAvailability(t *testing.T) {
	db, mock := newMock(t)
	r := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE books SET quantity = quantity + 1, status = 'AVAILABLE'`)).
		WithArgs(int64(7)).
		WillReturnRows(bookRows(model.Book{ID: 7, Quantity: 2, Status: model.BookAvailable}))

	b, err := r.Restock(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(2), b.Quantity)
	require.Equal(t, model.BookAvailable, b.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementQuantity_GuardsLastCopy(t *testing.T) {
	db, mock := newMock(t)
	r := New(db)

	mock.ExpectExec(`UPDATE books SET quantity = quantity - 1 WHERE id=\$1 AND quantity > 1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.DecrementQuantity(context.Background(), 7)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestByISBN_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := New(db)

	mock.ExpectQuery(`FROM books WHERE isbn=\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := r.ByISBN(context.Background(), "missing")
	require.True(t, NotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
