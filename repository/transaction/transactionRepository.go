package txrepo

import (
	"context"
	"database/sql"
	"fmt"

	"bookmarket/model"
)

// Repo is the append-only transaction ledger. There is deliberately no
// update or delete: history rows are immutable once written.
type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, t *model.Transaction) error
	HasPurchased(ctx context.Context, tx *sql.Tx, userID, bookID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Transaction, error)
	ListByUserAndType(ctx context.Context, userID int64, typ model.TransactionType) ([]model.Transaction, error)
	BooksByUserAndType(ctx context.Context, userID int64, typ model.TransactionType) ([]model.Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (user_id, book_id, type, amount, status, notes)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, date`
	return tx.QueryRowContext(ctx, q,
		t.UserID, t.BookID, t.Type, t.Amount, t.Status, t.Notes,
	).Scan(&t.ID, &t.Date)
}

// HasPurchased answers the sell-path ownership check from the ledger.
func (r *repo) HasPurchased(ctx context.Context, tx *sql.Tx, userID, bookID int64) (bool, error) {
	const q = `
SELECT EXISTS (
	SELECT 1 FROM transactions
	WHERE user_id=$1 AND book_id=$2 AND type='BUY'
)`
	var ok bool
	err := tx.QueryRowContext(ctx, q, userID, bookID).Scan(&ok)
	return ok, err
}

const txCols = `id, user_id, book_id, type, amount, status, notes, date`

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Transaction, error) {
	q := fmt.Sprintf(`SELECT %s FROM transactions WHERE user_id=$1 ORDER BY date DESC, id DESC`, txCols)
	return r.queryTxs(ctx, q, userID)
}

func (r *repo) ListByUserAndType(ctx context.Context, userID int64, typ model.TransactionType) ([]model.Transaction, error) {
	q := fmt.Sprintf(`SELECT %s FROM transactions WHERE user_id=$1 AND type=$2 ORDER BY date DESC, id DESC`, txCols)
	return r.queryTxs(ctx, q, userID, typ)
}

func (r *repo) queryTxs(ctx context.Context, q string, args ...any) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.BookID, &t.Type, &t.Amount,
			&t.Status, &t.Notes, &t.Date); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// BooksByUserAndType projects the books a user has bought or sold out of the
// ledger, newest transaction first.
func (r *repo) BooksByUserAndType(ctx context.Context, userID int64, typ model.TransactionType) ([]model.Book, error) {
	const q = `
SELECT DISTINCT ON (b.id)
       b.id, b.isbn, b.title, b.author, b.edition, b.language, b.publisher,
       b.description, b.category, b.condition, b.original_price,
       b.current_price, b.quantity, b.status
FROM transactions t
JOIN books b ON b.id = t.book_id
WHERE t.user_id=$1 AND t.type=$2
ORDER BY b.id, t.date DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, typ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Edition,
			&b.Language, &b.Publisher, &b.Description, &b.Category, &b.Condition,
			&b.OriginalPrice, &b.CurrentPrice, &b.Quantity, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
