// model/transaction.go
package model

import "time"

type TransactionType string

const (
	TxBuy  TransactionType = "BUY"
	TxSell TransactionType = "SELL"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxCompleted TransactionStatus = "COMPLETED"
	TxCancelled TransactionStatus = "CANCELLED"
)

// Transaction is one row of the append-only ledger. Rows are never updated
// after insert; all purchase/sale history derives from them.
type Transaction struct {
	ID     int64             `json:"id"`
	UserID int64             `json:"user_id"`
	BookID int64             `json:"book_id"`
	Type   TransactionType   `json:"type"`
	Amount float64           `json:"amount"`
	Status TransactionStatus `json:"status"`
	Notes  *string           `json:"notes,omitempty"`
	Date   time.Time         `json:"date"`
}
