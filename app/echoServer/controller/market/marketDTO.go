package market

type BuyReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

type SellReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

type SellByISBNReq struct {
	ISBN    string      `json:"isbn" validate:"required"`
	NewBook *NewBookReq `json:"new_book,omitempty"`
}

// NewBookReq carries the details needed when selling an ISBN the
// marketplace does not stock yet.
type NewBookReq struct {
	Title         string  `json:"title" validate:"required"`
	Author        string  `json:"author" validate:"required"`
	Edition       int     `json:"edition" validate:"omitempty,gt=0"`
	Language      string  `json:"language" validate:"required"`
	Publisher     string  `json:"publisher"`
	Description   string  `json:"description"`
	Category      string  `json:"category" validate:"required"`
	Condition     string  `json:"condition" validate:"required"`
	OriginalPrice float64 `json:"original_price" validate:"required,gt=0"`
}
