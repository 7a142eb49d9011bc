package book

import "bookmarket/model"

type CreateBookReq struct {
	ISBN          string  `json:"isbn" validate:"required"`
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

type UpdateBookReq struct {
	CreateBookReq
	CurrentPrice float64 `json:"current_price" validate:"required,gte=0"`
	Quantity     int64   `json:"quantity" validate:"gte=0"`
	Status       string  `json:"status" validate:"required"`
}

// toModel assumes category/condition were already validated by the caller.
func (r CreateBookReq) toModel(cat model.Category, cond model.Condition) *model.Book {
	return &model.Book{
		ISBN:          r.ISBN,
		Title:         r.Title,
		Author:        r.Author,
		Edition:       r.Edition,
		Language:      r.Language,
		Publisher:     r.Publisher,
		Description:   r.Description,
		Category:      cat,
		Condition:     cond,
		OriginalPrice: r.OriginalPrice,
	}
}
