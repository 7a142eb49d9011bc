// model/book.go
package model

import "strings"

type Category string

const (
	CategoryFiction    Category = "FICTION"
	CategoryNonFiction Category = "NON_FICTION"
	CategoryScience    Category = "SCIENCE"
	CategoryHistory    Category = "HISTORY"
	CategoryMystery    Category = "MYSTERY"
	CategoryRomance    Category = "ROMANCE"
	CategoryTechnology Category = "TECHNOLOGY"
	CategoryCooking    Category = "COOKING"
	CategoryTravel     Category = "TRAVEL"
	CategoryBiography  Category = "BIOGRAPHY"
	CategoryFantasy    Category = "FANTASY"
	CategoryHorror     Category = "HORROR"
	CategoryBusiness   Category = "BUSINESS"
	CategoryPoetry     Category = "POETRY"
	CategoryPhilosophy Category = "PHILOSOPHY"
	CategoryReligion   Category = "RELIGION"
	CategoryArt        Category = "ART"
	CategoryEducation  Category = "EDUCATION"
	CategoryKids       Category = "KIDS"
)

var categories = map[Category]bool{
	CategoryFiction: true, CategoryNonFiction: true, CategoryScience: true,
	CategoryHistory: true, CategoryMystery: true, CategoryRomance: true,
	CategoryTechnology: true, CategoryCooking: true, CategoryTravel: true,
	CategoryBiography: true, CategoryFantasy: true, CategoryHorror: true,
	CategoryBusiness: true, CategoryPoetry: true, CategoryPhilosophy: true,
	CategoryReligion: true, CategoryArt: true, CategoryEducation: true,
	CategoryKids: true,
}

// ParseCategory normalizes and validates a category string.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	return c, categories[c]
}

type Condition string

const (
	ConditionNew        Condition = "NEW"
	ConditionLikeNew    Condition = "LIKE_NEW"
	ConditionExcellent  Condition = "EXCELLENT"
	ConditionGood       Condition = "GOOD"
	ConditionFair       Condition = "FAIR"
	ConditionAcceptable Condition = "ACCEPTABLE"
	ConditionPoor       Condition = "POOR"
	ConditionVeryPoor   Condition = "VERY_POOR"
	ConditionUnused     Condition = "UNUSED"
)

var conditions = map[Condition]bool{
	ConditionNew: true, ConditionLikeNew: true, ConditionExcellent: true,
	ConditionGood: true, ConditionFair: true, ConditionAcceptable: true,
	ConditionPoor: true, ConditionVeryPoor: true, ConditionUnused: true,
}

func ParseCondition(s string) (Condition, bool) {
	c := Condition(strings.ToUpper(strings.TrimSpace(s)))
	return c, conditions[c]
}

type BookStatus string

const (
	BookAvailable    BookStatus = "AVAILABLE"
	BookPending      BookStatus = "PENDING"
	BookSold         BookStatus = "SOLD"
	BookReserved     BookStatus = "RESERVED"
	BookOutOfStock   BookStatus = "OUT_OF_STOCK"
	BookDiscontinued BookStatus = "DISCONTINUED"
	BookDamaged      BookStatus = "DAMAGED"
)

var bookStatuses = map[BookStatus]bool{
	BookAvailable: true, BookPending: true, BookSold: true,
	BookReserved: true, BookOutOfStock: true, BookDiscontinued: true,
	BookDamaged: true,
}

func ParseBookStatus(s string) (BookStatus, bool) {
	st := BookStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, bookStatuses[st]
}

type Book struct {
	ID            int64      `json:"id"`
	ISBN          string     `json:"isbn"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Edition       int        `json:"edition"`
	Language      string     `json:"language"`
	Publisher     string     `json:"publisher,omitempty"`
	Description   string     `json:"description,omitempty"`
	Category      Category   `json:"category"`
	Condition     Condition  `json:"condition"`
	OriginalPrice float64    `json:"original_price"`
	CurrentPrice  float64    `json:"current_price"`
	Quantity      int64      `json:"quantity"`
	Status        BookStatus `json:"status"`
}

// Purchasable reports whether the book can be bought right now.
func (b *Book) Purchasable() bool {
	return b.Status == BookAvailable && b.Quantity >= 1
}
