package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookmarket/model"
	booksvc "bookmarket/service/book"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch booksvc.Code(err) {
	case booksvc.ErrBookNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case booksvc.ErrBookExists, booksvc.ErrInventoryFull:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	case booksvc.ErrInvalidInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// POST /v1/books
// @Summary  Add a book (new record, or one more copy of a known ISBN)
// @Tags     books
// @Param    payload  body  CreateBookReq  true  "Book payload"
// @Success  201  {object}  model.Book
// @Failure  409  {object}  map[string]any "duplicate ISBN / inventory full"
// @Router   /v1/books [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	cat, ok := model.ParseCategory(req.Category)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category: " + req.Category})
	}
	cond, ok := model.ParseCondition(req.Condition)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid condition: " + req.Condition})
	}

	b, err := h.Svc.Add(c.Request().Context(), req.toModel(cat, cond))
	if err != nil {
		return h.fail(c, "book create", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// PUT /v1/books/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	cat, ok := model.ParseCategory(req.Category)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category: " + req.Category})
	}
	cond, ok := model.ParseCondition(req.Condition)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid condition: " + req.Condition})
	}
	status, ok := model.ParseBookStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status: " + req.Status})
	}

	b := req.toModel(cat, cond)
	b.CurrentPrice = req.CurrentPrice
	b.Quantity = req.Quantity
	b.Status = status

	out, err := h.Svc.Update(c.Request().Context(), id, b)
	if err != nil {
		return h.fail(c, "book update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// DELETE /v1/books/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Remove(c.Request().Context(), id); err != nil {
		return h.fail(c, "book delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return h.fail(c, "book list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/available
func (h *Controller) Available(c echo.Context) error {
	rows, err := h.Svc.Available(c.Request().Context())
	if err != nil {
		return h.fail(c, "book available", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/category/:category
func (h *Controller) ByCategory(c echo.Context) error {
	cat, ok := model.ParseCategory(c.Param("category"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category: " + c.Param("category")})
	}
	rows, err := h.Svc.ByCategory(c.Request().Context(), cat)
	if err != nil {
		return h.fail(c, "book by category", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/isbn/:isbn
func (h *Controller) ByISBN(c echo.Context) error {
	isbn := c.Param("isbn")
	if isbn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "isbn is required"})
	}
	b, err := h.Svc.ByISBN(c.Request().Context(), isbn)
	if err != nil {
		return h.fail(c, "book by isbn", err)
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.ByID(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "book detail", err)
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/books/search?keyword=&min_price=&max_price=&sort_by=&order=
func (h *Controller) Search(c echo.Context) error {
	p := booksvc.SearchParams{
		Keyword: c.QueryParam("keyword"),
		SortBy:  c.QueryParam("sort_by"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid min_price"})
		}
		p.MinPrice = &f
	}
	if v := c.QueryParam("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid max_price"})
		}
		p.MaxPrice = &f
	}
	switch c.QueryParam("order") {
	case "", "asc":
	case "desc":
		p.SortDesc = true
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "order must be asc or desc"})
	}

	rows, err := h.Svc.Search(c.Request().Context(), p)
	if err != nil {
		return h.fail(c, "book search", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
