package market

import (
	"log/slog"
	"net/http"

	"bookmarket/model"
	marketsvc "bookmarket/service/market"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc marketsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch marketsvc.Code(err) {
	case marketsvc.ErrUserNotFound, marketsvc.ErrBookNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case marketsvc.ErrInventoryFull:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	case marketsvc.ErrBookUnavailable, marketsvc.ErrInsufficientFunds,
		marketsvc.ErrNotOwner, marketsvc.ErrNewBookRequired:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err,
			"req_id", c.Response().Header().Get(echo.HeaderXRequestID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// POST /v1/market/buy
// @Summary  Buy one copy of a book at its current price
// @Tags     market
// @Param    payload  body  BuyReq  true  "Buy payload"
// @Success  200  {object}  marketsvc.Result
// @Failure  400  {object}  map[string]any "unavailable / insufficient funds"
// @Failure  404  {object}  map[string]any
// @Router   /v1/market/buy [post]
func (h *Controller) Buy(c echo.Context) error {
	var req BuyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	res, err := h.Svc.Buy(c.Request().Context(), uid, req.BookID)
	if err != nil {
		return h.fail(c, "market buy", err)
	}
	return c.JSON(http.StatusOK, res)
}

// POST /v1/market/sell
// @Summary  Sell back a previously bought book at its current price
// @Tags     market
// @Param    payload  body  SellReq  true  "Sell payload"
// @Success  200  {object}  marketsvc.Result
// @Router   /v1/market/sell [post]
func (h *Controller) Sell(c echo.Context) error {
	var req SellReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	res, err := h.Svc.Sell(c.Request().Context(), uid, req.BookID)
	if err != nil {
		return h.fail(c, "market sell", err)
	}
	return c.JSON(http.StatusOK, res)
}

// POST /v1/market/sell-by-isbn
// @Summary  Sell a book by ISBN, supplying details when the ISBN is unknown
// @Tags     market
// @Param    payload  body  SellByISBNReq  true  "Sell-by-ISBN payload"
// @Success  200  {object}  marketsvc.Result
// @Router   /v1/market/sell-by-isbn [post]
func (h *Controller) SellByISBN(c echo.Context) error {
	var req SellByISBNReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	var newBook *model.Book
	if req.NewBook != nil {
		cat, ok := model.ParseCategory(req.NewBook.Category)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category: " + req.NewBook.Category})
		}
		cond, ok := model.ParseCondition(req.NewBook.Condition)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid condition: " + req.NewBook.Condition})
		}
		newBook = &model.Book{
			Title:         req.NewBook.Title,
			Author:        req.NewBook.Author,
			Edition:       req.NewBook.Edition,
			Language:      req.NewBook.Language,
			Publisher:     req.NewBook.Publisher,
			Description:   req.NewBook.Description,
			Category:      cat,
			Condition:     cond,
			OriginalPrice: req.NewBook.OriginalPrice,
		}
	}

	res, err := h.Svc.SellByISBN(c.Request().Context(), uid, req.ISBN, newBook)
	if err != nil {
		return h.fail(c, "market sell by isbn", err)
	}
	return c.JSON(http.StatusOK, res)
}
