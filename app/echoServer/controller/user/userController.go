package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookmarket/model"
	usersvc "bookmarket/service/user"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc usersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type AddFundsReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type UpdateUserReq struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,len=10,numeric"`
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch usersvc.Code(err) {
	case usersvc.ErrUserNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case usersvc.ErrUserExists:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	case usersvc.ErrInvalidAmount:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// GET /v1/users/me
func (h *Controller) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	u, err := h.Svc.ByID(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "user me", err)
	}
	return c.JSON(http.StatusOK, u)
}

// GET /v1/users
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return h.fail(c, "user list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/search?keyword=
func (h *Controller) Search(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	if keyword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "keyword is required"})
	}
	u, err := h.Svc.Search(c.Request().Context(), keyword)
	if err != nil {
		return h.fail(c, "user search", err)
	}
	return c.JSON(http.StatusOK, u)
}

// PUT /v1/users/me
func (h *Controller) Update(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	var req UpdateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	u, err := h.Svc.Update(c.Request().Context(), uid, &model.User{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return h.fail(c, "user update", err)
	}
	return c.JSON(http.StatusOK, u)
}

// DELETE /v1/users/me
func (h *Controller) Delete(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	if err := h.Svc.Delete(c.Request().Context(), uid); err != nil {
		return h.fail(c, "user delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/users/funds
// @Summary  Top up the authenticated user's funds
// @Tags     users
// @Param    payload  body  AddFundsReq  true  "Top-up payload"
// @Success  200  {object}  model.User
// @Router   /v1/users/funds [post]
func (h *Controller) AddFunds(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	var req AddFundsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	u, err := h.Svc.AddFunds(c.Request().Context(), uid, req.Amount)
	if err != nil {
		return h.fail(c, "user add funds", err)
	}
	return c.JSON(http.StatusOK, u)
}

// GET /v1/users/purchases
func (h *Controller) Purchases(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Purchases(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "user purchases", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/sales
func (h *Controller) Sales(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Sales(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "user sales", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/transactions
func (h *Controller) Transactions(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Transactions(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "user transactions", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/:id  (admin lookup of any user)
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	u, err := h.Svc.ByID(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "user detail", err)
	}
	return c.JSON(http.StatusOK, u)
}
