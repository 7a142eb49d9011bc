package echoServer

import (
	"net/http"

	authctrl "bookmarket/app/echoServer/controller/auth"
	bookctrl "bookmarket/app/echoServer/controller/book"
	marketctrl "bookmarket/app/echoServer/controller/market"
	userctrl "bookmarket/app/echoServer/controller/user"
	"bookmarket/app/echoServer/jwtx"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth   *authctrl.Controller
	Book   *bookctrl.Controller
	Market *marketctrl.Controller
	User   *userctrl.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
	}))
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			if role, err := jwtx.RoleFromContext(ctx); err == nil {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	})

	// Books
	auth.GET("/books", c.Book.List)
	auth.GET("/books/available", c.Book.Available)
	auth.GET("/books/search", c.Book.Search)
	auth.GET("/books/isbn/:isbn", c.Book.ByISBN)
	auth.GET("/books/category/:category", c.Book.ByCategory)
	auth.GET("/books/:id", c.Book.Detail)
	auth.POST("/books", c.Book.Create)
	auth.PUT("/books/:id", c.Book.Update)
	auth.DELETE("/books/:id", c.Book.Delete)

	// Marketplace
	auth.POST("/market/buy", c.Market.Buy)
	auth.POST("/market/sell", c.Market.Sell)
	auth.POST("/market/sell-by-isbn", c.Market.SellByISBN)

	// Users
	auth.GET("/users", c.User.List)
	auth.GET("/users/me", c.User.Me)
	auth.PUT("/users/me", c.User.Update)
	auth.DELETE("/users/me", c.User.Delete)
	auth.GET("/users/search", c.User.Search)
	auth.POST("/users/funds", c.User.AddFunds)
	auth.GET("/users/purchases", c.User.Purchases)
	auth.GET("/users/sales", c.User.Sales)
	auth.GET("/users/transactions", c.User.Transactions)
	auth.GET("/users/:id", c.User.Detail)
}
