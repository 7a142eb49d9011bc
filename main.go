// Package main book marketplace API.
//
// @title           Book Marketplace API
// @version         1.0
// @description     Transactional textbook marketplace (buy, sell, depreciating prices, funds, ledger).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"bookmarket/app/echoServer"
	authctrl "bookmarket/app/echoServer/controller/auth"
	bookctrl "bookmarket/app/echoServer/controller/book"
	marketctrl "bookmarket/app/echoServer/controller/market"
	userctrl "bookmarket/app/echoServer/controller/user"
	"bookmarket/app/echoServer/validation"
	"bookmarket/config"
	bookrepo "bookmarket/repository/book"
	txrepo "bookmarket/repository/transaction"
	userrepo "bookmarket/repository/user"
	authsvc "bookmarket/service/auth"
	booksvc "bookmarket/service/book"
	marketsvc "bookmarket/service/market"
	usersvc "bookmarket/service/user"
	"bookmarket/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	br := bookrepo.New(db)
	ur := userrepo.New(db)
	tr := txrepo.New(db)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	bs := booksvc.New(br)
	us := usersvc.New(db, ur, tr)
	ms := marketsvc.New(db, br, ur, tr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	marketC := &marketctrl.Controller{Svc: ms, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:   authC,
		Book:   bookC,
		Market: marketC,
		User:   userC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
