package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/akbarpress/printshop/docs"
	"github.com/akbarpress/printshop/internal/config"
	"github.com/akbarpress/printshop/internal/httpx"
	"github.com/akbarpress/printshop/internal/order"
	"github.com/akbarpress/printshop/internal/user"
)

// @title Printshop API
// @version 1.0
// @description Order and billing backend for a printing press.
// @BasePath /
func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[db] connect: %v", err)
	}
	defer pool.Close()

	orders := order.NewPGRepo(pool)
	users := user.NewPGRepo(pool)
	secret := []byte(cfg.JWTSecret)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/users/register", registerHandler(users))
	r.POST("/users/login", loginHandler(users, secret, cfg.JWTTTL))

	auth := r.Group("/", httpx.BearerAuth(secret))

	auth.GET("/users", listUsersHandler(users))
	auth.GET("/users/:id", getUserHandler(users))
	auth.PATCH("/users/:id", updateUserHandler(users))
	auth.PATCH("/users/:id/deactivate", setUserActiveHandler(users, false))
	auth.PATCH("/users/:id/reactivate", setUserActiveHandler(users, true))
	auth.PATCH("/users/:id/password", changePasswordHandler(users))

	auth.POST("/orders", createOrderHandler(orders))
	auth.GET("/orders", listOrdersHandler(orders))
	auth.GET("/orders/search", searchOrdersHandler(orders))
	auth.GET("/orders/:id", getOrderHandler(orders))
	auth.PUT("/orders/:id", updateOrderHandler(orders))
	auth.PATCH("/orders/:id/delivered", setDeliveredHandler(orders))
	auth.DELETE("/orders/:id", deleteOrderHandler(orders))
	auth.GET("/orders/:id/invoice", getInvoiceHandler(orders))

	log.Printf("[http] printshop-api listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
