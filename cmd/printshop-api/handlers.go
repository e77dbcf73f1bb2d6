package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ord "github.com/akbarpress/printshop/internal/order"
)

// createOrderHandler persists a new bill. Whatever totals the client sent
// are discarded; the billing engine recomputes every derived field first.
// @Summary Create an order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body order.CreateOrderRequest true "bill form"
// @Success 201 {object} order.Order
// @Failure 400 {object} order.HTTPError
// @Router /orders [post]
func createOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}

		o := &ord.Order{
			ID:       uuid.NewString(),
			Customer: req.Customer,
			Digital:  req.Digital,
			Offset:   req.Offset,
			Received: float64(req.Received),
		}
		o.Recalculate()

		if err := repo.Create(c.Request.Context(), o); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// listOrdersHandler is pagination-only; search lives on /orders/search.
// @Summary List orders
// @Tags orders
// @Produce json
// @Param page query int false "page (1-based)"
// @Param limit query int false "page size"
// @Success 200 {object} order.ListResponse
// @Router /orders [get]
func listOrdersHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageParams(c)
		orders, total, err := repo.List(c.Request.Context(), ord.Query{
			Limit:  limit,
			Offset: (page - 1) * limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		if orders == nil {
			orders = []ord.Order{}
		}
		c.JSON(http.StatusOK, ord.ListResponse{Page: page, Limit: limit, Total: total, Orders: orders})
	}
}

// searchOrdersHandler requires q (min 2 chars) and matches customer name or
// order id.
// @Summary Search orders
// @Tags orders
// @Produce json
// @Param q query string true "customer name or order id"
// @Success 200 {object} order.ListResponse
// @Failure 400 {object} order.HTTPError
// @Router /orders/search [get]
func searchOrdersHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len(q) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required (min 2 chars)"})
			return
		}
		page, limit := pageParams(c)
		orders, total, err := repo.List(c.Request.Context(), ord.Query{
			Q:      q,
			Limit:  limit,
			Offset: (page - 1) * limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			return
		}
		if orders == nil {
			orders = []ord.Order{}
		}
		c.JSON(http.StatusOK, ord.ListResponse{Q: q, Page: page, Limit: limit, Total: total, Orders: orders})
	}
}

// @Summary Get one order with items
// @Tags orders
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} order.Order
// @Failure 404 {object} order.HTTPError
// @Router /orders/{id} [get]
func getOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// updateOrderHandler applies a partial edit. An absent item array leaves that
// category untouched; an empty one clears it. Derived fields are recomputed
// before anything is stored.
// @Summary Update an order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param order body order.UpdateOrderRequest true "changes"
// @Success 200 {object} order.Order
// @Failure 404 {object} order.HTTPError
// @Router /orders/{id} [put]
func updateOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}

		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
			return
		}

		if req.Customer != nil {
			o.Customer = *req.Customer
		}
		if req.Received != nil {
			o.Received = float64(*req.Received)
		}
		if req.Digital != nil {
			o.Digital = *req.Digital
		}
		if req.Offset != nil {
			o.Offset = *req.Offset
		}
		o.Recalculate()

		if err := repo.Update(c.Request.Context(), o, req.Digital != nil, req.Offset != nil); err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary Mark an order delivered or not
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param flag body order.SetDeliveredRequest true "delivered flag"
// @Success 200 {object} order.SetDeliveredRequest
// @Failure 404 {object} order.HTTPError
// @Router /orders/{id}/delivered [patch]
func setDeliveredHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.SetDeliveredRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if err := repo.SetDelivered(c.Request.Context(), c.Param("id"), req.IsDelivered); err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// @Summary Delete an order and its items
// @Tags orders
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} order.HTTPError
// @Router /orders/{id} [delete]
func deleteOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}

// @Summary Printable invoice for an order
// @Tags orders
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} order.Invoice
// @Failure 404 {object} order.HTTPError
// @Router /orders/{id}/invoice [get]
func getInvoiceHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
			return
		}
		c.JSON(http.StatusOK, ord.NewInvoice(o, time.Now()))
	}
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit
}
