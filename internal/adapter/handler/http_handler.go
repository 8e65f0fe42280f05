package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/core/service"
)

// principalHeader carries the authenticated username, set by the auth layer
// in front of this service. Absent means the unknown principal.
const principalHeader = "X-User"

type HTTPHandler struct {
	registry          *service.ItemRegistry
	orders            *service.OrderService
	lowStockThreshold int
}

type AddItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Price    int64  `json:"price" binding:"required,gt=0"`
}

type PlaceOrderRequest struct {
	ItemID   int64 `json:"item_id" binding:"required,gt=0"`
	Quantity int   `json:"quantity" binding:"required,gt=0"`
}

func NewHTTPHandler(registry *service.ItemRegistry, orders *service.OrderService, lowStockThreshold int) *HTTPHandler {
	return &HTTPHandler{
		registry:          registry,
		orders:            orders,
		lowStockThreshold: lowStockThreshold,
	}
}

func (h *HTTPHandler) Register(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)
	r.POST("/api/items", h.AddItem)
	r.POST("/api/orders", h.PlaceOrder)
	r.GET("/api/items", h.ListItems)
	r.GET("/api/items/low-stock", h.ListLowStock)
	r.GET("/api/items/:itemId", h.GetItem)
}

func (h *HTTPHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.registry.AddItem(c.Request.Context(), domain.Item{
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *HTTPHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.orders.PlaceOrder(c.Request.Context(), domain.OrderRequest{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	}, c.GetHeader(principalHeader))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "order placed successfully, new stock for " + item.Name + " is " + strconv.Itoa(item.Quantity),
		"item":    item,
	})
}

func (h *HTTPHandler) GetItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || itemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id must be a positive number"})
		return
	}

	item, err := h.orders.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *HTTPHandler) ListItems(c *gin.Context) {
	items, err := h.orders.ListItems(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *HTTPHandler) ListLowStock(c *gin.Context) {
	threshold := h.lowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a positive number"})
			return
		}
		threshold = parsed
	}

	items, err := h.orders.ListLowStock(c.Request.Context(), threshold)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	var (
		insufficient *domain.InsufficientStockError
		conflict     *domain.ConflictError
		invalid      *domain.InvalidArgumentError
	)

	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
