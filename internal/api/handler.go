package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sales-ledger/internal/blobstore"
	"sales-ledger/internal/models"
	"sales-ledger/internal/service"
	"sales-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	orders   *service.OrderService
	revenue  *service.RevenueService
	history  *service.HistoryService
	products *service.ProductService
	images   blobstore.Resolver
	identity IdentityProvider
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	revenue *service.RevenueService,
	history *service.HistoryService,
	products *service.ProductService,
	images blobstore.Resolver,
	identity IdentityProvider,
) *Handler {
	return &Handler{
		orders:   orders,
		revenue:  revenue,
		history:  history,
		products: products,
		images:   images,
		identity: identity,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(identityMiddleware(h.identity))
	{
		v1.POST("/orders", h.processOrder)
		v1.GET("/history/transactions", h.getTransactionHistory)
		v1.GET("/history/revenue", h.getMonthlyRevenue)

		v1.POST("/products", h.createProduct)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/search", h.searchProducts)
		v1.GET("/products/:id", h.getProduct)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// ProcessOrderRequest represents an order submission
type ProcessOrderRequest struct {
	Items []service.OrderItemRequest `json:"items"`
}

// processOrder handles order submission
func (h *Handler) processOrder(c *gin.Context) {
	var req ProcessOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	txn, err := h.orders.ProcessOrder(c.Request.Context(), currentUserID(c), req.Items)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.transactionView(txn))
}

// getTransactionHistory lists transactions touching the caller's products
func (h *Handler) getTransactionHistory(c *gin.Context) {
	transactions, err := h.history.GetTransactionHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	views := make([]gin.H, 0, len(transactions))
	for i := range transactions {
		views = append(views, h.transactionView(&transactions[i]))
	}
	c.JSON(http.StatusOK, views)
}

// getMonthlyRevenue returns the caller's per-month revenue
func (h *Handler) getMonthlyRevenue(c *gin.Context) {
	entries, err := h.revenue.GetMonthlyRevenue(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// createProduct creates a listing owned by the caller
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.products.CreateListing(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.productView(product))
}

// listProducts lists the caller's products, or another user's when
// ?user_id= is given.
func (h *Handler) listProducts(c *gin.Context) {
	ownerID := currentUserID(c)
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		ownerID = id
	}

	products, err := h.products.ListProducts(c.Request.Context(), ownerID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.productViews(products))
}

// searchProducts searches the caller's products by name
func (h *Handler) searchProducts(c *gin.Context) {
	products, err := h.products.SearchProducts(c.Request.Context(), currentUserID(c), c.Query("q"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.productViews(products))
}

// getProduct retrieves one product by id
func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.productView(product))
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var (
		invalid      *service.InvalidRequestError
		notFound     *service.NotFoundError
		insufficient *service.InsufficientStockError
	)
	switch {
	case errors.Is(err, service.ErrEmptyOrder), errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"product":   insufficient.ProductName,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func (h *Handler) productView(p *models.Product) gin.H {
	return gin.H{
		"id":         p.ID,
		"user_id":    p.UserID,
		"name":       p.Name,
		"price":      p.Price,
		"quantity":   p.Quantity,
		"image_url":  h.images.URL(p.ImageRef),
		"created_at": p.CreatedAt,
	}
}

func (h *Handler) productViews(products []models.Product) []gin.H {
	views := make([]gin.H, 0, len(products))
	for i := range products {
		views = append(views, h.productView(&products[i]))
	}
	return views
}

func (h *Handler) transactionView(t *models.Transaction) gin.H {
	items := make([]gin.H, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, gin.H{
			"id":                   item.ID,
			"product_id":           item.ProductID,
			"product_name":         item.ProductName,
			"product_image_url":    h.images.URL(item.ProductImageRef),
			"quantity":             item.Quantity,
			"price_at_transaction": item.PriceAtTransaction,
		})
	}
	return gin.H{
		"id":           t.ID,
		"created_at":   t.CreatedAt,
		"items":        items,
		"total_amount": t.Total,
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
