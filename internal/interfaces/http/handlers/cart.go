// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/cart-service/internal/config"
	"github.com/your-org/cart-service/internal/domain/cart"
)

// CartHandler handles anonymous cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		config:      cfg,
	}
}

// UpsertCart handles POST /carts
func (h *CartHandler) UpsertCart(c *gin.Context) {
	var req cart.SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	stored, err := h.cartService.ReconcileSnapshot(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart saved successfully",
		"data":    stored,
	})
}

// GetCart handles GET /carts/:cart_id
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID := c.Param("cart_id")

	stored, err := h.cartService.GetCart(c.Request.Context(), cartID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart retrieved successfully",
		"data":    stored,
	})
}

// ListCarts handles GET /carts - administrative view
func (h *CartHandler) ListCarts(c *gin.Context) {
	var req cart.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	// Set default values
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	response, err := h.cartService.ListCarts(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Carts retrieved successfully",
		"data":    response,
	})
}

// DeleteCart handles DELETE /carts?id={cartId}
func (h *CartHandler) DeleteCart(c *gin.Context) {
	cartID := c.Query("id")
	if cartID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Cart ID is required",
		})
		return
	}

	if err := h.cartService.DeleteCart(c.Request.Context(), cartID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart deleted successfully",
	})
}

// OptIn handles POST /carts/opt-in
func (h *CartHandler) OptIn(c *gin.Context) {
	var req cart.OptInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	stored, err := h.cartService.OptIn(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact information saved successfully",
		"data":    stored,
	})
}

// handleError maps domain errors to HTTP responses. Internal failures never
// leak details beyond a generic message.
func (h *CartHandler) handleError(c *gin.Context, err error) {
	switch {
	case cart.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, cart.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Cart not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to process cart request",
		})
	}
}
