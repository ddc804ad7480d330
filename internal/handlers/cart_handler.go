package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/service"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required,objectid"`
	Quantity  int    `json:"quantity"`
}

// Quantity is a pointer so a missing field is rejected while an explicit 0
// still removes the line.
type updateQuantityRequest struct {
	ProductID string `json:"productId" binding:"required,objectid"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.svc.GetCart(c.Request.Context(), auth.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", view)
}

// POST /v1/cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	view, err := h.svc.AddToCart(c.Request.Context(), auth.PrincipalFrom(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Đã thêm vào giỏ hàng", view)
}

// PUT /v1/cart; a quantity of zero removes the line.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	view, err := h.svc.UpdateQuantity(c.Request.Context(), auth.PrincipalFrom(c), req.ProductID, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Đã cập nhật giỏ hàng", view)
}

// DELETE /v1/cart?productId=
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	view, err := h.svc.RemoveFromCart(c.Request.Context(), auth.PrincipalFrom(c), c.Query("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Đã xóa khỏi giỏ hàng", view)
}
