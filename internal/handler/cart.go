package handler

import (
	"net/http"

	"shopapi/internal/dto"
	"shopapi/internal/middleware"
	"shopapi/internal/service"

	"github.com/gin-gonic/gin"
)

// CartHandler serves the caller's own cart; the user always comes from the
// authenticated identity, never from the request.
type CartHandler struct{ svc service.CartService }

func NewCartHandler(svc service.CartService) *CartHandler { return &CartHandler{svc: svc} }

// Get godoc
// @Summary Current user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CartResponse
// @Failure 401 {object} apierror.APIError
// @Router /cart/ [get]
func (h *CartHandler) Get(c *gin.Context) {
	id := middleware.GetIdentity(c)
	resp, err := h.svc.Get(c.Request.Context(), id.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddOrUpdateItem godoc
// @Summary Add a product or set its quantity
// @Description The quantity replaces any previous quantity for the product.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CartItemRequest true "Item"
// @Success 201 {object} dto.CartMutationResponse
// @Success 200 {object} dto.CartMutationResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 401 {object} apierror.APIError
// @Router /cart/items/ [post]
func (h *CartHandler) AddOrUpdateItem(c *gin.Context) {
	var req dto.CartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id := middleware.GetIdentity(c)
	cart, created, err := h.svc.AddOrUpdateItem(c.Request.Context(), id.UserID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	if created {
		c.JSON(http.StatusCreated, dto.CartMutationResponse{Message: "Item added to cart", Cart: cart})
		return
	}
	c.JSON(http.StatusOK, dto.CartMutationResponse{Message: "Item quantity updated", Cart: cart})
}

// RemoveItem godoc
// @Summary Remove a product from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param product_slug path string true "Product slug"
// @Success 200 {object} dto.CartMutationResponse
// @Failure 401 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /cart/items/{product_slug}/ [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id := middleware.GetIdentity(c)
	cart, err := h.svc.RemoveItem(c.Request.Context(), id.UserID, c.Param("product_slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CartMutationResponse{Message: "Item removed from cart", Cart: cart})
}

// Clear godoc
// @Summary Remove every item from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DetailResponse
// @Failure 400 {object} apierror.APIError
// @Failure 401 {object} apierror.APIError
// @Router /cart/clear/ [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	id := middleware.GetIdentity(c)
	if err := h.svc.Clear(c.Request.Context(), id.UserID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DetailResponse{Detail: "Cart cleared successfully"})
}
