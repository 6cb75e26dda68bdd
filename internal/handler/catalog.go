package handler

import (
	"net/http"

	"shopapi/internal/dto"
	"shopapi/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ListCategories godoc
// @Summary List categories with their subcategories
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /categories/ [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListProducts godoc
// @Summary List products with image variants
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.ProductResponse
// @Router /products/ [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	resp, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCategory godoc
// @Summary Create a category (staff)
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 403 {object} apierror.APIError
// @Router /categories/ [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateSubcategory godoc
// @Summary Create a subcategory (staff)
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateSubcategoryRequest true "Subcategory"
// @Success 201 {object} dto.SubcategoryResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Router /subcategories/ [post]
func (h *CatalogHandler) CreateSubcategory(c *gin.Context) {
	var req dto.CreateSubcategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSubcategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateProduct godoc
// @Summary Create a product (staff)
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateProductRequest true "Product"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 403 {object} apierror.APIError
// @Router /products/ [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// deleteBySlug adapts a slug-keyed delete into a 204 handler.
func deleteBySlug(del func(*gin.Context, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := del(c, c.Param("slug")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeleteCategory godoc
// @Summary Delete a category and everything under it (staff)
// @Tags catalog
// @Security BearerAuth
// @Param slug path string true "Category slug"
// @Success 204
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /categories/{slug}/ [delete]
func (h *CatalogHandler) DeleteCategory() gin.HandlerFunc {
	return deleteBySlug(func(c *gin.Context, s string) error { return h.svc.DeleteCategory(c.Request.Context(), s) })
}

// DeleteSubcategory godoc
// @Summary Delete a subcategory and everything under it (staff)
// @Tags catalog
// @Security BearerAuth
// @Param slug path string true "Subcategory slug"
// @Success 204
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /subcategories/{slug}/ [delete]
func (h *CatalogHandler) DeleteSubcategory() gin.HandlerFunc {
	return deleteBySlug(func(c *gin.Context, s string) error { return h.svc.DeleteSubcategory(c.Request.Context(), s) })
}

// DeleteProduct godoc
// @Summary Delete a product and its cart lines (staff)
// @Tags catalog
// @Security BearerAuth
// @Param slug path string true "Product slug"
// @Success 204
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /products/{slug}/ [delete]
func (h *CatalogHandler) DeleteProduct() gin.HandlerFunc {
	return deleteBySlug(func(c *gin.Context, s string) error { return h.svc.DeleteProduct(c.Request.Context(), s) })
}
