package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/marko/deckroom-api/internal/middleware"
	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/internal/services"
	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/pkg/validate"
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 2000
)

type ProductHandler struct {
	productService ProductServiceInterface
}

func NewProductHandler(productService ProductServiceInterface) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func productResponse(p *models.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Industry:    p.Industry,
		Website:     p.Website,
		LinkedInURL: p.LinkedInURL,
		Address:     p.Address,
		Description: p.Description,
		Status:      p.Status,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// sanitizeOptional clips an optional text field in place.
func sanitizeOptional(s *string, max int) {
	if s != nil {
		*s = validate.SanitizeString(*s, max)
	}
}

// validateOptionalURL normalizes an optional URL field; it reports false when
// the value is present but not a valid http(s) URL.
func validateOptionalURL(s *string) bool {
	if s == nil || *s == "" {
		return true
	}
	normalized, ok := validate.NormalizeURL(*s)
	if !ok {
		return false
	}
	*s = normalized
	return true
}

func (h *ProductHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateProductRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Name = validate.SanitizeString(req.Name, maxNameLen)
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}
	sanitizeOptional(req.Industry, maxNameLen)
	sanitizeOptional(req.Address, maxNameLen)
	sanitizeOptional(req.Description, maxDescriptionLen)
	if !validateOptionalURL(req.Website) {
		c.BadRequest("website must be a valid http(s) URL")
		return
	}
	if !validateOptionalURL(req.LinkedInURL) {
		c.BadRequest("linkedin_url must be a valid http(s) URL")
		return
	}

	product, err := h.productService.Create(context.Background(), userID, req)
	if errors.Is(err, services.ErrProductLimit) {
		_ = c.JSON(409, map[string]string{
			"error": "PRODUCT_LIMIT",
			"message": "product limit reached",
		})
		return
	}
	if err != nil {
		c.InternalServerError("failed to create product")
		return
	}

	_ = c.JSON(201, productResponse(product))
}

func (h *ProductHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	products, err := h.productService.ListByOwner(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to list products")
		return
	}

	response := make([]dto.ProductResponse, len(products))
	for i := range products {
		response[i] = productResponse(&products[i])
	}

	_ = c.JSON(200, response)
}

func (h *ProductHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.BadRequest("invalid product id")
		return
	}

	ctx := context.Background()

	product, err := h.productService.GetByID(ctx, productID)
	if err != nil {
		c.NotFound("product not found")
		return
	}

	if product.OwnerID != userID && middleware.GetUserRole(c) != models.GlobalRoleAdmin {
		c.NotFound("product not found")
		return
	}

	_ = c.JSON(200, productResponse(product))
}

func (h *ProductHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.BadRequest("invalid product id")
		return
	}

	ctx := context.Background()

	product, err := h.productService.GetByID(ctx, productID)
	if err != nil {
		c.NotFound("product not found")
		return
	}
	if product.OwnerID != userID {
		c.Forbidden("cannot modify this product")
		return
	}
	if product.Status != models.ProductStatusDraft && product.Status != models.ProductStatusRejected {
		c.BadRequest("only draft or rejected products can be edited")
		return
	}

	var req dto.UpdateProductRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	sanitizeOptional(req.Name, maxNameLen)
	if req.Name != nil && *req.Name == "" {
		c.BadRequest("name cannot be empty")
		return
	}
	sanitizeOptional(req.Industry, maxNameLen)
	sanitizeOptional(req.Address, maxNameLen)
	sanitizeOptional(req.Description, maxDescriptionLen)
	if !validateOptionalURL(req.Website) {
		c.BadRequest("website must be a valid http(s) URL")
		return
	}
	if !validateOptionalURL(req.LinkedInURL) {
		c.BadRequest("linkedin_url must be a valid http(s) URL")
		return
	}

	updated, err := h.productService.Update(ctx, productID, req)
	if errors.Is(err, services.ErrNoFieldsToUpdate) {
		c.BadRequest("no fields to update")
		return
	}
	if err != nil {
		c.InternalServerError("failed to update product")
		return
	}

	_ = c.JSON(200, productResponse(updated))
}

func (h *ProductHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.BadRequest("invalid product id")
		return
	}

	ctx := context.Background()

	isOwner, err := h.productService.IsOwner(ctx, productID, userID)
	if err != nil || !isOwner {
		c.Forbidden("cannot delete this product")
		return
	}

	if err := h.productService.Delete(ctx, productID); err != nil {
		c.InternalServerError("failed to delete product")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "product deleted"})
}

func (h *ProductHandler) Submit(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.BadRequest("invalid product id")
		return
	}

	ctx := context.Background()

	isOwner, err := h.productService.IsOwner(ctx, productID, userID)
	if err != nil || !isOwner {
		c.Forbidden("cannot submit this product")
		return
	}

	product, err := h.productService.Submit(ctx, productID)
	if errors.Is(err, services.ErrProductNotFound) {
		c.NotFound("product not found")
		return
	}
	if errors.Is(err, services.ErrInvalidTransition) {
		c.BadRequest("only draft products can be submitted")
		return
	}
	if err != nil {
		c.InternalServerError("failed to submit product")
		return
	}

	_ = c.JSON(200, productResponse(product))
}

// Review is admin-only; routing guards it with the admin middleware.
func (h *ProductHandler) Review(c *drift.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.BadRequest("invalid product id")
		return
	}

	var req dto.ReviewProductRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	product, err := h.productService.Review(context.Background(), productID, req.Decision)
	if errors.Is(err, services.ErrProductNotFound) {
		c.NotFound("product not found")
		return
	}
	if errors.Is(err, services.ErrInvalidTransition) {
		c.BadRequest("decision must be approved or rejected, and the product must be submitted")
		return
	}
	if err != nil {
		c.InternalServerError("failed to review product")
		return
	}

	_ = c.JSON(200, productResponse(product))
}

func (h *ProductHandler) Activate(c *drift.Context) {
	h.setActive(c, true)
}

func (h *ProductHandler) Deactivate(c *drift.Context) {
	h.setActive(c, false)
}

func (h *ProductHandler) setActive(c *drift.Context, active bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.BadRequest("invalid product id")
		return
	}

	ctx := context.Background()

	isOwner, err := h.productService.IsOwner(ctx, productID, userID)
	if err != nil || !isOwner {
		c.Forbidden("cannot modify this product")
		return
	}

	product, err := h.productService.SetActive(ctx, productID, active)
	if errors.Is(err, services.ErrProductNotFound) {
		c.NotFound("product not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to update product")
		return
	}

	_ = c.JSON(200, productResponse(product))
}
