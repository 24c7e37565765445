package client

import (
	"context"
	"net/http"

	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/pkg/validate"
)

// validateProductFields applies the server's sanitization rules locally so an
// invalid payload never produces a request.
func validateCreateProduct(req *dto.CreateProductRequest) error {
	req.Name = validate.SanitizeString(req.Name, maxNameLen)
	if req.Name == "" {
		return ErrEmptyName
	}
	clipOptional(req.Industry, maxNameLen)
	clipOptional(req.Address, maxNameLen)
	clipOptional(req.Description, maxDescriptionLen)
	if err := checkOptionalURL(req.Website); err != nil {
		return err
	}
	return checkOptionalURL(req.LinkedInURL)
}

func validateUpdateProduct(req *dto.UpdateProductRequest) error {
	clipOptional(req.Name, maxNameLen)
	clipOptional(req.Industry, maxNameLen)
	clipOptional(req.Address, maxNameLen)
	clipOptional(req.Description, maxDescriptionLen)
	if err := checkOptionalURL(req.Website); err != nil {
		return err
	}
	return checkOptionalURL(req.LinkedInURL)
}

func (c *Client) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateCreateProduct(&req); err != nil {
		return nil, err
	}
	var resp dto.ProductResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/products", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	var resp []dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetProduct(ctx context.Context, productID string) (*dto.ProductResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	var resp dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/"+productID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	if err := validateUpdateProduct(&req); err != nil {
		return nil, err
	}
	var resp dto.ProductResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/products/"+productID, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	if err := checkID(productID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/products/"+productID, nil, nil)
}

// SubmitProduct moves a draft into review.
func (c *Client) SubmitProduct(ctx context.Context, productID string) (*dto.ProductResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	var resp dto.ProductResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/products/"+productID+"/submit", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReviewProduct records an admin decision, "approved" or "rejected".
func (c *Client) ReviewProduct(ctx context.Context, productID, decision string) (*dto.ProductResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	var resp dto.ProductResponse
	body := dto.ReviewProductRequest{Decision: decision}
	if err := c.do(ctx, http.MethodPost, "/api/v1/products/"+productID+"/review", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ActivateProduct(ctx context.Context, productID string) (*dto.ProductResponse, error) {
	return c.setProductActive(ctx, productID, "activate")
}

func (c *Client) DeactivateProduct(ctx context.Context, productID string) (*dto.ProductResponse, error) {
	return c.setProductActive(ctx, productID, "deactivate")
}

func (c *Client) setProductActive(ctx context.Context, productID, action string) (*dto.ProductResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	var resp dto.ProductResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/products/"+productID+"/"+action, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
