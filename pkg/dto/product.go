package dto

import "github.com/google/uuid"

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Industry    *string `json:"industry,omitempty"`
	Website     *string `json:"website,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	Website     *string `json:"website,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ReviewProductRequest struct {
	Decision string `json:"decision"` // approved or rejected
}

type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Industry    *string   `json:"industry,omitempty"`
	Website     *string   `json:"website,omitempty"`
	LinkedInURL *string   `json:"linkedin_url,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   string    `json:"created_at"`
}
