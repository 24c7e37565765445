package dto

import "github.com/google/uuid"

type CreateTeamMemberRequest struct {
	Name        string  `json:"name"`
	Email       *string `json:"email,omitempty"`
	Role        *string `json:"role,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

type UpdateTeamMemberRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Role        *string `json:"role,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

type TeamMemberResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email,omitempty"`
	Role        *string   `json:"role,omitempty"`
	LinkedInURL *string   `json:"linkedin_url,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
}

type CreateFounderRequest struct {
	Name        string  `json:"name"`
	Email       *string `json:"email,omitempty"`
	Title       *string `json:"title,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

type UpdateFounderRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Title       *string `json:"title,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

type FounderResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email,omitempty"`
	Title       *string   `json:"title,omitempty"`
	LinkedInURL *string   `json:"linkedin_url,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
}
