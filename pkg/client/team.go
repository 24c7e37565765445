package client

import (
	"context"
	"net/http"

	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/pkg/validate"
)

func (c *Client) CreateTeamMember(ctx context.Context, productID string, req dto.CreateTeamMemberRequest) (*dto.TeamMemberResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	req.Name = validate.SanitizeString(req.Name, maxNameLen)
	if req.Name == "" {
		return nil, ErrEmptyName
	}
	clipOptional(req.Email, maxNameLen)
	clipOptional(req.Role, maxNameLen)
	clipOptional(req.Bio, maxDescriptionLen)
	if err := checkOptionalURL(req.LinkedInURL); err != nil {
		return nil, err
	}

	var resp dto.TeamMemberResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/products/"+productID+"/members", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListTeamMembers(ctx context.Context, productID string) ([]dto.TeamMemberResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	var resp []dto.TeamMemberResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/"+productID+"/members", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateTeamMember(ctx context.Context, productID, memberID string, req dto.UpdateTeamMemberRequest) (*dto.TeamMemberResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	if err := checkID(memberID); err != nil {
		return nil, err
	}
	clipOptional(req.Name, maxNameLen)
	clipOptional(req.Email, maxNameLen)
	clipOptional(req.Role, maxNameLen)
	clipOptional(req.Bio, maxDescriptionLen)
	if err := checkOptionalURL(req.LinkedInURL); err != nil {
		return nil, err
	}

	var resp dto.TeamMemberResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/products/"+productID+"/members/"+memberID, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteTeamMember(ctx context.Context, productID, memberID string) error {
	if err := checkID(productID); err != nil {
		return err
	}
	if err := checkID(memberID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/products/"+productID+"/members/"+memberID, nil, nil)
}

func (c *Client) CreateFounder(ctx context.Context, productID string, req dto.CreateFounderRequest) (*dto.FounderResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	req.Name = validate.SanitizeString(req.Name, maxNameLen)
	if req.Name == "" {
		return nil, ErrEmptyName
	}
	clipOptional(req.Email, maxNameLen)
	clipOptional(req.Title, maxNameLen)
	clipOptional(req.Bio, maxDescriptionLen)
	if err := checkOptionalURL(req.LinkedInURL); err != nil {
		return nil, err
	}

	var resp dto.FounderResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/products/"+productID+"/founders", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListFounders(ctx context.Context, productID string) ([]dto.FounderResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	var resp []dto.FounderResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/"+productID+"/founders", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateFounder(ctx context.Context, productID, founderID string, req dto.UpdateFounderRequest) (*dto.FounderResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	if err := checkID(founderID); err != nil {
		return nil, err
	}
	clipOptional(req.Name, maxNameLen)
	clipOptional(req.Email, maxNameLen)
	clipOptional(req.Title, maxNameLen)
	clipOptional(req.Bio, maxDescriptionLen)
	if err := checkOptionalURL(req.LinkedInURL); err != nil {
		return nil, err
	}

	var resp dto.FounderResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/products/"+productID+"/founders/"+founderID, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteFounder(ctx context.Context, productID, founderID string) error {
	if err := checkID(productID); err != nil {
		return err
	}
	if err := checkID(founderID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/products/"+productID+"/founders/"+founderID, nil, nil)
}
