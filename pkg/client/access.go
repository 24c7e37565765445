package client

import (
	"context"
	"net/http"

	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/pkg/validate"
)

func (c *Client) GrantAccess(ctx context.Context, deckID, email string) (*dto.AccessResponse, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	var resp dto.AccessResponse
	body := dto.GrantAccessRequest{Email: email}
	if err := c.do(ctx, http.MethodPost, "/api/v1/decks/"+deckID+"/access", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListAccess(ctx context.Context, deckID string) ([]dto.AccessResponse, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	var resp []dto.AccessResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/decks/"+deckID+"/access", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) RevokeAccess(ctx context.Context, deckID, accessID string) error {
	if err := checkID(deckID); err != nil {
		return err
	}
	if err := checkID(accessID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/decks/"+deckID+"/access/"+accessID, nil, nil)
}

// CreateShare mints a share link. The response carries the plaintext token
// exactly once.
func (c *Client) CreateShare(ctx context.Context, deckID string, req dto.CreateShareRequest) (*dto.ShareCreatedResponse, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	if err := checkEmail(req.RecipientEmail); err != nil {
		return nil, err
	}
	clipOptional(req.Message, maxDescriptionLen)

	var resp dto.ShareCreatedResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/decks/"+deckID+"/shares", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListShares(ctx context.Context, deckID string) ([]dto.ShareResponse, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	var resp []dto.ShareResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/decks/"+deckID+"/shares", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) RevokeShare(ctx context.Context, deckID, shareID string) error {
	if err := checkID(deckID); err != nil {
		return err
	}
	if err := checkID(shareID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/decks/"+deckID+"/shares/"+shareID, nil, nil)
}

// RequestAccess asks the deck's owner for viewing access.
func (c *Client) RequestAccess(ctx context.Context, deckID string, message *string) (*dto.AccessRequestResponse, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	if message != nil {
		m := validate.SanitizeString(*message, maxDescriptionLen)
		message = &m
	}
	var resp dto.AccessRequestResponse
	body := dto.CreateAccessRequestRequest{Message: message}
	if err := c.do(ctx, http.MethodPost, "/api/v1/decks/"+deckID+"/requests", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListAccessRequests(ctx context.Context, deckID string) ([]dto.AccessRequestResponse, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	var resp []dto.AccessRequestResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/decks/"+deckID+"/requests", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ApproveRequest(ctx context.Context, requestID string) (*dto.AccessRequestResponse, error) {
	return c.decideRequest(ctx, requestID, "approve")
}

func (c *Client) DenyRequest(ctx context.Context, requestID string) (*dto.AccessRequestResponse, error) {
	return c.decideRequest(ctx, requestID, "deny")
}

func (c *Client) decideRequest(ctx context.Context, requestID, decision string) (*dto.AccessRequestResponse, error) {
	if err := checkID(requestID); err != nil {
		return nil, err
	}
	var resp dto.AccessRequestResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/requests/"+requestID+"/"+decision, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
