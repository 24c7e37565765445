package client

import (
	"bytes"
	"context"
	"net/http"

	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/pkg/validate"
)

// UploadDeck sends the file as a multipart form. Oversized or empty content
// is rejected locally, the server never sees the request.
func (c *Client) UploadDeck(ctx context.Context, productID, fileName, mimeType string, content []byte) (*dto.DeckResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(content)) > c.maxDeckBytes {
		return nil, ErrFileTooLarge
	}
	fileName = validate.SanitizeString(fileName, maxNameLen)
	if fileName == "" {
		fileName = "deck.pdf"
	}

	var resp dto.DeckResponse
	r, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", fileName, mimeType, bytes.NewReader(content)).
		SetResult(&resp).
		Post("/api/v1/products/" + productID + "/deck")
	if err != nil {
		return nil, err
	}
	if !r.IsSuccess() {
		return nil, parseAPIError(r)
	}
	return &resp, nil
}

// ProductDeck fetches the deck attached to a product.
func (c *Client) ProductDeck(ctx context.Context, productID string) (*dto.DeckResponse, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	var resp dto.DeckResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/"+productID+"/deck", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetDeck(ctx context.Context, deckID string) (*dto.DeckResponse, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	var resp dto.DeckResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/decks/"+deckID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadDeck returns the raw file bytes.
func (c *Client) DownloadDeck(ctx context.Context, deckID string) ([]byte, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	r, err := c.http.R().
		SetContext(ctx).
		Get("/api/v1/decks/" + deckID + "/file")
	if err != nil {
		return nil, err
	}
	if !r.IsSuccess() {
		return nil, parseAPIError(r)
	}
	return r.Body(), nil
}

// UpdateDeck applies metadata changes. Version must carry the version the
// caller last read; a 409 APIError reports the live version on conflict.
func (c *Client) UpdateDeck(ctx context.Context, deckID string, req dto.UpdateDeckRequest) (*dto.DeckResponse, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	if req.Version < 1 {
		return nil, ErrVersionNeeded
	}
	clipOptional(req.Problem, maxDescriptionLen)
	clipOptional(req.Solution, maxDescriptionLen)
	clipOptional(req.TargetMarket, maxDescriptionLen)
	clipOptional(req.UseOfFunds, maxDescriptionLen)
	clipOptional(req.FundingStage, maxNameLen)
	clipOptional(req.FundingAmount, maxNameLen)

	var resp dto.DeckResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/decks/"+deckID, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteDeck(ctx context.Context, deckID string) error {
	if err := checkID(deckID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/decks/"+deckID, nil, nil)
}

// DeckAnalytics returns the owner-only analytics summary.
func (c *Client) DeckAnalytics(ctx context.Context, deckID string) (*dto.DeckAnalyticsResponse, error) {
	if err := checkID(deckID); err != nil {
		return nil, err
	}
	var resp dto.DeckAnalyticsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/decks/"+deckID+"/analytics", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
