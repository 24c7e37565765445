package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/internal/services"
)

// ShareHandler serves the public, unauthenticated share-link pages.
type ShareHandler struct {
	accessService    AccessServiceInterface
	deckService      DeckServiceInterface
	productService   ProductServiceInterface
	analyticsService AnalyticsServiceInterface
}

func NewShareHandler(
	accessService AccessServiceInterface,
	deckService DeckServiceInterface,
	productService ProductServiceInterface,
	analyticsService AnalyticsServiceInterface,
) *ShareHandler {
	return &ShareHandler{
		accessService:    accessService,
		deckService:      deckService,
		productService:   productService,
		analyticsService: analyticsService,
	}
}

func (h *ShareHandler) resolveShare(c *drift.Context) *models.DeckShare {
	token := c.Param("token")
	if token == "" {
		h.renderErrorPage(c, "This share link is invalid.")
		return nil
	}

	share, err := h.accessService.ValidateShareToken(context.Background(), token)
	switch {
	case errors.Is(err, services.ErrShareNotFound):
		h.renderErrorPage(c, "This share link is invalid.")
		return nil
	case errors.Is(err, services.ErrShareRevoked):
		h.renderErrorPage(c, "This share link has been revoked.")
		return nil
	case errors.Is(err, services.ErrShareExpired):
		h.renderErrorPage(c, "This share link has expired.")
		return nil
	case err != nil:
		h.renderErrorPage(c, "Something went wrong. Please try again later.")
		return nil
	}

	return share
}

// View renders the shared deck page. Each render counts as a shared view.
func (h *ShareHandler) View(c *drift.Context) {
	share := h.resolveShare(c)
	if share == nil {
		return
	}

	ctx := context.Background()

	deck, err := h.deckService.GetByID(ctx, share.DeckID)
	if err != nil {
		h.renderErrorPage(c, "The shared deck is no longer available.")
		return
	}

	product, err := h.productService.GetByID(ctx, deck.ProductID)
	if err != nil {
		h.renderErrorPage(c, "The shared deck is no longer available.")
		return
	}

	_ = h.analyticsService.Record(ctx, deck.ID, nil, &share.RecipientEmail, models.EventTypeSharedView)

	h.renderDeckPage(c, c.Param("token"), product, deck)
}

// File streams the shared deck file.
func (h *ShareHandler) File(c *drift.Context) {
	share := h.resolveShare(c)
	if share == nil {
		return
	}

	ctx := context.Background()

	fileName, mimeType, content, err := h.deckService.GetContent(ctx, share.DeckID)
	if err != nil {
		h.renderErrorPage(c, "The shared deck is no longer available.")
		return
	}

	_ = h.analyticsService.Record(ctx, share.DeckID, nil, &share.RecipientEmail, models.EventTypeSharedView)

	c.Response.Header().Set("Content-Type", mimeType)
	c.Response.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName))
	c.Response.Header().Set("Content-Length", strconv.Itoa(len(content)))
	c.Response.WriteHeader(http.StatusOK)
	_, _ = c.Response.Write(content)
}

func metadataRow(label string, value *string) string {
	if value == nil || *value == "" {
		return ""
	}
	return fmt.Sprintf(`
        <div class="row">
            <div class="label">%s</div>
            <div class="value">%s</div>
        </div>`, label, html.EscapeString(*value))
}

func (h *ShareHandler) renderDeckPage(c *drift.Context, token string, product *models.Product, deck *models.Deck) {
	rows := metadataRow("Problem", deck.Problem) +
		metadataRow("Solution", deck.Solution) +
		metadataRow("Target market", deck.TargetMarket) +
		metadataRow("Funding stage", deck.FundingStage) +
		metadataRow("Funding amount", deck.FundingAmount) +
		metadataRow("Use of funds", deck.UseOfFunds)

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - Pitch Deck</title>
    <style>
        * { box-sizing: border-box; }
        body { font-family: system-ui, -apple-system, sans-serif; background: #f9fafb; color: #374151; margin: 0; padding: 40px 20px; min-height: 100vh; }
        .container { max-width: 560px; margin: 0 auto; background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 40px 32px; }
        h1 { font-size: 22px; font-weight: 600; color: #111827; margin: 0 0 4px 0; }
        .subtitle { color: #6b7280; font-size: 14px; margin: 0 0 24px 0; }
        .row { margin-bottom: 16px; }
        .label { color: #9ca3af; font-size: 12px; text-transform: uppercase; letter-spacing: 0.05em; margin-bottom: 2px; }
        .value { color: #111827; font-size: 14px; white-space: pre-wrap; }
        .open-btn { display: inline-block; background: #374151; color: #fff; border-radius: 6px; padding: 10px 20px; font-size: 14px; font-weight: 500; text-decoration: none; margin-top: 8px; }
        .open-btn:hover { background: #1f2937; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p class="subtitle">Pitch deck shared with you</p>%s
        <a class="open-btn" href="/shared/%s/file">Open deck (%s)</a>
    </div>
</body>
</html>`,
		html.EscapeString(product.Name),
		html.EscapeString(product.Name),
		rows,
		token,
		html.EscapeString(deck.FileName))

	_ = c.HTML(200, page)
}

func (h *ShareHandler) renderErrorPage(c *drift.Context, message string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Link Unavailable</title>
    <style>
        body { font-family: system-ui, -apple-system, sans-serif; background: #f9fafb; color: #374151; margin: 0; padding: 40px 20px; min-height: 100vh; }
        .container { max-width: 400px; margin: 0 auto; background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 40px 32px; text-align: center; }
        h1 { font-size: 20px; font-weight: 600; color: #991b1b; margin: 0 0 8px 0; }
        p { color: #6b7280; font-size: 14px; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Link unavailable</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(message))

	_ = c.HTML(404, page)
}
