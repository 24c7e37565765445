package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/marko/deckroom-api/internal/config"
	"github.com/marko/deckroom-api/internal/middleware"
	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/internal/services"
	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/pkg/validate"
)

// allowedDeckMimeTypes are the upload formats accepted for pitch decks.
// Decks are PDF only.
var allowedDeckMimeTypes = map[string]bool{
	"application/pdf": true,
}

type DeckHandler struct {
	cfg              *config.Config
	deckService      DeckServiceInterface
	productService   ProductServiceInterface
	accessService    AccessServiceInterface
	analyticsService AnalyticsServiceInterface
	hub              HubInterface
}

func NewDeckHandler(
	cfg *config.Config,
	deckService DeckServiceInterface,
	productService ProductServiceInterface,
	accessService AccessServiceInterface,
	analyticsService AnalyticsServiceInterface,
	hub HubInterface,
) *DeckHandler {
	return &DeckHandler{
		cfg:              cfg,
		deckService:      deckService,
		productService:   productService,
		accessService:    accessService,
		analyticsService: analyticsService,
		hub:              hub,
	}
}

func deckResponse(d *models.Deck) dto.DeckResponse {
	return dto.DeckResponse{
		ID:            d.ID,
		ProductID:     d.ProductID,
		FileName:      d.FileName,
		MimeType:      d.MimeType,
		SizeBytes:     d.SizeBytes,
		Problem:       d.Problem,
		Solution:      d.Solution,
		TargetMarket:  d.TargetMarket,
		FundingStage:  d.FundingStage,
		FundingAmount: d.FundingAmount,
		UseOfFunds:    d.UseOfFunds,
		Traction:      d.Traction,
		Version:       d.Version,
		UpdatedBy:     d.UpdatedBy,
	}
}

// Upload accepts a multipart form with a "file" part and stores it as the
// product's deck. Files over the configured size cap are rejected.
func (h *DeckHandler) Upload(c *drift.Context) {
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
		c.NotFound("product not found")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Response, c.Request.Body, h.cfg.MaxDeckBytes+4096)
	if err := c.Request.ParseMultipartForm(h.cfg.MaxDeckBytes); err != nil {
		c.BadRequest(fmt.Sprintf("file exceeds the %d MB limit", h.cfg.MaxDeckBytes>>20))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.BadRequest("file is required")
		return
	}
	defer file.Close()

	if header.Size > h.cfg.MaxDeckBytes {
		c.BadRequest(fmt.Sprintf("file exceeds the %d MB limit", h.cfg.MaxDeckBytes>>20))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if !allowedDeckMimeTypes[mimeType] {
		c.BadRequest("unsupported file type, expected a PDF deck")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		c.InternalServerError("failed to read file")
		return
	}
	if int64(len(content)) > h.cfg.MaxDeckBytes {
		c.BadRequest(fmt.Sprintf("file exceeds the %d MB limit", h.cfg.MaxDeckBytes>>20))
		return
	}

	fileName := validate.SanitizeString(header.Filename, maxNameLen)
	if fileName == "" {
		fileName = "deck.pdf"
	}

	deck, err := h.deckService.Upload(ctx, productID, fileName, mimeType, content, userID)
	if err != nil {
		c.InternalServerError("failed to store deck")
		return
	}

	h.hub.BroadcastDeckUpload(productID, deck.ID, userID, deck.FileName)

	_ = c.JSON(201, deckResponse(deck))
}

func (h *DeckHandler) GetByProduct(c *drift.Context) {
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

	deck, err := h.deckService.GetByProduct(ctx, productID)
	if errors.Is(err, services.ErrDeckNotFound) {
		c.NotFound("deck not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to get deck")
		return
	}

	canView, err := h.accessService.CanView(ctx, deck.ID, userID)
	if err != nil || !canView {
		c.NotFound("deck not found")
		return
	}

	_ = c.JSON(200, deckResponse(deck))
}

func (h *DeckHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	deckID, err := uuid.Parse(c.Param("deckId"))
	if err != nil {
		c.BadRequest("invalid deck id")
		return
	}

	ctx := context.Background()

	canView, err := h.accessService.CanView(ctx, deckID, userID)
	if err != nil || !canView {
		c.NotFound("deck not found")
		return
	}

	deck, err := h.deckService.GetByID(ctx, deckID)
	if errors.Is(err, services.ErrDeckNotFound) {
		c.NotFound("deck not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to get deck")
		return
	}

	email := middleware.GetUserEmail(c)
	_ = h.analyticsService.Record(ctx, deckID, &userID, &email, models.EventTypeView)

	_ = c.JSON(200, deckResponse(deck))
}

// Download streams the stored file. Each download is recorded.
func (h *DeckHandler) Download(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	deckID, err := uuid.Parse(c.Param("deckId"))
	if err != nil {
		c.BadRequest("invalid deck id")
		return
	}

	ctx := context.Background()

	canView, err := h.accessService.CanView(ctx, deckID, userID)
	if err != nil || !canView {
		c.NotFound("deck not found")
		return
	}

	fileName, mimeType, content, err := h.deckService.GetContent(ctx, deckID)
	if errors.Is(err, services.ErrDeckNotFound) {
		c.NotFound("deck not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to load deck file")
		return
	}

	email := middleware.GetUserEmail(c)
	_ = h.analyticsService.Record(ctx, deckID, &userID, &email, models.EventTypeDownload)

	c.Response.Header().Set("Content-Type", mimeType)
	c.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Response.Header().Set("Content-Length", strconv.Itoa(len(content)))
	c.Response.WriteHeader(http.StatusOK)
	_, _ = c.Response.Write(content)
}

// Update applies metadata changes guarded by the optimistic version. A stale
// version gets a 409 carrying the live version so the client can refetch.
func (h *DeckHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	deckID, err := uuid.Parse(c.Param("deckId"))
	if err != nil {
		c.BadRequest("invalid deck id")
		return
	}

	ctx := context.Background()

	ownerID, err := h.deckService.OwnerOf(ctx, deckID)
	if errors.Is(err, services.ErrDeckNotFound) {
		c.NotFound("deck not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to resolve deck")
		return
	}
	if ownerID != userID {
		c.Forbidden("cannot modify this deck")
		return
	}

	var req dto.UpdateDeckRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Version < 1 {
		c.BadRequest("version is required")
		return
	}

	sanitizeOptional(req.Problem, maxDescriptionLen)
	sanitizeOptional(req.Solution, maxDescriptionLen)
	sanitizeOptional(req.TargetMarket, maxDescriptionLen)
	sanitizeOptional(req.UseOfFunds, maxDescriptionLen)
	sanitizeOptional(req.FundingStage, maxNameLen)
	sanitizeOptional(req.FundingAmount, maxNameLen)

	deck, err := h.deckService.Update(ctx, deckID, req, userID)
	if errors.Is(err, services.ErrVersionConflict) {
		currentVersion, verErr := h.deckService.CurrentVersion(ctx, deckID)
		if verErr != nil {
			c.NotFound("deck not found")
			return
		}
		_ = c.JSON(409, map[string]any{
			"error":           "VERSION_CONFLICT",
			"message":         "deck was modified by someone else",
			"current_version": currentVersion,
		})
		return
	}
	if errors.Is(err, services.ErrDeckNotFound) {
		c.NotFound("deck not found")
		return
	}
	if errors.Is(err, services.ErrNoFieldsToUpdate) {
		c.BadRequest("no fields to update")
		return
	}
	if errors.Is(err, services.ErrInvalidTraction) {
		c.BadRequest("traction must be valid JSON")
		return
	}
	if err != nil {
		c.InternalServerError("failed to update deck")
		return
	}

	h.hub.BroadcastDeckUpdate(deck.ProductID, deck.ID, userID, deck.Version)

	_ = c.JSON(200, deckResponse(deck))
}

func (h *DeckHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	deckID, err := uuid.Parse(c.Param("deckId"))
	if err != nil {
		c.BadRequest("invalid deck id")
		return
	}

	ctx := context.Background()

	ownerID, err := h.deckService.OwnerOf(ctx, deckID)
	if errors.Is(err, services.ErrDeckNotFound) {
		c.NotFound("deck not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to resolve deck")
		return
	}
	if ownerID != userID {
		c.Forbidden("cannot delete this deck")
		return
	}

	if err := h.deckService.Delete(ctx, deckID); err != nil {
		c.InternalServerError("failed to delete deck")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "deck deleted"})
}
