package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/marko/deckroom-api/internal/config"
	"github.com/marko/deckroom-api/internal/middleware"
	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/internal/services"
	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/pkg/validate"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

type AccessHandler struct {
	cfg            *config.Config
	accessService  AccessServiceInterface
	deckService    DeckServiceInterface
	productService ProductServiceInterface
	userService    UserServiceInterface
	emailService   EmailServiceInterface
	hub            HubInterface
}

func NewAccessHandler(
	cfg *config.Config,
	accessService AccessServiceInterface,
	deckService DeckServiceInterface,
	productService ProductServiceInterface,
	userService UserServiceInterface,
	emailService EmailServiceInterface,
	hub HubInterface,
) *AccessHandler {
	return &AccessHandler{
		cfg:            cfg,
		accessService:  accessService,
		deckService:    deckService,
		productService: productService,
		userService:    userService,
		emailService:   emailService,
		hub:            hub,
	}
}

func accessResponse(a *models.DeckAccess) dto.AccessResponse {
	resp := dto.AccessResponse{
		ID:        a.ID,
		DeckID:    a.DeckID,
		UserID:    a.UserID,
		GrantedBy: a.GrantedBy,
		CreatedAt: a.CreatedAt.Format(timeFormat),
	}
	if a.User != nil {
		user := userResponse(a.User)
		resp.User = &user
	}
	return resp
}

func shareResponse(s *models.DeckShare) dto.ShareResponse {
	resp := dto.ShareResponse{
		ID:             s.ID,
		DeckID:         s.DeckID,
		RecipientEmail: s.RecipientEmail,
		TokenPrefix:    s.TokenPrefix,
		CreatedAt:      s.CreatedAt.Format(timeFormat),
	}
	if s.ExpiresAt != nil {
		v := s.ExpiresAt.Format(timeFormat)
		resp.ExpiresAt = &v
	}
	if s.LastViewedAt != nil {
		v := s.LastViewedAt.Format(timeFormat)
		resp.LastViewedAt = &v
	}
	return resp
}

func accessRequestResponse(r *models.AccessRequest) dto.AccessRequestResponse {
	resp := dto.AccessRequestResponse{
		ID:          r.ID,
		DeckID:      r.DeckID,
		RequesterID: r.RequesterID,
		Message:     r.Message,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.Format(timeFormat),
	}
	if r.Requester != nil {
		user := userResponse(r.Requester)
		resp.Requester = &user
	}
	return resp
}

// requireDeckOwner parses the deck id and checks the caller owns the product
// behind it. It writes the error response itself and returns uuid.Nil when
// the request must stop.
func (h *AccessHandler) requireDeckOwner(c *drift.Context) uuid.UUID {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return uuid.Nil
	}

	deckID, err := uuid.Parse(c.Param("deckId"))
	if err != nil {
		c.BadRequest("invalid deck id")
		return uuid.Nil
	}

	ownerID, err := h.deckService.OwnerOf(context.Background(), deckID)
	if err != nil || ownerID != userID {
		c.NotFound("deck not found")
		return uuid.Nil
	}

	return deckID
}

func (h *AccessHandler) Grant(c *drift.Context) {
	deckID := h.requireDeckOwner(c)
	if deckID == uuid.Nil {
		return
	}

	var req dto.GrantAccessRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.BadRequest("a valid email is required")
		return
	}

	access, err := h.accessService.Grant(context.Background(), deckID, req.Email, middleware.GetUserID(c))
	if errors.Is(err, services.ErrUserNotFound) {
		c.NotFound("no account with that email")
		return
	}
	if err != nil {
		c.InternalServerError("failed to grant access")
		return
	}

	_ = c.JSON(201, accessResponse(access))
}

func (h *AccessHandler) RevokeGrant(c *drift.Context) {
	deckID := h.requireDeckOwner(c)
	if deckID == uuid.Nil {
		return
	}

	accessID, err := uuid.Parse(c.Param("accessId"))
	if err != nil {
		c.BadRequest("invalid access id")
		return
	}

	err = h.accessService.Revoke(context.Background(), deckID, accessID)
	if errors.Is(err, services.ErrAccessNotFound) {
		c.NotFound("access grant not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to revoke access")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "access revoked"})
}

func (h *AccessHandler) ListGrants(c *drift.Context) {
	deckID := h.requireDeckOwner(c)
	if deckID == uuid.Nil {
		return
	}

	grants, err := h.accessService.ListGrants(context.Background(), deckID)
	if err != nil {
		c.InternalServerError("failed to list access grants")
		return
	}

	response := make([]dto.AccessResponse, len(grants))
	for i := range grants {
		response[i] = accessResponse(&grants[i])
	}

	_ = c.JSON(200, response)
}

// CreateShare mints a share link. The plaintext token is returned exactly
// once; the recipient is notified by email when SMTP is configured.
func (h *AccessHandler) CreateShare(c *drift.Context) {
	deckID := h.requireDeckOwner(c)
	if deckID == uuid.Nil {
		return
	}
	userID := middleware.GetUserID(c)

	var req dto.CreateShareRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if _, err := mail.ParseAddress(req.RecipientEmail); err != nil {
		c.BadRequest("a valid recipient_email is required")
		return
	}

	var expiresAt *time.Time
	if req.ExpiresInHours != nil {
		if *req.ExpiresInHours < 1 {
			c.BadRequest("expires_in_hours must be positive")
			return
		}
		t := time.Now().Add(time.Duration(*req.ExpiresInHours) * time.Hour)
		expiresAt = &t
	}

	ctx := context.Background()

	share, token, err := h.accessService.CreateShare(ctx, deckID, req.RecipientEmail, userID, expiresAt)
	if err != nil {
		c.InternalServerError("failed to create share")
		return
	}

	shareURL := fmt.Sprintf("%s/shared/%s", h.cfg.BaseURL, token)

	go h.notifyShareRecipient(deckID, userID, share.RecipientEmail, shareURL)

	resp := dto.ShareCreatedResponse{
		ID:             share.ID,
		DeckID:         share.DeckID,
		RecipientEmail: share.RecipientEmail,
		Token:          token,
		TokenPrefix:    share.TokenPrefix,
		ShareURL:       shareURL,
		CreatedAt:      share.CreatedAt.Format(timeFormat),
	}
	if share.ExpiresAt != nil {
		v := share.ExpiresAt.Format(timeFormat)
		resp.ExpiresAt = &v
	}

	_ = c.JSON(201, resp)
}

func (h *AccessHandler) notifyShareRecipient(deckID, senderID uuid.UUID, recipientEmail, shareURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	deck, err := h.deckService.GetByID(ctx, deckID)
	if err != nil {
		return
	}
	product, err := h.productService.GetByID(ctx, deck.ProductID)
	if err != nil {
		return
	}
	sender, err := h.userService.GetByID(ctx, senderID)
	if err != nil {
		return
	}

	if err := h.emailService.SendDeckShare(recipientEmail, product.Name, sender.Name, shareURL); err != nil {
		log.Printf("failed to send share email to %s: %v", recipientEmail, err)
	}
}

func (h *AccessHandler) ListShares(c *drift.Context) {
	deckID := h.requireDeckOwner(c)
	if deckID == uuid.Nil {
		return
	}

	shares, err := h.accessService.ListShares(context.Background(), deckID)
	if err != nil {
		c.InternalServerError("failed to list shares")
		return
	}

	response := make([]dto.ShareResponse, len(shares))
	for i := range shares {
		response[i] = shareResponse(&shares[i])
	}

	_ = c.JSON(200, response)
}

func (h *AccessHandler) RevokeShare(c *drift.Context) {
	deckID := h.requireDeckOwner(c)
	if deckID == uuid.Nil {
		return
	}

	shareID, err := uuid.Parse(c.Param("shareId"))
	if err != nil {
		c.BadRequest("invalid share id")
		return
	}

	err = h.accessService.RevokeShare(context.Background(), deckID, shareID)
	if errors.Is(err, services.ErrShareNotFound) {
		c.NotFound("share not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to revoke share")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "share revoked"})
}

// CreateRequest lets an authenticated user ask the owner for deck access.
func (h *AccessHandler) CreateRequest(c *drift.Context) {
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
	if ownerID == userID {
		c.BadRequest("you already own this deck")
		return
	}

	var req dto.CreateAccessRequestRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Message != nil {
		msg := validate.SanitizeString(*req.Message, maxDescriptionLen)
		req.Message = &msg
	}

	request, err := h.accessService.CreateRequest(ctx, deckID, userID, req.Message)
	if errors.Is(err, services.ErrRequestAlreadyFiled) {
		_ = c.JSON(409, map[string]string{
			"error":   "REQUEST_EXISTS",
			"message": "you already filed a request for this deck",
		})
		return
	}
	if err != nil {
		c.InternalServerError("failed to create access request")
		return
	}

	if deck, deckErr := h.deckService.GetByID(ctx, deckID); deckErr == nil {
		h.hub.BroadcastAccessRequest(deck.ProductID, deckID, request.ID, userID)
	}

	_ = c.JSON(201, accessRequestResponse(request))
}

func (h *AccessHandler) ListRequests(c *drift.Context) {
	deckID := h.requireDeckOwner(c)
	if deckID == uuid.Nil {
		return
	}

	requests, err := h.accessService.ListRequests(context.Background(), deckID)
	if err != nil {
		c.InternalServerError("failed to list access requests")
		return
	}

	response := make([]dto.AccessRequestResponse, len(requests))
	for i := range requests {
		response[i] = accessRequestResponse(&requests[i])
	}

	_ = c.JSON(200, response)
}

func (h *AccessHandler) ApproveRequest(c *drift.Context) {
	h.decideRequest(c, models.RequestStatusApproved)
}

func (h *AccessHandler) DenyRequest(c *drift.Context) {
	h.decideRequest(c, models.RequestStatusDenied)
}

func (h *AccessHandler) decideRequest(c *drift.Context, decision string) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		c.BadRequest("invalid request id")
		return
	}

	ctx := context.Background()

	request, err := h.accessService.GetRequest(ctx, requestID)
	if errors.Is(err, services.ErrRequestNotFound) {
		c.NotFound("access request not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to load access request")
		return
	}

	ownerID, err := h.deckService.OwnerOf(ctx, request.DeckID)
	if err != nil || ownerID != userID {
		c.NotFound("access request not found")
		return
	}

	var decided *models.AccessRequest
	if decision == models.RequestStatusApproved {
		decided, err = h.accessService.Approve(ctx, requestID, userID)
	} else {
		decided, err = h.accessService.Deny(ctx, requestID)
	}
	if errors.Is(err, services.ErrRequestNotPending) {
		c.BadRequest("request was already decided")
		return
	}
	if err != nil {
		c.InternalServerError("failed to decide access request")
		return
	}

	go h.notifyRequestDecision(decided.RequesterID, decided.DeckID, decision)

	_ = c.JSON(200, accessRequestResponse(decided))
}

func (h *AccessHandler) notifyRequestDecision(requesterID, deckID uuid.UUID, decision string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	requester, err := h.userService.GetByID(ctx, requesterID)
	if err != nil {
		return
	}
	deck, err := h.deckService.GetByID(ctx, deckID)
	if err != nil {
		return
	}
	product, err := h.productService.GetByID(ctx, deck.ProductID)
	if err != nil {
		return
	}

	if err := h.emailService.SendRequestDecision(requester.Email, product.Name, decision); err != nil {
		log.Printf("failed to send decision email to %s: %v", requester.Email, err)
	}
}
