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

type TeamHandler struct {
	teamService    TeamServiceInterface
	productService ProductServiceInterface
}

func NewTeamHandler(teamService TeamServiceInterface, productService ProductServiceInterface) *TeamHandler {
	return &TeamHandler{
		teamService:    teamService,
		productService: productService,
	}
}

func teamMemberResponse(m *models.TeamMember) dto.TeamMemberResponse {
	return dto.TeamMemberResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Name:        m.Name,
		Email:       m.Email,
		Role:        m.Role,
		LinkedInURL: m.LinkedInURL,
		Bio:         m.Bio,
	}
}

func founderResponse(f *models.Founder) dto.FounderResponse {
	return dto.FounderResponse{
		ID:          f.ID,
		ProductID:   f.ProductID,
		Name:        f.Name,
		Email:       f.Email,
		Title:       f.Title,
		LinkedInURL: f.LinkedInURL,
		Bio:         f.Bio,
	}
}

// requireProductOwner parses the product id and checks ownership. It writes
// the error response itself and returns uuid.Nil when the request must stop.
func (h *TeamHandler) requireProductOwner(c *drift.Context) uuid.UUID {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return uuid.Nil
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.BadRequest("invalid product id")
		return uuid.Nil
	}

	isOwner, err := h.productService.IsOwner(context.Background(), productID, userID)
	if err != nil || !isOwner {
		c.NotFound("product not found")
		return uuid.Nil
	}

	return productID
}

func (h *TeamHandler) CreateMember(c *drift.Context) {
	productID := h.requireProductOwner(c)
	if productID == uuid.Nil {
		return
	}

	var req dto.CreateTeamMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Name = validate.SanitizeString(req.Name, maxNameLen)
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}
	sanitizeOptional(req.Email, maxNameLen)
	sanitizeOptional(req.Role, maxNameLen)
	sanitizeOptional(req.Bio, maxDescriptionLen)
	if !validateOptionalURL(req.LinkedInURL) {
		c.BadRequest("linkedin_url must be a valid http(s) URL")
		return
	}

	member, err := h.teamService.CreateMember(context.Background(), productID, req)
	if err != nil {
		c.InternalServerError("failed to create team member")
		return
	}

	_ = c.JSON(201, teamMemberResponse(member))
}

func (h *TeamHandler) ListMembers(c *drift.Context) {
	productID := h.requireProductOwner(c)
	if productID == uuid.Nil {
		return
	}

	members, err := h.teamService.ListMembers(context.Background(), productID)
	if err != nil {
		c.InternalServerError("failed to list team members")
		return
	}

	response := make([]dto.TeamMemberResponse, len(members))
	for i := range members {
		response[i] = teamMemberResponse(&members[i])
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) UpdateMember(c *drift.Context) {
	productID := h.requireProductOwner(c)
	if productID == uuid.Nil {
		return
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		c.BadRequest("invalid member id")
		return
	}

	var req dto.UpdateTeamMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	sanitizeOptional(req.Name, maxNameLen)
	if req.Name != nil && *req.Name == "" {
		c.BadRequest("name cannot be empty")
		return
	}
	sanitizeOptional(req.Email, maxNameLen)
	sanitizeOptional(req.Role, maxNameLen)
	sanitizeOptional(req.Bio, maxDescriptionLen)
	if !validateOptionalURL(req.LinkedInURL) {
		c.BadRequest("linkedin_url must be a valid http(s) URL")
		return
	}

	member, err := h.teamService.UpdateMember(context.Background(), productID, memberID, req)
	if errors.Is(err, services.ErrTeamMemberNotFound) {
		c.NotFound("team member not found")
		return
	}
	if errors.Is(err, services.ErrNoFieldsToUpdate) {
		c.BadRequest("no fields to update")
		return
	}
	if err != nil {
		c.InternalServerError("failed to update team member")
		return
	}

	_ = c.JSON(200, teamMemberResponse(member))
}

func (h *TeamHandler) DeleteMember(c *drift.Context) {
	productID := h.requireProductOwner(c)
	if productID == uuid.Nil {
		return
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		c.BadRequest("invalid member id")
		return
	}

	err = h.teamService.DeleteMember(context.Background(), productID, memberID)
	if errors.Is(err, services.ErrTeamMemberNotFound) {
		c.NotFound("team member not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to delete team member")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "team member deleted"})
}

func (h *TeamHandler) CreateFounder(c *drift.Context) {
	productID := h.requireProductOwner(c)
	if productID == uuid.Nil {
		return
	}

	var req dto.CreateFounderRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Name = validate.SanitizeString(req.Name, maxNameLen)
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}
	sanitizeOptional(req.Email, maxNameLen)
	sanitizeOptional(req.Title, maxNameLen)
	sanitizeOptional(req.Bio, maxDescriptionLen)
	if !validateOptionalURL(req.LinkedInURL) {
		c.BadRequest("linkedin_url must be a valid http(s) URL")
		return
	}

	founder, err := h.teamService.CreateFounder(context.Background(), productID, req)
	if err != nil {
		c.InternalServerError("failed to create founder")
		return
	}

	_ = c.JSON(201, founderResponse(founder))
}

func (h *TeamHandler) ListFounders(c *drift.Context) {
	productID := h.requireProductOwner(c)
	if productID == uuid.Nil {
		return
	}

	founders, err := h.teamService.ListFounders(context.Background(), productID)
	if err != nil {
		c.InternalServerError("failed to list founders")
		return
	}

	response := make([]dto.FounderResponse, len(founders))
	for i := range founders {
		response[i] = founderResponse(&founders[i])
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) UpdateFounder(c *drift.Context) {
	productID := h.requireProductOwner(c)
	if productID == uuid.Nil {
		return
	}

	founderID, err := uuid.Parse(c.Param("founderId"))
	if err != nil {
		c.BadRequest("invalid founder id")
		return
	}

	var req dto.UpdateFounderRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	sanitizeOptional(req.Name, maxNameLen)
	if req.Name != nil && *req.Name == "" {
		c.BadRequest("name cannot be empty")
		return
	}
	sanitizeOptional(req.Email, maxNameLen)
	sanitizeOptional(req.Title, maxNameLen)
	sanitizeOptional(req.Bio, maxDescriptionLen)
	if !validateOptionalURL(req.LinkedInURL) {
		c.BadRequest("linkedin_url must be a valid http(s) URL")
		return
	}

	founder, err := h.teamService.UpdateFounder(context.Background(), productID, founderID, req)
	if errors.Is(err, services.ErrFounderNotFound) {
		c.NotFound("founder not found")
		return
	}
	if errors.Is(err, services.ErrNoFieldsToUpdate) {
		c.BadRequest("no fields to update")
		return
	}
	if err != nil {
		c.InternalServerError("failed to update founder")
		return
	}

	_ = c.JSON(200, founderResponse(founder))
}

func (h *TeamHandler) DeleteFounder(c *drift.Context) {
	productID := h.requireProductOwner(c)
	if productID == uuid.Nil {
		return
	}

	founderID, err := uuid.Parse(c.Param("founderId"))
	if err != nil {
		c.BadRequest("invalid founder id")
		return
	}

	err = h.teamService.DeleteFounder(context.Background(), productID, founderID)
	if errors.Is(err, services.ErrFounderNotFound) {
		c.NotFound("founder not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to delete founder")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "founder deleted"})
}
