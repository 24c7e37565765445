package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/marko/deckroom-api/internal/middleware"
	"github.com/marko/deckroom-api/internal/sse"
)

type SSEHandler struct {
	hub            HubInterface
	productService ProductServiceInterface
}

func NewSSEHandler(hub HubInterface, productService ProductServiceInterface) *SSEHandler {
	return &SSEHandler{
		hub:            hub,
		productService: productService,
	}
}

func (h *SSEHandler) Connect(c *drift.Context) {
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

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:       clientID,
		UserID:   userID,
		Products: map[uuid.UUID]bool{productID: true},
		Send:     make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *SSEHandler) Subscribe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
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

	h.hub.SubscribeToProduct(clientID, productID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("subscribed to product %s", productID),
	})
}

func (h *SSEHandler) Unsubscribe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.BadRequest("invalid product id")
		return
	}

	h.hub.UnsubscribeFromProduct(clientID, productID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("unsubscribed from product %s", productID),
	})
}
