package sse

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type DeckUpdatedEvent struct {
	DeckID    uuid.UUID `json:"deck_id"`
	ProductID uuid.UUID `json:"product_id"`
	Version   int       `json:"version"`
	UpdatedBy uuid.UUID `json:"updated_by"`
}

type DeckUploadedEvent struct {
	DeckID     uuid.UUID `json:"deck_id"`
	ProductID  uuid.UUID `json:"product_id"`
	FileName   string    `json:"file_name"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
}

type AccessRequestedEvent struct {
	RequestID   uuid.UUID `json:"request_id"`
	DeckID      uuid.UUID `json:"deck_id"`
	ProductID   uuid.UUID `json:"product_id"`
	RequesterID uuid.UUID `json:"requester_id"`
}

type Client struct {
	ID       string
	UserID   uuid.UUID
	Products map[uuid.UUID]bool
	Send     chan []byte
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *ProductMessage
	mu         sync.RWMutex
}

type ProductMessage struct {
	ProductID uuid.UUID
	Event     Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *ProductMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Event)
			for _, client := range h.clients {
				if client.Products[msg.ProductID] {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) SubscribeToProduct(clientID string, productID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		client.Products[productID] = true
	}
}

func (h *Hub) UnsubscribeFromProduct(clientID string, productID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Products, productID)
	}
}

func (h *Hub) BroadcastDeckUpdate(productID, deckID, updatedBy uuid.UUID, version int) {
	h.broadcast <- &ProductMessage{
		ProductID: productID,
		Event: Event{
			Type: "deck_updated",
			Data: DeckUpdatedEvent{
				DeckID:    deckID,
				ProductID: productID,
				Version:   version,
				UpdatedBy: updatedBy,
			},
		},
	}
}

func (h *Hub) BroadcastDeckUpload(productID, deckID, uploadedBy uuid.UUID, fileName string) {
	h.broadcast <- &ProductMessage{
		ProductID: productID,
		Event: Event{
			Type: "deck_uploaded",
			Data: DeckUploadedEvent{
				DeckID:     deckID,
				ProductID:  productID,
				FileName:   fileName,
				UploadedBy: uploadedBy,
			},
		},
	}
}

func (h *Hub) BroadcastAccessRequest(productID, deckID, requestID, requesterID uuid.UUID) {
	h.broadcast <- &ProductMessage{
		ProductID: productID,
		Event: Event{
			Type: "access_requested",
			Data: AccessRequestedEvent{
				RequestID:   requestID,
				DeckID:      deckID,
				ProductID:   productID,
				RequesterID: requesterID,
			},
		},
	}
}
