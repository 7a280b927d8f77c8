package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/priyank071/scooty-rental/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID       uint
	UserType string
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			var stalled []*Client
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					stalled = append(stalled, client)
				}
			}
			h.mutex.RUnlock()
			h.drop(stalled)
		}
	}
}

// drop removes stalled clients under the write lock. Delivery loops only hold
// the read lock, so they collect the dead and hand them here; the presence
// check keeps a client from being closed twice when two senders collect it.
func (h *Hub) drop(stalled []*Client) {
	if len(stalled) == 0 {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, client := range stalled {
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			close(client.Send)
		}
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	var stalled []*Client
	h.mutex.RLock()
	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				stalled = append(stalled, client)
			}
		}
	}
	h.mutex.RUnlock()
	h.drop(stalled)
}

// BroadcastToUserType sends a message to all users of a specific type
func (h *Hub) BroadcastToUserType(userType string, message []byte) {
	var stalled []*Client
	h.mutex.RLock()
	for client := range h.clients {
		if client.UserType == userType {
			select {
			case client.Send <- message:
			default:
				stalled = append(stalled, client)
			}
		}
	}
	h.mutex.RUnlock()
	h.drop(stalled)
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BookingRequested tells an owner a rider wants one of their scooties.
type BookingRequested struct {
	BookingID   uint    `json:"bookingId"`
	ScootyID    uint    `json:"scootyId"`
	ScootyModel string  `json:"scootyModel"`
	RiderName   string  `json:"riderName"`
	Amount      float64 `json:"amount"`
}

// BookingStatusChanged tells a booking party about a status move.
type BookingStatusChanged struct {
	BookingID uint                 `json:"bookingId"`
	Status    models.BookingStatus `json:"status"`
}

// NotificationCreated carries a freshly dispatched notification.
type NotificationCreated struct {
	Notification models.Notification `json:"notification"`
	UnreadCount  int64               `json:"unreadCount"`
}

// ChatMessagePosted carries a new thread entry to the other booking party.
type ChatMessagePosted struct {
	BookingID uint               `json:"bookingId"`
	Message   models.ChatMessage `json:"message"`
}

// Announcement is an admin broadcast to a whole audience.
type Announcement struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, userType string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:       userID,
		UserType: userType,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Hub:      hub,
	}

	client.Hub.register <- client

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// Clients only listen on this socket; chat and workflow writes go
		// through the REST API so every mutation hits the same validation.
		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling WebSocket message: %v", err)
			continue
		}
		log.Printf("Ignoring inbound %q frame from client %d", wsMessage.Type, c.ID)
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendBookingRequested notifies the owner of a new pending booking.
func (hub *Hub) SendBookingRequested(ownerID uint, requested BookingRequested) {
	hub.sendToUser(ownerID, "booking_requested", requested)
}

// SendBookingStatusChanged notifies a booking party of a status move.
func (hub *Hub) SendBookingStatusChanged(userID uint, changed BookingStatusChanged) {
	hub.sendToUser(userID, "booking_status", changed)
}

// SendNotificationCreated pushes a notification to its recipient.
func (hub *Hub) SendNotificationCreated(userID uint, created NotificationCreated) {
	hub.sendToUser(userID, "notification", created)
}

// SendChatMessagePosted pushes a new chat message to the other party.
func (hub *Hub) SendChatMessagePosted(userID uint, posted ChatMessagePosted) {
	hub.sendToUser(userID, "chat_message", posted)
}

// SendAnnouncement pushes an admin broadcast to every connected client of the
// audience, or to everyone when the audience is "all".
func (hub *Hub) SendAnnouncement(audience string, announcement Announcement) {
	message := WebSocketMessage{
		Type: "announcement",
		Data: announcement,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling announcement message: %v", err)
		return
	}

	if audience == "all" {
		hub.broadcast <- payload
		return
	}
	hub.BroadcastToUserType(audience, payload)
}

func (hub *Hub) sendToUser(userID uint, msgType string, data interface{}) {
	message := WebSocketMessage{
		Type: msgType,
		Data: data,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msgType, err)
		return
	}

	hub.BroadcastToUser(userID, payload)
}
