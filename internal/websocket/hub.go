package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/rs/zerolog/log"
)

// userMessage is a message addressed to every client of one user.
type userMessage struct {
	userUUID string
	data     []byte
}

// clientMessage is a reply addressed to a single client.
type clientMessage struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and delivers user events to them.
// All of its maps are owned by the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// A map of user UUIDs to the set of clients subscribed to them.
	subscriptions map[string]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Messages addressed to a single user's clients.
	direct chan userMessage

	// Replies addressed to one client.
	reply chan clientMessage

	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		direct:        make(chan userMessage, 64),
		reply:         make(chan clientMessage, 64),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns once Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Str("user_uuid", client.UserUUID).Msg("Client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case msg := <-h.reply:
			if h.clients[msg.client] {
				select {
				case msg.client.Send <- msg.data:
				default:
				}
			}
		case msg := <-h.direct:
			for client := range h.subscriptions[msg.userUUID] {
				select {
				case client.Send <- msg.data:
				default:
					// Slow consumer; cut it loose rather than block every user.
					h.drop(client)
				}
			}
		}
	}
}

// Stop terminates Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Add registers a client. It reports false if the hub has stopped.
func (h *Hub) Add(client *Client) bool {
	if h.stopped() {
		return false
	}
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Remove unregisters a client. It is a no-op once the hub has stopped.
func (h *Hub) Remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastTo queues a message for all clients subscribed to a user.
func (h *Hub) BroadcastTo(ctx context.Context, userUUID string, data []byte) error {
	if h.stopped() {
		return fmt.Errorf("hub stopped")
	}
	select {
	case h.direct <- userMessage{userUUID: userUUID, data: data}:
		return nil
	case <-h.done:
		return fmt.Errorf("hub stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reply queues a message for one client. It is dropped if the client is gone
// or its buffer is full.
func (h *Hub) Reply(client *Client, data []byte) {
	if h.stopped() {
		return
	}
	select {
	case h.reply <- clientMessage{client: client, data: data}:
	case <-h.done:
	}
}

// Publish implements events.Publisher by forwarding the event to the user's clients.
func (h *Hub) Publish(ctx context.Context, event models.Event) error {
	data, err := json.Marshal(Message{Action: event.Type, Payload: event})
	if err != nil {
		return err
	}
	return h.BroadcastTo(ctx, event.UserUUID, data)
}

func (h *Hub) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	h.removeSubscription(client)
	close(client.Send)
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserUUID] == nil {
		h.subscriptions[client.UserUUID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserUUID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.UserUUID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserUUID)
		}
	}
}
