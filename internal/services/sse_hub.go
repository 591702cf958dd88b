package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// SSE subscription scopes
const (
	StreamCampaign     = "campaign"
	StreamOrganization = "organization"
)

// SSEHub manages Server-Sent Events connections for real-time dispatch updates
type SSEHub struct {
	// Key format: "campaign:<id>" or "organization:<id>"
	clients map[string]map[chan []byte]bool
	mu      sync.RWMutex
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients: make(map[string]map[chan []byte]bool),
	}
}

// RegisterClient registers a new SSE client for a stream
func (h *SSEHub) RegisterClient(scope, id string) chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := fmt.Sprintf("%s:%s", scope, id)
	clientChan := make(chan []byte, 10)

	if h.clients[key] == nil {
		h.clients[key] = make(map[chan []byte]bool)
	}
	h.clients[key][clientChan] = true

	logrus.Debugf("SSE client registered for %s (total clients: %d)", key, len(h.clients[key]))
	return clientChan
}

// UnregisterClient unregisters an SSE client
func (h *SSEHub) UnregisterClient(scope, id string, clientChan chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := fmt.Sprintf("%s:%s", scope, id)
	if h.clients[key] != nil {
		if _, ok := h.clients[key][clientChan]; ok {
			delete(h.clients[key], clientChan)
			close(clientChan)
		}
		if len(h.clients[key]) == 0 {
			delete(h.clients, key)
		}
	}

	logrus.Debugf("SSE client unregistered for %s (remaining clients: %d)", key, len(h.clients[key]))
}

// BroadcastEvent sends the event to the campaign's stream and the organization's stream
func (h *SSEHub) BroadcastEvent(event models.DispatchEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if event.CampaignID != "" {
		key := fmt.Sprintf("%s:%s", StreamCampaign, event.CampaignID)
		h.broadcastToKeyLocked(key, event, h.clients[key])
	}
	if event.OrganizationID != "" {
		key := fmt.Sprintf("%s:%s", StreamOrganization, event.OrganizationID)
		h.broadcastToKeyLocked(key, event, h.clients[key])
	}
}

// broadcastToKeyLocked assumes the read lock is held
func (h *SSEHub) broadcastToKeyLocked(key string, event models.DispatchEvent, clients map[chan []byte]bool) {
	if len(clients) == 0 {
		return
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		logrus.Errorf("Failed to marshal event for SSE: %v", err)
		return
	}

	// EventSource listeners subscribe by event type
	message := fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, string(eventJSON))

	for clientChan := range clients {
		select {
		case clientChan <- []byte(message):
		default:
			logrus.Warnf("SSE client channel full, skipping: %s", key)
		}
	}
}

// GetClientCount returns the number of clients for a stream
func (h *SSEHub) GetClientCount(scope, id string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	key := fmt.Sprintf("%s:%s", scope, id)
	return len(h.clients[key])
}

// SendHeartbeat sends a comment line to keep the stream's connections alive
func (h *SSEHub) SendHeartbeat(scope, id string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	key := fmt.Sprintf("%s:%s", scope, id)
	heartbeat := fmt.Sprintf(": heartbeat %s\n\n", time.Now().Format(time.RFC3339))
	for clientChan := range h.clients[key] {
		select {
		case clientChan <- []byte(heartbeat):
		default:
		}
	}
}
