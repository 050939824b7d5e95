package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/2beens/fitfood/internal/featurestore"
	"github.com/2beens/fitfood/internal/telemetry/metrics"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeTimeout = 10 * time.Second
	// messages queued for a client before it is considered too slow and dropped
	sendBufferSize = 64
)

var _ featurestore.Notifier = (*Hub)(nil)

type Message struct {
	Feature  featurestore.Feature `json:"feature"`
	Revision int64                `json:"revision"`
	Data     any                  `json:"data"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	// closed by the hub when the client is unregistered
	send chan []byte
}

func newClient(userID string, conn *websocket.Conn) *client {
	return &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Hub keeps the open sync connections, per user.
type Hub struct {
	mutex   sync.RWMutex
	clients map[string]map[*client]struct{}
	// last revision pushed, per feature document key
	lastRevisions  map[string]int64
	closed         bool
	metricsManager *metrics.Manager
}

func NewHub(metricsManager *metrics.Manager) *Hub {
	return &Hub{
		clients:        make(map[string]map[*client]struct{}),
		lastRevisions:  make(map[string]int64),
		metricsManager: metricsManager,
	}
}

// register returns false when the hub is already closed.
func (h *Hub) register(c *client) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		return false
	}
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	if h.metricsManager != nil {
		h.metricsManager.GaugeSyncClients.Inc()
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	set := h.clients[c.userID]
	if set == nil {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if h.metricsManager != nil {
		h.metricsManager.GaugeSyncClients.Dec()
	}
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// ClientsCount returns the number of connections open for the user.
func (h *Hub) ClientsCount(userID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}

// Notify queues the change for the owner's clients, or for every client of
// global documents. A revision not newer than the last one pushed for the same
// document is dropped. Clients with a full queue are disconnected.
func (h *Hub) Notify(owner string, feature featurestore.Feature, revision int64, data any) {
	msg, err := json.Marshal(Message{Feature: feature, Revision: revision, Data: data})
	if err != nil {
		log.Errorf("sync notify, marshal %s: %s", feature, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	key := featurestore.Key(feature, owner)
	if revision <= h.lastRevisions[key] {
		log.Tracef("sync notify [%s]: revision %d is stale, last pushed %d", key, revision, h.lastRevisions[key])
		return
	}
	h.lastRevisions[key] = revision

	var targets []*client
	if owner == featurestore.GlobalOwner {
		for _, set := range h.clients {
			for c := range set {
				targets = append(targets, c)
			}
		}
	} else {
		for c := range h.clients[owner] {
			targets = append(targets, c)
		}
	}

	for _, c := range targets {
		select {
		case c.send <- msg:
		default:
			log.Debugf("sync notify [%s]: send queue full, dropping client", c.userID)
			h.removeLocked(c)
		}
	}
}

// Close drops all connections. Their writers send a close message and
// close the sockets.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.closed = true
	for _, set := range h.clients {
		for c := range set {
			h.removeLocked(c)
		}
	}
}

// writePump is the only writer of the client connection.
func (h *Hub) writePump(c *client, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				h.unregister(c)
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debugf("sync write [%s]: %s", c.userID, err)
				h.unregister(c)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				h.unregister(c)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}
