package realtime

import (
	"net/http"
	"time"

	"github.com/2beens/fitfood/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const DefaultPingInterval = 25 * time.Second

type Handler struct {
	hub          *Hub
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

// NewHandler creates the sync endpoint handler. Upgrades are accepted from
// allowedOrigins only, and from clients sending no Origin header.
func NewHandler(hub *Hub, pingInterval time.Duration, allowedOrigins []string) *Handler {
	if pingInterval <= 0 {
		pingInterval = DefaultPingInterval
	}
	originAllowed := middleware.OriginAllowed(allowedOrigins)
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(origin)
			},
		},
		pingInterval: pingInterval,
	}
}

// HandleSync upgrades the request and keeps the connection registered until
// the client goes away.
func (handler *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already replied
		log.Debugf("sync upgrade for [%s]: %s", userID, err)
		return
	}

	c := newClient(userID, conn)
	if !handler.hub.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		_ = conn.Close()
		return
	}
	log.Debugf("sync client connected for [%s]", userID)

	go handler.hub.writePump(c, handler.pingInterval)

	// clients only listen, the read loop ends on close or error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			handler.hub.unregister(c)
			log.Debugf("sync client gone for [%s]: %s", userID, err)
			return
		}
	}
}
