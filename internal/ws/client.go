package ws

import (
	"acadeemia/internal/lib/sl"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout   = 10 * time.Second
	idleTimeout    = 60 * time.Second
	pingInterval   = 30 * time.Second
	maxInboundSize = 512
	feedBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Authenticator validates a token and returns the username.
type Authenticator interface {
	ValidateToken(token string) (string, error)
}

// operator is one back-office session watching the payment feed.
type operator struct {
	conn     *websocket.Conn
	feed     chan []byte
	username string
	log      *slog.Logger
}

// awaitClose discards inbound frames until the connection drops or stops
// answering pings, then leaves the hub. The feed is one-way.
func (o *operator) awaitClose(hub *Hub) {
	defer func() {
		hub.leave(o)
		_ = o.conn.Close()
	}()

	o.conn.SetReadLimit(maxInboundSize)
	_ = o.conn.SetReadDeadline(time.Now().Add(idleTimeout))
	o.conn.SetPongHandler(func(string) error {
		return o.conn.SetReadDeadline(time.Now().Add(idleTimeout))
	})

	for {
		if _, _, err := o.conn.NextReader(); err != nil {
			o.log.Debug("feed connection closed", sl.Err(err))
			return
		}
	}
}

// stream writes queued events and keepalive pings until the hub closes the feed.
func (o *operator) stream() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = o.conn.Close()
	}()

	for {
		select {
		case data, ok := <-o.feed:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = o.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := o.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := o.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades an authenticated back-office request to the payment event feed.
// The token comes from the `token` query parameter.
func ServeWs(hub *Hub, auth Authenticator, log *slog.Logger, w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username, err := auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", sl.Err(err))
		return
	}

	op := &operator{
		conn:     conn,
		feed:     make(chan []byte, feedBuffer),
		username: username,
		log:      log.With(sl.Module("ws"), slog.String("username", username)),
	}

	if !hub.join(r.Context(), op) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed unavailable"))
		_ = conn.Close()
		return
	}
	op.log.Debug("feed client connected")

	go op.stream()
	go op.awaitClose(hub)
}
