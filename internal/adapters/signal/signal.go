package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/openjamlab/bandroom/internal/app"
	"github.com/openjamlab/bandroom/internal/core"
	"github.com/openjamlab/bandroom/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller is the connection lifecycle adapter: it receives inbound
// frames and connection open/close notifications and drives the app
// components in order, translating results into outbound frames.
type Controller struct {
	Binder   *app.SessionBinder
	Registry *app.RoomRegistry
	Sessions *app.SessionTable
	Router   *app.EventRouter
	Limiter  *EventRateLimiter

	ReadLimit  int64
	PingPeriod time.Duration
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and mints a fresh connection identity.
// Each physical connection gets its own identity: a participant coming
// back from the lobby page is a brand new client as far as the
// coordinator is concerned.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	id := domain.ClientID(uuid.NewString())
	log.Info().Str("module", "signal").Str("client", string(id)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Sessions.Bind(id, conn)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}
