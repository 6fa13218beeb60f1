package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/openjamlab/bandroom/internal/app"
	"github.com/openjamlab/bandroom/internal/core"
	"github.com/openjamlab/bandroom/internal/domain"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	pingPeriod := ctl.PingPeriod
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, id domain.ClientID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("client", string(id)).Msg("readPump closing")
		cancel()
		c.Close()
		// The one close sequence for this physical connection.
		ctl.handleDisconnect(id)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("client", string(id)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Error().Err(err).Str("module", "signal").Str("client", string(id)).Msg("readPump read error")
				}
				return
			}
			ctl.handleFrame(id, c, data)
		}
	}
}

func (ctl *Controller) handleFrame(id domain.ClientID, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "Malformed message.")
		return
	}

	switch env.Type {
	case "create-room-request":
		ctl.handleCreateRoomRequest(id, c, data)
	case "validate-join-request":
		ctl.handleValidateJoin(c, data)
	case "join-room-final":
		ctl.handleJoinFinal(id, c, data)
	case "performance-event":
		ctl.handlePerformanceEvent(id, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *Controller) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

// sendError notifies the originating connection only. Failures never
// propagate to other participants and never terminate the connection.
func (ctl *Controller) sendError(c core.SignalConnection, msg string) {
	ctl.sendJSON(c, struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{"error", msg})
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return "Room not found."
	case errors.Is(err, domain.ErrRoomFull):
		return "Room is full."
	case errors.Is(err, domain.ErrRoomIDConflict):
		return "Room code already in use."
	case errors.Is(err, domain.ErrUnknownInstrument):
		return "Unknown instrument role."
	case errors.Is(err, app.ErrUnknownIntent):
		return "Unknown intent."
	default:
		return "Internal error."
	}
}
