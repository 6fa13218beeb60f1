package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/openjamlab/bandroom/internal/app"
	"github.com/openjamlab/bandroom/internal/domain"
)

// Room handlers: phase 2 of the handshake and everything after it. The
// identity used here is the one minted for this connection at upgrade
// time; whatever the participant was called in the lobby is gone.

func (ctl *Controller) handleJoinFinal(id domain.ClientID, c *wsConn, data []byte) {
	type payload struct {
		Type           string `json:"type"`
		Code           string `json:"code"`
		InstrumentRole string `json:"instrumentRole"`
		Intent         string `json:"intent"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-final payload")
		ctl.sendError(c, "Malformed message.")
		return
	}

	intent := app.Intent(p.Intent)
	room, err := ctl.Binder.Finalize(id, p.Code, p.InstrumentRole, intent)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("client", string(id)).Str("code", p.Code).Msg("finalize rejected")
		ctl.sendError(c, errorMessage(err))
		return
	}

	ctl.sendJSON(c, struct {
		Type             string          `json:"type"`
		Room             *domain.Room    `json:"room"`
		AssignedIdentity domain.ClientID `json:"assignedIdentity"`
	}{"room-state", room, id})

	if intent == app.IntentJoin {
		me := room.Users[room.MemberIndex(id)]
		ctl.broadcast(room, id, struct {
			Type string         `json:"type"`
			User *domain.Member `json:"user"`
		}{"member-joined", me})
	}
}

func (ctl *Controller) handlePerformanceEvent(id domain.ClientID, data []byte) {
	if ctl.Limiter != nil && !ctl.Limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("client", string(id)).Msg("event rate limit hit, dropping")
		return
	}
	ctl.Router.Route(id, data)
}

// handleDisconnect runs exactly once per physical connection, from the
// readPump teardown. Broadcasts happen strictly after the mutation they
// describe.
func (ctl *Controller) handleDisconnect(id domain.ClientID) {
	ctl.Sessions.Unbind(id)
	if ctl.Limiter != nil {
		ctl.Limiter.Forget(id)
	}

	rm, ok := ctl.Registry.RemoveMember(id)
	if !ok {
		return
	}

	ctl.broadcast(rm.Room, id, struct {
		Type     string          `json:"type"`
		Identity domain.ClientID `json:"identity"`
	}{"membership-left", id})

	// Promotion already happened inside RemoveMember; only announce it.
	if rm.Promoted {
		ctl.broadcast(rm.Room, id, struct {
			Type     string          `json:"type"`
			Identity domain.ClientID `json:"identity"`
		}{"new-host", rm.NewHost})
	}
}

func (ctl *Controller) broadcast(room *domain.Room, except domain.ClientID, v any) {
	for _, m := range room.Users {
		if m.ID == except {
			continue
		}
		conn, ok := ctl.Sessions.Get(m.ID)
		if !ok {
			continue
		}
		ctl.sendJSON(conn, v)
	}
}
