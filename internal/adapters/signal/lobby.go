package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/openjamlab/bandroom/internal/domain"
)

// Lobby handlers: phase 1 of the handshake. Both are advisory and leave
// the registry untouched; the identity of the lobby connection is never
// bound to anything.

func (ctl *Controller) handleCreateRoomRequest(id domain.ClientID, c *wsConn, data []byte) {
	type payload struct {
		Type           string `json:"type"`
		InstrumentRole string `json:"instrumentRole"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create-room payload")
		ctl.sendError(c, "Malformed message.")
		return
	}

	code, err := ctl.Binder.ReserveCode(p.InstrumentRole)
	if err != nil {
		ctl.sendError(c, errorMessage(err))
		return
	}

	log.Info().Str("module", "signal").Str("client", string(id)).Str("code", string(code)).Msg("reserved room code")
	ctl.sendJSON(c, struct {
		Type string        `json:"type"`
		Code domain.RoomID `json:"code"`
	}{"room-id-created", code})
}

func (ctl *Controller) handleValidateJoin(c *wsConn, data []byte) {
	type payload struct {
		Type           string `json:"type"`
		Code           string `json:"code"`
		InstrumentRole string `json:"instrumentRole"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad validate-join payload")
		ctl.sendError(c, "Malformed message.")
		return
	}

	v := ctl.Binder.ValidateJoin(p.Code, p.InstrumentRole)
	ctl.sendJSON(c, struct {
		Type    string        `json:"type"`
		Success bool          `json:"success"`
		Code    domain.RoomID `json:"code"`
		Message string        `json:"message,omitempty"`
	}{"join-validated", v.Success, v.Code, v.Message})
}

func (ctl *Controller) handlePing(c *wsConn) {
	ctl.sendJSON(c, struct {
		Type string `json:"type"`
	}{"pong"})
}
