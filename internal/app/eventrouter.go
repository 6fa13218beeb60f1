package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/openjamlab/bandroom/internal/core"
	"github.com/openjamlab/bandroom/internal/domain"
	"github.com/openjamlab/bandroom/internal/telemetry"
)

// EventRouter relays an opaque performance event from one connection to
// every other member of the sender's room. Payload content is opaque
// here; instrument semantics are a presentation-layer concern.
type EventRouter struct {
	Registry *RoomRegistry
	Sessions *SessionTable
}

// Route injects senderId into the payload and fans it out, excluding the
// sender. A sender that is not in any room is logged and dropped: that
// legitimately happens between connection-open and finalize, so it is
// never surfaced as an error.
func (er *EventRouter) Route(sender domain.ClientID, data []byte) core.PublishResult {
	room, ok := er.Registry.RoomOf(sender)
	if !ok {
		telemetry.EventDropped("no_room")
		log.Debug().Str("module", "app.router").Str("client", string(sender)).Msg("dropped event from roomless sender")
		return core.PublishResult{}
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		telemetry.EventDropped("bad_payload")
		log.Error().Err(err).Str("module", "app.router").Str("client", string(sender)).Msg("bad event payload")
		return core.PublishResult{}
	}
	payload["senderId"] = string(sender)
	out, err := json.Marshal(payload)
	if err != nil {
		telemetry.EventDropped("bad_payload")
		log.Error().Err(err).Str("module", "app.router").Msg("re-marshal event")
		return core.PublishResult{}
	}

	res := core.PublishResult{}
	for _, m := range room.Users {
		if m.ID == sender {
			continue
		}
		conn, bound := er.Sessions.Get(m.ID)
		if !bound {
			res.Dropped++
			continue
		}
		if err := conn.TrySend(out); err != nil {
			res.Dropped++
			continue
		}
		res.SentTo++
	}
	telemetry.EventRouted(res.SentTo)
	log.Debug().Str("module", "app.router").Str("from", string(sender)).Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("fan-out result")
	return res
}
