package app

import (
	"errors"
	"strings"

	"github.com/openjamlab/bandroom/internal/domain"
)

// Intent is the create/join decision made in the lobby and replayed at
// finalize time.
type Intent string

const (
	IntentCreate Intent = "create"
	IntentJoin   Intent = "join"
)

var ErrUnknownIntent = errors.New("unknown intent")

// Human-readable verdict reasons surfaced to the lobby.
const (
	msgRoomNotFound  = "Room not found."
	msgRoomFull      = "Room is full."
	msgBadInstrument = "Unknown instrument role."
	msgBadCode       = "Room code must be 4 characters."
)

// JoinVerdict is the phase-1 answer to a join attempt. Advisory only:
// nothing has been reserved and membership may still change before the
// participant finalizes.
type JoinVerdict struct {
	Success bool          `json:"success"`
	Code    domain.RoomID `json:"code"`
	Message string        `json:"message,omitempty"`
}

// SessionBinder implements the two-phase handshake. Phase 1 (lobby) is
// read-only; phase 2 (Finalize) performs the real mutation under the
// identity of whichever connection carries it. Any identity seen during
// phase 1 is provisional and is never compared against live members.
type SessionBinder struct {
	Registry *RoomRegistry
}

// ReserveCode answers a lobby create intent with a candidate code. No
// room exists until the participant finalizes.
func (b *SessionBinder) ReserveCode(instrument string) (domain.RoomID, error) {
	if _, err := domain.ParseInstrumentRole(instrument); err != nil {
		return "", err
	}
	return b.Registry.ReserveCode(), nil
}

// ValidateJoin checks existence and capacity without mutating anything.
func (b *SessionBinder) ValidateJoin(code, instrument string) JoinVerdict {
	id := NormalizeCode(code)
	if len(id) != domain.CodeLength {
		return JoinVerdict{Code: id, Message: msgBadCode}
	}
	if _, err := domain.ParseInstrumentRole(instrument); err != nil {
		return JoinVerdict{Code: id, Message: msgBadInstrument}
	}
	room, live := b.Registry.Room(id)
	if !live {
		return JoinVerdict{Code: id, Message: msgRoomNotFound}
	}
	if len(room.Users) >= domain.RoomCapacity {
		return JoinVerdict{Code: id, Message: msgRoomFull}
	}
	return JoinVerdict{Success: true, Code: id}
}

// Finalize performs the actual create-or-join mutation. The member is
// built from the current connection identity; whatever identity the
// participant had in the lobby is discarded entirely. The returned room
// plus this identity is the canonical "who am I" answer for the rest of
// the session.
func (b *SessionBinder) Finalize(id domain.ClientID, code, instrument string, intent Intent) (*domain.Room, error) {
	member, err := domain.NewMember(id, instrument)
	if err != nil {
		return nil, err
	}
	roomID := NormalizeCode(code)
	switch intent {
	case IntentCreate:
		return b.Registry.CreateRoom(roomID, member)
	case IntentJoin:
		return b.Registry.JoinRoom(roomID, member)
	default:
		return nil, ErrUnknownIntent
	}
}

// NormalizeCode uppercases a user-typed room code, matching the uppercase
// base-36 alphabet codes are generated from.
func NormalizeCode(code string) domain.RoomID {
	return domain.RoomID(strings.ToUpper(strings.TrimSpace(code)))
}
