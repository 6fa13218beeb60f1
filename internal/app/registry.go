package app

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/openjamlab/bandroom/internal/domain"
	"github.com/openjamlab/bandroom/internal/telemetry"
)

// Removal is the snapshot RemoveMember hands back: the room as it looks
// after the removal (host promotion already applied) plus the member that
// was taken out. Promoted reports whether the removed member was host and
// NewHost took over.
type Removal struct {
	Room     *domain.Room
	Member   *domain.Member
	NewHost  domain.ClientID
	Promoted bool
}

// RoomRegistry owns the authoritative set of live rooms and their
// membership. All mutation goes through its methods; callers only ever
// see snapshots.
type RoomRegistry struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]*domain.Room
	failover HostFailover

	// overridable in tests to force code collisions
	genCode func() domain.RoomID
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:   make(map[domain.RoomID]*domain.Room),
		genCode: randomCode,
	}
}

func randomCode() domain.RoomID {
	var b strings.Builder
	for range domain.CodeLength {
		b.WriteByte(domain.CodeAlphabet[rand.IntN(len(domain.CodeAlphabet))])
	}
	return domain.RoomID(b.String())
}

// ReserveCode produces a candidate code not equal to any currently live
// room id. It is advisory only: nothing is inserted, so two concurrent
// reservations may legally return the same code. CreateRoom detects that.
func (r *RoomRegistry) ReserveCode() domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for {
		code := r.genCode()
		if _, live := r.rooms[code]; !live {
			return code
		}
	}
}

func (r *RoomRegistry) CreateRoom(code domain.RoomID, first *domain.Member) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, live := r.rooms[code]; live {
		return nil, domain.ErrRoomIDConflict
	}
	room := &domain.Room{
		ID:     code,
		Users:  []*domain.Member{first},
		HostID: first.ID,
	}
	r.rooms[code] = room
	telemetry.RoomOpened()
	telemetry.MemberJoined()
	log.Info().Str("module", "app.registry").Str("room", string(code)).Str("client", string(first.ID)).Msg("room created")
	return room.Clone(), nil
}

func (r *RoomRegistry) JoinRoom(code domain.RoomID, m *domain.Member) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, live := r.rooms[code]
	if !live {
		return nil, domain.ErrRoomNotFound
	}
	if len(room.Users) >= domain.RoomCapacity {
		return nil, domain.ErrRoomFull
	}
	room.Users = append(room.Users, m)
	telemetry.MemberJoined()
	log.Info().Str("module", "app.registry").Str("room", string(code)).Str("client", string(m.ID)).Int("members", len(room.Users)).Msg("member joined")
	return room.Clone(), nil
}

// RemoveMember scans live rooms for the given identity. A member belongs
// to at most one room, so the scan stops at the first match. The room is
// deleted the instant its member list becomes empty. When the removed
// member was host, the failover policy is consulted and the new host
// applied under the same lock, so the host invariant holds between any
// two registry operations no matter how close sequences interleave.
func (r *RoomRegistry) RemoveMember(id domain.ClientID) (Removal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, room := range r.rooms {
		i := room.MemberIndex(id)
		if i < 0 {
			continue
		}
		removed := room.Users[i]
		room.Users = append(room.Users[:i], room.Users[i+1:]...)
		telemetry.MemberLeft()
		rm := Removal{Member: removed}
		if len(room.Users) == 0 {
			delete(r.rooms, code)
			telemetry.RoomClosed()
			log.Info().Str("module", "app.registry").Str("room", string(code)).Msg("room closed")
		} else if next, promoted := r.failover.Promote(room, removed); promoted {
			room.HostID = next
			rm.NewHost = next
			rm.Promoted = true
			log.Info().Str("module", "app.registry").Str("room", string(code)).Str("host", string(next)).Msg("host promoted")
		}
		rm.Room = room.Clone()
		log.Info().Str("module", "app.registry").Str("room", string(code)).Str("client", string(id)).Msg("member removed")
		return rm, true
	}
	return Removal{}, false
}

// Room returns a read-only snapshot of a live room by code.
func (r *RoomRegistry) Room(code domain.RoomID) (*domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, live := r.rooms[code]
	if !live {
		return nil, false
	}
	return room.Clone(), true
}

// RoomOf is the read-only lookup used by event routing.
func (r *RoomRegistry) RoomOf(id domain.ClientID) (*domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, room := range r.rooms {
		if room.HasMember(id) {
			return room.Clone(), true
		}
	}
	return nil, false
}

func (r *RoomRegistry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
