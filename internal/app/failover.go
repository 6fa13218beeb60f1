package app

import "github.com/openjamlab/bandroom/internal/domain"

// HostFailover is the promotion policy RemoveMember consults while a
// removal is in progress: room is the post-removal member list with
// HostID still naming the departed member.
type HostFailover struct{}

// Promote picks the new host: the earliest still-connected joiner, i.e.
// index 0 of the remaining ordered member list. Returns false when the
// removed member was not host or no members remain.
func (HostFailover) Promote(room *domain.Room, removed *domain.Member) (domain.ClientID, bool) {
	if room == nil || removed == nil || len(room.Users) == 0 {
		return "", false
	}
	if removed.ID != room.HostID {
		return "", false
	}
	return room.Users[0].ID, true
}
