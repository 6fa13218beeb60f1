// Package domain contains entity without logic, just meta-data
package domain

import "errors"

type (
	// RoomID is a 4-character uppercase base-36 room code.
	RoomID string
	// ClientID is the opaque, server-assigned identity of one physical
	// connection. It is not stable across the lobby->room navigation.
	ClientID string
)

const (
	RoomCapacity = 4
	CodeLength   = 4
	CodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrRoomIDConflict = errors.New("room id already in use")
)

// Room is a bounded group of members sharing a code and a designated host.
// Users keeps join order; HostID always names one of Users.
type Room struct {
	ID     RoomID    `json:"id"`
	Users  []*Member `json:"users"`
	HostID ClientID  `json:"hostId"`
}

func (r *Room) MemberIndex(id ClientID) int {
	for i, m := range r.Users {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) HasMember(id ClientID) bool {
	return r.MemberIndex(id) >= 0
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the registry-owned member list.
func (r *Room) Clone() *Room {
	users := make([]*Member, len(r.Users))
	for i, m := range r.Users {
		c := *m
		users[i] = &c
	}
	return &Room{ID: r.ID, Users: users, HostID: r.HostID}
}
