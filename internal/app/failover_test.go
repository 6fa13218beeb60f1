package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openjamlab/bandroom/internal/domain"
)

func TestPromotePicksEarliestJoiner(t *testing.T) {
	m2 := member(t, "m2", "piano")
	m3 := member(t, "m3", "drums")
	host := member(t, "host", "guitar")
	// Post-removal shape: host already spliced out, HostID still names it.
	room := &domain.Room{ID: "AB12", Users: []*domain.Member{m2, m3}, HostID: "host"}

	next, promoted := HostFailover{}.Promote(room, host)
	require.True(t, promoted)
	assert.Equal(t, domain.ClientID("m2"), next)
}

func TestNoPromotionWhenNonHostLeaves(t *testing.T) {
	host := member(t, "host", "guitar")
	m2 := member(t, "m2", "piano")
	room := &domain.Room{ID: "AB12", Users: []*domain.Member{host}, HostID: "host"}

	_, promoted := HostFailover{}.Promote(room, m2)
	assert.False(t, promoted)
}

func TestNoPromotionWhenRoomEmpties(t *testing.T) {
	host := member(t, "host", "guitar")
	room := &domain.Room{ID: "AB12", HostID: "host"}

	_, promoted := HostFailover{}.Promote(room, host)
	assert.False(t, promoted)

	_, promoted = HostFailover{}.Promote(nil, host)
	assert.False(t, promoted)
}

func TestHostLeavePromotesInSameOperation(t *testing.T) {
	reg := NewRoomRegistry()
	_, err := reg.CreateRoom("AB12", member(t, "host", "guitar"))
	require.NoError(t, err)
	_, err = reg.JoinRoom("AB12", member(t, "m2", "piano"))
	require.NoError(t, err)
	_, err = reg.JoinRoom("AB12", member(t, "m3", "drums"))
	require.NoError(t, err)

	rm, ok := reg.RemoveMember("host")
	require.True(t, ok)
	require.True(t, rm.Promoted)
	assert.Equal(t, domain.ClientID("m2"), rm.NewHost)
	assert.Equal(t, domain.ClientID("m2"), rm.Room.HostID)

	// The successor leaving right after hands the room to m3.
	rm, ok = reg.RemoveMember("m2")
	require.True(t, ok)
	require.True(t, rm.Promoted)
	assert.Equal(t, domain.ClientID("m3"), rm.NewHost)
}

func TestConcurrentHostAndSuccessorDisconnect(t *testing.T) {
	reg := NewRoomRegistry()
	_, err := reg.CreateRoom("AB12", member(t, "host", "guitar"))
	require.NoError(t, err)
	_, err = reg.JoinRoom("AB12", member(t, "m2", "piano"))
	require.NoError(t, err)
	_, err = reg.JoinRoom("AB12", member(t, "m3", "drums"))
	require.NoError(t, err)

	// Host and its would-be successor drop at the same time. Whichever
	// order the close sequences land in, the surviving member must end
	// up as host.
	var wg sync.WaitGroup
	for _, id := range []domain.ClientID{"host", "m2"} {
		wg.Add(1)
		go func(id domain.ClientID) {
			defer wg.Done()
			reg.RemoveMember(id)
		}(id)
	}
	wg.Wait()

	room, live := reg.Room("AB12")
	require.True(t, live)
	require.Len(t, room.Users, 1)
	assert.Equal(t, domain.ClientID("m3"), room.Users[0].ID)
	assert.Equal(t, domain.ClientID("m3"), room.HostID)
	assert.True(t, room.HasMember(room.HostID))
}
