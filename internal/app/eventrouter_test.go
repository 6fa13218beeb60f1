package app

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openjamlab/bandroom/internal/core"
	"github.com/openjamlab/bandroom/internal/domain"
)

type fakeConn struct {
	frames []core.Frame
	fail   bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	if f.fail {
		return errors.New("backpressure")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func newRouterFixture(t *testing.T) (*EventRouter, map[domain.ClientID]*fakeConn) {
	t.Helper()
	reg := NewRoomRegistry()
	sessions := NewSessionTable()

	_, err := reg.CreateRoom("AB12", member(t, "c1", "guitar"))
	require.NoError(t, err)
	_, err = reg.JoinRoom("AB12", member(t, "c2", "piano"))
	require.NoError(t, err)
	_, err = reg.JoinRoom("AB12", member(t, "c3", "drums"))
	require.NoError(t, err)

	conns := make(map[domain.ClientID]*fakeConn)
	for _, id := range []domain.ClientID{"c1", "c2", "c3"} {
		c := &fakeConn{}
		conns[id] = c
		sessions.Bind(id, c)
	}
	return &EventRouter{Registry: reg, Sessions: sessions}, conns
}

func TestRouteFanOutExcludesSender(t *testing.T) {
	router, conns := newRouterFixture(t)

	in := []byte(`{"type":"performance-event","note":"E4","timestamp":12345}`)
	res := router.Route("c1", in)
	assert.Equal(t, 2, res.SentTo)
	assert.Equal(t, 0, res.Dropped)

	assert.Empty(t, conns["c1"].frames)
	for _, id := range []domain.ClientID{"c2", "c3"} {
		require.Len(t, conns[id].frames, 1)

		var got map[string]any
		require.NoError(t, json.Unmarshal(conns[id].frames[0], &got))
		// Payload passes through opaque, with senderId attached.
		assert.Equal(t, "c1", got["senderId"])
		assert.Equal(t, "E4", got["note"])
		assert.Equal(t, "performance-event", got["type"])
		assert.Equal(t, float64(12345), got["timestamp"])
	}
}

func TestRouteDropsRoomlessSender(t *testing.T) {
	router, conns := newRouterFixture(t)

	res := router.Route("stranger", []byte(`{"type":"performance-event"}`))
	assert.Equal(t, core.PublishResult{}, res)
	for _, c := range conns {
		assert.Empty(t, c.frames)
	}
}

func TestRouteCountsUndeliverable(t *testing.T) {
	router, conns := newRouterFixture(t)
	conns["c3"].fail = true

	res := router.Route("c1", []byte(`{"type":"performance-event"}`))
	assert.Equal(t, 1, res.SentTo)
	assert.Equal(t, 1, res.Dropped)
}

func TestRouteRejectsMalformedPayload(t *testing.T) {
	router, conns := newRouterFixture(t)

	res := router.Route("c1", []byte(`{not json`))
	assert.Equal(t, core.PublishResult{}, res)
	for _, c := range conns {
		assert.Empty(t, c.frames)
	}
}
