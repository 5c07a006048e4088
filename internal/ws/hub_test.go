package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/testutil"
)

func newTestClient(userID model.UserID) *Client {
	return &Client{
		connID:      model.ConnID("conn-" + string(userID)),
		userID:      userID,
		raceID:      "RACE01",
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
		logger:      testutil.NopLogger(),
	}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub("RACE01", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)

	hub.Broadcast([]byte("hello"))

	assert.Equal(t, []byte("hello"), receive(t, alice))
	assert.Equal(t, []byte("hello"), receive(t, bob))
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub("RACE01", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	alice := newTestClient("alice")
	hub.Register(alice)
	hub.Unregister(alice)

	_, open := <-alice.send
	assert.False(t, open)
}

func TestHubClientCount(t *testing.T) {
	hub := NewHub("RACE01", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	assert.Equal(t, 0, hub.ClientCount())

	alice := newTestClient("alice")
	hub.Register(alice)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)
}

func TestHubRegisterAfterCloseFails(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	hub := m.GetOrCreateHub("RACE01")

	// Empty-hub cleanup can close the hub between a caller's lookup and
	// its Register; Register must fail fast instead of blocking forever
	m.CleanupEmptyHubs()

	alice := newTestClient("alice")
	done := make(chan bool, 1)
	go func() { done <- hub.Register(alice) }()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Register blocked on a closed hub")
	}

	// A fresh hub accepts the registration
	fresh := m.GetOrCreateHub("RACE01")
	defer m.RemoveHub("RACE01")
	require.NotSame(t, hub, fresh)
	assert.True(t, fresh.Register(alice))
}

func TestHubUnregisterAfterCloseIsIgnored(t *testing.T) {
	hub := NewHub("RACE01", testutil.NopLogger())
	go hub.Run()

	alice := newTestClient("alice")
	hub.Register(alice)
	hub.Close()

	done := make(chan struct{})
	go func() {
		hub.Unregister(alice)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked on a closed hub")
	}
}

func TestHubManagerPublishEncodesEvents(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	hub := m.GetOrCreateHub("RACE01")
	defer m.RemoveHub("RACE01")

	alice := newTestClient("alice")
	hub.Register(alice)

	m.Publish("RACE01", []model.Event{{
		Type:    model.EventWinner,
		RaceID:  "RACE01",
		Payload: model.WinnerPayload{UserID: "alice"},
	}})

	msg := receive(t, alice)
	assert.Contains(t, string(msg), `"event":"winner"`)
	assert.Contains(t, string(msg), `"user_id":"alice"`)
}

func TestHubManagerPublishWithoutHubIsIgnored(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())

	// No hub exists for this race; publishing must not panic
	m.Publish("NOPE01", []model.Event{{Type: model.EventRaceReady}})
}

func TestHubManagerReusesHub(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	defer m.RemoveHub("RACE01")

	first := m.GetOrCreateHub("RACE01")
	second := m.GetOrCreateHub("RACE01")

	require.Same(t, first, second)
}

func TestHubManagerCleanupEmptyHubs(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	hub := m.GetOrCreateHub("RACE01")

	alice := newTestClient("alice")
	hub.Register(alice)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	// A hub with clients survives cleanup
	m.CleanupEmptyHubs()
	assert.NotNil(t, m.GetHub("RACE01"))

	hub.Unregister(alice)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, time.Millisecond)

	m.CleanupEmptyHubs()
	assert.Nil(t, m.GetHub("RACE01"))
}
