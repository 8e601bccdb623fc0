package handler

import (
	"encoding/json"
	"testing"
	"time"

	"warbler/service"
	"warbler/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient registers a client without a real websocket connection;
// fanout only touches the send channel.
func fakeClient(hub *Hub, userID uint) *Client {
	c := &Client{
		id:     uuid.New(),
		userID: userID,
		send:   make(chan []byte, 4),
		hub:    hub,
	}
	hub.register <- c
	return c
}

func receive(t *testing.T, c *Client) FeedEvent {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev FeedEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return FeedEvent{}
	}
}

func TestHubFanout(t *testing.T) {
	db := testutil.OpenDB(t)
	users := service.NewUserService(db)
	follows := service.NewFollowService(db)
	messages := service.NewMessageService(db)

	author, err := users.Signup("author", "author@email.com", "password", "")
	require.NoError(t, err)
	follower, err := users.Signup("follower", "follower@email.com", "password", "")
	require.NoError(t, err)
	stranger, err := users.Signup("stranger", "stranger@email.com", "password", "")
	require.NoError(t, err)
	require.NoError(t, follows.Follow(follower.ID, author.ID))

	hub := NewHub(follows)
	go hub.Run()
	messages.SetFeedNotifier(hub)

	authorClient := fakeClient(hub, author.ID)
	followerClient := fakeClient(hub, follower.ID)
	strangerClient := fakeClient(hub, stranger.ID)

	// Give Run a moment to process the registrations.
	time.Sleep(50 * time.Millisecond)

	msg, err := messages.Create(author.ID, "fanout test")
	require.NoError(t, err)

	// Author and follower both get the event.
	for _, c := range []*Client{authorClient, followerClient} {
		ev := receive(t, c)
		assert.Equal(t, "warble", ev.Type)
		data := ev.Data.(map[string]interface{})
		assert.EqualValues(t, msg.ID, data["id"])
		assert.Equal(t, "fanout test", data["text"])
	}

	// The stranger gets nothing.
	select {
	case <-strangerClient.send:
		t.Fatal("stranger should not receive the warble")
	case <-time.After(100 * time.Millisecond):
	}
}
