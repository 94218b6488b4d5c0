package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/jmin/block-battle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHandler_RequiresToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.BaseURL() + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)

	resp2, err := http.Get(ts.BaseURL() + "/ws?token=garbage")
	require.NoError(t, err)
	defer resp2.Body.Close()
	testutil.AssertStatusCode(t, resp2, http.StatusUnauthorized)
}

func TestWebSocketHandler_ConnectAndSubscribe(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().WithName("socket").BuildAndAuthenticate(t, ts)

	ws := testutil.NewWSClient(t, ts.WebSocketURL(token))
	connected := ws.ExpectConnected(2 * time.Second)
	assert.Equal(t, user.UserID, connected.UserID)

	ws.JoinChannel("room0001")
	require.Eventually(t, func() bool {
		return ts.Hub.SubscriberCount("room0001") == 1
	}, 2*time.Second, 10*time.Millisecond)

	ws.LeaveChannel("room0001")
	require.Eventually(t, func() bool {
		return ts.Hub.SubscriberCount("room0001") == 0
	}, 2*time.Second, 10*time.Millisecond)

	// Unsubscribed sockets miss later events
	ts.Hub.Publish("room0001", "SCORE_UPDATED", nil)
	ws.ExpectNoMessage(200 * time.Millisecond)
}

func TestWebSocketHandler_DisconnectCleansUp(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().WithName("drop").BuildAndAuthenticate(t, ts)

	ws := testutil.NewWSClient(t, ts.WebSocketURL(token))
	ws.ExpectConnected(2 * time.Second)
	ws.JoinChannel("room0002")
	require.Eventually(t, func() bool {
		return ts.Hub.SubscriberCount("room0002") == 1
	}, 2*time.Second, 10*time.Millisecond)

	ws.Close()
	require.Eventually(t, func() bool {
		return ts.Hub.SubscriberCount("room0002") == 0
	}, 2*time.Second, 10*time.Millisecond)
}
