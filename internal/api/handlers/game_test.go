package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/jmin/block-battle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameHandler_VersusFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := &http.Client{}

	host, hostToken := testutil.NewUserBuilder().WithName("host").BuildAndAuthenticate(t, ts)
	_, guestToken := testutil.NewUserBuilder().WithName("guest").BuildAndAuthenticate(t, ts)
	roomID := createRoom(t, ts, hostToken)

	// Both players listen on the room channel
	hostWS := testutil.NewWSClient(t, ts.WebSocketURL(hostToken))
	hostWS.ExpectConnected(2 * time.Second)
	hostWS.JoinChannel(roomID)

	guestWS := testutil.NewWSClient(t, ts.WebSocketURL(guestToken))
	guestWS.ExpectConnected(2 * time.Second)
	guestWS.JoinChannel(roomID)

	// Subscriptions are processed server-side before the join lands
	require.Eventually(t, func() bool {
		return ts.Hub.SubscriberCount(roomID) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// Guest joins over HTTP; the match starts and both sockets hear it
	req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/rooms/join"), map[string]string{
		"room_id": roomID,
	}, guestToken)
	resp, err := client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	started := hostWS.ExpectMatchStarted(2 * time.Second)
	assert.Len(t, started.Players, 2)
	assert.Equal(t, int(ts.Config.MatchDuration.Seconds()), started.Duration)
	guestWS.ExpectMatchStarted(2 * time.Second)

	// Host submits first; match is still open
	req = testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/game/versus/end"), map[string]interface{}{
		"room_id": roomID,
		"score":   120,
	}, hostToken)
	resp, err = client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var firstResult struct {
		YourScore   int  `json:"your_score"`
		AllFinished bool `json:"all_finished"`
	}
	testutil.AssertJSONResponse(t, resp, &firstResult)
	resp.Body.Close()
	assert.Equal(t, 120, firstResult.YourScore)
	assert.False(t, firstResult.AllFinished)

	guestWS.ExpectScoreUpdated(2 * time.Second)

	// Guest submits; resolution happens in the same request
	req = testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/game/versus/end"), map[string]interface{}{
		"room_id": roomID,
		"score":   80,
	}, guestToken)
	resp, err = client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var finalResult struct {
		YourScore   int            `json:"your_score"`
		AllFinished bool           `json:"all_finished"`
		FinalScores map[string]int `json:"final_scores"`
		Winner      *string        `json:"winner"`
		IsDraw      bool           `json:"is_draw"`
	}
	testutil.AssertJSONResponse(t, resp, &finalResult)
	resp.Body.Close()
	assert.True(t, finalResult.AllFinished)
	assert.False(t, finalResult.IsDraw)
	require.NotNil(t, finalResult.Winner)
	assert.Equal(t, "host", *finalResult.Winner)
	assert.Len(t, finalResult.FinalScores, 2)

	// Both sockets receive the terminal broadcast
	for _, ws := range []*testutil.WSClient{hostWS, guestWS} {
		ended := ws.ExpectMatchEnded(2 * time.Second)
		require.NotNil(t, ended.Winner)
		assert.Equal(t, host.UserID, *ended.Winner)
		assert.False(t, ended.IsDraw)
		assert.Equal(t, 120, ended.FinalScores[host.UserID])
	}

	// The winner's stats are visible through the profile endpoint
	req = testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/auth/me"), nil, hostToken)
	resp, err = client.Do(req)
	require.NoError(t, err)
	var me struct {
		Wins        int `json:"wins"`
		GamesPlayed int `json:"games_played"`
	}
	testutil.AssertJSONResponse(t, resp, &me)
	resp.Body.Close()
	assert.Equal(t, 1, me.Wins)
	assert.Equal(t, 1, me.GamesPlayed)

	// Both players see the match in their history
	req = testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/game/history"), nil, guestToken)
	resp, err = client.Do(req)
	require.NoError(t, err)
	var history struct {
		Count int `json:"count"`
	}
	testutil.AssertJSONResponse(t, resp, &history)
	resp.Body.Close()
	assert.Equal(t, 1, history.Count)
}

func TestGameHandler_Solo(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := &http.Client{}

	_, token := testutil.NewUserBuilder().WithName("solo").BuildAndAuthenticate(t, ts)

	req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/game/solo/start"), nil, token)
	resp, err := client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var start struct {
		GameTime int `json:"game_time"`
	}
	testutil.AssertJSONResponse(t, resp, &start)
	resp.Body.Close()
	assert.Equal(t, int(ts.Config.MatchDuration.Seconds()), start.GameTime)

	req = testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/game/solo/end"), map[string]int{
		"score": 250,
	}, token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var end struct {
		FinalScore   int  `json:"final_score"`
		PersonalBest bool `json:"personal_best"`
		PreviousBest int  `json:"previous_best"`
	}
	testutil.AssertJSONResponse(t, resp, &end)
	resp.Body.Close()
	assert.Equal(t, 250, end.FinalScore)
	assert.True(t, end.PersonalBest)
	assert.Equal(t, 0, end.PreviousBest)

	// A zero score is a legal submission, distinct from a missing one
	req = testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/game/solo/end"), map[string]int{
		"score": 0,
	}, token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	req = testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/game/solo/end"), map[string]string{}, token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestGameHandler_VersusEnd_Validation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := &http.Client{}

	_, token := testutil.NewUserBuilder().WithName("player").BuildAndAuthenticate(t, ts)

	// Unknown room
	req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/game/versus/end"), map[string]interface{}{
		"room_id": "deadbeef",
		"score":   10,
	}, token)
	resp, err := client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	resp.Body.Close()

	// Waiting room has no running match
	roomID := createRoom(t, ts, token)
	req = testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/game/versus/end"), map[string]interface{}{
		"room_id": roomID,
		"score":   10,
	}, token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	// Missing score
	req = testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/game/versus/end"), map[string]interface{}{
		"room_id": roomID,
	}, token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}
