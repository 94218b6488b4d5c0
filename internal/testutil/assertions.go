package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/jmin/block-battle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertRosterContains verifies a user id exists in a roster
func AssertRosterContains(t *testing.T, roster []domain.Participant, userID string) {
	t.Helper()

	for _, p := range roster {
		if p.UserID == userID {
			return
		}
	}
	t.Errorf("user %s not found in roster", userID)
}

// AssertRoomStatus verifies the room's status
func AssertRoomStatus(t *testing.T, room *domain.Room, expected domain.RoomStatus) {
	t.Helper()
	assert.Equal(t, expected, room.Status, "unexpected room status")
}
