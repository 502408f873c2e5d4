package call

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackcall-backend/internal/repository/memory"
	"hackcall-backend/internal/service/call"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(call.NewService(memory.NewKVStore()))
	handler.RegisterRoutes(router.Group("/v1"))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestCallLifecycle(t *testing.T) {
	router := newTestRouter()

	code, env := doRequest(t, router, http.MethodPost, "/v1/teams/team1/call", gin.H{
		"host_id":   "h1",
		"host_name": "Host",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)

	var started call.StartCallOutput
	require.NoError(t, json.Unmarshal(env.Data, &started))
	assert.Contains(t, started.CallID, "call_team1_")

	code, _ = doRequest(t, router, http.MethodPost, "/v1/teams/team1/call/join", gin.H{
		"participant_id": "p1",
		"name":           "Alice",
	})
	require.Equal(t, http.StatusOK, code)

	code, env = doRequest(t, router, http.MethodGet, "/v1/teams/team1/call/participants", nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		Participants []struct {
			ID     string `json:"id"`
			IsHost bool   `json:"isHost"`
		} `json:"participants"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "h1", list.Participants[0].ID)
	assert.True(t, list.Participants[0].IsHost)

	code, _ = doRequest(t, router, http.MethodPost, "/v1/teams/team1/call/leave", gin.H{"participant_id": "h1"})
	require.Equal(t, http.StatusOK, code)

	code, env = doRequest(t, router, http.MethodGet, "/v1/teams/team1/call", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.Equal(t, "CALL_NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Call not found", env.Error.Message)

	code, env = doRequest(t, router, http.MethodGet, "/v1/teams/team1/call/status", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"team_id":"team1","active":false}`, string(env.Data))
}

func TestEndCallForbidden(t *testing.T) {
	router := newTestRouter()

	code, _ := doRequest(t, router, http.MethodPost, "/v1/teams/team1/call", gin.H{"host_id": "h1", "host_name": "Host"})
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, router, http.MethodPost, "/v1/teams/team1/call/end", gin.H{"host_id": "p1"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, _ = doRequest(t, router, http.MethodPost, "/v1/teams/team1/call/end", gin.H{"host_id": "h1"})
	assert.Equal(t, http.StatusOK, code)

	code, env = doRequest(t, router, http.MethodGet, "/v1/teams/team1/call/participants", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"participants":[],"count":0}`, string(env.Data))
}

func TestJoinWithoutCall(t *testing.T) {
	router := newTestRouter()

	code, env := doRequest(t, router, http.MethodPost, "/v1/teams/team1/call/join", gin.H{
		"participant_id": "p1",
		"name":           "Alice",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "CALL_NOT_FOUND", env.Error.Code)
}

func TestUpdateParticipant(t *testing.T) {
	router := newTestRouter()

	code, _ := doRequest(t, router, http.MethodPost, "/v1/teams/team1/call", gin.H{"host_id": "h1", "host_name": "Host"})
	require.Equal(t, http.StatusCreated, code)

	code, _ = doRequest(t, router, http.MethodPatch, "/v1/teams/team1/call/participants/h1", gin.H{"is_screen_sharing": true})
	require.Equal(t, http.StatusOK, code)

	code, env := doRequest(t, router, http.MethodGet, "/v1/teams/team1/call", nil)
	require.Equal(t, http.StatusOK, code)
	var teamCall struct {
		Participants []struct {
			VideoEnabled    bool `json:"videoEnabled"`
			AudioEnabled    bool `json:"audioEnabled"`
			IsScreenSharing bool `json:"isScreenSharing"`
		} `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &teamCall))
	require.Len(t, teamCall.Participants, 1)
	assert.True(t, teamCall.Participants[0].IsScreenSharing)
	assert.True(t, teamCall.Participants[0].VideoEnabled)
	assert.True(t, teamCall.Participants[0].AudioEnabled)

	code, env = doRequest(t, router, http.MethodPatch, "/v1/teams/team1/call/participants/nobody", gin.H{"audio_enabled": false})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "PARTICIPANT_NOT_FOUND", env.Error.Code)

	code, env = doRequest(t, router, http.MethodPatch, "/v1/teams/team1/call/participants/h1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestValidation(t *testing.T) {
	router := newTestRouter()

	code, env := doRequest(t, router, http.MethodPost, "/v1/teams/team1/call", gin.H{"host_name": "Host"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, env = doRequest(t, router, http.MethodPost, "/v1/teams/team1/call/leave", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
