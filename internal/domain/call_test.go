package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestParticipantUpdateApply(t *testing.T) {
	p := CallParticipant{ID: "p1", VideoEnabled: true, AudioEnabled: true}

	update := ParticipantUpdate{AudioEnabled: boolPtr(false), IsScreenSharing: boolPtr(true)}
	require.False(t, update.IsEmpty())
	update.Apply(&p)

	assert.True(t, p.VideoEnabled)
	assert.False(t, p.AudioEnabled)
	assert.True(t, p.IsScreenSharing)
	assert.True(t, ParticipantUpdate{}.IsEmpty())
}

func TestParticipantIndex(t *testing.T) {
	call := &TeamCall{Participants: []CallParticipant{{ID: "h1"}, {ID: "p1"}}}

	assert.Equal(t, 0, call.ParticipantIndex("h1"))
	assert.Equal(t, 1, call.ParticipantIndex("p1"))
	assert.Equal(t, -1, call.ParticipantIndex("p2"))
}

func TestTeamCallJSONFieldNames(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	raw, err := json.Marshal(TeamCall{
		ID:        "call_t1_1",
		TeamID:    "t1",
		HostID:    "h1",
		IsActive:  true,
		StartedAt: started,
		Participants: []CallParticipant{
			{ID: "h1", Name: "Host", IsHost: true, JoinedAt: started},
		},
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "teamId", "hostId", "isActive", "startedAt", "participants"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "endedAt")
}
