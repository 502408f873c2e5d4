package domain

import (
	"time"
)

// TeamCall represents the in-progress call of a single team
type TeamCall struct {
	ID           string            `json:"id"`
	TeamID       string            `json:"teamId"`
	HostID       string            `json:"hostId"`
	IsActive     bool              `json:"isActive"`
	StartedAt    time.Time         `json:"startedAt"`
	EndedAt      *time.Time        `json:"endedAt,omitempty"`
	Participants []CallParticipant `json:"participants"`
}

// CallParticipant represents a member of a team call
type CallParticipant struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Avatar          string    `json:"avatar,omitempty"`
	VideoEnabled    bool      `json:"videoEnabled"`
	AudioEnabled    bool      `json:"audioEnabled"`
	IsHost          bool      `json:"isHost"`
	IsScreenSharing bool      `json:"isScreenSharing"`
	JoinedAt        time.Time `json:"joinedAt"`
}

// ParticipantUpdate carries a partial set of media flags. Nil fields are left untouched.
type ParticipantUpdate struct {
	VideoEnabled    *bool
	AudioEnabled    *bool
	IsScreenSharing *bool
}

// IsEmpty reports whether the update carries no flags
func (u ParticipantUpdate) IsEmpty() bool {
	return u.VideoEnabled == nil && u.AudioEnabled == nil && u.IsScreenSharing == nil
}

// Apply merges the supplied flags into p
func (u ParticipantUpdate) Apply(p *CallParticipant) {
	if u.VideoEnabled != nil {
		p.VideoEnabled = *u.VideoEnabled
	}
	if u.AudioEnabled != nil {
		p.AudioEnabled = *u.AudioEnabled
	}
	if u.IsScreenSharing != nil {
		p.IsScreenSharing = *u.IsScreenSharing
	}
}

// ParticipantIndex returns the position of the participant with the given id, or -1
func (c *TeamCall) ParticipantIndex(participantID string) int {
	for i := range c.Participants {
		if c.Participants[i].ID == participantID {
			return i
		}
	}
	return -1
}
