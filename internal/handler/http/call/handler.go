package call

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hackcall-backend/internal/domain"
	"hackcall-backend/internal/service/call"
	apperrors "hackcall-backend/pkg/errors"
	"hackcall-backend/pkg/response"
)

// Handler handles team call HTTP requests
type Handler struct {
	callService *call.Service
}

// NewHandler creates a new call handler
func NewHandler(callService *call.Service) *Handler {
	return &Handler{
		callService: callService,
	}
}

// RegisterRoutes mounts the call endpoints on a team-scoped group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	teamCall := rg.Group("/teams/:team_id/call")
	{
		teamCall.POST("", h.StartCall)
		teamCall.GET("", h.GetActiveCall)
		teamCall.GET("/status", h.GetCallStatus)
		teamCall.GET("/participants", h.GetParticipants)
		teamCall.POST("/join", h.JoinCall)
		teamCall.POST("/leave", h.LeaveCall)
		teamCall.POST("/end", h.EndCall)
		teamCall.PATCH("/participants/:participant_id", h.UpdateParticipant)
	}
}

// StartCallRequest represents call start request
type StartCallRequest struct {
	HostID     string `json:"host_id" binding:"required"`
	HostName   string `json:"host_name" binding:"required"`
	HostAvatar string `json:"host_avatar"`
}

// JoinCallRequest represents call join request
type JoinCallRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Avatar        string `json:"avatar"`
}

// LeaveCallRequest represents call leave request
type LeaveCallRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}

// EndCallRequest represents call end request
type EndCallRequest struct {
	HostID string `json:"host_id" binding:"required"`
}

// UpdateParticipantRequest carries the media flags to change; omitted flags are kept
type UpdateParticipantRequest struct {
	VideoEnabled    *bool `json:"video_enabled"`
	AudioEnabled    *bool `json:"audio_enabled"`
	IsScreenSharing *bool `json:"is_screen_sharing"`
}

// StartCall starts a call for a team
// POST /v1/teams/:team_id/call
func (h *Handler) StartCall(c *gin.Context) {
	var req StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	output, err := h.callService.StartCall(c.Request.Context(), &call.StartCallInput{
		TeamID:     c.Param("team_id"),
		HostID:     req.HostID,
		HostName:   req.HostName,
		HostAvatar: req.HostAvatar,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, output)
}

// GetActiveCall retrieves the team's active call
// GET /v1/teams/:team_id/call
func (h *Handler) GetActiveCall(c *gin.Context) {
	teamCall, found, err := h.callService.GetActiveCall(c.Request.Context(), c.Param("team_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !found {
		response.FromError(c, apperrors.CallNotFoundError())
		return
	}

	response.Success(c, http.StatusOK, teamCall)
}

// GetCallStatus reports whether the team has an active call
// GET /v1/teams/:team_id/call/status
func (h *Handler) GetCallStatus(c *gin.Context) {
	teamID := c.Param("team_id")

	active, err := h.callService.IsCallActive(c.Request.Context(), teamID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"team_id": teamID,
		"active":  active,
	})
}

// GetParticipants lists the participants of the team's call
// GET /v1/teams/:team_id/call/participants
func (h *Handler) GetParticipants(c *gin.Context) {
	participants, err := h.callService.GetCallParticipants(c.Request.Context(), c.Param("team_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"participants": participants,
		"count":        len(participants),
	})
}

// JoinCall joins the team's call
// POST /v1/teams/:team_id/call/join
func (h *Handler) JoinCall(c *gin.Context) {
	var req JoinCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	teamID := c.Param("team_id")
	if err := h.callService.JoinCall(c.Request.Context(), &call.JoinCallInput{
		TeamID:        teamID,
		ParticipantID: req.ParticipantID,
		Name:          req.Name,
		Avatar:        req.Avatar,
	}); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Joined call",
		"team_id": teamID,
	})
}

// LeaveCall leaves the team's call
// POST /v1/teams/:team_id/call/leave
func (h *Handler) LeaveCall(c *gin.Context) {
	var req LeaveCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	teamID := c.Param("team_id")
	if err := h.callService.LeaveCall(c.Request.Context(), teamID, req.ParticipantID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Left call",
		"team_id": teamID,
	})
}

// EndCall ends the team's call
// POST /v1/teams/:team_id/call/end
func (h *Handler) EndCall(c *gin.Context) {
	var req EndCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	teamID := c.Param("team_id")
	if err := h.callService.EndCall(c.Request.Context(), teamID, req.HostID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Call ended",
		"team_id": teamID,
	})
}

// UpdateParticipant changes a participant's media flags
// PATCH /v1/teams/:team_id/call/participants/:participant_id
func (h *Handler) UpdateParticipant(c *gin.Context) {
	var req UpdateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	update := domain.ParticipantUpdate{
		VideoEnabled:    req.VideoEnabled,
		AudioEnabled:    req.AudioEnabled,
		IsScreenSharing: req.IsScreenSharing,
	}
	if update.IsEmpty() {
		response.ValidationError(c, "At least one of video_enabled, audio_enabled, is_screen_sharing is required")
		return
	}

	teamID := c.Param("team_id")
	participantID := c.Param("participant_id")
	if err := h.callService.UpdateParticipant(c.Request.Context(), teamID, participantID, update); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":        "Participant updated",
		"team_id":        teamID,
		"participant_id": participantID,
	})
}
