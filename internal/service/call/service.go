package call

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"hackcall-backend/internal/domain"
	"hackcall-backend/internal/repository"
	"hackcall-backend/pkg/constants"
	apperrors "hackcall-backend/pkg/errors"
	"hackcall-backend/pkg/logger"
	"hackcall-backend/pkg/metrics"
	"hackcall-backend/pkg/sanitize"
)

// Reasons a call record is destroyed
const (
	EndReasonHostEnded = "host_ended"
	EndReasonHostLeft  = "host_left"
	EndReasonEmpty     = "empty"
	EndReasonReplaced  = "replaced"
)

// Service tracks call membership per team on top of a keyed store.
//
// Mutations are serialized inside the process so that each read-modify-write
// of a call record completes before the next begins. Processes sharing the same
// backing store are not coordinated: the last full-record write wins.
type Service struct {
	store       repository.KeyValueStore
	metrics     *metrics.Metrics
	now         func() time.Time
	strictStart bool

	mu sync.Mutex
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics records call metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithStrictStart makes StartCall fail with a conflict instead of replacing an existing call
func WithStrictStart(strict bool) Option {
	return func(s *Service) {
		s.strictStart = strict
	}
}

// NewService creates a new call service
func NewService(store repository.KeyValueStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartCallInput contains call creation data
type StartCallInput struct {
	TeamID     string
	HostID     string
	HostName   string
	HostAvatar string
}

// StartCallOutput contains the created call info
type StartCallOutput struct {
	CallID    string    `json:"call_id"`
	TeamID    string    `json:"team_id"`
	HostID    string    `json:"host_id"`
	StartedAt time.Time `json:"started_at"`
}

// JoinCallInput contains call join data
type JoinCallInput struct {
	TeamID        string
	ParticipantID string
	Name          string
	Avatar        string
}

// TeamCallKey returns the keyed-store key holding a team's call record
func TeamCallKey(teamID string) string {
	return constants.TeamCallKeyPrefix + teamID
}

// StartCall creates a call for the team with the host as its only participant.
// An existing record for the team is replaced unless strict start is enabled.
func (s *Service) StartCall(ctx context.Context, input *StartCallInput) (*StartCallOutput, error) {
	const op = "start_call"
	if err := validateID("team_id", input.TeamID); err != nil {
		return nil, s.fail(op, err)
	}
	if err := validateID("host_id", input.HostID); err != nil {
		return nil, s.fail(op, err)
	}
	hostName, hostAvatar := sanitize.DisplayName(input.HostName), sanitize.URL(input.HostAvatar)
	if err := validateProfile("host_name", hostName, hostAvatar); err != nil {
		return nil, s.fail(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).With(zap.String("team_id", input.TeamID))

	existing, found, err := s.load(ctx, input.TeamID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if found && s.strictStart {
		return nil, s.fail(op, apperrors.ConflictError("Team already has an active call"))
	}

	now := s.now()
	call := &domain.TeamCall{
		ID:        fmt.Sprintf("%s%s_%d", constants.CallIDPrefix, input.TeamID, now.UnixMilli()),
		TeamID:    input.TeamID,
		HostID:    input.HostID,
		IsActive:  true,
		StartedAt: now,
		Participants: []domain.CallParticipant{{
			ID:           input.HostID,
			Name:         hostName,
			Avatar:       hostAvatar,
			VideoEnabled: true,
			AudioEnabled: true,
			IsHost:       true,
			JoinedAt:     now,
		}},
	}

	if err := s.save(ctx, call); err != nil {
		return nil, s.fail(op, err)
	}

	if found {
		log.Warn("Replaced existing team call",
			zap.String("previous_call_id", existing.ID),
			zap.String("previous_host_id", existing.HostID),
		)
		s.recordEnded(EndReasonReplaced)
	}
	if s.metrics != nil {
		s.metrics.RecordCallStarted()
	}

	log.Info("Call started", zap.String("call_id", call.ID), zap.String("host_id", call.HostID))

	return &StartCallOutput{
		CallID:    call.ID,
		TeamID:    call.TeamID,
		HostID:    call.HostID,
		StartedAt: call.StartedAt,
	}, nil
}

// JoinCall adds a participant to the team's call. Joining twice is a no-op.
func (s *Service) JoinCall(ctx context.Context, input *JoinCallInput) error {
	const op = "join_call"
	if err := validateID("team_id", input.TeamID); err != nil {
		return s.fail(op, err)
	}
	if err := validateID("participant_id", input.ParticipantID); err != nil {
		return s.fail(op, err)
	}
	name, avatar := sanitize.DisplayName(input.Name), sanitize.URL(input.Avatar)
	if err := validateProfile("name", name, avatar); err != nil {
		return s.fail(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	call, found, err := s.load(ctx, input.TeamID)
	if err != nil {
		return s.fail(op, err)
	}
	if !found {
		return s.fail(op, apperrors.CallNotFoundError())
	}

	if call.ParticipantIndex(input.ParticipantID) >= 0 {
		return nil
	}

	call.Participants = append(call.Participants, domain.CallParticipant{
		ID:           input.ParticipantID,
		Name:         name,
		Avatar:       avatar,
		VideoEnabled: true,
		AudioEnabled: true,
		JoinedAt:     s.now(),
	})

	if err := s.save(ctx, call); err != nil {
		return s.fail(op, err)
	}
	if s.metrics != nil {
		s.metrics.RecordParticipantJoined()
	}

	logger.FromContext(ctx).Info("Participant joined call",
		zap.String("team_id", input.TeamID),
		zap.String("call_id", call.ID),
		zap.String("participant_id", input.ParticipantID),
		zap.Int("participants", len(call.Participants)),
	)
	return nil
}

// LeaveCall removes a participant from the team's call. When the host leaves,
// or the last participant leaves, the call record is destroyed for everyone.
func (s *Service) LeaveCall(ctx context.Context, teamID, participantID string) error {
	const op = "leave_call"
	if err := validateID("team_id", teamID); err != nil {
		return s.fail(op, err)
	}
	if err := validateID("participant_id", participantID); err != nil {
		return s.fail(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	call, found, err := s.load(ctx, teamID)
	if err != nil {
		return s.fail(op, err)
	}
	if !found {
		return nil
	}

	idx := call.ParticipantIndex(participantID)
	if idx < 0 {
		return nil
	}
	call.Participants = append(call.Participants[:idx], call.Participants[idx+1:]...)

	log := logger.FromContext(ctx).With(
		zap.String("team_id", teamID),
		zap.String("call_id", call.ID),
		zap.String("participant_id", participantID),
	)

	reason := ""
	switch {
	case participantID == call.HostID:
		reason = EndReasonHostLeft
	case len(call.Participants) == 0:
		reason = EndReasonEmpty
	}

	if reason != "" {
		if err := s.remove(ctx, teamID); err != nil {
			return s.fail(op, err)
		}
		s.recordLeft()
		s.recordEnded(reason)
		log.Info("Call closed after participant left", zap.String("reason", reason))
		return nil
	}

	if err := s.save(ctx, call); err != nil {
		return s.fail(op, err)
	}
	s.recordLeft()
	log.Info("Participant left call", zap.Int("participants", len(call.Participants)))
	return nil
}

// EndCall destroys the team's call. Only the recorded host may end it.
func (s *Service) EndCall(ctx context.Context, teamID, hostID string) error {
	const op = "end_call"
	if err := validateID("team_id", teamID); err != nil {
		return s.fail(op, err)
	}
	if err := validateID("host_id", hostID); err != nil {
		return s.fail(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	call, found, err := s.load(ctx, teamID)
	if err != nil {
		return s.fail(op, err)
	}
	if !found {
		return s.fail(op, apperrors.CallNotFoundError())
	}
	if call.HostID != hostID {
		return s.fail(op, apperrors.ForbiddenError("Only the host can end the call"))
	}

	// Ended calls are not retained; the record is deleted rather than marked inactive.
	if err := s.remove(ctx, teamID); err != nil {
		return s.fail(op, err)
	}
	s.recordEnded(EndReasonHostEnded)

	logger.FromContext(ctx).Info("Call ended by host",
		zap.String("team_id", teamID),
		zap.String("call_id", call.ID),
		zap.Duration("duration", s.now().Sub(call.StartedAt)),
	)
	return nil
}

// UpdateParticipant merges the supplied media flags into a participant's record
func (s *Service) UpdateParticipant(ctx context.Context, teamID, participantID string, update domain.ParticipantUpdate) error {
	const op = "update_participant"
	if err := validateID("team_id", teamID); err != nil {
		return s.fail(op, err)
	}
	if err := validateID("participant_id", participantID); err != nil {
		return s.fail(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	call, found, err := s.load(ctx, teamID)
	if err != nil {
		return s.fail(op, err)
	}
	if !found || !call.IsActive {
		return s.fail(op, apperrors.CallNotFoundError())
	}

	idx := call.ParticipantIndex(participantID)
	if idx < 0 {
		return s.fail(op, apperrors.ParticipantNotFoundError())
	}
	if update.IsEmpty() {
		return nil
	}

	update.Apply(&call.Participants[idx])

	if err := s.save(ctx, call); err != nil {
		return s.fail(op, err)
	}

	logger.FromContext(ctx).Debug("Participant updated",
		zap.String("team_id", teamID),
		zap.String("participant_id", participantID),
		zap.Bool("video_enabled", call.Participants[idx].VideoEnabled),
		zap.Bool("audio_enabled", call.Participants[idx].AudioEnabled),
		zap.Bool("is_screen_sharing", call.Participants[idx].IsScreenSharing),
	)
	return nil
}

// GetActiveCall returns the team's call if one is active
func (s *Service) GetActiveCall(ctx context.Context, teamID string) (*domain.TeamCall, bool, error) {
	if err := validateID("team_id", teamID); err != nil {
		return nil, false, s.fail("get_active_call", err)
	}

	call, found, err := s.load(ctx, teamID)
	if err != nil {
		return nil, false, s.fail("get_active_call", err)
	}
	if !found || !call.IsActive {
		return nil, false, nil
	}
	return call, true, nil
}

// GetCallParticipants returns the participants of the team's active call, or an empty slice
func (s *Service) GetCallParticipants(ctx context.Context, teamID string) ([]domain.CallParticipant, error) {
	call, found, err := s.GetActiveCall(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !found || call.Participants == nil {
		return []domain.CallParticipant{}, nil
	}
	return call.Participants, nil
}

// IsCallActive reports whether the team has a call record
func (s *Service) IsCallActive(ctx context.Context, teamID string) (bool, error) {
	_, found, err := s.GetActiveCall(ctx, teamID)
	return found, err
}

func (s *Service) load(ctx context.Context, teamID string) (*domain.TeamCall, bool, error) {
	start := time.Now()
	data, err := s.store.Get(ctx, TeamCallKey(teamID))
	if errors.Is(err, repository.ErrKeyNotFound) {
		s.recordStore("get", start, nil)
		return nil, false, nil
	}
	s.recordStore("get", start, err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to read call record", zap.String("team_id", teamID), zap.Error(err))
		return nil, false, apperrors.StorageError(err)
	}

	var call domain.TeamCall
	if err := json.Unmarshal(data, &call); err != nil {
		logger.FromContext(ctx).Error("Failed to decode call record", zap.String("team_id", teamID), zap.Error(err))
		return nil, false, apperrors.StorageError(fmt.Errorf("decode call record: %w", err))
	}
	return &call, true, nil
}

func (s *Service) save(ctx context.Context, call *domain.TeamCall) error {
	data, err := json.Marshal(call)
	if err != nil {
		return apperrors.StorageError(fmt.Errorf("encode call record: %w", err))
	}

	start := time.Now()
	err = s.store.Set(ctx, TeamCallKey(call.TeamID), data)
	s.recordStore("set", start, err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to write call record", zap.String("team_id", call.TeamID), zap.Error(err))
		return apperrors.StorageError(err)
	}
	return nil
}

func (s *Service) remove(ctx context.Context, teamID string) error {
	start := time.Now()
	err := s.store.Delete(ctx, TeamCallKey(teamID))
	s.recordStore("delete", start, err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to delete call record", zap.String("team_id", teamID), zap.Error(err))
		return apperrors.StorageError(err)
	}
	return nil
}

func (s *Service) fail(op string, err error) error {
	if s.metrics != nil {
		s.metrics.RecordCallOperationError(op, string(apperrors.GetAppError(err).Code))
	}
	return err
}

func (s *Service) recordEnded(reason string) {
	if s.metrics != nil {
		s.metrics.RecordCallEnded(reason)
	}
}

func (s *Service) recordLeft() {
	if s.metrics != nil {
		s.metrics.RecordParticipantLeft()
	}
}

func (s *Service) recordStore(op string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(op, time.Since(start), err)
	}
}

func validateID(field, value string) error {
	if value == "" {
		return apperrors.MissingFieldError(field)
	}
	if len(value) > constants.MaxIdentifierLength {
		return apperrors.ValidationError(fmt.Sprintf("%s exceeds %d characters", field, constants.MaxIdentifierLength))
	}
	return nil
}

func validateProfile(field, name, avatar string) error {
	if name == "" {
		return apperrors.MissingFieldError(field)
	}
	if len(name) > constants.MaxDisplayNameLength {
		return apperrors.ValidationError(fmt.Sprintf("name exceeds %d characters", constants.MaxDisplayNameLength))
	}
	if len(avatar) > constants.MaxAvatarLength {
		return apperrors.ValidationError(fmt.Sprintf("avatar exceeds %d characters", constants.MaxAvatarLength))
	}
	return nil
}
