package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"studybuddy/internal/domain"
	"studybuddy/internal/matching"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
	"studybuddy/pkg/logger"
)

var (
	ErrSelfConnection   = errors.New("cannot connect with yourself")
	ErrAlreadyConnected = errors.New("connection already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotRecipient     = errors.New("request is not addressed to you")
	ErrRequestNotFound  = errors.New("request not found")
	ErrNotPending       = errors.New("request is not pending")
)

// BuddyEntry is the discovery-facing view of another student.
type BuddyEntry struct {
	ID               uint     `json:"id"`
	Username         string   `json:"username"`
	Avatar           string   `json:"avatar"`
	Specialization   string   `json:"specialization"`
	Level            string   `json:"level"`
	Interests        []string `json:"interests"`
	Schedule         string   `json:"schedule"`
	Compatibility    int      `json:"compatibility"`
	ConnectionStatus string   `json:"connection_status"`
}

type BuddyService struct {
	users         *repository.UserRepository
	profiles      *repository.ProfileRepository
	connections   *repository.ConnectionRepository
	activities    *repository.ActivityRepository
	notifications *NotificationService
}

func NewBuddyService(
	users *repository.UserRepository,
	profiles *repository.ProfileRepository,
	connections *repository.ConnectionRepository,
	activities *repository.ActivityRepository,
	notifications *NotificationService,
) *BuddyService {
	return &BuddyService{
		users:         users,
		profiles:      profiles,
		connections:   connections,
		activities:    activities,
		notifications: notifications,
	}
}

// ConnectionStatus resolves the viewer-relative status of a connection row.
// A nil row means the two users have no relationship yet.
func ConnectionStatus(conn *models.BuddyConnection, viewerID uint) string {
	if conn == nil {
		return domain.StatusNotConnected
	}
	switch conn.Status {
	case domain.ConnectionApproved:
		return domain.StatusConnected
	case domain.ConnectionPending:
		if conn.UserID == viewerID {
			return domain.StatusRequestSent
		}
		return domain.StatusRequestReceived
	default:
		return domain.StatusNotConnected
	}
}

// Recommended returns ranked buddy suggestions, excluding the viewer and
// anyone with an existing connection row in any state.
func (s *BuddyService) Recommended(userID uint, limit int) ([]BuddyEntry, error) {
	entries, err := s.annotated(userID)
	if err != nil {
		return nil, err
	}
	out := make([]BuddyEntry, 0, len(entries))
	for _, e := range entries {
		if e.ConnectionStatus == domain.StatusNotConnected {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns every other student ranked, connected ones included, each
// annotated with its viewer-relative connection status.
func (s *BuddyService) All(userID uint) ([]BuddyEntry, error) {
	return s.annotated(userID)
}

func (s *BuddyService) annotated(userID uint) ([]BuddyEntry, error) {
	viewer := s.profileView(userID)

	others, err := s.users.ListExcept(userID)
	if err != nil {
		return nil, err
	}

	conns, err := s.connections.ForUser(userID)
	if err != nil {
		return nil, err
	}
	statusByUser := make(map[uint]string, len(conns))
	for i := range conns {
		other := conns[i].UserID
		if other == userID {
			other = conns[i].BuddyID
		}
		statusByUser[other] = ConnectionStatus(&conns[i], userID)
	}

	byID := make(map[uint]*models.User, len(others))
	candidates := make([]matching.Candidate, 0, len(others))
	for i := range others {
		u := &others[i]
		byID[u.ID] = u
		candidates = append(candidates, matching.Candidate{
			UserID:  u.ID,
			Profile: profileView(u.Profile),
		})
	}

	ranked := matching.Rank(viewer, candidates)

	entries := make([]BuddyEntry, 0, len(ranked))
	for _, c := range ranked {
		u := byID[c.UserID]
		status, ok := statusByUser[u.ID]
		if !ok {
			status = domain.StatusNotConnected
		}
		entries = append(entries, buddyEntry(u, c.Score, status))
	}
	return entries, nil
}

// Connect creates a pending request towards the buddy and notifies them.
// The both-direction lookup keeps the pair unique regardless of who asked
// first.
func (s *BuddyService) Connect(userID, buddyID uint) (*models.BuddyConnection, error) {
	if userID == buddyID {
		return nil, ErrSelfConnection
	}

	buddy, err := s.users.GetByID(buddyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.connections.GetBetween(userID, buddyID); err == nil {
		return nil, ErrAlreadyConnected
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	conn := &models.BuddyConnection{
		UserID:  userID,
		BuddyID: buddyID,
		Status:  domain.ConnectionPending,
	}
	if err := s.connections.Create(conn); err != nil {
		return nil, err
	}

	if sender, err := s.users.GetByID(userID); err == nil {
		s.notifications.ConnectionRequest(buddy.ID, sender)
	}
	return conn, nil
}

// PendingRequest is an incoming request with the initiator's public fields.
type PendingRequest struct {
	ID        uint       `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	From      BuddyEntry `json:"from"`
}

func (s *BuddyService) Requests(userID uint) ([]PendingRequest, error) {
	conns, err := s.connections.PendingFor(userID)
	if err != nil {
		return nil, err
	}
	viewer := s.profileView(userID)

	out := make([]PendingRequest, 0, len(conns))
	for i := range conns {
		initiator := conns[i].Initiator
		score := matching.Score(viewer, profileView(initiator.Profile))
		out = append(out, PendingRequest{
			ID:        conns[i].ID,
			CreatedAt: conns[i].CreatedAt,
			From:      buddyEntry(&initiator, score, domain.StatusRequestReceived),
		})
	}
	return out, nil
}

// Accept approves an incoming request. Only the recipient can accept.
func (s *BuddyService) Accept(requestID, userID uint) error {
	conn, err := s.pendingAddressedTo(requestID, userID)
	if err != nil {
		return err
	}

	if err := s.connections.UpdateStatus(conn.ID, domain.ConnectionApproved); err != nil {
		return err
	}

	if acceptor, err := s.users.GetByID(userID); err == nil {
		s.notifications.ConnectionAccepted(conn.UserID, acceptor)
	}

	activity := &models.Activity{
		UserID:  userID,
		Action:  "buddy_connected",
		Details: "Connected with a new study buddy",
		XP:      25,
	}
	if err := s.activities.Create(activity); err != nil {
		logger.Warn("record connect activity failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}

// Decline removes an incoming request, freeing the pair for a future
// attempt from either side.
func (s *BuddyService) Decline(requestID, userID uint) error {
	conn, err := s.pendingAddressedTo(requestID, userID)
	if err != nil {
		return err
	}
	return s.connections.Delete(conn.ID)
}

func (s *BuddyService) pendingAddressedTo(requestID, userID uint) (*models.BuddyConnection, error) {
	conn, err := s.connections.GetByID(requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if conn.BuddyID != userID {
		return nil, ErrNotRecipient
	}
	if conn.Status != domain.ConnectionPending {
		return nil, ErrNotPending
	}
	return conn, nil
}

// Connected lists approved buddies with compatibility scores.
func (s *BuddyService) Connected(userID uint) ([]BuddyEntry, error) {
	conns, err := s.connections.ApprovedFor(userID)
	if err != nil {
		return nil, err
	}
	viewer := s.profileView(userID)

	out := make([]BuddyEntry, 0, len(conns))
	for i := range conns {
		otherID := conns[i].UserID
		if otherID == userID {
			otherID = conns[i].BuddyID
		}
		other, err := s.users.GetByID(otherID)
		if err != nil {
			continue
		}
		score := matching.Score(viewer, profileView(other.Profile))
		out = append(out, buddyEntry(other, score, domain.StatusConnected))
	}
	return out, nil
}

// IsConnected reports whether the pair has an approved connection.
func (s *BuddyService) IsConnected(a, b uint) (bool, error) {
	conn, err := s.connections.GetBetween(a, b)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return conn.Status == domain.ConnectionApproved, nil
}

func (s *BuddyService) profileView(userID uint) matching.ProfileView {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return matching.ProfileView{}
	}
	return profileView(profile)
}

func profileView(p *models.Profile) matching.ProfileView {
	if p == nil {
		return matching.ProfileView{}
	}
	return matching.ProfileView{
		Interests:      p.Interests,
		Specialization: p.Specialization,
		Schedule:       p.Schedule,
	}
}

func buddyEntry(u *models.User, score int, status string) BuddyEntry {
	entry := BuddyEntry{
		ID:               u.ID,
		Username:         u.Username,
		Avatar:           u.Avatar,
		Level:            domain.DefaultLevel,
		Interests:        []string{},
		Compatibility:    score,
		ConnectionStatus: status,
	}
	if u.Profile != nil {
		entry.Specialization = u.Profile.Specialization
		entry.Level = u.Profile.Level
		entry.Interests = u.Profile.InterestList()
		entry.Schedule = u.Profile.Schedule
	}
	return entry
}
