// Package session holds the per-user orchestration state screens talk to:
// which circle is selected, whether an action is in flight, and the optimistic
// bookkeeping for mentions and invite rotation. All mutations go through the
// Session so a slow response can never clobber fresher state.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/internal/invites"
	"github.com/ourthen/ourthen/internal/meetups"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
)

// Action names the one user-facing operation a session allows in flight.
type Action string

const (
	ActionNone    Action = ""
	ActionCreate  Action = "create"
	ActionJoin    Action = "join"
	ActionRotate  Action = "rotate"
	ActionMention Action = "mention"
	ActionAttend  Action = "attend"
)

// ErrBusy is returned when an action starts while another is still in flight.
var ErrBusy = fmt.Errorf("another action is in flight")

// MentionState tracks one optimistic mention through its lifecycle.
type MentionState int

const (
	MentionNone MentionState = iota
	MentionPending
	MentionCommitted
	MentionFailed
)

// InviteIssuer is the slice of the invite service the session drives.
type InviteIssuer interface {
	FetchLatest(ctx context.Context, userID, circleID uuid.UUID) (*invites.InviteDTO, error)
	Issue(ctx context.Context, userID, circleID uuid.UUID) (*invites.InviteDTO, error)
	Redeem(ctx context.Context, userID uuid.UUID, rawCode string) (*invites.RedeemResult, error)
}

// MentionRecorder is the slice of the meetup service the session drives for mentions.
type MentionRecorder interface {
	RecordMention(ctx context.Context, userID, meetupID, pieceID uuid.UUID) error
}

// AttendanceSetter is the slice of the meetup service the session drives for attendance.
type AttendanceSetter interface {
	SetAttendance(ctx context.Context, userID, meetupID uuid.UUID, isAttending bool) (*meetups.AttendanceDTO, error)
}

type mentionKey struct {
	meetupID uuid.UUID
	pieceID  uuid.UUID
}

// Session is one authenticated user's orchestration state.
type Session struct {
	userID uuid.UUID

	invites    InviteIssuer
	mentions   MentionRecorder
	attendance AttendanceSetter

	mu              sync.Mutex
	selected        uuid.UUID
	generation      uint64
	busy            Action
	mentionStates   map[mentionKey]MentionState
	pendingRotation map[uuid.UUID]bool
}

// New builds a session for the given user.
func New(userID uuid.UUID, issuer InviteIssuer, mentions MentionRecorder, attendance AttendanceSetter) (*Session, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	if issuer == nil {
		return nil, fmt.Errorf("invite issuer required")
	}
	if mentions == nil {
		return nil, fmt.Errorf("mention recorder required")
	}
	if attendance == nil {
		return nil, fmt.Errorf("attendance setter required")
	}
	return &Session{
		userID:          userID,
		invites:         issuer,
		mentions:        mentions,
		attendance:      attendance,
		mentionStates:   map[mentionKey]MentionState{},
		pendingRotation: map[uuid.UUID]bool{},
	}, nil
}

// Select switches the session to a circle and returns the load generation for
// that selection. Responses resolved against an older generation must be
// discarded via Resolve. Optimistic state from the previous circle is dropped.
func (s *Session) Select(circleID uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected != circleID {
		s.mentionStates = map[mentionKey]MentionState{}
		s.pendingRotation = map[uuid.UUID]bool{}
	}
	s.selected = circleID
	s.generation++
	return s.generation
}

// Selected returns the currently selected circle and its generation.
func (s *Session) Selected() (uuid.UUID, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.generation
}

// Resolve runs apply only when gen still matches the current selection.
// It reports whether apply ran; a false return means the response was stale.
func (s *Session) Resolve(gen uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	apply()
	return true
}

// Busy reports the action currently in flight, if any.
func (s *Session) Busy() Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) begin(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy != ActionNone {
		return ErrBusy
	}
	s.busy = action
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = ActionNone
}

// RunExclusive runs fn as the session's single in-flight action.
func (s *Session) RunExclusive(ctx context.Context, action Action, fn func(ctx context.Context) error) error {
	if err := s.begin(action); err != nil {
		return err
	}
	defer s.end()
	return fn(ctx)
}

// RotateInvite rotates the selected circle's invite code in two phases: when a
// code already exists the first call returns it with needsConfirm=true and arms
// the confirmation; the immediately following call performs the rotation.
// Circles without a code rotate in one step.
func (s *Session) RotateInvite(ctx context.Context, circleID uuid.UUID) (*invites.InviteDTO, bool, error) {
	if err := s.begin(ActionRotate); err != nil {
		return nil, false, err
	}
	defer s.end()

	current, err := s.invites.FetchLatest(ctx, s.userID, circleID)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	armed := s.pendingRotation[circleID]
	s.mu.Unlock()

	if current != nil && !armed {
		s.mu.Lock()
		s.pendingRotation[circleID] = true
		s.mu.Unlock()
		return current, true, nil
	}

	issued, err := s.invites.Issue(ctx, s.userID, circleID)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	delete(s.pendingRotation, circleID)
	s.mu.Unlock()
	return issued, false, nil
}

// Redeem joins a circle by code as the session's exclusive action.
func (s *Session) Redeem(ctx context.Context, rawCode string) (*invites.RedeemResult, error) {
	if err := s.begin(ActionJoin); err != nil {
		return nil, err
	}
	defer s.end()
	return s.invites.Redeem(ctx, s.userID, rawCode)
}

// RecordMention marks the piece mentioned optimistically, then confirms against
// the store. The pending mark commits on success and flips to failed on error,
// so the screen can roll the checkmark back deterministically.
func (s *Session) RecordMention(ctx context.Context, meetupID, pieceID uuid.UUID) error {
	if err := s.begin(ActionMention); err != nil {
		return err
	}
	defer s.end()

	key := mentionKey{meetupID: meetupID, pieceID: pieceID}

	s.mu.Lock()
	if s.mentionStates[key] == MentionCommitted {
		s.mu.Unlock()
		return nil
	}
	s.mentionStates[key] = MentionPending
	s.mu.Unlock()

	err := s.mentions.RecordMention(ctx, s.userID, meetupID, pieceID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.mentionStates[key] = MentionFailed
		return err
	}
	s.mentionStates[key] = MentionCommitted
	return nil
}

// MentionStateOf returns the optimistic state for one (meetup, piece) pair.
func (s *Session) MentionStateOf(meetupID, pieceID uuid.UUID) MentionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mentionStates[mentionKey{meetupID: meetupID, pieceID: pieceID}]
}

// ClearFailedMention drops a failed mark so the screen can retry from scratch.
func (s *Session) ClearFailedMention(meetupID, pieceID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := mentionKey{meetupID: meetupID, pieceID: pieceID}
	if s.mentionStates[key] == MentionFailed {
		delete(s.mentionStates, key)
	}
}

// SetAttendance records the user's answer as the session's exclusive action.
func (s *Session) SetAttendance(ctx context.Context, meetupID uuid.UUID, isAttending bool) (*meetups.AttendanceDTO, error) {
	if err := s.begin(ActionAttend); err != nil {
		return nil, err
	}
	defer s.end()
	return s.attendance.SetAttendance(ctx, s.userID, meetupID, isAttending)
}

// IsRetryable reports whether the failure warrants a retry affordance.
func IsRetryable(err error) bool {
	return pkgerrors.IsCode(err, pkgerrors.CodeDependency)
}
