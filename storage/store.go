// Package storage defines the persistence contract shared by all backends.
// The concrete backend is resolved once at startup (Mongo > SQLite > memory)
// and injected; callers never branch on which backend is active.
package storage

import (
	"context"
	"errors"
	"time"

	"eventhorizon/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
	// ErrCapacity is returned by ReserveSeat when the event is full.
	ErrCapacity = errors.New("event at capacity")
	// ErrTeamFull is returned by AddTeamMember when the team is at max size.
	ErrTeamFull = errors.New("team is full")
)

// EventQuery narrows and pages event listings.
type EventQuery struct {
	Page        int
	Limit       int
	OrganizerID string
	Category    string
	Search      string
}

type Store interface {
	// users
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error

	// events
	CreateEvent(ctx context.Context, e *models.Event) error
	EventByID(ctx context.Context, id string) (*models.Event, error)
	Events(ctx context.Context, q EventQuery) ([]models.Event, error)
	UpdateEvent(ctx context.Context, e *models.Event) error
	DeleteEvent(ctx context.Context, id string) error

	// ReserveSeat increments the event's active count iff it is below
	// capacity. The check and increment are a single conditional update.
	ReserveSeat(ctx context.Context, eventID string) error
	// ReleaseSeat decrements the active count, never below zero.
	ReleaseSeat(ctx context.Context, eventID string) error

	// registrations
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	RegistrationByID(ctx context.Context, id string) (*models.Registration, error)
	RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error)
	RegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error)
	// ActiveRegistration returns the caller's non-rejected registration for
	// the event, or ErrNotFound.
	ActiveRegistration(ctx context.Context, eventID, participantID string) (*models.Registration, error)
	SetRegistrationStatus(ctx context.Context, id, status string) error
	SetAttendance(ctx context.Context, id string, at time.Time) error
	DeleteRegistration(ctx context.Context, id string) error
	// OldestWaitlisted returns the WAITLISTED registration with the earliest
	// RegisteredAt for the event, or ErrNotFound when none is waiting.
	OldestWaitlisted(ctx context.Context, eventID string) (*models.Registration, error)

	// teams
	CreateTeam(ctx context.Context, t *models.Team) error
	TeamByID(ctx context.Context, id string) (*models.Team, error)
	TeamByInviteCode(ctx context.Context, code string) (*models.Team, error)
	TeamsByEvent(ctx context.Context, eventID string) ([]models.Team, error)
	// AddTeamMember appends iff the team currently has fewer than maxSize
	// members. The size check and append are a single conditional update.
	AddTeamMember(ctx context.Context, teamID string, member models.TeamMember, maxSize int) error
	RemoveTeamMember(ctx context.Context, teamID, userID string) error
	DeleteTeam(ctx context.Context, id string) error

	// notifications
	CreateNotification(ctx context.Context, n *models.Notification) error
	NotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	// messages
	CreateMessage(ctx context.Context, m *models.Message) error
	MessagesByEvent(ctx context.Context, eventID string) ([]models.Message, error)

	// reviews
	CreateReview(ctx context.Context, rv *models.Review) error
	ReviewsByEvent(ctx context.Context, eventID string) ([]models.Review, error)

	Close(ctx context.Context) error
}
