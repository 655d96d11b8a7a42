// Package memstore is the in-memory storage backend. It is the last rung of
// the backend cascade and the test double for the handler and service tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"eventhorizon/models"
	"eventhorizon/storage"
)

var _ storage.Store = (*MemStore)(nil)

type MemStore struct {
	mu            sync.RWMutex
	users         map[string]models.User
	events        map[string]models.Event
	registrations map[string]models.Registration
	teams         map[string]models.Team
	notifications map[string]models.Notification
	messages      map[string]models.Message
	reviews       map[string]models.Review
}

func New() *MemStore {
	return &MemStore{
		users:         make(map[string]models.User),
		events:        make(map[string]models.Event),
		registrations: make(map[string]models.Registration),
		teams:         make(map[string]models.Team),
		notifications: make(map[string]models.Notification),
		messages:      make(map[string]models.Message),
		reviews:       make(map[string]models.Review),
	}
}

func (s *MemStore) Close(ctx context.Context) error { return nil }

// users

func (s *MemStore) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.UserID]; ok {
		return storage.ErrDuplicate
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return storage.ErrDuplicate
		}
	}
	s.users[u.UserID] = *u
	return nil
}

func (s *MemStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *MemStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *MemStore) UpdateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.UserID]; !ok {
		return storage.ErrNotFound
	}
	s.users[u.UserID] = *u
	return nil
}

func (s *MemStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// events

func (s *MemStore) CreateEvent(ctx context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.EventID]; ok {
		return storage.ErrDuplicate
	}
	s.events[e.EventID] = cloneEvent(*e)
	return nil
}

func (s *MemStore) EventByID(ctx context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := cloneEvent(e)
	return &out, nil
}

func (s *MemStore) Events(ctx context.Context, q storage.EventQuery) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Event
	for _, e := range s.events {
		if q.OrganizerID != "" && e.OrganizerID != q.OrganizerID {
			continue
		}
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, cloneEvent(e))
	}
	// newest first, matching the mongo adapter's sort
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(out) {
		return []models.Event{}, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *MemStore) UpdateEvent(ctx context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.events[e.EventID]
	if !ok {
		return storage.ErrNotFound
	}
	// the counter is owned by Reserve/ReleaseSeat, not by document updates
	e.ActiveCount = old.ActiveCount
	s.events[e.EventID] = cloneEvent(*e)
	return nil
}

func (s *MemStore) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *MemStore) ReserveSeat(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return storage.ErrNotFound
	}
	if e.ActiveCount >= e.Capacity {
		return storage.ErrCapacity
	}
	e.ActiveCount++
	s.events[eventID] = e
	return nil
}

func (s *MemStore) ReleaseSeat(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return storage.ErrNotFound
	}
	if e.ActiveCount > 0 {
		e.ActiveCount--
	}
	s.events[eventID] = e
	return nil
}

// registrations

func (s *MemStore) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[reg.RegistrationID]; ok {
		return storage.ErrDuplicate
	}
	s.registrations[reg.RegistrationID] = cloneRegistration(*reg)
	return nil
}

func (s *MemStore) RegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := cloneRegistration(reg)
	return &out, nil
}

func (s *MemStore) RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Registration{}
	for _, reg := range s.registrations {
		if reg.EventID == eventID {
			out = append(out, cloneRegistration(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out, nil
}

func (s *MemStore) RegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Registration{}
	for _, reg := range s.registrations {
		if reg.ParticipantID == userID {
			out = append(out, cloneRegistration(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out, nil
}

func (s *MemStore) ActiveRegistration(ctx context.Context, eventID, participantID string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reg := range s.registrations {
		if reg.EventID == eventID && reg.ParticipantID == participantID && reg.Status != models.StatusRejected {
			out := cloneRegistration(reg)
			return &out, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *MemStore) SetRegistrationStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return storage.ErrNotFound
	}
	reg.Status = status
	s.registrations[id] = reg
	return nil
}

func (s *MemStore) SetAttendance(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return storage.ErrNotFound
	}
	reg.Attended = true
	reg.AttendanceTime = &at
	s.registrations[id] = reg
	return nil
}

func (s *MemStore) DeleteRegistration(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.registrations, id)
	return nil
}

func (s *MemStore) OldestWaitlisted(ctx context.Context, eventID string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var oldest *models.Registration
	for _, reg := range s.registrations {
		if reg.EventID != eventID || reg.Status != models.StatusWaitlisted {
			continue
		}
		if oldest == nil || reg.RegisteredAt.Before(oldest.RegisteredAt) {
			r := cloneRegistration(reg)
			oldest = &r
		}
	}
	if oldest == nil {
		return nil, storage.ErrNotFound
	}
	return oldest, nil
}

// teams

func (s *MemStore) CreateTeam(ctx context.Context, t *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[t.TeamID]; ok {
		return storage.ErrDuplicate
	}
	for _, existing := range s.teams {
		if existing.InviteCode == t.InviteCode {
			return storage.ErrDuplicate
		}
	}
	s.teams[t.TeamID] = cloneTeam(*t)
	return nil
}

func (s *MemStore) TeamByID(ctx context.Context, id string) (*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := cloneTeam(t)
	return &out, nil
}

func (s *MemStore) TeamByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.teams {
		if t.InviteCode == code {
			out := cloneTeam(t)
			return &out, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *MemStore) TeamsByEvent(ctx context.Context, eventID string) ([]models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Team{}
	for _, t := range s.teams {
		if t.EventID == eventID {
			out = append(out, cloneTeam(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) AddTeamMember(ctx context.Context, teamID string, member models.TeamMember, maxSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return storage.ErrNotFound
	}
	if maxSize > 0 && len(t.Members) >= maxSize {
		return storage.ErrTeamFull
	}
	t.Members = append(t.Members, member)
	s.teams[teamID] = t
	return nil
}

func (s *MemStore) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return storage.ErrNotFound
	}
	kept := t.Members[:0]
	for _, m := range t.Members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	t.Members = kept
	s.teams[teamID] = t
	return nil
}

func (s *MemStore) DeleteTeam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.teams, id)
	return nil
}

// notifications

func (s *MemStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.NotificationID] = *n
	return nil
}

func (s *MemStore) NotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return storage.ErrNotFound
	}
	n.Read = true
	s.notifications[id] = n
	return nil
}

// messages

func (s *MemStore) CreateMessage(ctx context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.MessageID] = *m
	return nil
}

func (s *MemStore) MessagesByEvent(ctx context.Context, eventID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Message{}
	for _, m := range s.messages {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// reviews

func (s *MemStore) CreateReview(ctx context.Context, rv *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[rv.ReviewID] = *rv
	return nil
}

func (s *MemStore) ReviewsByEvent(ctx context.Context, eventID string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Review{}
	for _, rv := range s.reviews {
		if rv.EventID == eventID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// clone helpers keep callers from aliasing slices held by the store.

func cloneEvent(e models.Event) models.Event {
	e.CustomQuestions = append([]models.CustomQuestion(nil), e.CustomQuestions...)
	e.CollaboratorEmails = append([]string(nil), e.CollaboratorEmails...)
	return e
}

func cloneRegistration(r models.Registration) models.Registration {
	if r.Answers != nil {
		answers := make(map[string]string, len(r.Answers))
		for k, v := range r.Answers {
			answers[k] = v
		}
		r.Answers = answers
	}
	if r.AttendanceTime != nil {
		at := *r.AttendanceTime
		r.AttendanceTime = &at
	}
	return r
}

func cloneTeam(t models.Team) models.Team {
	t.Members = append([]models.TeamMember(nil), t.Members...)
	return t
}
