package models

import "time"

const (
	LocationOnline  = "online"
	LocationOffline = "offline"
)

// Participation modes controlling how attendees may register.
const (
	ParticipationIndividual = "individual"
	ParticipationTeam       = "team"
	ParticipationBoth       = "both"
)

// Custom question types an organizer may attach to an event.
const (
	QuestionText    = "text"
	QuestionSelect  = "select"
	QuestionBoolean = "boolean"
)

type CustomQuestion struct {
	QuestionID string   `json:"id" bson:"questionid"`
	Question   string   `json:"question" bson:"question"`
	Type       string   `json:"type" bson:"type"`
	Required   bool     `json:"required" bson:"required"`
	Options    []string `json:"options,omitempty" bson:"options,omitempty"`
}

type Event struct {
	EventID            string           `json:"eventid" bson:"eventid"`
	Title              string           `json:"title" bson:"title"`
	Description        string           `json:"description" bson:"description"`
	Start              time.Time        `json:"start" bson:"start"`
	End                time.Time        `json:"end" bson:"end"`
	Location           string           `json:"location" bson:"location"`
	LocationType       string           `json:"location_type" bson:"location_type"`
	Category           string           `json:"category,omitempty" bson:"category,omitempty"`
	Capacity           int              `json:"capacity" bson:"capacity"`
	BannerURL          string           `json:"banner_url,omitempty" bson:"banner_url,omitempty"`
	OrganizerID        string           `json:"organizerid" bson:"organizerid"`
	OrganizerName      string           `json:"organizer_name,omitempty" bson:"organizer_name,omitempty"`
	IsRegistrationOpen bool             `json:"is_registration_open" bson:"is_registration_open"`
	CustomQuestions    []CustomQuestion `json:"custom_questions" bson:"custom_questions"`
	CollaboratorEmails []string         `json:"collaborator_emails,omitempty" bson:"collaborator_emails,omitempty"`
	ParticipationMode  string           `json:"participation_mode,omitempty" bson:"participation_mode,omitempty"`
	MaxTeamSize        int              `json:"max_team_size,omitempty" bson:"max_team_size,omitempty"`

	// ActiveCount tracks registrations holding a seat (PENDING or APPROVED).
	// Capacity checks go through conditional updates on this counter.
	ActiveCount int `json:"active_count" bson:"active_count"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// AllowsIndividual reports whether solo registrations are accepted.
func (e *Event) AllowsIndividual() bool {
	return e.ParticipationMode == "" ||
		e.ParticipationMode == ParticipationIndividual ||
		e.ParticipationMode == ParticipationBoth
}

// AllowsTeams reports whether team registrations are accepted.
func (e *Event) AllowsTeams() bool {
	return e.ParticipationMode == ParticipationTeam ||
		e.ParticipationMode == ParticipationBoth
}
