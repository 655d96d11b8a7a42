package models

import "time"

// Registration statuses. WAITLISTED only ever transitions to PENDING, and
// only via promotion when a seat-holding peer is removed.
const (
	StatusPending    = "PENDING"
	StatusApproved   = "APPROVED"
	StatusRejected   = "REJECTED"
	StatusWaitlisted = "WAITLISTED"
)

type Registration struct {
	RegistrationID    string            `json:"registrationid" bson:"registrationid"`
	EventID           string            `json:"eventid" bson:"eventid"`
	ParticipantID     string            `json:"participantid" bson:"participantid"`
	ParticipantName   string            `json:"participant_name" bson:"participant_name"`
	ParticipantEmail  string            `json:"participant_email" bson:"participant_email"`
	Status            string            `json:"status" bson:"status"`
	Attended          bool              `json:"attended" bson:"attended"`
	AttendanceTime    *time.Time        `json:"attendance_time,omitempty" bson:"attendance_time,omitempty"`
	RegisteredAt      time.Time         `json:"registered_at" bson:"registered_at"`
	Answers           map[string]string `json:"answers,omitempty" bson:"answers,omitempty"`
	TeamID            string            `json:"teamid,omitempty" bson:"teamid,omitempty"`
	TeamName          string            `json:"team_name,omitempty" bson:"team_name,omitempty"`
	IsTeamLeader      bool              `json:"is_team_leader,omitempty" bson:"is_team_leader,omitempty"`
	ParticipationType string            `json:"participation_type" bson:"participation_type"`
}

// HoldsSeat reports whether the registration counts against event capacity.
func (r *Registration) HoldsSeat() bool {
	return HoldsSeat(r.Status)
}

func HoldsSeat(status string) bool {
	return status == StatusPending || status == StatusApproved
}
