package models

import "time"

type TeamMember struct {
	UserID   string `json:"userid" bson:"userid"`
	UserName string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
}

type Team struct {
	TeamID     string       `json:"teamid" bson:"teamid"`
	Name       string       `json:"name" bson:"name"`
	EventID    string       `json:"eventid" bson:"eventid"`
	LeaderID   string       `json:"leaderid" bson:"leaderid"`
	Members    []TeamMember `json:"members" bson:"members"`
	InviteCode string       `json:"invite_code" bson:"invite_code"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
}

// HasMember reports whether the user already belongs to the team.
func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
