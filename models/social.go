package models

import "time"

type Notification struct {
	NotificationID string    `json:"notificationid" bson:"notificationid"`
	UserID         string    `json:"userid" bson:"userid"`
	EventID        string    `json:"eventid,omitempty" bson:"eventid,omitempty"`
	Title          string    `json:"title" bson:"title"`
	Body           string    `json:"body" bson:"body"`
	Read           bool      `json:"read" bson:"read"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

type Message struct {
	MessageID  string    `json:"messageid" bson:"messageid"`
	EventID    string    `json:"eventid" bson:"eventid"`
	SenderID   string    `json:"senderid" bson:"senderid"`
	SenderName string    `json:"sender_name" bson:"sender_name"`
	Text       string    `json:"text" bson:"text"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type Review struct {
	ReviewID  string    `json:"reviewid" bson:"reviewid"`
	EventID   string    `json:"eventid" bson:"eventid"`
	UserID    string    `json:"userid" bson:"userid"`
	UserName  string    `json:"username" bson:"username"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Index is the payload emitted on the mq channel when an entity changes.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
	UserId     string `json:"user_id,omitempty"`
	Message    string `json:"message,omitempty"`
}
