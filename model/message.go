package model

import "time"

// MaxMessageLength bounds the text of a single warble.
const MaxMessageLength = 140

// Message is a single warble. UserID is a hard foreign key: a message can
// only exist for a user that exists, and authorship never changes after
// creation.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"size:140;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;autoCreateTime"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Message) TableName() string {
	return "messages"
}
