package model

import "time"

// Like marks a message as liked by a user. Same shape as Follow: the
// composite primary key enforces at most one like per (user, message).
type Like struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	MessageID uint      `json:"message_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User    User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Message Message `json:"-" gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
}

func (Like) TableName() string {
	return "likes"
}
