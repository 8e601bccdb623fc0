package model

import "time"

// Follow is a directed edge in the follow graph: UserFollowingID follows
// UserBeingFollowedID. The composite primary key makes the ordered pair
// unique, so following twice cannot create a duplicate edge.
type Follow struct {
	UserBeingFollowedID uint      `json:"user_being_followed_id" gorm:"primaryKey"`
	UserFollowingID     uint      `json:"user_following_id" gorm:"primaryKey"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`

	FollowedUser  User `json:"-" gorm:"foreignKey:UserBeingFollowedID;constraint:OnDelete:CASCADE"`
	FollowingUser User `json:"-" gorm:"foreignKey:UserFollowingID;constraint:OnDelete:CASCADE"`
}

func (Follow) TableName() string {
	return "follows"
}
