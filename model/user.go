package model

// User is an account in the system. The password is only ever stored as a
// bcrypt hash in pw_hash.
type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Email          string `json:"email" gorm:"size:254;not null;uniqueIndex"`
	PasswordHash   string `json:"-" gorm:"column:pw_hash;not null"`
	ImageURL       string `json:"image_url" gorm:"size:255"`
	HeaderImageURL string `json:"header_image_url" gorm:"size:255"`
	Bio            string `json:"bio" gorm:"type:text"`
	Location       string `json:"location" gorm:"size:64"`
}

func (User) TableName() string {
	return "users"
}
