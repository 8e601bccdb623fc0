package model

import "gorm.io/gorm"

// Migrate creates or updates the four tables. Order matters: the edge
// tables reference users and messages.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Message{}, &Follow{}, &Like{})
}
