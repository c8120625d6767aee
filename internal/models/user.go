package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	DiscordID string `gorm:"uniqueIndex"`
	Username  string
	Email     string
	Avatar    string
}

// Session makes a bearer token usable. Tokens without a row are rejected.
type Session struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`
	Token  string `json:"token" gorm:"uniqueIndex"`
}
