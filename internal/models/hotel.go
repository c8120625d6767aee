package models

import (
	"gorm.io/gorm"
)

type Hotel struct {
	gorm.Model
	Name  string `json:"name"`
	Image string `json:"image"` // URL to image
	Rooms []Room `json:"rooms"`
}

// Room capacity is the maximum number of bookings that may reference it.
type Room struct {
	gorm.Model
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	HotelID  uint   `json:"hotel_id" gorm:"index"`
}

type Booking struct {
	gorm.Model
	UserID uint `json:"user_id" gorm:"uniqueIndex"`
	User   User `gorm:"foreignKey:UserID"`
	RoomID uint `json:"room_id" gorm:"index"`
	Room   Room `gorm:"foreignKey:RoomID"`
}
