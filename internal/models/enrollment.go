package models

import (
	"time"

	"gorm.io/gorm"
)

type Enrollment struct {
	gorm.Model
	UserID   uint      `json:"user_id" gorm:"uniqueIndex"`
	User     User      `gorm:"foreignKey:UserID"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Birthday time.Time `json:"birthday"`
	Address  Address   `json:"address"`
}

type Address struct {
	gorm.Model
	EnrollmentID uint   `json:"enrollment_id" gorm:"uniqueIndex"`
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	Detail       string `json:"detail"`
}
