package models

import (
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketReserved TicketStatus = "RESERVED"
	TicketPaid     TicketStatus = "PAID"
)

type TicketType struct {
	gorm.Model
	Name          string `json:"name"`
	Price         int    `json:"price"`
	IsRemote      bool   `json:"is_remote"`
	IncludesHotel bool   `json:"includes_hotel"`
}

type Ticket struct {
	gorm.Model
	EnrollmentID uint         `json:"enrollment_id" gorm:"uniqueIndex"`
	TicketTypeID uint         `json:"ticket_type_id"`
	TicketType   TicketType   `gorm:"foreignKey:TicketTypeID"`
	Status       TicketStatus `json:"status" gorm:"type:varchar(16);default:'RESERVED'"`
}

type Payment struct {
	gorm.Model
	TicketID       uint   `json:"ticket_id" gorm:"index"`
	Value          int    `json:"value"`
	CardIssuer     string `json:"card_issuer"`
	CardLastDigits string `json:"card_last_digits"`
}
