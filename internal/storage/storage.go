package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdg-garage/hotel-booking-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingExists      = errors.New("user already has a booking")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrSessionNotFound    = errors.New("session not found")
)

// Storage is the gorm-backed accessor layer. It carries no business rules;
// errors other than the sentinels above come straight from the driver.
type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// FindEnrollmentWithAddressByUserID only matches enrollments that have an address.
func (s *Storage) FindEnrollmentWithAddressByUserID(ctx context.Context, userID uint) (models.Enrollment, error) {
	const op = "storage.FindEnrollmentWithAddressByUserID"

	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		InnerJoins("Address").
		Where("enrollments.user_id = ?", userID).
		First(&enrollment).Error
	if err != nil {
		return models.Enrollment{}, fmt.Errorf("%s: %w", op, notFound(err, ErrEnrollmentNotFound))
	}

	return enrollment, nil
}

func (s *Storage) FindTicketByEnrollmentID(ctx context.Context, enrollmentID uint) (models.Ticket, error) {
	const op = "storage.FindTicketByEnrollmentID"

	var ticket models.Ticket
	err := s.db.WithContext(ctx).
		Joins("TicketType").
		Where("tickets.enrollment_id = ?", enrollmentID).
		First(&ticket).Error
	if err != nil {
		return models.Ticket{}, fmt.Errorf("%s: %w", op, notFound(err, ErrTicketNotFound))
	}

	return ticket, nil
}

func (s *Storage) FindPaymentByTicketID(ctx context.Context, ticketID uint) (models.Payment, error) {
	const op = "storage.FindPaymentByTicketID"

	var payment models.Payment
	if err := s.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&payment).Error; err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, notFound(err, ErrPaymentNotFound))
	}

	return payment, nil
}

// FindBookingByUserID returns the user's booking with its room loaded.
func (s *Storage) FindBookingByUserID(ctx context.Context, userID uint) (models.Booking, error) {
	const op = "storage.FindBookingByUserID"

	var booking models.Booking
	err := s.db.WithContext(ctx).
		Joins("Room").
		Where("bookings.user_id = ?", userID).
		First(&booking).Error
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, notFound(err, ErrBookingNotFound))
	}

	return booking, nil
}

func (s *Storage) FindBookingByID(ctx context.Context, bookingID uint) (models.Booking, error) {
	const op = "storage.FindBookingByID"

	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, notFound(err, ErrBookingNotFound))
	}

	return booking, nil
}

// CountBookingsByRoomID counts bookings in a room, ignoring excludeID when it is non-zero.
func (s *Storage) CountBookingsByRoomID(ctx context.Context, roomID, excludeID uint) (int64, error) {
	const op = "storage.CountBookingsByRoomID"

	count, err := countBookings(s.db.WithContext(ctx), roomID, excludeID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (s *Storage) FindRoomByID(ctx context.Context, roomID uint) (models.Room, error) {
	const op = "storage.FindRoomByID"

	if roomID == 0 {
		return models.Room{}, fmt.Errorf("%s: %w", op, ErrRoomNotFound)
	}

	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, roomID).Error; err != nil {
		return models.Room{}, fmt.Errorf("%s: %w", op, notFound(err, ErrRoomNotFound))
	}

	return room, nil
}

// SaveBooking upserts a booking by id: an existing row only has its room
// changed, anything else is inserted. The capacity of the room is not checked.
func (s *Storage) SaveBooking(ctx context.Context, booking *models.Booking) error {
	const op = "storage.SaveBooking"

	if err := saveBooking(s.db.WithContext(ctx), booking); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SaveBookingWithinCapacity is SaveBooking with the room count re-checked in
// the same transaction. The room row is locked on drivers that support it;
// sqlite serializes writers instead. Returns ErrRoomFull when the room has no
// place left for the booking.
func (s *Storage) SaveBookingWithinCapacity(ctx context.Context, booking *models.Booking) error {
	const op = "storage.SaveBookingWithinCapacity"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var room models.Room
		if err := q.First(&room, booking.RoomID).Error; err != nil {
			return notFound(err, ErrRoomNotFound)
		}

		count, err := countBookings(tx, room.ID, booking.ID)
		if err != nil {
			return err
		}
		if count >= int64(room.Capacity) {
			return ErrRoomFull
		}

		return saveBooking(tx, booking)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func countBookings(db *gorm.DB, roomID, excludeID uint) (int64, error) {
	q := db.Model(&models.Booking{}).Where("room_id = ?", roomID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func saveBooking(db *gorm.DB, booking *models.Booking) error {
	if booking.ID != 0 {
		booking.UpdatedAt = time.Now()
		res := db.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Updates(map[string]any{"room_id": booking.RoomID, "updated_at": booking.UpdatedAt})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
	}

	return translate(db.Omit(clause.Associations).Create(booking).Error)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrBookingExists
	}
	return err
}
