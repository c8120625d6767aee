package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdg-garage/hotel-booking-api/internal/lib/logger/sl"
	"github.com/gdg-garage/hotel-booking-api/internal/metrics"
	"github.com/gdg-garage/hotel-booking-api/internal/models"
	"github.com/gdg-garage/hotel-booking-api/internal/notifier"
	"github.com/gdg-garage/hotel-booking-api/internal/storage"
)

var (
	// ErrNotFound means a referenced booking or room does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")
)

type CapacityGuard string

const (
	// GuardTransaction re-checks capacity in the same transaction as the write.
	GuardTransaction CapacityGuard = "transaction"
	// GuardNone counts and writes in separate round trips. Concurrent
	// requests can overbook a room.
	GuardNone CapacityGuard = "none"
)

type Options struct {
	RequirePayment bool
	CapacityGuard  CapacityGuard
}

type EligibilityProvider interface {
	FindEnrollmentWithAddressByUserID(ctx context.Context, userID uint) (models.Enrollment, error)
	FindTicketByEnrollmentID(ctx context.Context, enrollmentID uint) (models.Ticket, error)
	FindPaymentByTicketID(ctx context.Context, ticketID uint) (models.Payment, error)
}

type BookingStore interface {
	FindBookingByUserID(ctx context.Context, userID uint) (models.Booking, error)
	FindBookingByID(ctx context.Context, bookingID uint) (models.Booking, error)
	FindRoomByID(ctx context.Context, roomID uint) (models.Room, error)
	CountBookingsByRoomID(ctx context.Context, roomID, excludeID uint) (int64, error)
	SaveBooking(ctx context.Context, booking *models.Booking) error
	SaveBookingWithinCapacity(ctx context.Context, booking *models.Booking) error
}

type Service struct {
	log         *slog.Logger
	eligibility EligibilityProvider
	bookings    BookingStore
	notifier    notifier.Notifier
	metrics     *metrics.Metrics
	opts        Options
}

func New(
	log *slog.Logger,
	eligibility EligibilityProvider,
	bookings BookingStore,
	n notifier.Notifier,
	m *metrics.Metrics,
	opts Options,
) *Service {
	if opts.CapacityGuard == "" {
		opts.CapacityGuard = GuardTransaction
	}
	if n == nil {
		n = notifier.Multi{}
	}
	return &Service{
		log:         log,
		eligibility: eligibility,
		bookings:    bookings,
		notifier:    n,
		metrics:     m,
		opts:        opts,
	}
}

type RoomView struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	HotelID   uint      `json:"hotelId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View is the public shape of a booking: its id and the room it holds.
type View struct {
	ID   uint     `json:"id"`
	Room RoomView `json:"Room"`
}

func (s *Service) GetBooking(ctx context.Context, userID uint) (view View, err error) {
	const op = "booking.GetBooking"
	defer s.observe("get", time.Now(), &err)

	booking, err := s.bookings.FindBookingByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return View{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return View{}, fmt.Errorf("%s: %w", op, err)
	}

	return View{
		ID: booking.ID,
		Room: RoomView{
			ID:        booking.Room.ID,
			Name:      booking.Room.Name,
			Capacity:  booking.Room.Capacity,
			HotelID:   booking.Room.HotelID,
			CreatedAt: booking.Room.CreatedAt,
			UpdatedAt: booking.Room.UpdatedAt,
		},
	}, nil
}

func (s *Service) CreateBooking(ctx context.Context, userID, roomID uint) (bookingID uint, err error) {
	const op = "booking.CreateBooking"
	log := s.log.With(slog.String("op", op), slog.Uint64("user_id", uint64(userID)), slog.Uint64("room_id", uint64(roomID)))
	defer s.observe("create", time.Now(), &err)

	if err := s.checkEligibility(ctx, log, userID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	booking := models.Booking{UserID: userID, RoomID: roomID}
	if err := s.admit(ctx, log, &booking); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("booking created", slog.Uint64("booking_id", uint64(booking.ID)))
	s.notify(ctx, log, notifier.BookingEvent{
		Action:     notifier.ActionCreated,
		BookingID:  booking.ID,
		UserID:     userID,
		RoomID:     roomID,
		OccurredAt: booking.CreatedAt,
	})

	return booking.ID, nil
}

func (s *Service) UpdateBooking(ctx context.Context, userID, bookingID, roomID uint) (id uint, err error) {
	const op = "booking.UpdateBooking"
	log := s.log.With(slog.String("op", op), slog.Uint64("user_id", uint64(userID)), slog.Uint64("booking_id", uint64(bookingID)))
	defer s.observe("update", time.Now(), &err)

	booking, err := s.bookings.FindBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			log.Warn("booking does not exist")
			return 0, fmt.Errorf("%s: %w", op, ErrForbidden)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if booking.UserID != userID {
		log.Warn("booking owned by another user")
		return 0, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	prevRoomID := booking.RoomID
	booking.RoomID = roomID
	if err := s.admit(ctx, log, &booking); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("booking updated", slog.Uint64("room_id", uint64(roomID)))
	s.notify(ctx, log, notifier.BookingEvent{
		Action:     notifier.ActionUpdated,
		BookingID:  booking.ID,
		UserID:     userID,
		RoomID:     roomID,
		PrevRoomID: prevRoomID,
		OccurredAt: booking.UpdatedAt,
	})

	return booking.ID, nil
}

// checkEligibility requires an enrollment with address and a paid, in-person
// ticket that includes the hotel, plus a payment when the gate is on.
func (s *Service) checkEligibility(ctx context.Context, log *slog.Logger, userID uint) error {
	enrollment, err := s.eligibility.FindEnrollmentWithAddressByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrEnrollmentNotFound) {
			log.Warn("no enrollment")
			return ErrForbidden
		}
		return err
	}

	ticket, err := s.eligibility.FindTicketByEnrollmentID(ctx, enrollment.ID)
	if err != nil {
		if errors.Is(err, storage.ErrTicketNotFound) {
			log.Warn("no ticket")
			return ErrForbidden
		}
		return err
	}
	if ticket.TicketType.IsRemote || !ticket.TicketType.IncludesHotel || ticket.Status == models.TicketReserved {
		log.Warn("ticket not eligible for hotel",
			slog.Bool("remote", ticket.TicketType.IsRemote),
			slog.Bool("includes_hotel", ticket.TicketType.IncludesHotel),
			slog.String("status", string(ticket.Status)),
		)
		return ErrForbidden
	}

	if s.opts.RequirePayment {
		if _, err := s.eligibility.FindPaymentByTicketID(ctx, ticket.ID); err != nil {
			if errors.Is(err, storage.ErrPaymentNotFound) {
				log.Warn("no payment for ticket", slog.Uint64("ticket_id", uint64(ticket.ID)))
				return ErrForbidden
			}
			return err
		}
	}

	return nil
}

// admit checks the target room exists and has space, then writes the booking.
func (s *Service) admit(ctx context.Context, log *slog.Logger, booking *models.Booking) error {
	room, err := s.bookings.FindRoomByID(ctx, booking.RoomID)
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			log.Warn("room does not exist", slog.Uint64("room_id", uint64(booking.RoomID)))
			return ErrNotFound
		}
		return err
	}

	count, err := s.bookings.CountBookingsByRoomID(ctx, room.ID, booking.ID)
	if err != nil {
		return err
	}
	if count >= int64(room.Capacity) {
		log.Warn("room is full", slog.Uint64("room_id", uint64(room.ID)), slog.Int("capacity", room.Capacity))
		return ErrForbidden
	}

	if s.opts.CapacityGuard == GuardNone {
		err = s.bookings.SaveBooking(ctx, booking)
	} else {
		err = s.bookings.SaveBookingWithinCapacity(ctx, booking)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrRoomFull):
		log.Warn("room filled before commit", slog.Uint64("room_id", uint64(room.ID)))
		return ErrForbidden
	case errors.Is(err, storage.ErrBookingExists):
		log.Warn("user already has a booking")
		return ErrForbidden
	case errors.Is(err, storage.ErrRoomNotFound):
		return ErrNotFound
	default:
		return err
	}
}

func (s *Service) notify(ctx context.Context, log *slog.Logger, event notifier.BookingEvent) {
	if err := s.notifier.NotifyBooking(ctx, event); err != nil {
		log.Error("failed to send booking notification", sl.Err(err))
	}
}

func (s *Service) observe(operation string, start time.Time, err *error) {
	if s.metrics == nil {
		return
	}

	outcome := metrics.OutcomeAdmitted
	switch {
	case *err == nil:
	case errors.Is(*err, ErrForbidden):
		outcome = metrics.OutcomeForbidden
	case errors.Is(*err, ErrNotFound):
		outcome = metrics.OutcomeNotFound
	default:
		outcome = metrics.OutcomeError
	}

	s.metrics.Observe(operation, outcome, time.Since(start).Seconds())
}
