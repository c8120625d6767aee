package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/hotel-booking-api/internal/auth"
	"github.com/gdg-garage/hotel-booking-api/internal/booking"
	"github.com/gdg-garage/hotel-booking-api/internal/lib/logger/sl"
)

type BookingService interface {
	GetBooking(ctx context.Context, userID uint) (booking.View, error)
	CreateBooking(ctx context.Context, userID, roomID uint) (uint, error)
	UpdateBooking(ctx context.Context, userID, bookingID, roomID uint) (uint, error)
}

type BookingHandler struct {
	service BookingService
	log     *slog.Logger
}

func NewBookingHandler(service BookingService, log *slog.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

// Protected operations carry no auth fields: auth.Middleware has already
// resolved the caller when the input is parsed.
type GetBookingRequest struct{}

type GetBookingResponse struct {
	Body booking.View
}

// BookingBody accepts any integer room id. Ids that cannot exist are
// reported by the admission rules, not by request validation.
type BookingBody struct {
	RoomID int `json:"roomId" doc:"Room to book" required:"true"`
}

// roomID maps ids below 1 to 0, which never matches a room.
func (b BookingBody) roomID() uint {
	if b.RoomID <= 0 {
		return 0
	}
	return uint(b.RoomID)
}

type CreateBookingRequest struct {
	Body BookingBody
}

type UpdateBookingRequest struct {
	BookingID uint `path:"bookingId" doc:"Booking to change"`
	Body      BookingBody
}

type BookingIDResponse struct {
	Body struct {
		BookingID uint `json:"bookingId"`
	}
}

func (h *BookingHandler) HandleGet(ctx context.Context, input *GetBookingRequest) (*GetBookingResponse, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	view, err := h.service.GetBooking(ctx, userID)
	if err != nil {
		return nil, h.statusError(err)
	}

	return &GetBookingResponse{Body: view}, nil
}

func (h *BookingHandler) HandleCreate(ctx context.Context, input *CreateBookingRequest) (*BookingIDResponse, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	bookingID, err := h.service.CreateBooking(ctx, userID, input.Body.roomID())
	if err != nil {
		return nil, h.statusError(err)
	}

	res := &BookingIDResponse{}
	res.Body.BookingID = bookingID
	return res, nil
}

func (h *BookingHandler) HandleUpdate(ctx context.Context, input *UpdateBookingRequest) (*BookingIDResponse, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	bookingID, err := h.service.UpdateBooking(ctx, userID, input.BookingID, input.Body.roomID())
	if err != nil {
		return nil, h.statusError(err)
	}

	res := &BookingIDResponse{}
	res.Body.BookingID = bookingID
	return res, nil
}

// statusError maps admission failures to HTTP errors. Anything unrecognised
// is logged and reported as a 500.
func (h *BookingHandler) statusError(err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return huma.Error404NotFound("Not found")
	case errors.Is(err, booking.ErrForbidden):
		return huma.Error403Forbidden("Forbidden")
	default:
		h.log.Error("booking operation failed", sl.Err(err))
		return huma.Error500InternalServerError("Internal server error")
	}
}
